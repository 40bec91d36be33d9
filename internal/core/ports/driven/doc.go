// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and adapters implement them.
//
// # Interfaces
//
//   - Parser: Turns one entry's text into canonical notes
//   - ParserRegistry: Dispatches entries to the parser for a format
//   - Generator: Serialises a full note list into one document
//   - NoteSerializer: Serialises a single note (per-file targets)
//   - ArchiveService: Background extraction service (scan, extract, pack)
//   - SessionStore: Session-scoped sources, entries and selection
//   - FileReader: Reads loose files supplied by the user
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or codec package
package driven
