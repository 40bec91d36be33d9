// Package domain defines the core entities of the migration pipeline.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Source: One user-supplied archive or batch of loose files
//   - Entry: One file discoverable inside a Source
//   - SelectionKey: The "sourceIndex:path" unit of user selection
//   - Format / Target: Detected source format and requested output format
//   - Note: The canonical note shared by every parser and generator
//   - ContentMap / BinaryMap: Run-scoped text and asset payloads
//   - Deliverable: The final file handed back to the caller
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
