package domain

import "time"

// ExportPrefix starts every deliverable file name.
const ExportPrefix = "migrator-export-"

// AssetsDir is the folder that holds binary assets inside packed exports.
const AssetsDir = "assets"

// Deliverable is the final output handed to the caller.
type Deliverable struct {
	// Filename is "migrator-export-<YYYY-MM-DD>.<ext>".
	Filename string

	// MIMEType describes Data.
	MIMEType string

	// Data is the complete file payload.
	Data []byte
}

// ExportFilename returns the deliverable name for the given day and extension.
func ExportFilename(now time.Time, ext string) string {
	return ExportPrefix + now.UTC().Format("2006-01-02") + "." + ext
}
