package driven

// FileReader reads files supplied by the user outside of any archive.
type FileReader interface {
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)

	// Size returns the size in bytes of the file at path.
	Size(path string) (int64, error)
}
