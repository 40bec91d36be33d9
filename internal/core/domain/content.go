package domain

// TextFile is a named decoded text payload.
type TextFile struct {
	Name    string
	Content string
}

// BinaryFile is a named raw byte payload.
type BinaryFile struct {
	Name string
	Data []byte
}

// ContentMap maps entry paths to decoded text, preserving insertion order.
type ContentMap struct {
	files []TextFile
	index map[string]int
}

// NewContentMap creates an empty content map.
func NewContentMap() *ContentMap {
	return &ContentMap{index: make(map[string]int)}
}

// Set stores text for a path. Re-setting a path keeps its original position.
func (m *ContentMap) Set(path, text string) {
	if i, ok := m.index[path]; ok {
		m.files[i].Content = text
		return
	}
	m.index[path] = len(m.files)
	m.files = append(m.files, TextFile{Name: path, Content: text})
}

// Get returns the text stored for a path.
func (m *ContentMap) Get(path string) (string, bool) {
	i, ok := m.index[path]
	if !ok {
		return "", false
	}
	return m.files[i].Content, true
}

// Len returns the number of entries.
func (m *ContentMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.files)
}

// Files returns a copy of the entries in insertion order.
func (m *ContentMap) Files() []TextFile {
	if m == nil {
		return nil
	}
	out := make([]TextFile, len(m.files))
	copy(out, m.files)
	return out
}

// Merge copies every entry of other into m.
func (m *ContentMap) Merge(other *ContentMap) {
	for _, f := range other.Files() {
		m.Set(f.Name, f.Content)
	}
}

// BinaryMap maps entry paths to raw bytes, preserving insertion order.
type BinaryMap struct {
	files []BinaryFile
	index map[string]int
}

// NewBinaryMap creates an empty binary map.
func NewBinaryMap() *BinaryMap {
	return &BinaryMap{index: make(map[string]int)}
}

// Set stores bytes for a path. Re-setting a path keeps its original position.
func (m *BinaryMap) Set(path string, data []byte) {
	if i, ok := m.index[path]; ok {
		m.files[i].Data = data
		return
	}
	m.index[path] = len(m.files)
	m.files = append(m.files, BinaryFile{Name: path, Data: data})
}

// Get returns the bytes stored for a path.
func (m *BinaryMap) Get(path string) ([]byte, bool) {
	i, ok := m.index[path]
	if !ok {
		return nil, false
	}
	return m.files[i].Data, true
}

// Len returns the number of entries.
func (m *BinaryMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.files)
}

// Files returns a copy of the entries in insertion order.
func (m *BinaryMap) Files() []BinaryFile {
	if m == nil {
		return nil
	}
	out := make([]BinaryFile, len(m.files))
	copy(out, m.files)
	return out
}

// Merge copies every entry of other into m.
func (m *BinaryMap) Merge(other *BinaryMap) {
	for _, f := range other.Files() {
		m.Set(f.Name, f.Data)
	}
}

// HasBasename reports whether any stored path ends in the given base name.
func (m *BinaryMap) HasBasename(name string) bool {
	if m == nil || name == "" {
		return false
	}
	for _, f := range m.files {
		if BaseName(f.Name) == name {
			return true
		}
	}
	return false
}
