package worker

import "github.com/custodia-labs/migrator/internal/core/domain"

// RequestKind names an operation the service performs.
type RequestKind string

const (
	// KindScan lists every file in an archive.
	KindScan RequestKind = "scan"

	// KindExtract reads selected files out of an archive.
	KindExtract RequestKind = "extract"

	// KindPack builds the export archive.
	KindPack RequestKind = "pack"
)

// ResponseKind names the message sent back for a request.
type ResponseKind string

const (
	ScanComplete    ResponseKind = "scan_complete"
	ExtractComplete ResponseKind = "extract_complete"
	PackComplete    ResponseKind = "zip_complete"
	Failed          ResponseKind = "error"
)

// Request is one message sent to the service.
// Only the fields relevant to Kind are read.
type Request struct {
	// ID correlates the request with its response.
	ID string

	Kind RequestKind

	// Archive and SourceIndex are used by scan; Archive and Paths by extract.
	Archive     domain.ArchiveHandle
	SourceIndex int
	Paths       []string

	// Texts and Binaries are used by pack.
	Texts    []domain.TextFile
	Binaries []domain.BinaryFile
}

// Response is the single message returned for a request.
type Response struct {
	// ID echoes Request.ID.
	ID string

	Kind ResponseKind

	// SourceIndex and Entries are set for scan_complete.
	SourceIndex int
	Entries     []domain.Entry

	// Content and Binary are set for extract_complete.
	Content *domain.ContentMap
	Binary  *domain.BinaryMap

	// Filename and Data are set for zip_complete.
	Filename string
	Data     []byte

	// Err is the human-readable reason for an error response.
	Err string
}

// completes returns the response kind a successful request produces.
func (k RequestKind) completes() ResponseKind {
	switch k {
	case KindScan:
		return ScanComplete
	case KindExtract:
		return ExtractComplete
	case KindPack:
		return PackComplete
	default:
		return Failed
	}
}

// cloneRequest deep-copies every payload a caller could still mutate.
func cloneRequest(req Request) Request {
	out := req
	if req.Paths != nil {
		out.Paths = append([]string(nil), req.Paths...)
	}
	if req.Texts != nil {
		out.Texts = append([]domain.TextFile(nil), req.Texts...)
	}
	if req.Binaries != nil {
		out.Binaries = make([]domain.BinaryFile, len(req.Binaries))
		for i, b := range req.Binaries {
			out.Binaries[i] = domain.BinaryFile{Name: b.Name, Data: append([]byte(nil), b.Data...)}
		}
	}
	return out
}
