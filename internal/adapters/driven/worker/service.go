package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/logger"
)

// Service is the background extraction service.
// It handles one request at a time on a single goroutine.
type Service struct {
	fs  afero.Fs
	now func() time.Time

	requests  chan Request
	responses chan Response

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to name packed exports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service that opens archives through fs.
func NewService(fs afero.Fs, opts ...Option) *Service {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	s := &Service{
		fs:        fs,
		now:       time.Now,
		requests:  make(chan Request),
		responses: make(chan Response, 1),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the service loop. It returns immediately.
// A stopped service cannot be restarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return domain.ErrWorkerClosed
	}
	if s.running {
		return nil
	}
	s.running = true

	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

// Stop shuts the loop down and waits for it to exit.
// The response channel is closed once the loop has returned.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	wasRunning := s.running
	close(s.stopCh)
	s.mu.Unlock()

	if wasRunning {
		s.wg.Wait()
	} else {
		close(s.responses)
	}
}

// Requests is the inbound message channel.
func (s *Service) Requests() chan<- Request {
	return s.requests
}

// Responses is the outbound message channel.
func (s *Service) Responses() <-chan Response {
	return s.responses
}

// Done is closed when the service has been asked to stop.
func (s *Service) Done() <-chan struct{} {
	return s.stopCh
}

func (s *Service) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.responses)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case req := <-s.requests:
			resp := s.handle(req)
			select {
			case s.responses <- resp:
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}
}

// handle runs one request. Every failure, including a panic, becomes an error response.
func (s *Service) handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = failure(req, fmt.Errorf("internal error: %v", r))
		}
	}()

	defer logger.Timed(fmt.Sprintf("worker %s %s", req.Kind, req.ID))()

	switch req.Kind {
	case KindScan:
		entries, err := scanArchive(s.fs, req.Archive, req.SourceIndex)
		if err != nil {
			return failure(req, fmt.Errorf("open %s: %w", req.Archive.Name, err))
		}
		return Response{ID: req.ID, Kind: ScanComplete, SourceIndex: req.SourceIndex, Entries: entries}

	case KindExtract:
		content, binary, err := extractArchive(s.fs, req.Archive, req.Paths)
		if err != nil {
			return failure(req, fmt.Errorf("extract %s: %w", req.Archive.Name, err))
		}
		return Response{ID: req.ID, Kind: ExtractComplete, Content: content, Binary: binary}

	case KindPack:
		now := s.now()
		data, err := packArchive(req.Texts, req.Binaries, now)
		if err != nil {
			return failure(req, fmt.Errorf("pack: %w", err))
		}
		return Response{
			ID:       req.ID,
			Kind:     PackComplete,
			Filename: domain.ExportFilename(now, "zip"),
			Data:     data,
		}

	default:
		return failure(req, fmt.Errorf("unknown request kind %q", req.Kind))
	}
}

func failure(req Request, err error) Response {
	return Response{ID: req.ID, Kind: Failed, SourceIndex: req.SourceIndex, Err: err.Error()}
}
