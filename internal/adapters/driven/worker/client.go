package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.ArchiveService = (*Client)(nil)

// Call is an in-flight request.
type Call struct {
	Request  Request
	Response *Response
	Error    error

	// Done receives the call itself once the response or an error is in.
	Done chan *Call
}

func (c *Call) done() {
	select {
	case c.Done <- c:
	default:
	}
}

// Client talks to a Service. It is safe for concurrent use; responses are
// matched to requests by correlation ID, so overlapping calls are allowed.
type Client struct {
	svc *Service

	mu      sync.Mutex
	pending map[string]*Call
	closed  bool
	done    chan struct{}
}

// NewClient attaches a client to a started service.
func NewClient(svc *Service) *Client {
	c := &Client{
		svc:     svc,
		pending: make(map[string]*Call),
		done:    make(chan struct{}),
	}
	go c.input()
	return c
}

// Go sends req asynchronously and returns its Call.
// A fresh correlation ID is assigned; payloads are copied before sending.
func (c *Client) Go(ctx context.Context, req Request) *Call {
	req = cloneRequest(req)
	req.ID = uuid.NewString()

	call := &Call{Request: req, Done: make(chan *Call, 1)}

	if err := ctx.Err(); err != nil {
		call.Error = err
		call.done()
		return call
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		call.Error = domain.ErrWorkerClosed
		call.done()
		return call
	}
	c.pending[req.ID] = call
	c.mu.Unlock()

	select {
	case c.svc.Requests() <- req:
	case <-ctx.Done():
		c.finish(req.ID, nil, ctx.Err())
	case <-c.done:
		c.finish(req.ID, nil, domain.ErrWorkerClosed)
	case <-c.svc.Done():
		c.finish(req.ID, nil, domain.ErrWorkerClosed)
	}
	return call
}

// call sends req and waits for its response.
func (c *Client) call(ctx context.Context, req Request) (*Response, error) {
	call := c.Go(ctx, req)
	select {
	case <-call.Done:
		return call.Response, call.Error
	case <-ctx.Done():
		c.finish(call.Request.ID, nil, ctx.Err())
		return nil, ctx.Err()
	}
}

// finish completes the pending call for id exactly once.
func (c *Client) finish(id string, resp *Response, err error) {
	c.mu.Lock()
	call, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	call.Response = resp
	call.Error = err
	call.done()
}

// input routes responses to their calls until the service closes its channel.
func (c *Client) input() {
	for resp := range c.svc.Responses() {
		var err error
		if resp.Kind == Failed {
			err = errors.New(resp.Err)
		}
		c.finish(resp.ID, &resp, err)
	}

	c.mu.Lock()
	c.closed = true
	pending := c.pending
	c.pending = make(map[string]*Call)
	c.mu.Unlock()
	close(c.done)

	for _, call := range pending {
		call.Error = domain.ErrWorkerClosed
		call.done()
	}
}

// Close stops the service and fails any outstanding calls.
func (c *Client) Close() error {
	c.svc.Stop()
	<-c.done
	return nil
}

// Scan lists every non-directory entry of an archive.
func (c *Client) Scan(ctx context.Context, archive domain.ArchiveHandle, sourceIndex int) (*driven.ScanResult, error) {
	resp, err := c.call(ctx, Request{Kind: KindScan, Archive: archive, SourceIndex: sourceIndex})
	if err != nil {
		return nil, wrapFailure(domain.ErrExtractionFailure, err)
	}
	if err := expect(resp, ScanComplete); err != nil {
		return nil, wrapFailure(domain.ErrExtractionFailure, err)
	}
	return &driven.ScanResult{SourceIndex: resp.SourceIndex, Entries: resp.Entries}, nil
}

// Extract reads the requested paths from an archive.
func (c *Client) Extract(ctx context.Context, archive domain.ArchiveHandle, paths []string) (*driven.ExtractResult, error) {
	resp, err := c.call(ctx, Request{Kind: KindExtract, Archive: archive, Paths: paths})
	if err != nil {
		return nil, wrapFailure(domain.ErrExtractionFailure, err)
	}
	if err := expect(resp, ExtractComplete); err != nil {
		return nil, wrapFailure(domain.ErrExtractionFailure, err)
	}
	content, binary := resp.Content, resp.Binary
	if content == nil {
		content = domain.NewContentMap()
	}
	if binary == nil {
		binary = domain.NewBinaryMap()
	}
	return &driven.ExtractResult{Content: content, Binary: binary}, nil
}

// Pack builds the export archive.
func (c *Client) Pack(ctx context.Context, texts []domain.TextFile, binaries []domain.BinaryFile) (*driven.PackResult, error) {
	resp, err := c.call(ctx, Request{Kind: KindPack, Texts: texts, Binaries: binaries})
	if err != nil {
		return nil, wrapFailure(domain.ErrPackingFailure, err)
	}
	if err := expect(resp, PackComplete); err != nil {
		return nil, wrapFailure(domain.ErrPackingFailure, err)
	}
	return &driven.PackResult{Filename: resp.Filename, Data: resp.Data}, nil
}

func expect(resp *Response, kind ResponseKind) error {
	if resp == nil {
		return errors.New("no response")
	}
	if resp.Kind != kind {
		return fmt.Errorf("unexpected response %q", resp.Kind)
	}
	return nil
}

// wrapFailure tags err with the pipeline sentinel unless it is a context
// or shutdown error, which callers match on directly.
func wrapFailure(sentinel, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrWorkerClosed) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
