package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
	"github.com/custodia-labs/migrator/internal/fileutil"
	"github.com/custodia-labs/migrator/internal/logger"
)

// Ensure ConversionOrchestrator implements the interface.
var _ driving.ConversionService = (*ConversionOrchestrator)(nil)

// ConversionOrchestrator gathers the selection, parses it into canonical
// notes and emits the deliverable. Only one run is active at a time.
type ConversionOrchestrator struct {
	session    driven.SessionStore
	archives   driven.ArchiveService
	files      driven.FileReader
	parsers    driven.ParserRegistry
	serializer driven.NoteSerializer
	generators map[domain.Target]driven.Generator
	now        func() time.Time

	running atomic.Bool
}

// NewConversionOrchestrator creates an orchestrator. The serializer handles
// the per-note markdown target; generators handle single-document targets.
func NewConversionOrchestrator(
	session driven.SessionStore,
	archives driven.ArchiveService,
	files driven.FileReader,
	parsers driven.ParserRegistry,
	serializer driven.NoteSerializer,
	generators ...driven.Generator,
) *ConversionOrchestrator {
	o := &ConversionOrchestrator{
		session:    session,
		archives:   archives,
		files:      files,
		parsers:    parsers,
		serializer: serializer,
		generators: make(map[domain.Target]driven.Generator),
		now:        time.Now,
	}
	for _, g := range generators {
		o.generators[g.Target()] = g
	}
	return o
}

// SetClock replaces the clock used for deliverable names.
func (o *ConversionOrchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Running reports whether a run is active.
func (o *ConversionOrchestrator) Running() bool {
	return o.running.Load()
}

// Convert runs gather, parse and emit for the current selection.
// Nothing the run accumulates outlives it; the session is never modified.
func (o *ConversionOrchestrator) Convert(ctx context.Context, target domain.Target) (*driving.ConversionResult, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, domain.ErrConversionInProgress
	}
	defer o.running.Store(false)

	if !o.supports(target) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTarget, target)
	}
	defer logger.Timed("conversion to " + string(target))()

	// 1. Gather
	logger.Section("Gather")
	texts, binaries, err := o.gather(ctx)
	if err != nil {
		return nil, err
	}
	stats := driving.ConversionStats{Gathered: texts.Len() + binaries.Len()}
	if stats.Gathered == 0 {
		return nil, domain.ErrEmptySelection
	}

	// 2. Parse
	logger.Section("Parse")
	notes, skipped, err := o.parse(ctx, texts)
	if err != nil {
		return nil, err
	}
	stats.Parsed = len(notes)
	stats.Skipped = skipped
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: %d entries skipped", domain.ErrNoValidNotes, skipped)
	}

	// 3. Emit
	logger.Section("Emit")
	var deliverable domain.Deliverable
	if target == domain.TargetMarkdown {
		deliverable, stats.Assets, err = o.emitPacked(ctx, notes, binaries)
	} else {
		deliverable, err = o.emitDocument(ctx, target, notes)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Converted %d notes (%d skipped, %d assets) to %s",
		stats.Parsed, stats.Skipped, stats.Assets, deliverable.Filename)
	return &driving.ConversionResult{Deliverable: deliverable, Stats: stats}, nil
}

func (o *ConversionOrchestrator) supports(target domain.Target) bool {
	if target == domain.TargetMarkdown {
		return o.serializer != nil
	}
	_, ok := o.generators[target]
	return ok
}

// gather reads every selected entry, one source at a time in index order.
func (o *ConversionOrchestrator) gather(ctx context.Context) (*domain.ContentMap, *domain.BinaryMap, error) {
	bySource := make(map[int][]string)
	for _, key := range o.session.Selection() {
		idx, p, err := key.Split()
		if err != nil {
			logger.Debug("Ignoring selection key: %v", err)
			continue
		}
		bySource[idx] = append(bySource[idx], p)
	}

	texts := domain.NewContentMap()
	binaries := domain.NewBinaryMap()
	for _, src := range o.session.Sources() {
		paths := bySource[src.Index]
		if len(paths) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		var (
			content *domain.ContentMap
			binary  *domain.BinaryMap
			err     error
		)
		switch src.Kind {
		case domain.SourceArchive:
			var res *driven.ExtractResult
			res, err = o.archives.Extract(ctx, src.Archive, paths)
			if res != nil {
				content, binary = res.Content, res.Binary
			}
		default:
			content, binary, err = o.readLoose(src, paths)
		}
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Gathered %d text and %d binary entries from %s", content.Len(), binary.Len(), src.Name)

		for _, f := range content.Files() {
			texts.Set(accumulatorKey(texts.Get, src, f.Name), f.Content)
		}
		for _, f := range binary.Files() {
			binaries.Set(accumulatorKey(binaries.Get, src, f.Name), f.Data)
		}
	}
	return texts, binaries, nil
}

// accumulatorKey keeps same-path entries from different sources apart.
// The first claimant keeps the bare path; later ones are prefixed with the
// source name, numbered when several sources share that name.
func accumulatorKey[T any](get func(string) (T, bool), src domain.Source, path string) string {
	key := path
	for n := 1; ; n++ {
		if _, taken := get(key); !taken {
			if key != path {
				logger.Debug("Path %s already gathered, keeping as %s", path, key)
			}
			return key
		}
		if n == 1 {
			key = src.Name + "/" + path
		} else {
			key = fmt.Sprintf("%s (%d)/%s", src.Name, n, path)
		}
	}
}

func (o *ConversionOrchestrator) readLoose(src domain.Source, paths []string) (*domain.ContentMap, *domain.BinaryMap, error) {
	content := domain.NewContentMap()
	binary := domain.NewBinaryMap()
	for _, p := range paths {
		f, ok := src.File(p)
		if !ok {
			logger.Debug("Loose file %s not found in %s", p, src.Name)
			continue
		}
		data, err := o.files.ReadFile(f.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
		}
		if domain.IsImage(p) {
			binary.Set(p, data)
			continue
		}
		content.Set(p, strings.ToValidUTF8(string(data), "\uFFFD"))
	}
	return content, binary, nil
}

// parse dispatches every text entry to the parser for the detected format.
// Entries whose parse fails are skipped and counted.
func (o *ConversionOrchestrator) parse(ctx context.Context, texts *domain.ContentMap) ([]domain.Note, int, error) {
	format := o.session.DetectedFormat()
	var notes []domain.Note
	skipped := 0
	for _, f := range texts.Files() {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		entryFormat := format
		if entryFormat == domain.FormatUnknown {
			entryFormat = formatForEntry(f.Name)
		}
		parsed, err := o.parsers.Parse(ctx, entryFormat, f.Name, f.Content)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, 0, err
			}
			logger.Debug("Skipping %s: %v", f.Name, err)
			skipped++
			continue
		}
		notes = append(notes, parsed...)
	}
	return notes, skipped, nil
}

// emitPacked writes one markdown file per note plus the gathered images
// under assets/, relinking image references that resolve to an asset.
func (o *ConversionOrchestrator) emitPacked(
	ctx context.Context,
	notes []domain.Note,
	binaries *domain.BinaryMap,
) (domain.Deliverable, int, error) {
	var assets []domain.BinaryFile
	known := make(map[string]bool)
	for _, b := range binaries.Files() {
		base := domain.BaseName(b.Name)
		if known[base] {
			logger.Debug("Asset %s already packed, skipping %s", base, b.Name)
			continue
		}
		known[base] = true
		assets = append(assets, domain.BinaryFile{Name: base, Data: b.Data})
	}

	namer := fileutil.NewUniqueNamer()
	texts := make([]domain.TextFile, 0, len(notes))
	for i, n := range notes {
		n.Content = RewriteImageLinks(n.Content, known)
		body, err := o.serializer.Serialize(ctx, n)
		if err != nil {
			return domain.Deliverable{}, 0, fmt.Errorf("%w: serialize note %d (%s): %w", domain.ErrPackingFailure, i+1, n.Origin, err)
		}
		name := namer.Name(fileutil.SafeName(n.Title, fileutil.DefaultNoteName), "."+o.serializer.Extension())
		texts = append(texts, domain.TextFile{Name: name, Content: body})
	}

	res, err := o.archives.Pack(ctx, texts, assets)
	if err != nil {
		return domain.Deliverable{}, 0, err
	}
	return domain.Deliverable{
		Filename: res.Filename,
		MIMEType: domain.TargetMarkdown.MIMEType(),
		Data:     res.Data,
	}, len(assets), nil
}

func (o *ConversionOrchestrator) emitDocument(
	ctx context.Context,
	target domain.Target,
	notes []domain.Note,
) (domain.Deliverable, error) {
	data, err := o.generators[target].Generate(ctx, notes)
	if err != nil {
		return domain.Deliverable{}, fmt.Errorf("generate %s: %w", target, err)
	}
	return domain.Deliverable{
		Filename: domain.ExportFilename(o.now(), target.Extension()),
		MIMEType: target.MIMEType(),
		Data:     data,
	}, nil
}
