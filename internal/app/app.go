// Package app wires adapters, codecs and services into one migration session.
package app

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/custodia-labs/migrator/internal/adapters/driven/fsys"
	"github.com/custodia-labs/migrator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/migrator/internal/adapters/driven/worker"
	"github.com/custodia-labs/migrator/internal/codecs/enex"
	"github.com/custodia-labs/migrator/internal/codecs/html"
	"github.com/custodia-labs/migrator/internal/codecs/jsonnotes"
	"github.com/custodia-labs/migrator/internal/codecs/keep"
	"github.com/custodia-labs/migrator/internal/codecs/markdown"
	"github.com/custodia-labs/migrator/internal/codecs/notion"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
	"github.com/custodia-labs/migrator/internal/core/services"
)

// Options configures a session. Zero values mean the real filesystem and clock.
type Options struct {
	Fs  afero.Fs
	Now func() time.Time
}

// App is one migration session with its background worker.
type App struct {
	Session    *memory.Session
	Worker     *worker.Client
	Ingest     *services.SourceRegistry
	Catalog    *services.CatalogService
	Conversion *services.ConversionOrchestrator
}

// New starts the background worker and builds the services around it.
// Close must be called to stop the worker.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	svc := worker.NewService(opts.Fs, worker.WithClock(opts.Now))
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	client := worker.NewClient(svc)

	session := memory.NewSession()
	files := fsys.NewReader(opts.Fs)

	conversion := services.NewConversionOrchestrator(
		session, client, files, Parsers(), markdown.NewSerializer(), Generators(opts.Now)...,
	)
	conversion.SetClock(opts.Now)

	return &App{
		Session:    session,
		Worker:     client,
		Ingest:     services.NewSourceRegistry(session, client, files),
		Catalog:    services.NewCatalogService(session),
		Conversion: conversion,
	}, nil
}

// Close stops the background worker.
func (a *App) Close() error {
	return a.Worker.Close()
}

// Parsers returns a registry with a parser for every source format.
func Parsers() *services.ParserRegistry {
	return services.NewParserRegistry(
		keep.NewParser(),
		notion.NewParser(),
		enex.NewParser(),
		markdown.NewParser(),
		jsonnotes.NewParser(),
	)
}

// Generators returns the single-document generators.
func Generators(now func() time.Time) []driven.Generator {
	return []driven.Generator{
		jsonnotes.NewGenerator(),
		enex.NewGenerator(now),
		html.NewGenerator(),
	}
}
