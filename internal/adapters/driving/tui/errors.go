package tui

import "errors"

// ErrMissingCatalog is returned when the catalog service is not provided.
var ErrMissingCatalog = errors.New("tui: catalog service is required")

// ErrCancelled is returned by Run when the user quits without confirming.
var ErrCancelled = errors.New("tui: selection cancelled")
