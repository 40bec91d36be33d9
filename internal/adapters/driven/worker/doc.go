// Package worker implements the background extraction service.
//
// The Service runs on its own goroutine and owns the archive codec. It is
// reachable only through typed Request and Response messages; every request
// carries a correlation ID and yields exactly one response. Payloads are
// copied when they cross the boundary, and any failure inside the service,
// panics included, is reported as an error response.
//
// Client hides the message protocol behind an rpc-style API: Go returns a
// Call whose Done channel fires when the matching response arrives, and
// Scan, Extract and Pack block on it. Client implements driven.ArchiveService.
package worker
