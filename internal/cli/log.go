// Package cli implements the pomrewrite command-line interface.
//
// The commands rewrite single descriptors, run manifests of descriptors,
// inspect the local repository index and validate rule files. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - transform: Rewrite one POM file
//   - batch: Rewrite every POM listed in a manifest
//   - repo: Scan a local Maven repository and look up versions
//   - rules: List effective rules and check rule files
//   - cache: Manage the repository snapshot cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Indexed 412 artifacts (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// scanLogHooks reports repository scans at debug level.
type scanLogHooks struct {
	logger *log.Logger
}

func (h scanLogHooks) OnScanStart(_ context.Context, root string) {
	h.logger.Debug("scanning repository", "root", root)
}

func (h scanLogHooks) OnScanComplete(_ context.Context, root string, artifacts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("scan failed", "root", root, "err", err)
		return
	}
	h.logger.Debug("scan complete", "root", root, "artifacts", artifacts, "took", d.Round(time.Millisecond))
}

// cacheLogHooks reports snapshot cache traffic at debug level.
type cacheLogHooks struct {
	logger *log.Logger
}

func (h cacheLogHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h cacheLogHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h cacheLogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}
