// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about descriptor transformation, repository scans and
// snapshot cache operations.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. Hooks are
// registered by main, never by libraries, so packages like transform and
// repository stay free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTransformHooks(&myTransformHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Transform().OnTransformStart(ctx, path)
//	// ... rewrite ...
//	observability.Transform().OnTransformComplete(ctx, path, changes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Transform Hooks
// =============================================================================

// TransformHooks receives events from the descriptor transformer.
type TransformHooks interface {
	OnTransformStart(ctx context.Context, path string)
	OnTransformComplete(ctx context.Context, path string, changes int, duration time.Duration, err error)

	// OnRuleMatch records a rule that decided the fate of a dependency.
	// category is "rules" or "ignore".
	OnRuleMatch(ctx context.Context, category, rule string)
}

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from repository index scans.
type ScanHooks interface {
	OnScanStart(ctx context.Context, root string)
	OnScanComplete(ctx context.Context, root string, artifacts int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTransformHooks is a no-op implementation of TransformHooks.
type NoopTransformHooks struct{}

func (NoopTransformHooks) OnTransformStart(context.Context, string) {}
func (NoopTransformHooks) OnTransformComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopTransformHooks) OnRuleMatch(context.Context, string, string) {}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string)                             {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	transformHooks TransformHooks = NoopTransformHooks{}
	scanHooks      ScanHooks      = NoopScanHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetTransformHooks registers custom transform hooks.
// This should be called once at application startup before any transformation.
func SetTransformHooks(h TransformHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transformHooks = h
	}
}

// SetScanHooks registers custom repository scan hooks.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Transform returns the registered transform hooks.
func Transform() TransformHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transformHooks
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	transformHooks = NoopTransformHooks{}
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
}
