// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about format runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFormatHooks(&myFormatHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Format().OnFormatStart(ctx, path)
//	// ... format the file ...
//	observability.Format().OnFormatComplete(ctx, path, verdict, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Format Hooks
// =============================================================================

// FormatHooks receives events from the formatting pipeline.
type FormatHooks interface {
	// OnFormatStart records the start of one file's format cycle.
	OnFormatStart(ctx context.Context, path string)

	// OnFormatComplete records the outcome of one file's format cycle.
	// verdict is "unchanged", "reformatted", or "idempotence-violation".
	OnFormatComplete(ctx context.Context, path, verdict string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from fingerprint store operations.
type CacheHooks interface {
	// OnCacheHit records a fingerprint hit.
	OnCacheHit(ctx context.Context, path string)

	// OnCacheMiss records a fingerprint miss.
	OnCacheMiss(ctx context.Context, path string)

	// OnCacheFlush records a store flush of size entries.
	OnCacheFlush(ctx context.Context, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFormatHooks is a no-op implementation of FormatHooks.
type NoopFormatHooks struct{}

func (NoopFormatHooks) OnFormatStart(context.Context, string) {}
func (NoopFormatHooks) OnFormatComplete(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)  {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string) {}
func (NoopCacheHooks) OnCacheFlush(context.Context, int)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	formatHooks FormatHooks = NoopFormatHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetFormatHooks registers custom format hooks.
// This should be called once at application startup before any format runs.
func SetFormatHooks(h FormatHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		formatHooks = h
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

// Format returns the registered format hooks.
func Format() FormatHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return formatHooks
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
	formatHooks = NoopFormatHooks{}
	cacheHooks = NoopCacheHooks{}
}
