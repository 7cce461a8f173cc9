// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about batch execution and host
// document operations.
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
//   - Keeps the engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBatchHooks(&myBatchHooks{})
//	    observability.SetHostHooks(&myHostHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives events from batch artboard generation.
type BatchHooks interface {
	// OnBatchStart fires once per batch with the number of requested sizes.
	OnBatchStart(ctx context.Context, total int)

	// OnSizeStart fires before each size's pipeline run.
	OnSizeStart(ctx context.Context, index int, name string)

	// OnSizeComplete fires after each attempt; outcome is one of
	// "created", "skipped", "failed".
	OnSizeComplete(ctx context.Context, index int, name, outcome string, duration time.Duration, err error)

	// OnBatchComplete fires once per batch with the aggregate counts.
	OnBatchComplete(ctx context.Context, created, skipped, failed int, duration time.Duration)
}

// =============================================================================
// Host Hooks
// =============================================================================

// HostHooks receives events from host document operations.
type HostHooks interface {
	// OnHostCall records a completed host call with its phase context.
	OnHostCall(ctx context.Context, op, phase string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchStart(context.Context, int)        {}
func (NoopBatchHooks) OnSizeStart(context.Context, int, string) {}
func (NoopBatchHooks) OnSizeComplete(context.Context, int, string, string, time.Duration, error) {
}
func (NoopBatchHooks) OnBatchComplete(context.Context, int, int, int, time.Duration) {}

// NoopHostHooks is a no-op implementation of HostHooks.
type NoopHostHooks struct{}

func (NoopHostHooks) OnHostCall(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	batchHooks BatchHooks = NoopBatchHooks{}
	hostHooks  HostHooks  = NoopHostHooks{}
	hooksMu    sync.RWMutex
)

// SetBatchHooks registers custom batch hooks.
// This should be called once at application startup before any batch runs.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// SetHostHooks registers custom host hooks.
// This should be called once at application startup before any host operations.
func SetHostHooks(h HostHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hostHooks = h
	}
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Host returns the registered host hooks.
func Host() HostHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hostHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	batchHooks = NoopBatchHooks{}
	hostHooks = NoopHostHooks{}
}
