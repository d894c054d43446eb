// Package observability provides hooks for instrumenting scaling runs.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about scaling runs and individual face
// writes.
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for scale events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// Hooks are diagnostic only and never affect scaling behavior.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScaleHooks(&myScaleHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// ScaleHooks receives events from the scaling engine.
type ScaleHooks interface {
	// OnScaleStart fires when a grow/shrink run begins.
	OnScaleStart(ctx context.Context, direction string)

	// OnFaceScaled fires for each face whose height was rewritten.
	OnFaceScaled(ctx context.Context, name string, from, to int)

	// OnFaceSkipped fires for each eligible face whose candidate height fell
	// outside the configured bounds and was left unchanged.
	OnFaceSkipped(ctx context.Context, name string, height, candidate int)

	// OnCycleDetected fires when height resolution hits an inheritance cycle
	// or exceeds the depth limit and falls back to the default height.
	OnCycleDetected(ctx context.Context, name string)

	// OnScaleComplete fires when a run finishes.
	OnScaleComplete(ctx context.Context, direction string, scaled, skipped int, duration time.Duration)
}

// NoopScaleHooks is a ScaleHooks implementation that does nothing.
type NoopScaleHooks struct{}

func (NoopScaleHooks) OnScaleStart(ctx context.Context, direction string)              {}
func (NoopScaleHooks) OnFaceScaled(ctx context.Context, name string, from, to int)     {}
func (NoopScaleHooks) OnFaceSkipped(ctx context.Context, name string, h, c int)        {}
func (NoopScaleHooks) OnCycleDetected(ctx context.Context, name string)                {}
func (NoopScaleHooks) OnScaleComplete(ctx context.Context, d string, s, k int, t time.Duration) {
}

var (
	mu         sync.RWMutex
	scaleHooks ScaleHooks = NoopScaleHooks{}
)

// SetScaleHooks registers a custom hooks implementation.
// Passing nil restores the no-op default.
func SetScaleHooks(h ScaleHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopScaleHooks{}
	}
	scaleHooks = h
}

// Scale returns the registered hooks implementation.
func Scale() ScaleHooks {
	mu.RLock()
	defer mu.RUnlock()
	return scaleHooks
}
