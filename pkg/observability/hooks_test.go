package observability

import (
	"context"
	"testing"
	"time"
)

type countingHooks struct {
	NoopScaleHooks
	scaled int
}

func (c *countingHooks) OnFaceScaled(ctx context.Context, name string, from, to int) {
	c.scaled++
}

func TestDefaultIsNoop(t *testing.T) {
	SetScaleHooks(nil)

	h := Scale()
	if h == nil {
		t.Fatal("Scale() returned nil")
	}

	// Must not panic
	ctx := context.Background()
	h.OnScaleStart(ctx, "grow")
	h.OnFaceScaled(ctx, "default", 140, 168)
	h.OnFaceSkipped(ctx, "default", 999, 1198)
	h.OnCycleDetected(ctx, "a")
	h.OnScaleComplete(ctx, "grow", 1, 1, time.Millisecond)
}

func TestSetScaleHooks(t *testing.T) {
	hooks := &countingHooks{}
	SetScaleHooks(hooks)
	defer SetScaleHooks(nil)

	Scale().OnFaceScaled(context.Background(), "default", 140, 168)
	Scale().OnFaceScaled(context.Background(), "comment", 120, 144)

	if hooks.scaled != 2 {
		t.Errorf("scaled events = %d, want 2", hooks.scaled)
	}
}

func TestSetNilRestoresNoop(t *testing.T) {
	hooks := &countingHooks{}
	SetScaleHooks(hooks)
	SetScaleHooks(nil)

	Scale().OnFaceScaled(context.Background(), "default", 140, 168)
	if hooks.scaled != 0 {
		t.Error("nil registration should restore the no-op hooks")
	}
}
