package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	f := NoopFormatHooks{}
	f.OnFormatStart(ctx, "doc.rst")
	f.OnFormatComplete(ctx, "doc.rst", "reformatted", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "doc.rst")
	c.OnCacheMiss(ctx, "doc.rst")
	c.OnCacheFlush(ctx, 42)
}

type countingFormatHooks struct {
	starts, completes int
}

func (h *countingFormatHooks) OnFormatStart(context.Context, string) { h.starts++ }
func (h *countingFormatHooks) OnFormatComplete(context.Context, string, string, time.Duration, error) {
	h.completes++
}

func TestSetAndResetHooks(t *testing.T) {
	defer Reset()

	h := &countingFormatHooks{}
	SetFormatHooks(h)
	Format().OnFormatStart(context.Background(), "a.rst")
	Format().OnFormatComplete(context.Background(), "a.rst", "unchanged", 0, nil)

	if h.starts != 1 || h.completes != 1 {
		t.Errorf("hooks = %+v, want both events delivered", h)
	}

	Reset()
	if _, ok := Format().(NoopFormatHooks); !ok {
		t.Error("Reset() did not restore no-op hooks")
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()
	SetFormatHooks(nil)
	if _, ok := Format().(NoopFormatHooks); !ok {
		t.Error("nil hooks replaced the default")
	}
}
