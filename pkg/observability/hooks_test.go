package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingRenderHooks counts events for assertions.
type recordingRenderHooks struct {
	mu            sync.Mutex
	layoutStarts  int
	drawCompletes int
	imageDecodes  int
}

func (r *recordingRenderHooks) OnLayoutStart(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layoutStarts++
}

func (r *recordingRenderHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration) {}

func (r *recordingRenderHooks) OnDrawStart(context.Context, string, int) {}

func (r *recordingRenderHooks) OnDrawComplete(context.Context, string, int, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawCompletes++
}

func (r *recordingRenderHooks) OnImageDecode(context.Context, int, string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imageDecodes++
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Render().OnLayoutStart(ctx, "Sheet1")
	Render().OnDrawComplete(ctx, "Sheet1", 10, time.Second, nil)
	Render().OnImageDecode(ctx, 1, "png", 1024, nil)
	Cache().OnCacheHit(ctx, "artifact")
	Cache().OnCacheSet(ctx, "artifact", 2048)
}

func TestSetRenderHooks(t *testing.T) {
	defer Reset()

	rec := &recordingRenderHooks{}
	SetRenderHooks(rec)

	ctx := context.Background()
	Render().OnLayoutStart(ctx, "Sheet1")
	Render().OnLayoutStart(ctx, "Sheet2")
	Render().OnDrawComplete(ctx, "Sheet1", 5, time.Millisecond, nil)
	Render().OnImageDecode(ctx, 3, "jpeg", 100, nil)

	if rec.layoutStarts != 2 {
		t.Errorf("layoutStarts = %d, want 2", rec.layoutStarts)
	}
	if rec.drawCompletes != 1 {
		t.Errorf("drawCompletes = %d, want 1", rec.drawCompletes)
	}
	if rec.imageDecodes != 1 {
		t.Errorf("imageDecodes = %d, want 1", rec.imageDecodes)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()

	SetRenderHooks(nil)
	SetCacheHooks(nil)

	if Render() == nil || Cache() == nil {
		t.Error("nil registration should keep the previous hooks")
	}
}

func TestReset(t *testing.T) {
	rec := &recordingRenderHooks{}
	SetRenderHooks(rec)
	Reset()

	Render().OnLayoutStart(context.Background(), "Sheet1")
	if rec.layoutStarts != 0 {
		t.Error("Reset should restore the no-op hooks")
	}
}
