package dedupe

import (
	"context"
	"testing"
	"time"
)

func TestAcquireOnceFailsOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("nil guard", func(t *testing.T) {
		var g *Guard
		if !g.AcquireOnce(ctx, "msg-1") {
			t.Error("nil guard must not block processing")
		}
	})

	t.Run("guard without redis", func(t *testing.T) {
		g := NewGuard(nil, time.Hour)
		if !g.AcquireOnce(ctx, "msg-1") {
			t.Error("guard without redis must not block processing")
		}
		if !g.AcquireOnce(ctx, "msg-1") {
			t.Error("repeated key must still pass without redis")
		}
	})
}

func TestReleaseWithoutRedis(t *testing.T) {
	ctx := context.Background()

	var nilGuard *Guard
	nilGuard.Release(ctx, "msg-1")

	NewGuard(nil, time.Hour).Release(ctx, "msg-1")
}
