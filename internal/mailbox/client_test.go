package mailbox

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"mailtriage/internal/config"
)

func TestFetchUnreadHonorsContext(t *testing.T) {
	// 192.0.2.0/24 is reserved for documentation; nothing listens there.
	c := NewClient(config.IMAPConfig{Host: "192.0.2.1", Port: 993}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.FetchUnread(ctx); err == nil {
		t.Fatal("expected dial to fail under a cancelled context")
	}
}
