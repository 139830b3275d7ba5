package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"mailtriage/internal/config"
	"mailtriage/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewClient(config.AIConfig{
		Endpoint:       ts.URL,
		APIKey:         "test-key",
		Model:          "gpt-4",
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func completionHandler(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}
}

func failingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	}
}

func TestClassifyIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("recognized category", func(t *testing.T) {
		c := newTestClient(t, completionHandler("Meeting Request"))
		if got := c.ClassifyIntent(ctx, "Can we meet?", "Are you free Tuesday at 3pm?"); got != model.IntentMeetingRequest {
			t.Errorf("ClassifyIntent = %q, want Meeting Request", got)
		}
	})

	t.Run("unrecognized output degrades to Other", func(t *testing.T) {
		c := newTestClient(t, completionHandler("I believe this is spam"))
		if got := c.ClassifyIntent(ctx, "subj", "body"); got != model.IntentOther {
			t.Errorf("ClassifyIntent = %q, want Other", got)
		}
	})

	t.Run("quoted category is accepted", func(t *testing.T) {
		c := newTestClient(t, completionHandler(`"Complaint"`))
		if got := c.ClassifyIntent(ctx, "subj", "body"); got != model.IntentComplaint {
			t.Errorf("ClassifyIntent = %q, want Complaint", got)
		}
	})

	t.Run("backend failure degrades to Other", func(t *testing.T) {
		c := newTestClient(t, failingHandler())
		if got := c.ClassifyIntent(ctx, "subj", "body"); got != model.IntentOther {
			t.Errorf("ClassifyIntent = %q, want Other", got)
		}
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns trimmed completion", func(t *testing.T) {
		c := newTestClient(t, completionHandler("  A short summary.  "))
		if got := c.Summarize(ctx, "subj", "body"); got != "A short summary." {
			t.Errorf("Summarize = %q", got)
		}
	})

	t.Run("backend failure returns sentinel", func(t *testing.T) {
		c := newTestClient(t, failingHandler())
		if got := c.Summarize(ctx, "subj", "body"); got != SummaryFailed {
			t.Errorf("Summarize = %q, want sentinel", got)
		}
	})
}

func TestDraftReply(t *testing.T) {
	ctx := context.Background()

	t.Run("returns generated reply", func(t *testing.T) {
		c := newTestClient(t, completionHandler("Dear Jane, Tuesday works. Regards."))
		got := c.DraftReply(ctx, "Can we meet?", "Tuesday?", model.IntentMeetingRequest, model.ToneFormal, "Jane Doe")
		if got != "Dear Jane, Tuesday works. Regards." {
			t.Errorf("DraftReply = %q", got)
		}
	})

	t.Run("empty completion returns sentinel", func(t *testing.T) {
		c := newTestClient(t, completionHandler(""))
		got := c.DraftReply(ctx, "subj", "body", model.IntentOther, model.ToneFormal, "")
		if got != ReplyFailed {
			t.Errorf("DraftReply = %q, want sentinel", got)
		}
	})

	t.Run("backend failure returns sentinel", func(t *testing.T) {
		c := newTestClient(t, failingHandler())
		got := c.DraftReply(ctx, "subj", "body", model.IntentOther, model.ToneFormal, "")
		if got != ReplyFailed {
			t.Errorf("DraftReply = %q, want sentinel", got)
		}
	})
}

func TestReviseReply(t *testing.T) {
	ctx := context.Background()

	t.Run("returns revised text", func(t *testing.T) {
		c := newTestClient(t, completionHandler("Improved reply."))
		if got := c.ReviseReply(ctx, "Original reply.", "make it shorter"); got != "Improved reply." {
			t.Errorf("ReviseReply = %q", got)
		}
	})

	t.Run("backend failure returns original unchanged", func(t *testing.T) {
		c := newTestClient(t, failingHandler())
		if got := c.ReviseReply(ctx, "Original reply.", "make it shorter"); got != "Original reply." {
			t.Errorf("ReviseReply = %q, want original", got)
		}
	})
}

func TestPing(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, completionHandler("Hello"))
	if !c.Ping(ctx) {
		t.Error("Ping = false against healthy backend")
	}

	c = newTestClient(t, failingHandler())
	if c.Ping(ctx) {
		t.Error("Ping = true against failing backend")
	}
}
