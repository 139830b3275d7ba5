package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mailtriage/internal/config"
	"mailtriage/internal/model"
	"mailtriage/pkg/circuitbreaker"
	"mailtriage/pkg/metrics"
)

// Sentinel outputs used when the backend degrades. The pipeline treats
// these as valid text, never as errors.
const (
	SummaryFailed = "Summary generation failed."
	ReplyFailed   = "Reply generation failed. Please try again."
)

// Client talks to a chat-completions style generative backend. Every
// public operation is total: backend failure degrades to a sentinel
// value instead of propagating an error.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	log        *zap.Logger
}

func NewClient(cfg config.AIConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cbConfig := circuitbreaker.Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 2,
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		cb:         circuitbreaker.New(cbConfig),
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

var errEmptyCompletion = errors.New("backend returned empty completion")

// complete runs one generation request under circuit breaker protection.
func (c *Client) complete(ctx context.Context, operation, prompt string, maxTokens int, temperature float64) (string, error) {
	var text string

	err := c.cb.Execute(func() error {
		start := time.Now()

		reqBody := chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}
		b, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		latency := time.Since(start)
		if err != nil {
			metrics.RecordGenerationLatency(operation, "error", latency)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			metrics.RecordGenerationLatency(operation, fmt.Sprintf("%d", resp.StatusCode), latency)
			return fmt.Errorf("generative backend status %d", resp.StatusCode)
		}

		var parsed chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			metrics.RecordGenerationLatency(operation, "decode_error", latency)
			return err
		}
		if len(parsed.Choices) == 0 {
			metrics.RecordGenerationLatency(operation, "empty", latency)
			return errEmptyCompletion
		}

		metrics.RecordGenerationLatency(operation, "success", latency)
		text = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	})

	return text, err
}

// ClassifyIntent maps a message onto the closed intent taxonomy.
// Classification failure degrades to IntentOther.
func (c *Client) ClassifyIntent(ctx context.Context, subject, body string) model.EmailIntent {
	out, err := c.complete(ctx, "classify", classifyPrompt(subject, body), 50, 0.1)
	if err != nil {
		c.log.Error("error classifying email intent", zap.Error(err))
		return model.IntentOther
	}
	return model.IntentFromLabel(strings.Trim(out, `"`))
}

// Summarize produces a short summary. Failure degrades to SummaryFailed.
func (c *Client) Summarize(ctx context.Context, subject, body string) string {
	out, err := c.complete(ctx, "summarize", summaryPrompt(subject, body), 150, 0.3)
	if err != nil {
		c.log.Error("error generating email summary", zap.Error(err))
		return SummaryFailed
	}
	if out == "" {
		return SummaryFailed
	}
	return out
}

// DraftReply generates a reply conditioned on intent and tone. Failure
// degrades to ReplyFailed.
func (c *Client) DraftReply(ctx context.Context, subject, body string, intent model.EmailIntent, tone model.ReplyTone, senderName string) string {
	out, err := c.complete(ctx, "draft", replyPrompt(subject, body, intent, tone, senderName), 300, 0.7)
	if err != nil {
		c.log.Error("error generating draft reply", zap.Error(err))
		return ReplyFailed
	}
	if out == "" {
		return ReplyFailed
	}
	return out
}

// ReviseReply improves a reply per operator feedback. Failure returns
// the original text unchanged.
func (c *Client) ReviseReply(ctx context.Context, original, feedback string) string {
	out, err := c.complete(ctx, "revise", revisePrompt(original, feedback), 400, 0.5)
	if err != nil || out == "" {
		if err != nil {
			c.log.Error("error revising reply", zap.Error(err))
		}
		return original
	}
	return out
}

// Ping verifies the backend answers a minimal generation request.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.complete(ctx, "ping", "Hello", 10, 0)
	return err == nil
}
