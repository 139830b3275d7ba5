package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"mailtriage/internal/mailbox"
	"mailtriage/internal/model"
	"mailtriage/pkg/metrics"
)

// ErrRunInProgress is returned when a pipeline run is already in flight.
var ErrRunInProgress = errors.New("email processing already in progress")

// runTimeout bounds one full pipeline run so a hung mailbox or backend
// call cannot block subsequent scheduled runs indefinitely.
const runTimeout = 5 * time.Minute

// Mailbox is the gateway contract the pipeline consumes.
type Mailbox interface {
	FetchUnread(ctx context.Context) ([]mailbox.Message, error)
	MarkRead(ctx context.Context, uid uint32) error
}

// Generator is the generative backend contract. All operations are
// total: they degrade to sentinel values instead of returning errors.
type Generator interface {
	ClassifyIntent(ctx context.Context, subject, body string) model.EmailIntent
	Summarize(ctx context.Context, subject, body string) string
	DraftReply(ctx context.Context, subject, body string, intent model.EmailIntent, tone model.ReplyTone, senderName string) string
}

// EmailStore persists new records.
type EmailStore interface {
	Create(ctx context.Context, e *model.Email) (int, error)
}

// SeenGuard deduplicates messages across runs.
type SeenGuard interface {
	AcquireOnce(ctx context.Context, messageKey string) bool
	Release(ctx context.Context, messageKey string)
}

// Pipeline orchestrates fetch, classify, summarize, draft, and persist.
// At most one run is in flight at a time; both the scheduler and the
// manual trigger go through the same guard.
type Pipeline struct {
	mailbox Mailbox
	gen     Generator
	store   EmailStore
	seen    SeenGuard
	log     *zap.Logger

	running atomic.Bool
}

func NewPipeline(mb Mailbox, gen Generator, store EmailStore, seen SeenGuard, log *zap.Logger) *Pipeline {
	return &Pipeline{
		mailbox: mb,
		gen:     gen,
		store:   store,
		seen:    seen,
		log:     log,
	}
}

// Busy reports whether a run is currently in flight.
func (p *Pipeline) Busy() bool {
	return p.running.Load()
}

// ProcessNewEmails runs one intake cycle. A failed fetch aborts the run
// with no side effects; a failure on one message skips only that message.
func (p *Pipeline) ProcessNewEmails(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		metrics.IncrementPipelineRun("in_progress")
		return ErrRunInProgress
	}
	defer p.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	messages, err := p.mailbox.FetchUnread(ctx)
	if err != nil {
		p.log.Error("error fetching unread emails", zap.Error(err))
		metrics.IncrementPipelineRun("fetch_failed")
		return err
	}

	if len(messages) == 0 {
		p.log.Info("no new emails found")
		metrics.IncrementPipelineRun("completed")
		return nil
	}

	for _, msg := range messages {
		p.processOne(ctx, msg)
	}

	metrics.IncrementPipelineRun("completed")
	return nil
}

func (p *Pipeline) processOne(ctx context.Context, msg mailbox.Message) {
	key := msg.MessageID
	if key == "" {
		key = fmt.Sprintf("%s|%s|%d", msg.Sender, msg.Subject, msg.Date.Unix())
	}

	if !p.seen.AcquireOnce(ctx, key) {
		p.log.Info("skipping already-seen email", zap.String("subject", msg.Subject))
		metrics.IncrementEmailProcessed("skipped")
		return
	}

	intent := p.gen.ClassifyIntent(ctx, msg.Subject, msg.Body)
	summary := p.gen.Summarize(ctx, msg.Subject, msg.Body)
	draft := p.gen.DraftReply(ctx, msg.Subject, msg.Body, intent, model.ToneFormal, mailbox.ExtractName(msg.Sender))

	record := &model.Email{
		Sender:     mailbox.ExtractAddress(msg.Sender),
		Subject:    msg.Subject,
		Body:       msg.Body,
		Summary:    summary,
		DraftReply: draft,
		Intent:     intent,
		Tone:       model.ToneFormal,
		Status:     model.StatusPending,
		Timestamp:  time.Now(),
	}

	id, err := p.store.Create(ctx, record)
	if err != nil {
		// give the key back so the still-unread message is retried
		// on the next run instead of sitting behind the seen TTL
		p.seen.Release(ctx, key)
		p.log.Error("error persisting email record",
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		metrics.IncrementEmailProcessed("failed")
		return
	}

	if err := p.mailbox.MarkRead(ctx, msg.UID); err != nil {
		// not fatal: the seen guard prevents a duplicate on the next run
		p.log.Warn("failed to mark email as read",
			zap.Uint32("uid", msg.UID),
			zap.Error(err),
		)
	}

	metrics.IncrementEmailProcessed("persisted")
	p.log.Info("processed email",
		zap.Int("id", id),
		zap.String("subject", msg.Subject),
		zap.String("intent", string(intent)),
	)
}
