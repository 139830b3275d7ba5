package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PipelineRunner triggers intake runs.
type PipelineRunner interface {
	Busy() bool
	ProcessNewEmails(ctx context.Context) error
}

// MailboxPinger checks mail server connectivity.
type MailboxPinger interface {
	Ping(ctx context.Context) error
}

// AIPinger checks generative backend readiness.
type AIPinger interface {
	Ping(ctx context.Context) bool
}

// SchedulerState exposes the running flag for health checks.
type SchedulerState interface {
	Running() bool
}

type PipelineHandler struct {
	pipeline PipelineRunner
	imap     MailboxPinger
	smtp     MailboxPinger
	ai       AIPinger
	sched    SchedulerState
	log      *zap.Logger
}

func NewPipelineHandler(pipeline PipelineRunner, imap, smtp MailboxPinger, ai AIPinger, sched SchedulerState, log *zap.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipeline: pipeline,
		imap:     imap,
		smtp:     smtp,
		ai:       ai,
		sched:    sched,
		log:      log,
	}
}

// ProcessEmails handles POST /process-emails. The run is fire-and-forget:
// the response acknowledges the trigger, not completion.
func (h *PipelineHandler) ProcessEmails(c *gin.Context) {
	if h.pipeline.Busy() {
		c.JSON(http.StatusAccepted, gin.H{"message": "Email processing already in progress"})
		return
	}

	go func() {
		if err := h.pipeline.ProcessNewEmails(context.Background()); err != nil {
			h.log.Error("manual pipeline run failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "Email processing started"})
}

// Health handles GET /health
func (h *PipelineHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	emailOK := h.imap.Ping(ctx) == nil && h.smtp.Ping(ctx) == nil
	aiOK := h.ai.Ping(ctx)
	schedulerOK := h.sched.Running()

	status := "healthy"
	if !emailOK || !aiOK {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"email_client": emailOK,
		"ai_service":   aiOK,
		"scheduler":    schedulerOK,
	})
}
