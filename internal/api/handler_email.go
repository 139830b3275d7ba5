package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailtriage/internal/mailbox"
	"mailtriage/internal/model"
	"mailtriage/internal/repository"
)

// EmailStore is the record store contract the handlers consume.
type EmailStore interface {
	FindByID(ctx context.Context, id int) (*model.Email, error)
	ListByRecency(ctx context.Context) ([]model.Email, error)
	Update(ctx context.Context, id int, draftReply string, tone model.ReplyTone, status model.EmailStatus) error
	UpdateDraft(ctx context.Context, id int, draftReply string, tone model.ReplyTone) error
	MarkSent(ctx context.Context, id int) error
}

// ReplyGenerator covers the operator-facing generation paths.
type ReplyGenerator interface {
	DraftReply(ctx context.Context, subject, body string, intent model.EmailIntent, tone model.ReplyTone, senderName string) string
	ReviseReply(ctx context.Context, original, feedback string) string
}

// ReplySender delivers approved replies.
type ReplySender interface {
	SendReply(ctx context.Context, to, subject, body string) error
}

type EmailHandler struct {
	store  EmailStore
	gen    ReplyGenerator
	sender ReplySender
	log    *zap.Logger
}

func NewEmailHandler(store EmailStore, gen ReplyGenerator, sender ReplySender, log *zap.Logger) *EmailHandler {
	return &EmailHandler{
		store:  store,
		gen:    gen,
		sender: sender,
		log:    log,
	}
}

// Dashboard handles GET /
func (h *EmailHandler) Dashboard(c *gin.Context) {
	emails, err := h.store.ListByRecency(c.Request.Context())
	if err != nil {
		h.log.Error("error loading dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails":         emails,
		"tones":          model.AvailableTones(),
		"intents":        model.AvailableIntents(),
		"status_options": model.StatusOptions(),
	})
}

// GetEmail handles GET /email/:id
func (h *EmailHandler) GetEmail(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	email, ok := h.findRecord(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, email)
}

// UpdateEmail handles POST /update-email/:id
func (h *EmailHandler) UpdateEmail(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	var req struct {
		DraftReply string `json:"draft_reply"`
		Tone       string `json:"tone"`
		Status     string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := validateDraftReply(req.DraftReply); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tone, ok := model.ParseTone(req.Tone)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tone"})
		return
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	// sent is only reachable through the explicit send action
	if status == model.StatusSent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status sent can only be set by sending"})
		return
	}

	record, ok := h.findRecord(c, id)
	if !ok {
		return
	}
	if record.Status == model.StatusSent {
		c.JSON(http.StatusConflict, gin.H{"error": "email already sent"})
		return
	}

	if err := h.store.Update(c.Request.Context(), id, strings.TrimSpace(req.DraftReply), tone, status); err != nil {
		h.storeError(c, err, "error updating email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email updated successfully"})
}

// SendEmail handles POST /send-email/:id
func (h *EmailHandler) SendEmail(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	record, ok := h.findRecord(c, id)
	if !ok {
		return
	}

	if record.Status == model.StatusSent {
		c.JSON(http.StatusConflict, gin.H{"error": "email already sent"})
		return
	}
	if len(strings.TrimSpace(record.DraftReply)) < minReplyLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "draft reply must be at least 10 characters"})
		return
	}

	// claim sent before delivering so a concurrent send loses the race
	// at the store instead of delivering a second copy
	if err := h.store.MarkSent(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrAlreadySent) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already sent"})
			return
		}
		h.storeError(c, err, "error marking email sent")
		return
	}

	if err := h.sender.SendReply(c.Request.Context(), record.Sender, record.Subject, record.DraftReply); err != nil {
		h.log.Error("error sending email", zap.Int("id", id), zap.Error(err))
		// undo the claim so the operator can retry after a delivery failure
		if uerr := h.store.Update(c.Request.Context(), id, record.DraftReply, record.Tone, record.Status); uerr != nil {
			h.log.Error("error reverting sent claim", zap.Int("id", id), zap.Error(uerr))
		}
		var terr *mailbox.TransportError
		if errors.As(err, &terr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}

// RegenerateReply handles POST /regenerate-reply/:id
func (h *EmailHandler) RegenerateReply(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	var req struct {
		Tone string `json:"tone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	tone, ok := model.ParseTone(req.Tone)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tone"})
		return
	}

	record, ok := h.findRecord(c, id)
	if !ok {
		return
	}
	if record.Status == model.StatusSent {
		c.JSON(http.StatusConflict, gin.H{"error": "email already sent"})
		return
	}

	intent := record.Intent
	if intent == "" {
		intent = model.IntentOther
	}

	newReply := h.gen.DraftReply(
		c.Request.Context(),
		record.Subject,
		record.Body,
		intent,
		tone,
		mailbox.ExtractName(record.Sender),
	)

	if len(strings.TrimSpace(newReply)) < minReplyLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "generated reply was too short, try again"})
		return
	}

	if err := h.store.UpdateDraft(c.Request.Context(), id, newReply, tone); err != nil {
		h.storeError(c, err, "error updating regenerated reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Reply regenerated successfully",
		"new_reply": newReply,
	})
}

// ReviseReply handles POST /revise-reply/:id
func (h *EmailHandler) ReviseReply(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Feedback) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedback is required"})
		return
	}

	record, ok := h.findRecord(c, id)
	if !ok {
		return
	}
	if record.Status == model.StatusSent {
		c.JSON(http.StatusConflict, gin.H{"error": "email already sent"})
		return
	}
	if strings.TrimSpace(record.DraftReply) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no draft reply to revise"})
		return
	}

	revised := h.gen.ReviseReply(c.Request.Context(), record.DraftReply, req.Feedback)

	if err := h.store.UpdateDraft(c.Request.Context(), id, revised, record.Tone); err != nil {
		h.storeError(c, err, "error updating revised reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Reply revised successfully",
		"new_reply": revised,
	})
}

func (h *EmailHandler) recordID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email id"})
		return 0, false
	}
	return id, true
}

func (h *EmailHandler) findRecord(c *gin.Context, id int) (*model.Email, bool) {
	record, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
			return nil, false
		}
		h.storeError(c, err, "error loading email")
		return nil, false
	}
	return record, true
}

func (h *EmailHandler) storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		return
	}
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
