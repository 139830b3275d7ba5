package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailtriage/internal/scheduler"
)

// SchedulerController is the controller contract the handlers consume.
type SchedulerController interface {
	Start() error
	Stop()
	Restart() error
	Running() bool
	Status() scheduler.Status
}

type SchedulerHandler struct {
	ctrl SchedulerController
	log  *zap.Logger
}

func NewSchedulerHandler(ctrl SchedulerController, log *zap.Logger) *SchedulerHandler {
	return &SchedulerHandler{ctrl: ctrl, log: log}
}

// Status handles GET /scheduler/status
func (h *SchedulerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Status())
}

// Start handles POST /scheduler/start
func (h *SchedulerHandler) Start(c *gin.Context) {
	if h.ctrl.Running() {
		c.JSON(http.StatusOK, gin.H{"message": "Scheduler is already running"})
		return
	}

	if err := h.ctrl.Start(); err != nil {
		h.log.Error("error starting scheduler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error starting scheduler"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scheduler started successfully"})
}

// Stop handles POST /scheduler/stop
func (h *SchedulerHandler) Stop(c *gin.Context) {
	if !h.ctrl.Running() {
		c.JSON(http.StatusOK, gin.H{"message": "Scheduler is not running"})
		return
	}

	h.ctrl.Stop()
	c.JSON(http.StatusOK, gin.H{"message": "Scheduler stopped successfully"})
}

// Restart handles POST /scheduler/restart
func (h *SchedulerHandler) Restart(c *gin.Context) {
	if err := h.ctrl.Restart(); err != nil {
		h.log.Error("error restarting scheduler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error restarting scheduler"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scheduler restarted successfully"})
}
