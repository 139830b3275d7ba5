package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	emailHandler *EmailHandler,
	pipelineHandler *PipelineHandler,
	schedulerHandler *SchedulerHandler,
	jwtSecret string,
	log *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), Metrics())

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/", emailHandler.Dashboard)
	r.GET("/email/:id", emailHandler.GetEmail)
	r.GET("/health", pipelineHandler.Health)
	r.GET("/scheduler/status", schedulerHandler.Status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/process-emails", pipelineHandler.ProcessEmails)
		auth.POST("/update-email/:id", emailHandler.UpdateEmail)
		auth.POST("/send-email/:id", emailHandler.SendEmail)
		auth.POST("/regenerate-reply/:id", emailHandler.RegenerateReply)
		auth.POST("/revise-reply/:id", emailHandler.ReviseReply)
		auth.POST("/scheduler/start", schedulerHandler.Start)
		auth.POST("/scheduler/stop", schedulerHandler.Stop)
		auth.POST("/scheduler/restart", schedulerHandler.Restart)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
