package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mailtriage/internal/ai"
	"mailtriage/internal/api"
	"mailtriage/internal/config"
	"mailtriage/internal/dedupe"
	"mailtriage/internal/mailbox"
	"mailtriage/internal/repository"
	"mailtriage/internal/scheduler"
	"mailtriage/internal/service"
	"mailtriage/pkg/db"
	"mailtriage/pkg/logger"
	"mailtriage/pkg/redisclient"
)

func main() {
	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	pool, err := db.NewPool(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	emailRepo := repository.NewEmailRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	imapClient := mailbox.NewClient(cfg.IMAP, log)
	smtpSender := mailbox.NewSender(cfg.SMTP, log)
	aiClient := ai.NewClient(cfg.AI, log)

	var guard *dedupe.Guard
	if cfg.Redis.Addr != "" {
		rdb := redisclient.New(cfg.Redis)
		guard = dedupe.NewGuard(rdb, 7*24*time.Hour)
	} else {
		log.Warn("redis not configured, duplicate intake protection disabled")
	}

	pipeline := service.NewPipeline(imapClient, aiClient, emailRepo, guard, log)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)

	sched, err := scheduler.New(cfg.Scheduler, func() {
		if err := pipeline.ProcessNewEmails(context.Background()); err != nil {
			log.Error("scheduled pipeline run failed", zap.Error(err))
		}
	}, log)
	if err != nil {
		log.Fatal("failed to build scheduler", zap.Error(err))
	}

	authHandler := api.NewAuthHandler(authService, log)
	emailHandler := api.NewEmailHandler(emailRepo, aiClient, smtpSender, log)
	pipelineHandler := api.NewPipelineHandler(pipeline, imapClient, smtpSender, aiClient, sched, log)
	schedulerHandler := api.NewSchedulerHandler(sched, log)

	router := api.NewRouter(authHandler, emailHandler, pipelineHandler, schedulerHandler, cfg.JWT.Secret, log)

	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			log.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	log.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
