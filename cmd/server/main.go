package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roadmap-service/internal/config"
	"roadmap-service/internal/handler"
	"roadmap-service/internal/httpserver"
	"roadmap-service/internal/repository"
	"roadmap-service/internal/service/dashboard"
	"roadmap-service/pkg/db"
	"roadmap-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting roadmap-service...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("http_port", cfg.Server.Port),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	memberRepo := repository.NewMemberRepository(dbConn, log)
	goalRepo := repository.NewGoalRepository(dbConn, log)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	ideaRepo := repository.NewIdeaRepository(dbConn, log)
	commentRepo := repository.NewCommentRepository(dbConn, log)

	dashboardService := dashboard.NewService(goalRepo, memberRepo, ideaRepo, log)

	handlers := httpserver.Handlers{
		Goals:      handler.NewGoalHandler(goalRepo, log),
		Milestones: handler.NewMilestoneHandler(milestoneRepo, goalRepo, log),
		Tasks:      handler.NewTaskHandler(taskRepo, milestoneRepo, memberRepo, log),
		Members:    handler.NewMemberHandler(memberRepo, log),
		Ideas:      handler.NewIdeaHandler(ideaRepo, commentRepo, log),
		Dashboard:  handler.NewDashboardHandler(dashboardService, log),
	}
	if cfg.Server.EnableTestEndpoints {
		adminRepo := repository.NewAdminRepository(dbConn, log)
		handlers.Admin = handler.NewAdminHandler(adminRepo, log)
	}

	router := httpserver.NewRouter(handlers, log, dbConn, cfg.Server.EnableTestEndpoints)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("roadmap-service is fully initialized and running",
		zap.String("http_port", cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down roadmap-service gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	dbConn.Close()
	log.Info("roadmap-service shutdown complete")
}
