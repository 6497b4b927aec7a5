package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zizouhuweidi/qna/internal/cache"
	"github.com/zizouhuweidi/qna/internal/config"
	"github.com/zizouhuweidi/qna/internal/database"
	"github.com/zizouhuweidi/qna/internal/domain"
	"github.com/zizouhuweidi/qna/internal/handler"
	"github.com/zizouhuweidi/qna/internal/repository/memory"
	"github.com/zizouhuweidi/qna/internal/repository/postgres"
	"github.com/zizouhuweidi/qna/internal/service"
	"github.com/zizouhuweidi/qna/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	ctx := context.Background()

	// Initialize the question store
	var repo domain.QuestionRepository
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			logrus.Fatalf("Failed to create schema: %v", err)
		}
		repo = postgres.NewRepository(pool, cfg.QueryTimeout)

	default:
		store := memory.NewStore()
		if cfg.SeedFile != "" {
			store, err = memory.LoadSeed(cfg.SeedFile)
			if err != nil {
				logrus.Fatalf("Failed to load seed file: %v", err)
			}
		}
		logrus.WithField("questions", store.Len()).Info("using in-memory store")
		repo = store
	}

	// Initialize the Redis read-through cache
	if cfg.RedisEnabled {
		redisClient, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		repo = cache.NewRepository(repo, cache.NewManager(redisClient, cfg.CacheTTL))
	}

	// Initialize websocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Initialize services and handlers
	questionService := service.NewQuestionService(repo, hub)

	e := handler.NewRouter(
		handler.NewQuestionHandler(questionService),
		handler.NewAnswerHandler(questionService),
		handler.NewWebSocketHandler(hub),
	)

	// Start server
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Port,
			"backend": cfg.StoreBackend,
			"cache":   cfg.RedisEnabled,
		}).Info("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	logrus.Info("server stopped")
}
