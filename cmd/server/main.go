package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hekaya/internal/analyzer"
	"hekaya/internal/cache"
	"hekaya/internal/config"
	"hekaya/internal/database"
	"hekaya/internal/handlers"
	"hekaya/internal/logger"
	"hekaya/internal/models"
	"hekaya/internal/repository"
	"hekaya/internal/scheduler"
	"hekaya/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()
	log.Info("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	log.Info("migrations completed")

	store := newCache(cfg, log)
	defer store.Close()

	// Repositories
	memberRepo := repository.NewMemberRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	// Services
	wordAnalyzer := analyzer.New()
	achievementService := service.NewAchievementService(
		models.DefaultCatalog(), achievementRepo, statsRepo, store, cfg.CacheTTL, log)
	statsService := service.NewStatsService(
		statsRepo, memberRepo, storyRepo, achievementService, store, cfg.CacheTTL, log)
	rankingService := service.NewRankingService(
		statsRepo, achievementRepo, store, cfg.CacheTTL, log)
	storyService := service.NewStoryService(
		storyRepo, wordAnalyzer, store, cfg.CacheTTL, log)

	// Background leaderboard warm
	warm, err := scheduler.New(rankingService, cfg.WarmInterval, log)
	if err != nil {
		log.Fatal("failed to create scheduler", "error", err)
	}
	warm.Start()
	defer warm.Stop()

	router := handlers.NewRouter(handlers.Handlers{
		Members:      handlers.NewMemberHandler(memberRepo, log),
		Stats:        handlers.NewStatsHandler(statsService, log),
		Achievements: handlers.NewAchievementHandler(achievementService, log),
		Ranking:      handlers.NewRankingHandler(rankingService, log),
		Stories:      handlers.NewStoryHandler(storyService, log),
		Health:       handlers.NewHealthHandler(db, store),
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}

// newCache connects to Redis when an address is configured and falls back
// to the in-process cache otherwise.
func newCache(cfg *config.Config, log *logger.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info("using in-memory cache")
		return cache.NewMemory()
	}

	store, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory cache", "error", err)
		return cache.NewMemory()
	}
	log.Info("redis cache connected", "addr", cfg.RedisAddr)
	return store
}
