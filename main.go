package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-house/internal/biddingService"
	"auction-house/internal/cache"
	"auction-house/internal/config"
	"auction-house/internal/database"
	"auction-house/internal/imagestore"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
		utils.Warn("invalid LOG_LEVEL, keeping default", map[string]any{"level": cfg.LogLevel})
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		utils.Fatal("failed to open repository", map[string]any{"driver": cfg.DBDriver, "error": err.Error()})
	}
	defer closeRepo()

	store, closeStore, err := openCacheStore(ctx, cfg)
	if err != nil {
		utils.Fatal("failed to open cache store", map[string]any{"backend": cfg.CacheBackend, "error": err.Error()})
	}
	defer closeStore()

	images, err := openImageStore(ctx, cfg)
	if err != nil {
		utils.Fatal("failed to configure image store", map[string]any{"bucket": cfg.S3Bucket, "error": err.Error()})
	}

	active := cache.NewActiveAuctions(store, repo, nil)
	biddingSvc := bidding.NewBiddingService(repo,
		bidding.WithActiveCache(active),
		bidding.WithImageStore(images),
		bidding.WithOwnerBidRule(cfg.EnforceOwnerBidRule()),
	)

	if err := biddingSvc.SeedCategories(ctx, cfg.SeedCategories); err != nil {
		utils.Fatal("failed to seed categories", map[string]any{"error": err.Error()})
	}
	if err := active.Rebuild(ctx); err != nil {
		utils.Warn("initial active auctions rebuild failed", map[string]any{"error": err.Error()})
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.SetupRouter(biddingSvc, []byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{
			"addr":        srv.Addr,
			"environment": cfg.Environment,
			"db_driver":   cfg.DBDriver,
			"cache":       cfg.CacheBackend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("server stopped unexpectedly", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down auction server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openRepository returns the auction store selected by DB_DRIVER and its close function
func openRepository(cfg *config.Config) (repository.AuctionDB, func(), error) {
	if cfg.DBDriver == "memory" {
		return repository.NewMemoryRepo(), func() {}, nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			utils.Warn("failed to close database", map[string]any{"error": err.Error()})
		}
	}
	return repository.NewGormRepo(db), closeDB, nil
}

// openCacheStore returns the snapshot store selected by CACHE_BACKEND
func openCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.CacheBackend != "redis" {
		return cache.NewMemoryStore(), func() {}, nil
	}

	store, err := cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			utils.Warn("failed to close redis client", map[string]any{"error": err.Error()})
		}
	}
	return store, closeStore, nil
}

// openImageStore uses S3 when a bucket is configured
func openImageStore(ctx context.Context, cfg *config.Config) (imagestore.ImageStore, error) {
	if cfg.S3Bucket == "" {
		return imagestore.NopStore{}, nil
	}
	return imagestore.NewS3Store(ctx, imagestore.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
}
