package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hibiken/asynq"

	"github.com/Mboiraai/rork-automarketconnect/internal/api"
	"github.com/Mboiraai/rork-automarketconnect/internal/cache"
	"github.com/Mboiraai/rork-automarketconnect/internal/config"
	"github.com/Mboiraai/rork-automarketconnect/internal/obs"
	"github.com/Mboiraai/rork-automarketconnect/internal/seed"
	"github.com/Mboiraai/rork-automarketconnect/internal/services"
	"github.com/Mboiraai/rork-automarketconnect/internal/storage"
	"github.com/Mboiraai/rork-automarketconnect/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'img' (image processing), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := obs.NewLogger(cfg.AppEnv)
	slog.SetDefault(logger)

	// Redis is mandatory for the redis storage backend and the worker modes;
	// otherwise the process runs fine without it.
	redisRequired := cfg.StorageBackend == config.BackendRedis ||
		cfg.RunMode == "bg" || cfg.RunMode == "img"

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		if redisRequired {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.Warn("Redis unavailable, continuing without cache and task queue", "error", err)
		redisClient = nil
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			logger.Error("error disconnecting from Redis", "error", err)
		}
	}()

	// Key-value persistence backend
	var kv storage.IKeyValueStore
	switch cfg.StorageBackend {
	case config.BackendRedis:
		kv = storage.NewRedisStore(redisClient)
	default:
		fileStore, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
		kv = fileStore
	}

	// Task Client
	var taskClient *asynq.Client
	if redisClient != nil {
		taskClient = tasks.NewClient(redisClient)
		defer taskClient.Close()
	}

	// Persistence path: slice writes ride the task queue when a bg worker runs
	// in this process, otherwise the in-process write queue handles them.
	var persister services.Persister
	var queuedPersister *services.QueuedPersister
	if taskClient != nil && cfg.RunMode == "all" {
		persister = tasks.NewAsynqPersister(taskClient, logger)
	} else {
		queuedPersister = services.NewQueuedPersister(kv, logger)
		persister = queuedPersister
	}

	// Marketplace store: seed, then hydrate persisted slices.
	currentUser := seed.CurrentUser()
	store := services.NewMarketplaceStore(services.StoreSeed{
		CurrentUser:   &currentUser,
		Users:         seed.Users(),
		Listings:      append(seed.CarListings(), seed.PartListings()...),
		Conversations: seed.Conversations(),
		Messages:      seed.Messages(),
	}, kv, persister, logger)

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Hydrate(hydrateCtx); err != nil {
		logger.Warn("hydration incomplete, continuing with seed data", "error", err)
	}
	cancelHydrate()

	// S3 image pipeline, only when configured.
	var s3Storage storage.IS3Storage
	var s3Client *awss3.Client
	if cfg.ImagesEnabled() {
		s3Storage, s3Client, err = storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	}

	taskProcessor := tasks.NewTaskProcessor(cfg, kv, store, s3Client, logger)

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server
	var imageTaskSrv *asynq.Server

	logger.Info("starting application", "mode", cfg.RunMode)

	apiMode := func() {
		mainApiRouter := api.SetupRouter(cfg, store, s3Storage, taskClient, redisClient, logger)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("API listening", "port", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("API ListenAndServe error: %v", err)
			}
			logger.Info("API server stopped")
		}()
	}

	bgMode := func() {
		if redisClient == nil {
			logger.Warn("background worker skipped, Redis not available")
			return
		}
		srv, mux := tasks.SetupServer(redisClient, taskProcessor, false, true)
		if srv == nil {
			return
		}
		backgroundTaskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("background task server starting")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("Background task server error: %v", err)
			}
			logger.Info("background task server stopped")
		}()
	}

	imgMode := func() {
		if redisClient == nil || s3Client == nil {
			logger.Warn("image worker skipped, Redis or S3 not configured")
			return
		}
		srv, mux := tasks.SetupServer(redisClient, taskProcessor, true, false)
		if srv == nil {
			return
		}
		imageTaskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("image processing server starting")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("Image processing server error: %v", err)
			}
			logger.Info("image processing server stopped")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "img":
		imgMode()
	case "all":
		apiMode()
		bgMode()
		imgMode()
	default:
		log.Fatalf("Invalid run mode specified: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("received signal, shutting down gracefully", "signal", sig.String())

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}

	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}
	if imageTaskSrv != nil {
		imageTaskSrv.Shutdown()
	}

	// Let queued slice writes land before the process exits.
	if queuedPersister != nil {
		if err := queuedPersister.Stop(ctxShutdown); err != nil {
			logger.Error("persister did not drain in time", "error", err)
		}
	}

	wg.Wait()
	logger.Info("server gracefully stopped")
}
