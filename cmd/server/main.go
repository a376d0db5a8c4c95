package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/resume-extractor/api/handlers"
	"github.com/feichai0017/resume-extractor/api/middleware"
	"github.com/feichai0017/resume-extractor/api/routes"
	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/internal/agent"
	"github.com/feichai0017/resume-extractor/internal/agent/llm"
	"github.com/feichai0017/resume-extractor/internal/repository"
	"github.com/feichai0017/resume-extractor/internal/service/resume"
	"github.com/feichai0017/resume-extractor/pkg/converters"
	"github.com/feichai0017/resume-extractor/pkg/logger"
	"github.com/feichai0017/resume-extractor/pkg/redis"
	"github.com/feichai0017/resume-extractor/pkg/storage"
	"github.com/feichai0017/resume-extractor/pkg/storage/local"
	"github.com/feichai0017/resume-extractor/pkg/worker"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON or YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel(cfg.Log.Level),
		logger.WithEncoding(cfg.Log.Encoding),
		logger.WithOutputPaths(cfg.Log.OutputPaths),
		logger.WithDevelopment(cfg.Server.Mode == gin.DebugMode),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open database", logger.Error(err))
	}
	defer repo.Close()

	uploads, err := local.NewLocalStorage(cfg.Upload.Dir, log)
	if err != nil {
		log.Fatal("Failed to prepare upload dir", logger.Error(err))
	}

	archive, err := storage.NewArchive(ctx, cfg.Archive, log)
	if err != nil {
		log.Fatal("Failed to initialize archive", logger.Error(err))
	}

	gemini, err := llm.NewGeminiClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create Gemini client", logger.Error(err))
	}

	svc := resume.NewService(
		uploads,
		agent.NewProcessorFactory(log),
		gemini,
		converters.NewJSONConverter(),
		repo,
		archive,
		log,
	)

	var limiter middleware.Limiter
	if cfg.Redis.URL != "" && cfg.RateLimit.PerMinute > 0 {
		rdb, err := redis.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", logger.Error(err))
		}
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.PerMinute, time.Minute)
		log.Info("Upload rate limiting enabled", logger.Int("per_minute", cfg.RateLimit.PerMinute))
	}

	workers := []worker.Worker{
		worker.NewJanitor(uploads, cfg.Upload.Retention, cfg.Upload.SweepInterval, log),
	}
	if archive != nil && cfg.Archive.Retention > 0 {
		workers = append(workers, worker.NewJanitor(archive, cfg.Archive.Retention, cfg.Upload.SweepInterval, log.Named("archive")))
	}
	for _, w := range workers {
		if err := w.Start(ctx); err != nil {
			log.Fatal("Failed to start worker", logger.Error(err))
		}
		defer w.Stop()
	}
	log.Info("Pipeline ready",
		logger.String("model", cfg.Model),
		logger.String("db_driver", cfg.Database.Driver),
		logger.Bool("archive", archive != nil),
		logger.Bool("rate_limit", limiter != nil),
	)

	gin.SetMode(cfg.Server.Mode)
	r, err := routes.NewRouter(handlers.NewHandlers(svc, cfg.Upload.MaxSize, log), cfg, limiter, log)
	if err != nil {
		log.Fatal("Failed to build router", logger.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}
