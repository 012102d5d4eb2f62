package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"Quill/internal/app"
	"Quill/internal/config"
	"Quill/internal/core/media"
	"Quill/internal/core/pagecache"
	"Quill/internal/db/memory"
	"Quill/internal/db/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var repos app.Repositories
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database:", err)
		}
		log.Println("Connected to database")

		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Println("Migrations completed successfully")

		repos = app.PostgresRepositories(db)
	default:
		log.Println("Using in-memory storage, data is lost on restart")
		repos = app.MemoryRepositories(memory.New())
	}

	var pageCache pagecache.Store
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStore, err := pagecache.NewRedisStore(ctx, cfg.RedisURL, logger)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisStore.Close()
		pageCache = redisStore
		log.Println("Page cache backed by Redis")
	} else {
		pageCache = pagecache.NewMemoryStore(time.Now, logger)
	}

	images, err := media.NewDiskStore(cfg.MediaRoot, media.DefaultMaxWidth, logger)
	if err != nil {
		log.Fatal("Failed to prepare media directory:", err)
	}

	site, err := app.New(app.Options{
		Repos:             repos,
		Images:            images,
		PageCache:         pageCache,
		Logger:            logger,
		SessionSecret:     []byte(cfg.SessionSecret),
		StaticDir:         cfg.StaticDir,
		MediaRoot:         images.Root(),
		PostsPerPage:      cfg.PostsPerPage,
		CacheTTL:          cfg.IndexCacheTTL,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		SecureCookies:     cfg.SecureCookies,
		TrustProxy:        cfg.TrustProxy,
		RequestLogging:    true,
	})
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}
	defer site.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           site.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Quill starting on port %s (storage: %s)\n", cfg.Port, cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Graceful shutdown failed:", err)
	}
	log.Println("Server stopped")
}
