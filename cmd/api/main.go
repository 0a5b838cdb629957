package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wekesa360/todohub/internal/auth"
	"github.com/wekesa360/todohub/internal/cache"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/db"
	httpx "github.com/wekesa360/todohub/internal/http"
	"github.com/wekesa360/todohub/internal/observability"
	"github.com/wekesa360/todohub/internal/repo/postgres"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// tracing
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "todohub", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(3 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// storage
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	startupCtx, cancel := config.WithTimeout(10 * time.Second)

	if err := db.Migrate(startupCtx, pool); err != nil {
		cancel()
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(startupCtx, pool, cfg); err != nil {
		cancel()
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}
	cancel()

	// metrics
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// listing cache; disabled when REDIS_ADDR is unset
	lists := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, 30*time.Second)

	defer func() { _ = lists.Close() }()

	if lists != nil {
		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		if err := lists.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, list cache degraded", "err", err)
		}
		cancelPing()
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())

	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Users: postgres.NewUsersRepo(pool, prom),
		Todos: postgres.NewTodosRepo(pool, prom),
		JWT:   jwtManager,
		Lists: lists,
		Prom:  prom,
		Reg:   reg,
		Ping:  ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
