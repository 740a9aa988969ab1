package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playgrid/relay-service/config"
	"github.com/playgrid/relay-service/internal/logger"
	"github.com/playgrid/relay-service/internal/random"
	redisx "github.com/playgrid/relay-service/internal/redis"
	"github.com/playgrid/relay-service/internal/service"
	httpx "github.com/playgrid/relay-service/internal/transport/http"
	"github.com/playgrid/relay-service/internal/transport/ws"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting relay-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- player store ---
	rdb, err := redisx.NewClient(redisx.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	playerRepo := redisx.NewPlayerRepository(rdb)

	// --- core ---
	registry := service.NewRegistry()
	roomSvc := service.NewRoomService(cfg.Room.Capacity, cfg.Room.CodeLength, random.New())
	relaySvc := service.NewRelayService(registry, roomSvc, playerRepo)

	// --- transport ---
	wsServer := ws.NewServer(relaySvc)
	handler := httpx.NewHandler(registry, roomSvc)
	router := httpx.NewRouter(handler, wsServer)

	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
