package main

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/BenyThomas/mtm-sub002/internal/platform/config"
	"github.com/BenyThomas/mtm-sub002/internal/platform/logger"
	"github.com/BenyThomas/mtm-sub002/internal/proxy"
)

// main wires the development proxy: the platform API path forwarded to a real
// Fineract instance so the client's same-origin fallback works locally.
func main() {
	_ = godotenv.Load()

	cfg := config.ProxyFromEnv()
	log := logger.New()

	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		log.Error("invalid upstream URL", "upstream", cfg.Upstream, "error", err)
		os.Exit(1)
	}

	handler := proxy.New(upstream, log, proxy.WithMetrics(proxy.NewMetrics()))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting dev proxy", "addr", cfg.Addr, "upstream", cfg.Upstream)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down dev proxy gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("dev proxy stopped")
}
