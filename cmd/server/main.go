package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/httpx"
	"github.com/you/go-travel-flights/internal/service"
)

func main() {

	// Loading config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Search service around the configured provider
	searchSvc, err := service.FromConfig(cfg)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpx.NewRouter(cfg, searchSvc),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0, // SSE and WebSocket streams stay open
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on %s using %s provider", srv.Addr, searchSvc.ProviderName())
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			log.Println("TLS enabled")
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
