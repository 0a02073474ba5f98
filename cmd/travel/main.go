package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/you/go-travel-flights/internal/cli"
	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	svc, err := service.FromConfig(cfg)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cfg, svc, os.Args[1:])
	stop()
	os.Exit(code)
}
