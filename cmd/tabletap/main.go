package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tabletap/internal/auth"
	"tabletap/internal/config"
	"tabletap/internal/connections/database"
	"tabletap/internal/connections/rabbitmq"
	"tabletap/internal/httpx"
	"tabletap/internal/logger"
	"tabletap/internal/microservices/catalog"
	"tabletap/internal/microservices/ordering"
	"tabletap/internal/microservices/pushgw"
)

func main() {
	mode := flag.String("mode", "", "api-service | push-gateway")
	port := flag.Int("port", 0, "http port")
	cfgPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config found: pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}

	am := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TTL())

	switch *mode {
	case "api-service":
		if *port == 0 {
			*port = 3000
		}
		lg.Info("service_started", map[string]any{"service": "api-service", "port": *port})
		if err := runAPI(ctx, *port, cfg, am); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "push-gateway":
		if *port == 0 {
			*port = 3001
		}
		lg.Info("service_started", map[string]any{"service": "push-gateway", "port": *port})
		if err := runPush(ctx, *port, cfg, am); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api-service | push-gateway")
		os.Exit(2)
	}
}

func runAPI(ctx context.Context, port int, cfg config.App, am *auth.Manager) error {
	lg := logger.New("api-service")

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	rmq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return fmt.Errorf("rabbitmq topology: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/session", auth.SessionHandler(am))
	ordering.Mount(mux, db, rmq, am, lg)
	catalog.Mount(mux, db, am, lg)

	return httpx.New(fmt.Sprintf(":%d", port), mux).Run(ctx)
}

func runPush(ctx context.Context, port int, cfg config.App, am *auth.Manager) error {
	lg := logger.New("push-gateway")

	rmq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return fmt.Errorf("rabbitmq topology: %w", err)
	}

	return pushgw.Run(ctx, port, rmq, am, lg)
}
