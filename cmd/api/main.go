package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/terryberlin/carbonmenu/api/routes"
	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/internal/resolve"
	"github.com/terryberlin/carbonmenu/pkg/config"
	"github.com/terryberlin/carbonmenu/pkg/logger"
	"github.com/terryberlin/carbonmenu/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal(context.Background(), "failed to load config", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	snapshot, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		logg.Fatal(context.Background(), "failed to load menu snapshot", err)
	}

	cat, err := catalog.Build(snapshot)
	if err != nil {
		logg.Fatal(context.Background(), "menu snapshot failed integrity check", err)
	}

	engine := resolve.New(cat)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Fatal(context.Background(), "failed to bootstrap redis", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithMenuVersion(context.Background(), cfg.Menu.Version)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"items": len(snapshot.Items),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, cat, engine, redisClient, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(ctx, "api server stopped unexpectedly", err)
	}
}
