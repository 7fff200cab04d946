package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leonardcser/motorsport-web/internal/cache"
	"github.com/leonardcser/motorsport-web/internal/config"
	"github.com/leonardcser/motorsport-web/internal/logger"
	"github.com/leonardcser/motorsport-web/internal/motorsport"
	"github.com/leonardcser/motorsport-web/internal/pages"
	"github.com/leonardcser/motorsport-web/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	logger.SetLevel(cfg.Log.Level)
	if cfg.Log.Path != "" {
		err = logger.Init(cfg.Log.Path)
	} else {
		err = logger.InitFromEnv()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting motorsport web server")

	logger.Infof("Attempting to connect to cache daemon at %s", cfg.Cache.Socket)
	kv, err := cache.ConnectOrSpawn(cfg.Cache.Socket, *configPath, 5*time.Second, cfg.Cache.TTL)
	if err == nil {
		logger.Infof("Successfully connected to cache daemon")
	}

	svc := motorsport.New(web.NewFetcher(cfg.HTTP.Timeout), kv, cfg)
	renderer, err := pages.NewRenderer(svc)
	if err != nil {
		logger.Errorf("templates: %v", err)
		panic(err)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           renderer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server error: %v", err)
	}
	logger.Infof("Server stopped")
}
