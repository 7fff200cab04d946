package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leonardcser/motorsport-web/internal/cache"
	"github.com/leonardcser/motorsport-web/internal/config"
	"github.com/leonardcser/motorsport-web/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := initLogger(cfg); err != nil {
		panic(err)
	}
	defer logger.Close()

	_ = os.MkdirAll(filepath.Dir(cfg.Cache.DB), 0o755)
	store, err := cache.Open(cfg.Cache.DB, cache.Options{Bucket: cfg.Cache.Bucket, DefaultTTL: cfg.Cache.TTL})
	if err != nil {
		logger.Errorf("open cache db %s: %v", cfg.Cache.DB, err)
		panic(err)
	}
	defer store.Close()

	l, err := cache.Listen(cfg.Cache.Socket)
	if err != nil {
		logger.Errorf("listen on %s: %v", cfg.Cache.Socket, err)
		panic(err)
	}
	logger.Infof("Cache daemon serving %s on %s", cfg.Cache.DB, cfg.Cache.Socket)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		_ = l.Close()
	}()

	if err := cache.Serve(l, store); err != nil {
		logger.Errorf("cache daemon: %v", err)
	}
	_ = os.Remove(cfg.Cache.Socket)
	logger.Infof("Cache daemon stopped")
}

func initLogger(cfg config.Config) error {
	logger.SetLevel(cfg.Log.Level)
	if cfg.Log.Path != "" {
		return logger.Init(cfg.Log.Path)
	}
	return logger.InitFromEnv()
}
