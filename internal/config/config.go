// Package config loads the front end's YAML settings and applies
// environment overrides on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvConfigPath = "MOTORSPORT_CONFIG"
	EnvListen     = "MOTORSPORT_LISTEN"
	EnvLogPath    = "MOTORSPORT_LOG"
	EnvLogLevel   = "MOTORSPORT_LOG_LEVEL"
	EnvCacheSock  = "MOTORSPORT_CACHE_SOCK"
	EnvCacheDB    = "MOTORSPORT_CACHE_DB"
	EnvYouTubeKey = "YOUTUBE_API_KEY"
)

type Config struct {
	Listen  string  `yaml:"listen"`
	Log     Log     `yaml:"log"`
	Cache   Cache   `yaml:"cache"`
	HTTP    HTTP    `yaml:"http"`
	Sources Sources `yaml:"sources"`
	Video   Video   `yaml:"video"`
}

type Log struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type Cache struct {
	Socket string        `yaml:"socket"`
	DB     string        `yaml:"db"`
	Bucket string        `yaml:"bucket"`
	TTL    time.Duration `yaml:"ttl"`
}

type HTTP struct {
	Timeout time.Duration `yaml:"timeout"`
}

type Sources struct {
	NewsURL      string `yaml:"news_url"`
	ScheduleURL  string `yaml:"schedule_url"`
	StandingsURL string `yaml:"standings_url"`
}

type Video struct {
	RutubeBase    string `yaml:"rutube_base"`
	F1Channel     int64  `yaml:"f1_channel"`
	WRCChannel    int64  `yaml:"wrc_channel"`
	YouTubeSearch string `yaml:"youtube_search"`
	YouTubeQuery  string `yaml:"youtube_query"`
	YouTubeAPIKey string `yaml:"youtube_api_key"`
	// Offset is the index of the entry picked from a channel listing. The
	// first entry on these channels is usually pinned, hence the default 1.
	Offset int `yaml:"offset"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Listen: ":5000",
		Log:    Log{Level: "info"},
		Cache: Cache{
			Socket: filepath.Join(cacheDir(), "cache.sock"),
			DB:     filepath.Join(cacheDir(), "cache.bbolt"),
			Bucket: "motorsport",
			TTL:    time.Hour,
		},
		HTTP: HTTP{Timeout: 10 * time.Second},
		Sources: Sources{
			NewsURL:      "https://sportrbc.ru/formula1/",
			ScheduleURL:  "https://en.wikipedia.org/wiki/2026_Formula_One_World_Championship",
			StandingsURL: "https://en.wikipedia.org/wiki/2025_Formula_One_World_Championship",
		},
		Video: Video{
			RutubeBase:    "https://rutube.ru/api/video/person/",
			F1Channel:     34418531,
			WRCChannel:    46309562,
			YouTubeSearch: "https://www.googleapis.com/youtube/v3/search",
			YouTubeQuery:  "FIAWEC",
			Offset:        1,
		},
	}
}

// Load reads path (or $MOTORSPORT_CONFIG when path is empty) over the
// defaults and then applies environment overrides. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override(&cfg.Listen, EnvListen)
	override(&cfg.Log.Path, EnvLogPath)
	override(&cfg.Log.Level, EnvLogLevel)
	override(&cfg.Cache.Socket, EnvCacheSock)
	override(&cfg.Cache.DB, EnvCacheDB)
	override(&cfg.Video.YouTubeAPIKey, EnvYouTubeKey)
}

func override(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is empty")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache ttl %s is negative", c.Cache.TTL)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("config: http timeout %s must be positive", c.HTTP.Timeout)
	}
	if c.Video.Offset < 0 {
		return fmt.Errorf("config: video offset %d is negative", c.Video.Offset)
	}
	return nil
}

func cacheDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "motorsport-web")
}
