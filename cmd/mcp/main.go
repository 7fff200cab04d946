package main

import (
	"flag"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/motorsport-web/internal/cache"
	"github.com/leonardcser/motorsport-web/internal/config"
	"github.com/leonardcser/motorsport-web/internal/logger"
	"github.com/leonardcser/motorsport-web/internal/motorsport"
	"github.com/leonardcser/motorsport-web/internal/pages"
	"github.com/leonardcser/motorsport-web/internal/tools"
	"github.com/leonardcser/motorsport-web/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	// stdout carries the MCP stream, so never log there.
	logger.SetLevel(cfg.Log.Level)
	switch cfg.Log.Path {
	case "":
		err = logger.InitFromEnv()
	case "stdout":
		err = logger.Init("stderr")
	default:
		err = logger.Init(cfg.Log.Path)
	}
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting motorsport MCP server")

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

	s := server.NewMCPServer(
		"Motorsport",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("f1-news",
		mcp.WithDescription(multiline(
			"Latest Formula 1 headlines from sportrbc.ru (in Russian)",
			"- Cached for up to an hour",
		)),
		mcp.WithNumber("limit", mcp.Description("Maximum number of headlines, default 10")),
	), tools.NewsHandler(svc))

	s.AddTool(mcp.NewTool("f1-schedule",
		mcp.WithDescription("Current Formula 1 season calendar: round, grand prix, circuit and date"),
	), tools.ScheduleHandler(svc))

	s.AddTool(mcp.NewTool("f1-last-race",
		mcp.WithDescription(multiline(
			"Classification of the most recent Formula 1 race",
			"- Finishers first by position, then retirements and non-starters",
			"- Includes each driver's championship position and points",
		)),
	), tools.LastRaceHandler(svc))

	s.AddTool(mcp.NewTool("watch-latest",
		mcp.WithDescription("Embed URL of the latest broadcast for a series"),
		mcp.WithString("series", mcp.Required(), mcp.Enum("f1", "wrc", "wec"), mcp.Description("Series to look up")),
	), tools.WatchHandler(svc))

	s.AddTool(mcp.NewTool("motorsport-page",
		mcp.WithDescription("Renders a page of the motorsport site and returns it as Markdown"),
		mcp.WithString("page", mcp.Required(),
			mcp.Enum(pages.PageIndex, pages.PageAbout, pages.PageF1, pages.PageWRC, pages.PageWEC, pages.PageSchedule),
			mcp.Description("Page to render")),
	), tools.PageHandler(renderer))
	logger.Infof("Registered MCP tools")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
