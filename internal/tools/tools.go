package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/motorsport-web/internal/motorsport"
	"github.com/leonardcser/motorsport-web/internal/pages"
	"github.com/leonardcser/motorsport-web/internal/scrape"
)

// Handler is the mcp-go tool handler signature.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// NewsHandler returns the MCP tool handler for the "f1-news" tool.
func NewsHandler(data pages.Provider) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		news, err := data.News(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := req.GetInt("limit", 10)
		if limit > 0 && len(news) > limit {
			news = news[:limit]
		}
		return mcp.NewToolResultText(formatNews(news)), nil
	}
}

// ScheduleHandler returns the MCP tool handler for the "f1-schedule" tool.
func ScheduleHandler(data pages.Provider) Handler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sch, err := data.Schedule(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatSchedule(sch)), nil
	}
}

// LastRaceHandler returns the MCP tool handler for the "f1-last-race" tool.
func LastRaceHandler(data pages.Provider) Handler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lr, err := data.LastRace(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatLastRace(lr)), nil
	}
}

// WatchHandler returns the MCP tool handler for the "watch-latest" tool.
func WatchHandler(data pages.Provider) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("series")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		series, err := motorsport.ParseSeries(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		v, err := data.Video(ctx, series)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("no %s video available (%s): %v", series, scrape.KindOf(err), err)), nil
		}
		return mcp.NewToolResultText(v.EmbedURL()), nil
	}
}

func formatNews(news scrape.Headlines) string {
	if len(news) == 0 {
		return "No news."
	}
	var sb strings.Builder
	for i, h := range news {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, h)
	}
	return sb.String()
}

func formatSchedule(sch scrape.Schedule) string {
	if len(sch) == 0 {
		return "No races scheduled."
	}
	var sb strings.Builder
	for i, e := range sch {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Round %s: %s, %s (%s)", e.Round, e.GrandPrix, e.Circuit, e.Date)
	}
	return sb.String()
}

// formatLastRace renders one line per classified driver, finishing order first.
func formatLastRace(lr scrape.LastRace) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(lr.RaceName)
	if len(lr.Results) == 0 {
		sb.WriteString("\n\nNo results.")
		return sb.String()
	}
	sb.WriteString("\n")
	for _, r := range lr.Results {
		fmt.Fprintf(&sb, "\n%-4s %s (championship P%s, %s pts)", r.LastRaceResult, r.Driver, r.Position, r.Points)
	}
	return sb.String()
}
