package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/motorsport-web/internal/motorsport"
	"github.com/leonardcser/motorsport-web/internal/pages"
	"github.com/leonardcser/motorsport-web/internal/scrape"
)

type stubProvider struct{}

func (stubProvider) News(context.Context) (scrape.Headlines, error) {
	return scrape.Headlines{"One", "Two", "Three"}, nil
}

func (stubProvider) Schedule(context.Context) (scrape.Schedule, error) {
	return scrape.Schedule{{Round: "1", GrandPrix: "Australian Grand Prix", Circuit: "Albert Park", Date: "8 March"}}, nil
}

func (stubProvider) LastRace(context.Context) (scrape.LastRace, error) {
	return scrape.ErrorLastRace(), scrape.NetworkError(scrape.SourceLastRace, context.DeadlineExceeded)
}

func (stubProvider) Video(_ context.Context, s motorsport.Series) (motorsport.Video, error) {
	if s == motorsport.SeriesWRC {
		return motorsport.Video{Series: s}, scrape.EmptyError(scrape.SourceRutube)
	}
	return motorsport.Video{Series: s, ID: "vid"}, nil
}

func call(t *testing.T, h Handler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in %+v", res.Content)
	return ""
}

func TestNewsHandler_Limit(t *testing.T) {
	res := call(t, NewsHandler(stubProvider{}), map[string]any{"limit": float64(2)})
	got := resultText(t, res)
	if got != "1. One\n2. Two" {
		t.Fatalf("text = %q", got)
	}
}

func TestScheduleHandler(t *testing.T) {
	got := resultText(t, call(t, ScheduleHandler(stubProvider{}), nil))
	if got != "Round 1: Australian Grand Prix, Albert Park (8 March)" {
		t.Fatalf("text = %q", got)
	}
}

func TestLastRaceHandler_Error(t *testing.T) {
	res := call(t, LastRaceHandler(stubProvider{}), nil)
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if !strings.Contains(resultText(t, res), "network") {
		t.Errorf("error should name the failure kind: %q", resultText(t, res))
	}
}

func TestWatchHandler(t *testing.T) {
	h := WatchHandler(stubProvider{})
	if got := resultText(t, call(t, h, map[string]any{"series": "WEC"})); got != "https://www.youtube.com/embed/vid" {
		t.Errorf("wec = %q", got)
	}
	if res := call(t, h, map[string]any{"series": "wrc"}); !res.IsError {
		t.Error("absent video should be a tool error")
	}
	if res := call(t, h, map[string]any{"series": "indycar"}); !res.IsError {
		t.Error("unknown series should be a tool error")
	}
	if res := call(t, h, nil); !res.IsError {
		t.Error("missing series should be a tool error")
	}
}

func TestFormatLastRace(t *testing.T) {
	got := formatLastRace(scrape.LastRace{RaceName: "2025 Abu Dhabi", Results: []scrape.RaceResultEntry{
		{Position: "2", Driver: "Max Verstappen", LastRaceResult: "1", Points: "421"},
	}})
	want := "# 2025 Abu Dhabi\n\n1    Max Verstappen (championship P2, 421 pts)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPageHandler(t *testing.T) {
	r, err := pages.NewRenderer(stubProvider{})
	if err != nil {
		t.Fatal(err)
	}
	h := PageHandler(r)
	got := resultText(t, call(t, h, map[string]any{"page": "schedule"}))
	if !strings.Contains(got, "Albert Park") || strings.Contains(got, "<main>") {
		t.Fatalf("markdown = %q", got)
	}
	if res := call(t, h, map[string]any{"page": "admin"}); !res.IsError {
		t.Error("unknown page should be a tool error")
	}
}
