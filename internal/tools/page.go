package tools

import (
	"bytes"
	"context"

	"github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/motorsport-web/internal/pages"
)

// PageHandler returns the MCP tool handler for the "motorsport-page" tool:
// the named site page rendered and converted to Markdown.
func PageHandler(r *pages.Renderer) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		name, err := req.RequireString("page")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var buf bytes.Buffer
		if err := r.Render(ctx, name, &buf); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		markdown, err := htmltomarkdown.ConvertString(buf.String())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(markdown), nil
	}
}
