package mcpserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/render"
)

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func requireString(args map[string]any, key string) (string, error) {
	v := stringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func boolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// optionalString returns nil when key is absent so callers can tell
// "leave alone" from "set to empty".
func optionalString(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func optionalInt(args map[string]any, key string) *int {
	v, ok := args[key].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

// objectArg accepts either a JSON object or a string holding one.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var out map[string]any
		if err := parseJSON(v, &out); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %w", key, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a JSON object", key)
	}
}

func boolPtr(v bool) *bool { return &v }

// blockSummary is the compact view of a block used in listings.
type blockSummary struct {
	ID      string           `json:"id"`
	Type    domain.BlockType `json:"type"`
	Summary string           `json:"summary,omitempty"`
	Columns [][]blockSummary `json:"columns,omitempty"`
}

func summarizeBlocks(blocks domain.BlockList) []blockSummary {
	out := make([]blockSummary, len(blocks))
	for i, b := range blocks {
		out[i] = summarizeBlock(b)
	}
	return out
}

func summarizeBlock(b domain.Block) blockSummary {
	s := blockSummary{ID: b.BlockID(), Type: b.Kind()}
	switch v := b.(type) {
	case domain.ButtonBlock:
		s.Summary = v.Text
	case domain.HeaderBlock:
		s.Summary = v.BrandName
	case domain.ImageBlock:
		s.Summary = v.Src
	case domain.ColumnsBlock:
		for _, col := range v.Content {
			s.Columns = append(s.Columns, summarizeBlocks(col))
		}
	default:
		if content, ok := domain.ContentOf(b); ok {
			s.Summary = truncate(content.PlainText(), 80)
		}
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func parseViewport(s string) (render.Viewport, error) {
	switch render.Viewport(s) {
	case "", render.Desktop:
		return render.Desktop, nil
	case render.Mobile:
		return render.Mobile, nil
	}
	return "", fmt.Errorf("viewport must be %q or %q", render.Desktop, render.Mobile)
}
