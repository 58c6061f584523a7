// Package mcpadapter exposes sentiment analysis as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
)

const (
	ToolAnalyze      = "analyze_sentiment"
	ToolAnalyzeBatch = "analyze_sentiment_batch"

	maxBatchTexts = 1000
)

type Handlers struct {
	analyzer ports.SentimentAnalyzer
}

func NewHandlers(analyzer ports.SentimentAnalyzer) *Handlers {
	return &Handlers{analyzer: analyzer}
}

// NewServer registers the analysis tools on a new MCP server.
func NewServer(name, version string, analyzer ports.SentimentAnalyzer) *server.MCPServer {
	h := NewHandlers(analyzer)
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolAnalyze,
		mcp.WithDescription("Classify the sentiment of a text as positive, negative or neutral with confidence, keywords and an explanation."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to analyze")),
		mcp.WithString("source", mcp.Description("Optional label for where the text came from")),
	), h.Analyze)

	s.AddTool(mcp.NewTool(ToolAnalyzeBatch,
		mcp.WithDescription("Analyze several texts in order and return per-text results with a summary."),
		mcp.WithArray("texts",
			mcp.Required(),
			mcp.Description("Texts to analyze"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("source", mcp.Description("Optional label applied to every result")),
	), h.AnalyzeBatch)

	return s
}

func (h *Handlers) Analyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	source := request.GetString("source", "")

	return jsonResult(h.analyzer.Analyze(ctx, text, source))
}

func (h *Handlers) AnalyzeBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	texts := request.GetStringSlice("texts", nil)
	if len(texts) == 0 {
		return mcp.NewToolResultError("texts are required"), nil
	}
	if len(texts) > maxBatchTexts {
		return mcp.NewToolResultError(fmt.Sprintf("at most %d texts per call", maxBatchTexts)), nil
	}
	source := request.GetString("source", "")

	items := make([]domain.BatchItem, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError(fmt.Sprintf("texts[%d] is blank", i)), nil
		}
		items = append(items, domain.BatchItem{Text: text, Source: source})
	}

	results, err := h.analyzer.AnalyzeBatch(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}
	return jsonResult(struct {
		Results []domain.SentimentResult `json:"results"`
		Summary domain.Summary           `json:"summary"`
	}{
		Results: results,
		Summary: domain.Summarize(results),
	})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
