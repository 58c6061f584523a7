package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/sentiment-analyzer/internal/adapters/mcp"
	"github.com/kirillkom/sentiment-analyzer/internal/bootstrap"
	"github.com/kirillkom/sentiment-analyzer/internal/config"
	"github.com/kirillkom/sentiment-analyzer/internal/observability/logging"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger := logging.NewConsoleLogger("mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	analyzer, closeAnalyzer, err := bootstrap.NewAnalyzer(context.Background(), cfg, nil)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer closeAnalyzer()

	s := mcpadapter.NewServer("sentiment-analyzer", version, analyzer)
	logger.Info("mcp_serving_stdio", "provider", cfg.NLPProvider)
	if err := server.ServeStdio(s); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
