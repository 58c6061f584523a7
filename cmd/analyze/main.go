package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kirillkom/sentiment-analyzer/internal/bootstrap"
	"github.com/kirillkom/sentiment-analyzer/internal/config"
	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/core/ports"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/export"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/extractor"
	"github.com/kirillkom/sentiment-analyzer/internal/observability/logging"
)

type cliOptions struct {
	format     string
	outputPath string
	workers    int
	provider   string
	logLevel   string
	inputs     []string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.format, "format", "json", "Output format: "+strings.Join(export.Default().Formats(), ", "))
	flag.StringVar(&opts.outputPath, "output", "", "File to write results to (default: stdout)")
	flag.IntVar(&opts.workers, "workers", 0, "Concurrent batch workers (default: BATCH_WORKERS)")
	flag.StringVar(&opts.provider, "provider", "", "Model provider: huggingface, vader or none (default: NLP_PROVIDER)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (default: LOG_LEVEL)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [FILE...]\n\nWithout files, one text per line is read from stdin.\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.provider = strings.ToLower(strings.TrimSpace(opts.provider))
	opts.inputs = flag.Args()

	if _, err := export.Default().Get(opts.format); err != nil {
		flag.Usage()
		return opts, err
	}
	for _, input := range opts.inputs {
		if !extractor.Supported(input) {
			return opts, fmt.Errorf("unsupported input file %q", input)
		}
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg := config.Load()
	if opts.workers > 0 {
		cfg.BatchWorkers = opts.workers
	}
	if opts.provider != "" {
		cfg.NLPProvider = opts.provider
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	slog.SetDefault(logging.NewConsoleLogger("analyze", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := readItems(opts.inputs)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no texts to analyze")
	}

	analyzer, closeAnalyzer, err := bootstrap.NewAnalyzer(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	results, err := analyzer.AnalyzeBatch(ctx, items)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	summary := domain.Summarize(results)
	slog.Info("analysis_completed",
		"total", summary.Total,
		"positive", summary.Positive,
		"negative", summary.Negative,
		"neutral", summary.Neutral,
		"average_confidence", summary.AverageConfidence,
	)

	return writeResults(opts, results)
}

func readItems(inputs []string) ([]domain.BatchItem, error) {
	if len(inputs) == 0 {
		return readLines(os.Stdin)
	}

	var items []domain.BatchItem
	for _, input := range inputs {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		parsed, err := extractor.Parse(input, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", input, err)
		}
		items = append(items, parsed...)
	}
	return items, nil
}

func readLines(r io.Reader) ([]domain.BatchItem, error) {
	var items []domain.BatchItem
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, domain.BatchItem{Text: line, Source: "stdin"})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return items, nil
}

func writeResults(opts cliOptions, results []domain.SentimentResult) error {
	exporter, err := export.Default().Get(opts.format)
	if err != nil {
		return err
	}

	if opts.outputPath == "" {
		if err := exporter.Export(os.Stdout, results); err != nil {
			return fmt.Errorf("export %s: %w", opts.format, err)
		}
		return nil
	}

	f, err := os.Create(opts.outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return exportTo(f, exporter, opts.format, results)
}

// exportTo writes results and closes w. A failed close means the file may be
// truncated, so it is reported like a failed write.
func exportTo(w io.WriteCloser, exporter ports.ResultExporter, format string, results []domain.SentimentResult) error {
	if err := exporter.Export(w, results); err != nil {
		_ = w.Close()
		return fmt.Errorf("export %s: %w", format, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
