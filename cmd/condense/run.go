package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/condense/internal/config"
	"github.com/fyrsmithlabs/condense/internal/extract"
	"github.com/fyrsmithlabs/condense/internal/logging"
	"github.com/fyrsmithlabs/condense/internal/telemetry"
	"github.com/fyrsmithlabs/condense/pkg/reduce"
)

// settings aggregates all configuration sections.
type settings struct {
	Engine    reduce.Config    `koanf:"engine"`
	Extract   extract.Config   `koanf:"extract"`
	Logging   logging.Config   `koanf:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

func defaultSettings() settings {
	return settings{
		Engine:    reduce.DefaultConfig(),
		Extract:   extract.DefaultConfig(),
		Logging:   logging.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
	}
}

var (
	flagConfig      string
	flagQuery       string
	flagJSON        bool
	flagLevels      bool
	flagProgress    bool
	flagProvider    string
	flagBudget      int
	flagMaxDepth    int
	flagSeparator   string
	flagOversized   string
	flagConsolidate string
)

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Condense items from files or stdin",
	Long: `Condense context items against a query.

Each file argument becomes one item. With no arguments, items are read
from stdin separated by blank lines.

Examples:
  # Condense three documents
  condense run --query "deployment issues" a.txt b.txt c.txt

  # Condense stdin, one item per blank-line-separated block
  cat notes.txt | condense run --query "open questions"

  # Full machine-readable output with per-level results
  condense run --query q --json --levels a.txt`,
	RunE: runCondense,
}

func init() {
	runCmd.Flags().StringVar(&flagConfig, "config", "", "config file path (default ~/.config/condense/config.yaml)")
	runCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "query to extract against (required)")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "emit the full result as JSON")
	runCmd.Flags().BoolVar(&flagLevels, "levels", false, "retain per-level results (implies more memory)")
	runCmd.Flags().BoolVar(&flagProgress, "progress", false, "print progress to stderr")
	runCmd.Flags().StringVar(&flagProvider, "provider", "", "extraction provider (extractive, openai, noop)")
	runCmd.Flags().IntVar(&flagBudget, "budget", 0, "max context characters per batch")
	runCmd.Flags().IntVar(&flagMaxDepth, "max-depth", -1, "max recursion depth")
	runCmd.Flags().StringVar(&flagSeparator, "separator", "", "separator between items in a batch")
	runCmd.Flags().StringVar(&flagOversized, "oversized", "", "oversized item strategy (split, truncate, skip, fail)")
	runCmd.Flags().StringVar(&flagConsolidate, "consolidate", "", "consolidation strategy (concatenate, weighted, deduplicate)")
	_ = runCmd.MarkFlagRequired("query")
}

func runCondense(cmd *cobra.Command, args []string) error {
	cfg := defaultSettings()
	if err := config.Load(flagConfig, &cfg); err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	metrics, err := reduce.NewMetrics(tel.Meter(reduce.InstrumentationName))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	extractor, err := extract.New(cfg.Extract)
	if err != nil {
		return err
	}

	opts := []reduce.Option{
		reduce.WithLogger(logger),
		reduce.WithMetrics(metrics),
	}
	if flagLevels {
		opts = append(opts, reduce.WithLevelResults())
	}
	if flagProgress {
		opts = append(opts, reduce.WithProgress(reduce.ProgressFunc(printProgress)))
	}

	processor, err := reduce.New(cfg.Engine, extractor, opts...)
	if err != nil {
		return err
	}

	items, err := collectItems(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result, err := processor.Process(ctx, items, flagQuery)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result)
}

// applyFlagOverrides copies explicitly set flags over loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *settings) {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Extract.Provider = flagProvider
	}
	if flags.Changed("budget") {
		cfg.Engine.MaxContextChars = flagBudget
	}
	if flags.Changed("max-depth") {
		cfg.Engine.MaxRecursionDepth = flagMaxDepth
	}
	if flags.Changed("separator") {
		cfg.Engine.Separator = flagSeparator
	}
	if flags.Changed("oversized") {
		cfg.Engine.Oversized = reduce.OversizedStrategy(flagOversized)
	}
	if flags.Changed("consolidate") {
		cfg.Engine.Consolidation = reduce.ConsolidationStrategy(flagConsolidate)
	}
}

// collectItems reads one item per file argument, or blank-line-separated
// items from stdin when no files are given.
func collectItems(args []string, stdin io.Reader) ([]reduce.Item, error) {
	if len(args) > 0 {
		items := make([]reduce.Item, 0, len(args))
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			items = append(items, reduce.LeafItem{
				Content:  string(content),
				Metadata: map[string]any{"source": path},
			})
		}
		return items, nil
	}
	return readItems(stdin)
}

// readItems splits input into items at blank lines.
func readItems(r io.Reader) ([]reduce.Item, error) {
	var items []reduce.Item
	var block strings.Builder

	flush := func() {
		text := strings.TrimSpace(block.String())
		if text != "" {
			items = append(items, reduce.LeafItem{Content: text})
		}
		block.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block.WriteString(line)
		block.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	flush()
	return items, nil
}

func printProgress(info reduce.ProgressInfo) {
	switch info.Stage {
	case reduce.StageExtracting:
		fmt.Fprintf(os.Stderr, "level %d: batch %d/%d\n", info.RecursionLevel, info.BatchIndex+1, info.BatchCount)
	default:
		fmt.Fprintf(os.Stderr, "%s (level %d)\n", info.Stage, info.RecursionLevel)
	}
}

func writeResult(w io.Writer, result *reduce.ProcessingResult) error {
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := fmt.Fprintln(w, result.FinalResult.Content)
	return err
}
