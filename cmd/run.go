package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pixflow/internal/batch"
	"pixflow/internal/config"
	"pixflow/internal/imaging"
	"pixflow/internal/tui"
)

var (
	runOperation   string
	runConcurrency int
	runStrategy    string
	runWindowDelay int
	runFormat      string
	runQuality     int
	runJSON        bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <source>...",
	Short: "Run an image operation over a batch of sources",
	Long: `Run an image operation over a batch of sources.

Sources may be file paths, http(s) URLs, or data:image/ URIs. Individual
failures are reported in the summary; the batch always runs to completion.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(flagConfig)
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		sources, invalid := batch.Classify(args)
		if len(sources) == 0 {
			return fmt.Errorf("no plausible image sources among %d arguments", len(args))
		}
		for _, source := range invalid {
			fmt.Fprintf(os.Stderr, "skipping implausible source: %s\n", source)
		}

		opts := batch.Options{}
		if runFormat != "" {
			opts["targetFormat"] = runFormat
		}
		if cmd.Flags().Changed("quality") {
			opts["quality"] = runQuality
		}

		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		loader := imaging.NewLoader(cfg.HTTPTimeout())
		provider := imaging.NewOps(loader, cfg.JPEGQuality, logger)
		dispatcher := batch.NewDispatcher(provider, logger)
		engine := batch.NewEngine(dispatcher, batch.Config{
			Concurrency: cfg.Concurrency,
			Strategy:    batch.Strategy(cfg.Strategy),
			WindowDelay: cfg.WindowDelay(),
		}, logger)

		op := batch.Operation(runOperation)
		ctx := context.Background()

		var summary batch.Summary
		if runJSON {
			summary = engine.Run(ctx, sources, op, opts)
		} else {
			summary = runWithTUI(ctx, engine, sources, op, opts)
		}

		if runJSON {
			encoded, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(encoded))
			return nil
		}

		fmt.Fprintln(os.Stdout, tui.RenderSummary(summary))
		if failures := tui.RenderFailures(summary); failures != "" {
			fmt.Fprintln(os.Stdout, failures)
		}
		return nil
	},
}

// runWithTUI bridges the engine's progress sink to the bubbletea model.
func runWithTUI(ctx context.Context, engine *batch.Engine, sources []string, op batch.Operation, opts batch.Options) batch.Summary {
	events := make(chan batch.ProgressEvent, 64)
	model := tui.NewModel(events, string(op))
	program := tea.NewProgram(model)

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(uiDone)
	}()

	summary := engine.RunWithProgress(ctx, sources, op, opts, tui.ProgressSink(events, uiDone))
	close(events)
	<-uiDone

	return summary
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = runStrategy
	}
	if cmd.Flags().Changed("window-delay") {
		cfg.WindowDelayMs = runWindowDelay
	}
	if cmd.Flags().Changed("quality") {
		cfg.JPEGQuality = runQuality
	}
}

func init() {
	runCmd.Flags().StringVar(&runOperation, "op", "analyze", "operation: analyze, compress, convert, extract_colors")
	runCmd.Flags().IntVarP(&runConcurrency, "concurrency", "c", 3, "max operations in flight (1-10 recommended)")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "window", "scheduling strategy: window or pool")
	runCmd.Flags().IntVar(&runWindowDelay, "window-delay", 100, "pause between windows in milliseconds")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "target format for convert")
	runCmd.Flags().IntVarP(&runQuality, "quality", "q", 75, "JPEG encode quality (1-100)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit the summary as JSON instead of the TUI")

	rootCmd.AddCommand(runCmd)
}
