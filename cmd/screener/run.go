package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-screener/internal/config"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/screener"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-screener/pkg/output"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// runAction loads the configuration, fetches and aligns the bars, computes
// the signal table and exports it. Nothing is written unless every step
// succeeds.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFlags(cfg, cmd)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	baseLogger, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer baseLogger.Sync() //nolint:errcheck

	log := baseLogger.WithRun(uuid.NewString())

	table, err := runPipeline(ctx, cfg, log)
	if err != nil {
		log.Error("Screener run failed", zap.Error(err))

		return err
	}

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	fmt.Fprint(stdout(cmd), output.RenderTail(table, cfg.Output.Tail, location))

	if cmd.Bool("interactive") {
		program := tea.NewProgram(NewModel(table, location), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("interactive browser failed: %w", err)
		}
	}

	return nil
}

// runPipeline is the Supplier, screener and writer chain of one run.
func runPipeline(ctx context.Context, cfg *config.Config, log *logger.Logger) (*screener.SignalTable, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	supplier, err := marketdata.NewSupplierFromConfig(cfg.SupplierConfig(), log)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(cfg.Tickers),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	supplier.WithProgress(func(ticker string, fetched int, _ int) {
		bar.Describe(fmt.Sprintf("Fetched %s", ticker))
		_ = bar.Set(fetched)
	})

	started := time.Now()

	dataset, err := supplier.Fetch(ctx, cfg.FetchParams())
	_ = bar.Finish()

	if err != nil {
		return nil, err
	}

	table, err := screener.NewScreener(registry, log).Run(ctx, dataset.Instruments, dataset.Series)
	if err != nil {
		return nil, err
	}

	writer, err := output.NewTableWriter(cfg.Output.Path, cfg.Output.Header, supplier.Location())
	if err != nil {
		return nil, err
	}

	if err := writer.Write(table); err != nil {
		return nil, err
	}

	log.Info("Signals written",
		zap.String("path", cfg.Output.Path),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return table, nil
}

// applyFlags overrides the loaded configuration with the flags that were set.
func applyFlags(cfg *config.Config, cmd *cli.Command) {
	if tickers := cmd.StringSlice("ticker"); len(tickers) > 0 {
		cfg.Tickers = tickers
	}

	if cmd.IsSet("interval") {
		cfg.Interval = marketdata.Interval(cmd.String("interval"))
	}

	if cmd.IsSet("period") {
		cfg.Period = marketdata.Period(cmd.String("period"))
	}

	if cmd.IsSet("provider") {
		cfg.Provider.Type = provider.ProviderType(cmd.String("provider"))
	}

	if cmd.IsSet("data") {
		cfg.Provider.DataPath = cmd.String("data")
	}

	if cmd.IsSet("output") {
		cfg.Output.Path = cmd.String("output")
	}

	if cmd.IsSet("snapshot") {
		cfg.Output.Snapshot = cmd.String("snapshot")
	}
}
