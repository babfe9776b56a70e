package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-screener/internal/config"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// fetchAction downloads and aligns the configured bars into a parquet
// snapshot without computing signals. The snapshot can be screened later
// with the duckdb provider.
func fetchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFlags(cfg, cmd)

	if cfg.Output.Snapshot == "" {
		return fmt.Errorf("a snapshot path is required, set --snapshot or output.snapshot")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	baseLogger, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer baseLogger.Sync() //nolint:errcheck

	log := baseLogger.WithRun(uuid.NewString())

	supplier, err := marketdata.NewSupplierFromConfig(cfg.SupplierConfig(), log)
	if err != nil {
		return err
	}

	dataset, err := supplier.Fetch(ctx, cfg.FetchParams())
	if err != nil {
		log.Error("Fetch failed", zap.Error(err))

		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(stdout(cmd), "Wrote %d bars per instrument for %d instruments to %s\n",
		dataset.Len(), len(dataset.Instruments), cfg.Output.Snapshot)

	return nil
}

func fetchFlags() []cli.Flag {
	var flags []cli.Flag

	for _, flag := range runFlags() {
		switch flag.Names()[0] {
		case "output", "interactive":
			continue
		}

		flags = append(flags, flag)
	}

	return flags
}
