package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rxtech-lab/argo-screener/internal/config"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/version"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	_ "time/tzdata"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "screener",
		Usage:   "Compute technical-analysis signals for a set of instruments",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch bars, compute every configured indicator and write the signal table",
				Flags:  runFlags(),
				Action: runAction,
			},
			{
				Name:   "fetch",
				Usage:  "Download and align the configured bars into a parquet snapshot",
				Flags:  fetchFlags(),
				Action: fetchAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
			{
				Name:   "config",
				Usage:  "Print the default configuration as YAML",
				Action: configAction,
			},
			{
				Name:   "indicators",
				Usage:  "List the available indicators with their default parameters",
				Action: indicatorsAction,
			},
			{
				Name:   "providers",
				Usage:  "List the market data providers",
				Action: providersAction,
			},
		},
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
		},
		&cli.StringSliceFlag{
			Name:    "ticker",
			Aliases: []string{"t"},
			Usage:   "Instrument to screen, repeatable. Replaces the configured tickers",
		},
		&cli.StringFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   fmt.Sprintf("Bar interval (%s)", joinValues(marketdata.Intervals)),
		},
		&cli.StringFlag{
			Name:  "period",
			Usage: fmt.Sprintf("Look-back period (%s)", joinValues(marketdata.Periods)),
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Market data provider (%s)", joinValues(provider.ProviderTypes)),
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Local data file for the duckdb and csv providers",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file, .csv or .xlsx",
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Also write the fetched bars to this parquet file",
		},
		&cli.BoolFlag{
			Name:  "interactive",
			Usage: "Browse the signal table in the terminal after the run",
		},
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.JSONSchemaString()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(cmd), schema)

	return err
}

func configAction(_ context.Context, cmd *cli.Command) error {
	encoder := yaml.NewEncoder(stdout(cmd))
	encoder.SetIndent(2)

	if err := encoder.Encode(config.Default()); err != nil {
		return err
	}

	return encoder.Close()
}

func indicatorsAction(_ context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	for _, ind := range indicator.Defaults() {
		params, err := yaml.Marshal(ind)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s (warm-up %d bars)\n", ind.Name(), ind.WarmUp())

		for _, line := range strings.Split(strings.TrimSpace(string(params)), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	return nil
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			return err
		}

		var needs []string
		if info.RequiresAuth {
			needs = append(needs, "api key")
		}

		if info.RequiresDataPath {
			needs = append(needs, "data path")
		}

		requirement := "no setup"
		if len(needs) > 0 {
			requirement = "needs " + strings.Join(needs, ", ")
		}

		fmt.Fprintf(w, "%-8s %-18s %s (%s)\n", info.Name, info.DisplayName, info.Description, requirement)
	}

	return nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}

	return strings.Join(parts, ", ")
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
