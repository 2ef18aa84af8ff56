package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var progressModes = []string{progressOff, progressFold, progressSymbol, progressBar}

// runAction loads the configuration, applies the flags and runs the backtest.
func runAction(ctx context.Context, cmd *cli.Command) error {
	content, err := readConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	overrides, err := buildOverrides(cmd)
	if err != nil {
		return err
	}

	backtester := enginev1.NewBacktestEngineV1()
	if err := backtester.Initialize(content, overrides); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if cmd.Bool("dry-run") {
		described, err := backtester.DescribeConfig()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.Root().Writer, described)

		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := newProgressReporter(cmd.String("progress"), cmd.Root().ErrWriter)

	results, err := backtester.Run(ctx, reporter.Callbacks())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.Root().ErrWriter, "Backtest stopped by user")

			return nil
		}

		return fmt.Errorf("backtest failed: %w", err)
	}

	fmt.Fprintln(cmd.Root().Writer, RenderSummary(results))

	return nil
}

// schemaAction prints the configuration schema, or writes it together with a
// sample configuration when --output is given.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := enginev1.DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	dir := cmd.String("output")
	if dir == "" {
		fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return nil
	}

	schemaName := "backtest-engine-v1-config.json"
	schemaPath := filepath.Join(dir, schemaName)
	sampleConfigPath := filepath.Join(dir, "backtest-engine-v1-config.yaml")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	// an existing sample config is left untouched
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)
		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config to file: %w", err)
		}
	}

	fmt.Fprintf(cmd.Root().Writer, "Schema written to %s\n", schemaPath)

	return nil
}

func readConfig(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}

	return string(content), nil
}

// buildOverrides maps the flags that were set on the command line to engine
// overrides. Unset flags leave the configuration file values in place.
func buildOverrides(cmd *cli.Command) (engine.Overrides, error) {
	var overrides engine.Overrides

	if cmd.IsSet("mode") {
		overrides.Mode = optional.Some(cmd.String("mode"))
	}

	if cmd.IsSet("oos_last_k_months") {
		overrides.OOSLastKMonths = optional.Some(int(cmd.Int("oos_last_k_months")))
	}

	if cmd.IsSet("walkforward") {
		overrides.WalkForward = optional.Some(cmd.String("walkforward"))
	}

	if cmd.IsSet("data-root") {
		overrides.DataRoot = optional.Some(cmd.String("data-root"))
	}

	if cmd.IsSet("outputs-dir") {
		overrides.OutputsDir = optional.Some(cmd.String("outputs-dir"))
	}

	if cmd.IsSet("workers") {
		overrides.Workers = optional.Some(int(cmd.Int("workers")))
	}

	if cmd.IsSet("log-level") {
		overrides.LogLevel = optional.Some(cmd.String("log-level"))
	}

	overrides.Symbols = parseSymbols(cmd.String("symbols"))

	for _, f := range []struct {
		name string
		dst  *optional.Option[time.Time]
	}{
		{"start", &overrides.Start},
		{"end", &overrides.End},
	} {
		if !cmd.IsSet(f.name) {
			continue
		}

		ts, err := datasource.ParseTimestamp(cmd.String(f.name))
		if err != nil {
			return engine.Overrides{}, fmt.Errorf("invalid --%s: %w", f.name, err)
		}

		*f.dst = optional.Some(ts)
	}

	return overrides, nil
}

// parseSymbols splits a comma separated list, dropping blanks.
func parseSymbols(value string) []string {
	var symbols []string

	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	return symbols
}

func oneOf(name string, allowed []string) func(string) error {
	return func(v string) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("--%s must be one of %s", name, strings.Join(allowed, ", "))
		}

		return nil
	}
}

func positive(name string) func(int64) error {
	return func(v int64) error {
		if v <= 0 {
			return fmt.Errorf("--%s must be positive", name)
		}

		return nil
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Replay historical bars through the pullback strategy",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the YAML configuration `FILE`",
					},
					&cli.StringFlag{
						Name:      "mode",
						Aliases:   []string{"m"},
						Usage:     "Run mode: insample, oos or walkforward",
						Validator: oneOf("mode", []string{string(enginev1.ModeInSample), string(enginev1.ModeOOS), string(enginev1.ModeWalkForward)}),
					},
					&cli.IntFlag{
						Name:      "oos_last_k_months",
						Usage:     "Number of trailing months evaluated in oos mode",
						Validator: positive("oos_last_k_months"),
					},
					&cli.StringFlag{
						Name:  "walkforward",
						Usage: "Walk-forward layout `train=N,test=N,step=N`; implies --mode walkforward",
					},
					&cli.StringFlag{
						Name:    "symbols",
						Aliases: []string{"s"},
						Usage:   "Comma separated symbols, e.g. BTCUSDT,ETHUSDT",
					},
					&cli.StringFlag{
						Name:  "start",
						Usage: "Inclusive UTC start, `YYYY-MM-DD` or ISO-8601 or epoch",
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "Exclusive UTC end, `YYYY-MM-DD` or ISO-8601 or epoch",
					},
					&cli.StringFlag{
						Name:    "data-root",
						Aliases: []string{"d"},
						Usage:   "Root directory holding <symbol>/ data folders",
					},
					&cli.StringFlag{
						Name:    "outputs-dir",
						Aliases: []string{"o"},
						Usage:   "Directory receiving backtest artifacts and logs",
					},
					&cli.IntFlag{
						Name:      "workers",
						Aliases:   []string{"w"},
						Usage:     "Number of symbols simulated in parallel",
						Validator: positive("workers"),
					},
					&cli.StringFlag{
						Name:      "progress",
						Usage:     "Progress display: off, fold, symbol or bar",
						Value:     progressSymbol,
						Validator: oneOf("progress", progressModes),
					},
					&cli.StringFlag{
						Name:      "log-level",
						Usage:     "Log level: debug, info, warn or error",
						Validator: oneOf("log-level", []string{"debug", "info", "warn", "error"}),
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the resolved backtest settings and exit",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Print the configuration JSON schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the schema and a sample config to `DIR` instead of stdout",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
