package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-equity/internal/collector"
	"github.com/rxtech-lab/argo-equity/internal/config"
	"github.com/rxtech-lab/argo-equity/internal/strategy/capm"
	"github.com/rxtech-lab/argo-equity/internal/strategy/example"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/internal/version"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML config file",
		Sources: cli.EnvVars("ARGO_EQUITY_CONFIG"),
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cmd.String("config"), cmd.Bool("record-events"))
	if err != nil {
		return err
	}

	options := collector.ReplayOptions{
		BarsPath:         cmd.String("bars"),
		FundamentalsPath: cmd.String("fundamentals"),
		MarketSymbol:     a.config.Collector.MarketSymbol,
		Progress:         os.Stderr,
	}

	if cmd.IsSet("start") {
		options.Start = optional.Some(cmd.Timestamp("start"))
	}

	if cmd.IsSet("end") {
		options.End = optional.Some(cmd.Timestamp("end"))
	}

	source, err := collector.NewReplaySource(options, a.logger)
	if err != nil {
		_ = a.close(context.Background())

		return err
	}
	defer source.Close()

	if err := a.orchestrator.Start(ctx); err != nil {
		_ = a.close(context.Background())

		return err
	}

	published, runErr := source.Run(ctx, a.bus)
	if runErr != nil {
		a.logger.Error("Replay stopped", zap.Error(runErr))
	}

	// State is saved even when the replay was interrupted.
	if err := a.close(context.Background()); err != nil {
		return err
	}

	printSummary(published, a.tally.snapshot())

	return runErr
}

func collectAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cmd.String("config"), cmd.Bool("record-events"))
	if err != nil {
		return err
	}

	apiKey := a.config.Collector.PolygonAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("POLYGON_API_KEY")
	}

	api, err := collector.NewPolygonAPI(apiKey)
	if err != nil {
		_ = a.close(context.Background())

		return err
	}

	if err := a.orchestrator.Start(ctx); err != nil {
		_ = a.close(context.Background())

		return err
	}

	published, runErr := collector.NewPolygonCollector(api, a.config.Collector, a.logger, os.Stderr).Run(ctx, a.bus)
	if runErr != nil {
		a.logger.Error("Collector stopped", zap.Error(runErr))
	}

	if err := a.close(context.Background()); err != nil {
		return err
	}

	printSummary(published, a.tally.snapshot())

	return runErr
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	var (
		schema string
		err    error
	)

	switch kind := cmd.String("strategy"); kind {
	case "":
		schema, err = config.Schema()
	case capm.Kind:
		schema, err = config.ToJSONSchema(capm.DefaultConfig())
	case example.Kind:
		schema, err = config.ToJSONSchema(example.Config{})
	default:
		return errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy kind %q", kind)
	}

	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd.String("config"), false)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	out := cmd.String("out")
	if err := a.store.Export(ctx, out); err != nil {
		return err
	}

	fmt.Printf("Exported %s store to %s\n", a.config.Store.Backend, out)

	return nil
}

func printSummary(published int, counts map[string]map[types.Action]int) {
	fmt.Printf("Published %d events\n", published)

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		actions := counts[name]
		fmt.Printf("%-20s buy=%d exit=%d hold=%d\n", name, actions[types.ActionBuy], actions[types.ActionExit], actions[types.ActionHold])
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "argo-equity",
		Usage:   "Event-driven equity strategy pipeline",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Replay historical bars through the configured strategies",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "bars",
						Aliases:  []string{"b"},
						Usage:    "Parquet file of daily OHLCV bars",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "fundamentals",
						Aliases: []string{"f"},
						Usage:   "JSON file mapping each symbol to its fundamentals",
					},
					&cli.TimestampFlag{
						Name:  "start",
						Usage: "First bar date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:  "end",
						Usage: "Last bar date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.BoolFlag{
						Name:  "record-events",
						Usage: "Write every published event to the store",
					},
				},
				Action: runAction,
			},
			{
				Name:  "collect",
				Usage: "Fetch the configured universe from Polygon and feed it to the strategies",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "record-events",
						Usage: "Write every published event to the store",
					},
				},
				Action: collectAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the config file or of a strategy's params",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: fmt.Sprintf("Strategy kind (%s, %s). Empty prints the config file schema", capm.Kind, example.Kind),
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "export",
				Usage: "Export the store tables to Parquet files",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output directory",
						Required: true,
					},
				},
				Action: exportAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
