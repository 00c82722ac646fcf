// Command rhbench drives rhmap workloads and reports throughput and probe
// statistics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/theflywheel/rhmap/internal/config"
	"github.com/theflywheel/rhmap/internal/logger"
	"github.com/theflywheel/rhmap/rawalloc"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML or JSON config file.",
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Directory backing files are created in.",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set the log level.  One of: debug, info, warn, error.",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output logs and results as JSON.",
		},
		&cli.IntFlag{
			Name:    "keys",
			Aliases: []string{"n"},
			Usage:   "Number of keys in the workload.",
		},
		&cli.IntFlag{
			Name:  "capacity",
			Usage: "Initial bucket count.",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Write the result summary to this file as JSON.",
		},
	}
}

// env is what every subcommand runs with once flags and config are merged.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func setup(cmd *cli.Command) (*env, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("path") {
		cfg.Backing.Path = cmd.String("path")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.Bool("json") {
		cfg.Log.Format = logger.FormatJSON
	}
	if cmd.IsSet("keys") {
		cfg.Bench.Keys = int(cmd.Int("keys"))
	}
	if cmd.IsSet("capacity") {
		cfg.Bench.Capacity = int(cmd.Int("capacity"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lvl, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.WithLevel(lvl), logger.WithFormat(cfg.Log.Format))
	if err != nil {
		return nil, err
	}

	rawalloc.Init(rawalloc.Config{Path: cfg.Backing.Path, Logger: log})
	log.Debug("configured", "backing", cfg.Backing.Path, "keys", cfg.Bench.Keys, "capacity", cfg.Bench.Capacity)

	return &env{cfg: cfg, log: log}, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "rhbench",
		Usage: "Exercise rhmap maps and sets backed by memory-mapped buckets",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			mapCommand(),
			setCommand(),
			compareCommand(),
		},
	}
}

func main() {
	app := newApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
