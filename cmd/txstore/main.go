// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/txstore"
	"github.com/poiesic/txstore/config"
	"github.com/poiesic/txstore/ingestion"
)

const (
	storeSequence = "sequence"
	storeChain    = "chain"
	storeBoth     = "both"
)

var errInvalidStore = errors.New("store must be one of sequence, chain, both")

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	defaults := config.DefaultConfig()
	return &cli.App{
		Name:      "txstore",
		Usage:     "Load a transaction dataset into sequence and chain stores and query both",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   defaults.LogLevel,
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the transaction dataset CSV",
				Value:   defaults.DataPath,
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of rows to load (0 loads all)",
				Value:   defaults.Limit,
			},
			&cli.IntFlag{
				Name:  "capacity",
				Usage: "Initial capacity of the sequence store",
				Value: defaults.InitialCapacity,
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Store to query (sequence, chain, both)",
				Value: storeBoth,
			},
			&cli.IntFlag{
				Name:  "show",
				Usage: "Number of sample rows to print",
				Value: defaults.ShowRows,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "group",
				Usage:  "Group transactions by payment channel",
				Action: withDataset(runGroup),
				Flags:  groupFlags(),
			},
			{
				Name:   "sort",
				Usage:  "Sort a copy of the loaded transactions by location",
				Action: withDataset(runSort),
			},
			{
				Name:   "search",
				Usage:  "Search transactions by type",
				Action: withDataset(runSearch),
				Flags:  searchFlags(),
			},
			{
				Name:   "export",
				Usage:  "Export withdrawal, card and all transactions from both stores",
				Action: withDataset(runExport),
				Flags:  exportFlags(defaults),
			},
			{
				Name:   "fraud",
				Usage:  "List fraudulent transactions",
				Action: withDataset(runFraud),
				Flags:  fraudFlags(),
			},
			{
				Name:   "all",
				Usage:  "Run group, sort, search, export and fraud on a single load",
				Action: withDataset(runAll),
				Flags:  slices.Concat(groupFlags(), searchFlags(), exportFlags(defaults), fraudFlags()),
			},
			{
				Name:   "stats",
				Usage:  "Show fraud statistics",
				Action: withDataset(runStats),
			},
			{
				Name:   "header",
				Usage:  "Check the CSV header and column mapping",
				Action: headerCommand,
			},
			{
				Name:   "parity",
				Usage:  "Verify both stores sort to identical sequences",
				Action: withDataset(runParity),
			},
		},
	}
}

func groupFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "channel",
			Usage: "Payment channel to group by (repeatable)",
			Value: cli.NewStringSlice("card", "wire_transfer", "mobile_payment", "online_banking"),
		},
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "type",
			Usage: "Transaction type to search for (repeatable)",
			Value: cli.NewStringSlice("withdrawal", "transfer", "payment", "deposit"),
		},
	}
}

func exportFlags(defaults *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output directory",
			Value:   defaults.OutputDir,
		},
		&cli.StringSliceFlag{
			Name:  "format",
			Usage: "Export format: json, json.gz, mus, badger (repeatable)",
			Value: cli.NewStringSlice(defaults.Formats...),
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of concurrent export workers",
			Value: defaults.Workers,
		},
	}
}

func fraudFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Print the raw fraud flag distribution",
		},
	}
}

func setupLogger(c *cli.Context) error {
	cfg := config.NewConfig(config.WithLogLevel(c.String("log-level")))
	cfg.Normalize()

	logger, err := cfg.Logger(c.App.ErrWriter)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	return nil
}

// loadConfig builds and validates the configuration from global and
// command flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	opts := []config.Option{
		config.WithDataPath(c.String("data")),
		config.WithLimit(c.Int("limit")),
		config.WithInitialCapacity(c.Int("capacity")),
		config.WithShowRows(c.Int("show")),
		config.WithLogLevel(c.String("log-level")),
	}
	if c.IsSet("out") {
		opts = append(opts, config.WithOutputDir(c.String("out")))
	}
	if formats := c.StringSlice("format"); len(formats) > 0 {
		opts = append(opts, config.WithFormats(formats...))
	}
	if c.IsSet("workers") {
		opts = append(opts, config.WithWorkers(c.Int("workers")))
	}

	cfg := config.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func storeSelection(c *cli.Context) (string, error) {
	s := strings.ToLower(c.String("store"))
	switch s {
	case storeSequence, storeChain, storeBoth:
		return s, nil
	}
	return "", fmt.Errorf("%w: got %q", errInvalidStore, s)
}

// datasetAction is a command body that works on a loaded dataset.
type datasetAction func(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error

// withDataset returns an action that loads the dataset and passes it to fn.
func withDataset(fn datasetAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		return loadAndRun(c, fn)
	}
}

func loadAndRun(c *cli.Context, fn datasetAction) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	d, err := txstore.Open(c.Context, cfg.DataPath,
		txstore.WithCapacity(cfg.InitialCapacity),
		txstore.WithLimit(cfg.Limit),
		txstore.WithLogger(slog.Default()),
		txstore.WithProgress(c.App.ErrWriter, ingestion.DefaultProgressInterval),
	)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	defer d.Release()

	return fn(c, cfg, d)
}
