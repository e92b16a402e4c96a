package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/txstore"
	"github.com/poiesic/txstore/config"
	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/export"
	"github.com/poiesic/txstore/ingestion"
	"github.com/poiesic/txstore/report"
	"github.com/poiesic/txstore/storage"
)

const (
	labelSequence = "Array"
	labelChain    = "Linked List"
)

var errParityMismatch = errors.New("stores diverge after sorting")

// eachStore calls fn for each store picked by --store.
func eachStore(c *cli.Context, d *txstore.Dataset, fn func(label string, s storeView) error) error {
	which, err := storeSelection(c)
	if err != nil {
		return err
	}
	if which != storeChain {
		if err := fn(labelSequence, viewOf(d.Sequence())); err != nil {
			return err
		}
	}
	if which != storeSequence {
		if err := fn(labelChain, viewOf(d.Chain())); err != nil {
			return err
		}
	}
	return nil
}

// storeView erases the concrete store type so commands can treat both
// backings alike.
type storeView struct {
	storage.Reader
	groupBy    func(core.Field, string) storage.Reader
	searchBy   func(string) storage.Reader
	fraudulent func() storage.Reader
	sorted     func() storage.Reader
}

func viewOf[S storage.Store[S]](s S) storeView {
	return storeView{
		Reader: s,
		groupBy: func(f core.Field, v string) storage.Reader {
			return s.GroupBy(f, v)
		},
		searchBy: func(v string) storage.Reader {
			return s.SearchByType(v)
		},
		fraudulent: func() storage.Reader {
			return s.Fraudulent()
		},
		sorted: func() storage.Reader {
			c := s.Clone()
			c.SortByLocation()
			return c
		},
	}
}

func runGroup(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	w := c.App.Writer
	return eachStore(c, d, func(label string, s storeView) error {
		fmt.Fprintf(w, "\n=== Group by payment channel (%s) ===\n", label)
		for _, channel := range c.StringSlice("channel") {
			start := time.Now()
			grouped := s.groupBy(core.FieldPaymentChannel, channel)
			fmt.Fprintf(w, "\n%s: %s transactions (%s)\n", channel, count(grouped.Len()), elapsed(time.Since(start)))
			printRecords(w, grouped, cfg.ShowRows)
		}
		return nil
	})
}

func runSort(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	w := c.App.Writer
	return eachStore(c, d, func(label string, s storeView) error {
		fmt.Fprintf(w, "\n=== Sort by location (%s) ===\n", label)
		fmt.Fprintln(w, "\nBefore sorting:")
		printRecords(w, s, cfg.ShowRows)

		start := time.Now()
		sorted := s.sorted()
		fmt.Fprintf(w, "\nAfter sorting (%s records in %s):\n", count(sorted.Len()), elapsed(time.Since(start)))
		printRecords(w, sorted, cfg.ShowRows)
		return nil
	})
}

func runSearch(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	w := c.App.Writer
	return eachStore(c, d, func(label string, s storeView) error {
		fmt.Fprintf(w, "\n=== Search by transaction type (%s) ===\n", label)
		for _, kind := range c.StringSlice("type") {
			start := time.Now()
			found := s.searchBy(kind)
			fmt.Fprintf(w, "\n%s: %s transactions (%s)\n", kind, count(found.Len()), elapsed(time.Since(start)))
			printRecords(w, found, cfg.ShowRows)
		}
		return nil
	})
}

func runExport(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	which, err := storeSelection(c)
	if err != nil {
		return err
	}

	formats := make([]export.Format, 0, len(cfg.Formats))
	for _, name := range cfg.Formats {
		f, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	var jobs []export.Job
	for _, job := range d.ExportJobs(cfg.OutputDir, formats...) {
		if selected(which, job.Name) {
			jobs = append(jobs, job)
		}
	}

	runner, err := export.NewRunner(export.WithWorkers(cfg.Workers), export.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	results, runErr := runner.Run(c.Context, jobs)

	manifestPath, err := export.WriteManifest(cfg.OutputDir, export.NewManifest(results))
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("write manifest: %w", err))
	}

	printResults(c.App.Writer, results)
	fmt.Fprintf(c.App.Writer, "\nManifest written to %s\n", manifestPath)
	return runErr
}

// selected reports whether an export job name belongs to the chosen store.
func selected(which, name string) bool {
	switch which {
	case storeSequence:
		return strings.HasSuffix(name, "_array")
	case storeChain:
		return strings.HasSuffix(name, "_linkedlist")
	}
	return true
}

func printResults(w io.Writer, results []export.Result) {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tFORMAT\tRECORDS\tBYTES\tTIME\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Format, count(r.Records), count(int(r.Bytes)), elapsed(r.Duration), status)
	}
	tw.Flush()
}

func runFraud(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	w := c.App.Writer
	if c.Bool("debug") {
		printDistribution(w, d.Sequence())
	}
	return eachStore(c, d, func(label string, s storeView) error {
		fmt.Fprintf(w, "\n=== Fraud detection (%s) ===\n", label)
		start := time.Now()
		fraud := s.fraudulent()
		fmt.Fprintf(w, "Found %s fraudulent transactions (%s)\n", count(fraud.Len()), elapsed(time.Since(start)))
		if fraud.Len() == 0 {
			fmt.Fprintf(w, "No fraudulent transactions found in %s implementation.\n", label)
			fmt.Fprintln(w, "This could mean:")
			fmt.Fprintln(w, "1. No fraud in the dataset")
			fmt.Fprintln(w, "2. Fraud flag uses different values (e.g., '1'/'0' instead of 'true'/'false')")
			fmt.Fprintln(w, "3. Fraud flag is in a different column")
			return nil
		}
		printRecords(w, fraud, cfg.ShowRows)
		return nil
	})
}

func printDistribution(w io.Writer, src storage.Reader) {
	fmt.Fprintln(w, "\n--- Fraud flag values ---")
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tFLAG")
	for _, s := range report.FirstFlags(src, 20) {
		fmt.Fprintf(tw, "%d\t%s\t%q\n", s.Index, s.TransactionID, s.Flag)
	}
	tw.Flush()

	dist := report.FlagDistribution(src)
	fmt.Fprintf(w, "\nFraud flag distribution across all %s transactions:\n", count(dist.Total))
	tw = newTable(w)
	for _, v := range dist.Values {
		fmt.Fprintf(tw, "%q\t%s\n", v.Value, count(v.Count))
	}
	tw.Flush()
	fmt.Fprintf(w, "true: %s  false: %s  other: %s\n", count(dist.True), count(dist.False), count(dist.Other))
}

func runStats(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	w := c.App.Writer
	return eachStore(c, d, func(label string, s storeView) error {
		st := report.FraudStats(s)
		fmt.Fprintf(w, "\n=== Fraud statistics (%s) ===\n", label)
		fmt.Fprintf(w, "Total transactions: %s\n", count(st.Total))
		fmt.Fprintf(w, "Fraudulent transactions: %s\n", count(st.Fraudulent))
		fmt.Fprintf(w, "Legitimate transactions: %s\n", count(st.Legitimate))
		if st.Total > 0 {
			fmt.Fprintf(w, "Fraud rate: %s%%\n", st.Rate.StringFixed(2))
		}
		fmt.Fprintf(w, "Total amount: %s\n", st.TotalAmount.StringFixed(2))
		fmt.Fprintf(w, "Fraud amount: %s\n", st.FraudAmount.StringFixed(2))

		fmt.Fprintln(w, "\n--- Transactions per payment channel ---")
		tw := newTable(w)
		for _, b := range report.CountBy(s, core.FieldPaymentChannel) {
			fmt.Fprintf(tw, "%s\t%s\n", b.Value, count(b.Count))
		}
		tw.Flush()

		fmt.Fprintln(w, "\n--- Sample of fraudulent transactions ---")
		fraud := s.fraudulent()
		if fraud.Len() == 0 {
			fmt.Fprintln(w, "No fraudulent transactions found in this dataset.")
			return nil
		}
		printRecords(w, fraud, cfg.ShowRows)
		return nil
	})
}

// runAll runs group, sort, search, export and fraud against one load.
func runAll(c *cli.Context, cfg *config.Config, d *txstore.Dataset) error {
	fmt.Fprintln(c.App.Writer, "\n=== Running all functions ===")
	for _, step := range []datasetAction{runGroup, runSort, runSearch, runExport, runFraud} {
		if err := step(c, cfg, d); err != nil {
			return err
		}
	}
	return nil
}

func headerCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	f, err := os.Open(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	columns, err := ingestion.ReadHeader(f)
	if err != nil {
		return err
	}
	mappings := ingestion.CheckHeader(columns)

	w := c.App.Writer
	fmt.Fprintf(w, "Found %d columns in header\n\n", len(columns))
	tw := newTable(w)
	fmt.Fprintln(tw, "COL\tINDEX\tHEADER\tEXPECTED\tMATCH")
	for _, m := range mappings {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\n", m.Letter, m.Index, m.Name, m.Expected, m.Match)
	}
	tw.Flush()

	if ingestion.HeaderMatches(mappings) {
		fmt.Fprintln(w, "\nHeader matches the expected layout")
	} else {
		fmt.Fprintln(w, "\nHeader does not match the expected layout")
	}
	return nil
}

func runParity(c *cli.Context, _ *config.Config, d *txstore.Dataset) error {
	seq := viewOf(d.Sequence()).sorted()
	ch := viewOf(d.Chain()).sorted()

	same, mismatch := storage.Compare(seq, ch)
	if !same {
		return fmt.Errorf("%w: first difference at index %d", errParityMismatch, mismatch.Index)
	}
	fmt.Fprintf(c.App.Writer, "%s records sorted identically in both stores\n", count(seq.Len()))
	return nil
}
