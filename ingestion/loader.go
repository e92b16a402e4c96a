package ingestion

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/txstore/storage"
)

const (
	// DefaultProgressInterval is how many loaded records pass between
	// progress reports.
	DefaultProgressInterval = 10000

	maxLineSize = 1 << 20
)

// Stats summarizes a load.
type Stats struct {
	// Lines is the number of data lines read, empty lines included.
	Lines int
	// Loaded is the number of records handed to the sinks.
	Loaded int
	// Skipped is the number of lines that failed to parse.
	Skipped int
}

// Loader reads dataset lines and fans records out to sinks.
type Loader struct {
	limit            int
	logger           *slog.Logger
	progress         io.Writer
	progressInterval int
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLimit stops the load after n records. Zero loads everything.
func WithLimit(n int) Option {
	return func(l *Loader) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLimit, n)
		}
		l.limit = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithProgress reports progress to w every interval records. An interval
// below one selects DefaultProgressInterval.
func WithProgress(w io.Writer, interval int) Option {
	return func(l *Loader) error {
		if interval < 1 {
			interval = DefaultProgressInterval
		}
		l.progress = w
		l.progressInterval = interval
		return nil
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{
		logger:           slog.Default(),
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load reads r, skipping its header line, and adds every parsed record to
// each sink in file order. Malformed lines are logged and counted as
// skipped. The context is checked between lines.
func (l *Loader) Load(ctx context.Context, r io.Reader, sinks ...storage.Sink) (Stats, error) {
	var stats Stats
	if len(sinks) == 0 {
		return stats, ErrSinkRequired
	}

	var tracker *ProgressTracker
	if l.progress != nil {
		tracker = NewProgressTracker(l.progress, l.limit, l.progressInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() {
		return stats, scanner.Err()
	}

	lineNo := 1
	for l.limit == 0 || stats.Loaded < l.limit {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !scanner.Scan() {
			break
		}
		lineNo++
		stats.Lines++

		line := scanner.Text()
		if line == "" {
			continue
		}

		record, err := ParseLine(line)
		if err != nil {
			stats.Skipped++
			l.logger.Warn("skipping malformed line", "line", lineNo, "error", err)
			continue
		}

		for _, sink := range sinks {
			sink.Add(record)
		}
		stats.Loaded++
		if tracker != nil {
			tracker.Increment(1)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}

	l.logger.Debug("load complete",
		"loaded", stats.Loaded,
		"skipped", stats.Skipped,
		"lines", stats.Lines)
	return stats, nil
}

// LoadFile opens path and loads it with Load.
func (l *Loader) LoadFile(ctx context.Context, path string, sinks ...storage.Sink) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return l.Load(ctx, f, sinks...)
}
