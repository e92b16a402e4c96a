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

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/txstore/storage"
)

// Job describes one export.
type Job struct {
	// Name identifies the job in results and the manifest.
	Name   string
	Source storage.Reader
	Format Format
	// Path is the destination file, or directory for FormatBadger.
	Path string
}

// Result reports the outcome of one Job.
type Result struct {
	Name     string
	Path     string
	Format   Format
	// Records is the number of records written. A badger export keys
	// records by transaction id, so it counts distinct ids.
	Records  int
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Runner executes export jobs concurrently.
type Runner struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithWorkers sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			n = 1
		}
		r.workers = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{
		workers: max(1, runtime.NumCPU()/2),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run executes jobs and returns one Result per job, in job order. The
// returned error joins every job error; a failed job never stops the
// others.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	pool, err := ants.NewPool(r.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = r.runJob(ctx, job)
		})
		if err != nil {
			wg.Done()
			results[i] = Result{Name: job.Name, Path: job.Path, Format: job.Format, Err: err}
		}
	}
	wg.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("export %s: %w", res.Name, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) runJob(ctx context.Context, job Job) Result {
	res := Result{Name: job.Name, Path: job.Path, Format: job.Format}
	if err := validateJob(job); err != nil {
		res.Err = err
		r.logger.Error("invalid export job", "name", job.Name, "err", err)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	switch job.Format {
	case FormatBadger:
		res.Records, res.Bytes, res.Err = writeBadgerAtomic(ctx, job.Path, job.Source)
	default:
		write := writerFor(job.Format)
		res.Records = job.Source.Len()
		res.Bytes, res.Err = writeFileAtomic(job.Path, func(w io.Writer) error {
			return write(w, job.Source)
		})
	}
	res.Duration = time.Since(start)

	if res.Err != nil {
		res.Records, res.Bytes = 0, 0
		r.logger.Error("export failed", "name", job.Name, "path", job.Path, "err", res.Err)
		return res
	}
	r.logger.Info("exported records",
		"name", job.Name,
		"format", job.Format,
		"path", job.Path,
		"records", res.Records,
		"bytes", res.Bytes)
	return res
}

func validateJob(job Job) error {
	if job.Source == nil {
		return ErrSourceRequired
	}
	if job.Path == "" {
		return ErrPathRequired
	}
	if _, err := ParseFormat(string(job.Format)); err != nil {
		return err
	}
	return nil
}

func writerFor(f Format) func(io.Writer, storage.Reader) error {
	switch f {
	case FormatJSONGzip:
		return WriteJSONGzip
	case FormatMUS:
		return WriteMUS
	}
	return WriteJSON
}
