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

// Package txstore loads a financial transaction dataset into two
// interchangeable in-memory stores, a contiguous sequence store and a
// singly linked chain store, so their behavior can be compared side by
// side.
package txstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/export"
	"github.com/poiesic/txstore/ingestion"
	"github.com/poiesic/txstore/storage"
	"github.com/poiesic/txstore/storage/chain"
	"github.com/poiesic/txstore/storage/sequence"
)

// Dataset holds one load of the dataset in both store backings.
type Dataset struct {
	sequence *sequence.Store
	chain    *chain.Store
	stats    ingestion.Stats
	logger   *slog.Logger
}

// DatasetOption configures Open.
type DatasetOption func(*datasetOptions)

type datasetOptions struct {
	capacity         int
	limit            int
	logger           *slog.Logger
	progress         io.Writer
	progressInterval int
}

// WithCapacity sets the initial capacity of the sequence store.
func WithCapacity(n int) DatasetOption {
	return func(o *datasetOptions) {
		o.capacity = n
	}
}

// WithLimit stops loading after n records. Zero loads everything.
func WithLimit(n int) DatasetOption {
	return func(o *datasetOptions) {
		o.limit = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatasetOption {
	return func(o *datasetOptions) {
		o.logger = logger
	}
}

// WithProgress reports load progress to w every interval records.
func WithProgress(w io.Writer, interval int) DatasetOption {
	return func(o *datasetOptions) {
		o.progress = w
		o.progressInterval = interval
	}
}

func applyOptions(opts []DatasetOption) *datasetOptions {
	o := &datasetOptions{
		capacity: sequence.DefaultCapacity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func (o *datasetOptions) loader() (*ingestion.Loader, error) {
	loaderOpts := []ingestion.Option{
		ingestion.WithLimit(o.limit),
		ingestion.WithLogger(o.logger),
	}
	if o.progress != nil {
		loaderOpts = append(loaderOpts, ingestion.WithProgress(o.progress, o.progressInterval))
	}
	return ingestion.NewLoader(loaderOpts...)
}

// Open loads the dataset file at path into both stores.
func Open(ctx context.Context, path string, opts ...DatasetOption) (*Dataset, error) {
	o := applyOptions(opts)
	loader, err := o.loader()
	if err != nil {
		return nil, err
	}

	d := newDataset(o)
	d.stats, err = loader.LoadFile(ctx, path, d.sequence, d.chain)
	if err != nil {
		d.Release()
		return nil, err
	}
	d.logLoaded(path)
	return d, nil
}

// Read loads a dataset from r into both stores.
func Read(ctx context.Context, r io.Reader, opts ...DatasetOption) (*Dataset, error) {
	o := applyOptions(opts)
	loader, err := o.loader()
	if err != nil {
		return nil, err
	}

	d := newDataset(o)
	d.stats, err = loader.Load(ctx, r, d.sequence, d.chain)
	if err != nil {
		d.Release()
		return nil, err
	}
	d.logLoaded("reader")
	return d, nil
}

func newDataset(o *datasetOptions) *Dataset {
	return &Dataset{
		sequence: sequence.New(o.capacity),
		chain:    chain.New(),
		logger:   o.logger,
	}
}

func (d *Dataset) logLoaded(source string) {
	d.logger.Info("dataset loaded",
		"source", source,
		"records", d.stats.Loaded,
		"skipped", d.stats.Skipped,
		"capacity", d.sequence.Cap())
}

// Sequence returns the contiguous store.
func (d *Dataset) Sequence() *sequence.Store {
	return d.sequence
}

// Chain returns the linked store.
func (d *Dataset) Chain() *chain.Store {
	return d.chain
}

// Stats returns the load statistics.
func (d *Dataset) Stats() ingestion.Stats {
	return d.stats
}

// Release frees both stores. The dataset is empty afterwards.
func (d *Dataset) Release() {
	d.sequence.Release()
	d.chain.Release()
}

// ExportJobs returns the standard export set for every format: withdrawal
// transactions, card transactions and all transactions, each from both
// stores. Files are named <subset>_transactions_<array|linkedlist> plus the
// format's extension.
func (d *Dataset) ExportJobs(dir string, formats ...export.Format) []export.Job {
	type subset struct {
		name  string
		array storage.Reader
		list  storage.Reader
	}
	subsets := []subset{
		{"withdrawal", d.sequence.SearchByType("withdrawal"), d.chain.SearchByType("withdrawal")},
		{"card", d.sequence.GroupBy(core.FieldPaymentChannel, "card"), d.chain.GroupBy(core.FieldPaymentChannel, "card")},
		{"all", d.sequence, d.chain},
	}

	jobs := make([]export.Job, 0, len(subsets)*2*len(formats))
	for _, format := range formats {
		for _, s := range subsets {
			jobs = append(jobs,
				exportJob(dir, s.name+"_transactions_array", s.array, format),
				exportJob(dir, s.name+"_transactions_linkedlist", s.list, format))
		}
	}
	return jobs
}

func exportJob(dir, name string, src storage.Reader, format export.Format) export.Job {
	path := filepath.Join(dir, name+format.Extension())
	if format == export.FormatBadger {
		path += "_badger"
	}
	return export.Job{Name: name, Source: src, Format: format, Path: path}
}
