package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

// RecordRepository persists transaction records keyed by transaction id.
// Writing a record whose id is already present replaces it.
type RecordRepository struct {
	backend *Backend
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) *RecordRepository {
	return &RecordRepository{
		backend: backend,
	}
}

// AddRecords writes records in a single batch.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...core.Record) error {
	return r.backend.WithBatch(ctx, func(wb *badger.WriteBatch) error {
		for i := range records {
			if err := putRecord(wb, records[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Import writes every record of src in a single batch and returns the
// number of distinct transaction ids written. A record repeating an id
// earlier in src replaces it and is not counted again.
func (r *RecordRepository) Import(ctx context.Context, src storage.Reader) (int, error) {
	seen := make(map[string]struct{}, src.Len())
	read := 0
	err := r.backend.WithBatch(ctx, func(wb *badger.WriteBatch) error {
		for record := range src.All() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := putRecord(wb, record); err != nil {
				return err
			}
			seen[record.TransactionID] = struct{}{}
			read++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.backend.logger.Debug("imported records", "read", read, "distinct", len(seen))
	return len(seen), nil
}

// GetRecord retrieves a single record by transaction id.
func (r *RecordRepository) GetRecord(ctx context.Context, id string) (core.Record, error) {
	var result core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRecordKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalRecord(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// Count returns the number of stored records.
func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// ForEach calls fn for every stored record in transaction id order.
// Iteration stops at the first error from fn or when ctx is done.
func (r *RecordRepository) ForEach(ctx context.Context, fn func(core.Record) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record core.Record
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalRecord(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

func putRecord(wb *badger.WriteBatch, record core.Record) error {
	return wb.Set(makeRecordKey(record.TransactionID), storage.MarshalRecord(record))
}
