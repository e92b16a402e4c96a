package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
	"github.com/poiesic/txstore/storage/chain"
	"github.com/poiesic/txstore/storage/storagetest"
)

func newRepo(t *testing.T) *RecordRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repo
}

func TestAddAndGetRecord(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	rec := storagetest.NewRecord("T001", "Tokyo")
	rec.Amount = 0.1 + 0.2
	require.NoError(t, repo.AddRecords(ctx, rec))

	got, err := repo.GetRecord(ctx, "T001")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestGetRecord_NotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddRecords_ReplacesDuplicateID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := storagetest.NewRecord("dup", "Berlin")
	second := storagetest.NewRecord("dup", "Dubai")
	require.NoError(t, repo.AddRecords(ctx, first, second))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetRecord(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "Dubai", got.Location)
}

func TestImport(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	src := storagetest.Fill(chain.New(), storagetest.Locations()...)
	written, err := repo.Import(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, src.Len(), written)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, src.Len(), count)
}

func TestImport_DuplicateIDsMatchCount(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	src := storagetest.Fill(chain.New(),
		storagetest.NewRecord("a", "Berlin"),
		storagetest.NewRecord("b", "Tokyo"),
		storagetest.NewRecord("a", "Dubai"),
	)
	written, err := repo.Import(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, written, count)

	got, err := repo.GetRecord(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Dubai", got.Location)
}

func TestImport_CancelledContext(t *testing.T) {
	repo := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	written, err := repo.Import(ctx, storagetest.Fill(chain.New(), storagetest.Locations()...))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, written)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestForEach_KeyOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddRecords(ctx,
		storagetest.NewRecord("c", "X"),
		storagetest.NewRecord("a", "X"),
		storagetest.NewRecord("b", "X"),
	))

	var ids []string
	err := repo.ForEach(ctx, func(r core.Record) error {
		ids = append(ids, r.TransactionID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestForEach_StopsOnError(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	_, err := repo.Import(ctx, storagetest.Fill(chain.New(), storagetest.Locations()...))
	require.NoError(t, err)

	stop := errors.New("stop")
	seen := 0
	err = repo.ForEach(ctx, func(core.Record) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, seen)
}

func TestCount_Empty(t *testing.T) {
	repo := newRepo(t)
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
