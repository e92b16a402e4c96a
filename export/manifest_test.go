package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManifest(t *testing.T) {
	results := []Result{
		{Name: "a", Path: "/out/a.json", Format: FormatJSON, Records: 3, Bytes: 120},
		{Name: "b", Path: "/out/b.mus", Format: FormatMUS, Err: errors.New("disk full")},
	}

	m := NewManifest(results)
	assert.NotEqual(t, uuid.Nil, m.RunID)
	assert.False(t, m.CreatedAt.IsZero())
	require.Len(t, m.Entries, 2)
	assert.Equal(t, ManifestEntry{Name: "a", File: "a.json", Format: FormatJSON, Records: 3, Bytes: 120}, m.Entries[0])
	assert.Equal(t, "disk full", m.Entries[1].Error)

	assert.NotEqual(t, m.RunID, NewManifest(results).RunID, "each run gets its own id")
}

func TestWriteReadManifest(t *testing.T) {
	dir := t.TempDir()
	results, err := newRunner(t).Run(context.Background(), []Job{
		{Name: "all", Source: fixture(), Format: FormatMUS, Path: filepath.Join(dir, "all.mus")},
	})
	require.NoError(t, err)

	m := NewManifest(results)
	path, err := WriteManifest(dir, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFile), path)

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, m.Entries, got.Entries)

	_, err = ReadManifest(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
