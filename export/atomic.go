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
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kjk/common/atomicfile"

	"github.com/poiesic/txstore/storage"
	"github.com/poiesic/txstore/storage/badger"
)

// writeFileAtomic writes through fn into a temporary file beside path and
// renames it into place. It returns the size of the written file.
func writeFileAtomic(path string, fn func(w io.Writer) error) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}

	f, err := atomicfile.New(path)
	if err != nil {
		return 0, err
	}
	defer f.RemoveIfNotClosed()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// writeBadgerAtomic imports src into a fresh Badger directory and moves it
// to path, replacing any previous export there. It returns the number of
// records written and the total size of the directory.
func writeBadgerAtomic(ctx context.Context, path string, src storage.Reader) (int, int64, error) {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return 0, 0, err
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, 0, err
	}
	fail := func(err error) (int, int64, error) {
		os.RemoveAll(tmp)
		return 0, 0, err
	}

	backend, err := badger.OpenBackend(tmp, false)
	if err != nil {
		return fail(err)
	}
	written, err := badger.NewRecordRepository(backend).Import(ctx, src)
	if closeErr := backend.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fail(err)
	}

	size, err := dirSize(tmp)
	if err != nil {
		return fail(err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fail(fmt.Errorf("move badger export into place: %w", err))
	}
	return written, size, nil
}

func dirSize(root string) (int64, error) {
	var size int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
