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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"
)

// ManifestFile is the file name WriteManifest uses inside an output
// directory.
const ManifestFile = "manifest.json"

// Manifest records what one export run produced.
type Manifest struct {
	RunID     uuid.UUID       `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []ManifestEntry `json:"entries"`
}

// ManifestEntry describes one exported file.
type ManifestEntry struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Format  Format `json:"format"`
	Records int    `json:"records"`
	Bytes   int64  `json:"bytes"`
	Error   string `json:"error,omitempty"`
}

// NewManifest builds a manifest for results under a fresh run id. File
// names are stored relative to their output directory.
func NewManifest(results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Entries:   make([]ManifestEntry, 0, len(results)),
	}
	for _, res := range results {
		entry := ManifestEntry{
			Name:    res.Name,
			File:    filepath.Base(res.Path),
			Format:  res.Format,
			Records: res.Records,
			Bytes:   res.Bytes,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		m.Entries = append(m.Entries, entry)
	}
	return m
}

// WriteManifest writes m to dir/manifest.json and returns its path.
func WriteManifest(dir string, m Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	_, err = writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(pretty.PrettyOptions(data, prettyOptions))
		return err
	})
	return path, err
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}
