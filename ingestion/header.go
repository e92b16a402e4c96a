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

package ingestion

import (
	"bufio"
	"io"
	"strings"

	"github.com/poiesic/txstore/core"
)

// datasetAliases holds header names the published dataset uses where they
// differ from the record field name.
var datasetAliases = map[core.Field]string{
	core.FieldSpendingDeviation: "spending_deviation_score",
	core.FieldGeoAnomaly:        "geo_anomaly_score",
}

// ColumnMapping reports how one header column lines up with the record
// field expected at its position.
type ColumnMapping struct {
	Index    int
	Letter   string
	Name     string
	Expected string
	Match    bool
}

// ReadHeader reads and splits the first line of r.
func ReadHeader(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyInput
	}
	return SplitLine(line), nil
}

// CheckHeader maps header columns to record fields by position.
// Positions the header is missing are reported with an empty Name; extra
// columns are reported with an empty Expected.
func CheckHeader(columns []string) []ColumnMapping {
	n := max(len(columns), core.FieldCount)
	mappings := make([]ColumnMapping, n)
	for i := range mappings {
		m := ColumnMapping{Index: i, Letter: ColumnLetter(i)}
		if i < len(columns) {
			m.Name = columns[i]
		}
		if f := core.Field(i); f.Valid() {
			m.Expected = f.Name()
			m.Match = m.Name == m.Expected || (m.Name != "" && m.Name == datasetAliases[f])
		}
		mappings[i] = m
	}
	return mappings
}

// HeaderMatches reports whether every record field is present at its
// expected position.
func HeaderMatches(mappings []ColumnMapping) bool {
	for _, m := range mappings {
		if m.Expected != "" && !m.Match {
			return false
		}
	}
	return len(mappings) >= core.FieldCount
}

// ColumnLetter returns the spreadsheet-style letter for a zero-based column
// index: A..Z, then AA, AB and so on.
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var buf []byte
	for index >= 0 {
		buf = append(buf, byte('A'+index%26))
		index = index/26 - 1
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
