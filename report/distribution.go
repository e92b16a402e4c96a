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

package report

import (
	"cmp"
	"slices"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

// FlagCount is the number of records carrying one literal fraud flag.
type FlagCount struct {
	Value string
	Count int
}

// Distribution is the diagnostic view of the raw fraud flag column.
type Distribution struct {
	// Values holds every distinct literal flag, sorted by value.
	Values []FlagCount
	// True and False count flags that case-fold to "true" and "false".
	True  int
	False int
	// Other counts every remaining flag.
	Other int
	Total int
}

// FlagDistribution counts the literal fraud flags of src. It only observes
// flags; classification stays with core.IsFraudFlag.
func FlagDistribution(src storage.Reader) Distribution {
	var d Distribution
	counts := make(map[string]int)
	for r := range src.All() {
		d.Total++
		counts[r.IsFraud]++
		switch {
		case core.IsFraudFlag(r.IsFraud):
			d.True++
		case core.IsFalseFlag(r.IsFraud):
			d.False++
		default:
			d.Other++
		}
	}

	d.Values = make([]FlagCount, 0, len(counts))
	for value, count := range counts {
		d.Values = append(d.Values, FlagCount{Value: value, Count: count})
	}
	slices.SortFunc(d.Values, func(a, b FlagCount) int {
		return cmp.Compare(a.Value, b.Value)
	})
	return d
}

// FlagSample is one record's raw fraud flag.
type FlagSample struct {
	Index         int
	TransactionID string
	Flag          string
}

// FirstFlags returns the raw fraud flags of the first n records of src.
func FirstFlags(src storage.Reader, n int) []FlagSample {
	out := make([]FlagSample, 0, min(max(n, 0), src.Len()))
	i := 0
	for r := range storage.Head(src, n) {
		out = append(out, FlagSample{Index: i, TransactionID: r.TransactionID, Flag: r.IsFraud})
		i++
	}
	return out
}
