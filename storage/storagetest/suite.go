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

// Package storagetest provides record fixtures and a conformance suite that
// every storage.Store backing runs.
package storagetest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

// NewRecord returns a fully populated record with the given id and location.
func NewRecord(id, location string) core.Record {
	return core.Record{
		TransactionID:            id,
		Timestamp:                "2023-08-22T09:22:43.516168",
		SenderAccount:            "ACC-S-" + id,
		ReceiverAccount:          "ACC-R-" + id,
		Amount:                   100.25,
		TransactionType:          "transfer",
		MerchantCategory:         "retail",
		Location:                 location,
		DeviceUsed:               "mobile",
		IsFraud:                  "False",
		FraudType:                "",
		TimeSinceLastTransaction: "12.5",
		SpendingDeviation:        "0.1",
		VelocityScore:            "4",
		GeoAnomaly:               "0.3",
		PaymentChannel:           "card",
		IPAddress:                "10.0.0.1",
		DeviceHash:               "D" + id,
	}
}

// IDs returns the transaction ids of src in order.
func IDs(src storage.Reader) []string {
	ids := make([]string, 0, src.Len())
	for r := range src.All() {
		ids = append(ids, r.TransactionID)
	}
	return ids
}

// Fill adds records to s and returns s.
func Fill[S storage.Sink](s S, records ...core.Record) S {
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Locations is a mixed fixture with repeated locations, for sort tests.
func Locations() []core.Record {
	locs := []string{"Tokyo", "Berlin", "New York", "Berlin", "Dubai", "Tokyo", "London", "Berlin", "", "Sydney", "Dubai"}
	out := make([]core.Record, len(locs))
	for i, loc := range locs {
		out[i] = NewRecord(fmt.Sprintf("T%02d", i), loc)
	}
	return out
}

// RunStoreSuite exercises the storage.Store contract against newStore.
// newStore must return an empty store.
func RunStoreSuite[S storage.Store[S]](t *testing.T, newStore func() S) {
	t.Helper()

	t.Run("add and len", func(t *testing.T) {
		s := newStore()
		assert.Equal(t, 0, s.Len())
		for i := 1; i <= 5; i++ {
			s.Add(NewRecord(fmt.Sprint(i), "X"))
			assert.Equal(t, i, s.Len())
		}
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, IDs(s))
	})

	t.Run("all stops early", func(t *testing.T) {
		s := Fill(newStore(), Locations()...)
		seen := 0
		for range s.All() {
			seen++
			if seen == 3 {
				break
			}
		}
		assert.Equal(t, 3, seen)
	})

	t.Run("group by preserves order", func(t *testing.T) {
		records := Locations()
		records[1].PaymentChannel = "wire_transfer"
		records[4].PaymentChannel = "wire_transfer"
		records[9].PaymentChannel = "wire_transfer"
		s := Fill(newStore(), records...)

		wire := s.GroupBy(core.FieldPaymentChannel, "wire_transfer")
		assert.Equal(t, []string{"T01", "T04", "T09"}, IDs(wire))
		assert.Equal(t, len(records), s.Len(), "source must be unchanged")

		card := s.GroupBy(core.FieldPaymentChannel, "card")
		assert.Equal(t, len(records)-3, card.Len())

		none := s.GroupBy(core.FieldPaymentChannel, "Card")
		assert.Equal(t, 0, none.Len())
	})

	t.Run("search by type", func(t *testing.T) {
		records := Locations()
		records[2].TransactionType = "withdrawal"
		records[7].TransactionType = "withdrawal"
		s := Fill(newStore(), records...)

		found := s.SearchByType("withdrawal")
		assert.Equal(t, []string{"T02", "T07"}, IDs(found))
		assert.Equal(t, 0, s.SearchByType("refund").Len())
	})

	t.Run("fraud filter exactness", func(t *testing.T) {
		flags := []string{"TRUE", "true", "False", "1", "", "tru e"}
		s := newStore()
		for i, flag := range flags {
			r := NewRecord(fmt.Sprint(i), "X")
			r.IsFraud = flag
			s.Add(r)
		}

		fraud := s.Fraudulent()
		require.Equal(t, 2, fraud.Len())
		assert.Equal(t, []string{"0", "1"}, IDs(fraud))
	})

	t.Run("sort scenario", func(t *testing.T) {
		s := Fill(newStore(),
			NewRecord("R1", "B"),
			NewRecord("R2", "A"),
			NewRecord("R3", "A"),
		)
		s.SortByLocation()
		assert.Equal(t, []string{"R2", "R3", "R1"}, IDs(s))
	})

	t.Run("sort is ordered and stable", func(t *testing.T) {
		s := Fill(newStore(), Locations()...)
		s.SortByLocation()

		assert.Equal(t, []string{"T08", "T01", "T03", "T07", "T04", "T10", "T06", "T02", "T09", "T00", "T05"}, IDs(s))
		assertSorted(t, s)
	})

	t.Run("sort then append", func(t *testing.T) {
		s := Fill(newStore(), NewRecord("a", "Z"), NewRecord("b", "A"))
		s.SortByLocation()
		s.Add(NewRecord("c", "M"))
		assert.Equal(t, []string{"b", "a", "c"}, IDs(s))
	})

	t.Run("sort sizes", func(t *testing.T) {
		for n := 0; n <= 17; n++ {
			s := newStore()
			for i := 0; i < n; i++ {
				s.Add(NewRecord(fmt.Sprint(i), fmt.Sprint((n-i)%4)))
			}
			s.SortByLocation()
			assert.Equal(t, n, s.Len())
			assertSorted(t, s)
		}
	})

	t.Run("empty store queries", func(t *testing.T) {
		s := newStore()
		assert.Equal(t, 0, s.GroupBy(core.FieldPaymentChannel, "card").Len())
		assert.Equal(t, 0, s.SearchByType("deposit").Len())
		assert.Equal(t, 0, s.Fraudulent().Len())
		assert.Equal(t, 0, s.Clone().Len())
		assert.Empty(t, s.Exportable())
		s.SortByLocation()
		assert.Equal(t, 0, s.Len())
	})

	t.Run("derived stores are independent", func(t *testing.T) {
		s := Fill(newStore(), Locations()...)
		derived := s.GroupBy(core.FieldPaymentChannel, "card")
		derived.SortByLocation()
		derived.Add(NewRecord("extra", "A"))

		assert.Equal(t, len(Locations()), s.Len())
		assert.Equal(t, IDs(Fill(newStore(), Locations()...)), IDs(s))
	})

	t.Run("clone independence", func(t *testing.T) {
		s := Fill(newStore(), Locations()...)
		before := IDs(s)

		c := s.Clone()
		assert.Equal(t, before, IDs(c))

		c.SortByLocation()
		c.Add(NewRecord("new", "A"))
		assert.Equal(t, before, IDs(s), "sorting the copy must not touch the original")

		s.Add(NewRecord("orig", "A"))
		assert.Equal(t, len(before)+1, c.Len())
		assert.NotContains(t, IDs(c), "orig")
	})

	t.Run("exportable matches order", func(t *testing.T) {
		s := Fill(newStore(), Locations()...)
		exported := s.Exportable()
		require.Len(t, exported, s.Len())

		i := 0
		for r := range s.All() {
			got, err := core.RecordFromExport(exported[i])
			require.NoError(t, err)
			assert.Equal(t, r, got)
			i++
		}
	})
}

func assertSorted(t *testing.T, src storage.Reader) {
	t.Helper()
	prev := ""
	first := true
	for r := range src.All() {
		if !first {
			assert.LessOrEqual(t, prev, r.Location)
		}
		prev = r.Location
		first = false
	}
}
