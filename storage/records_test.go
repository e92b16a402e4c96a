package storage_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
	"github.com/poiesic/txstore/storage/chain"
	"github.com/poiesic/txstore/storage/sequence"
	"github.com/poiesic/txstore/storage/storagetest"
)

// randomRecords builds n records with few distinct locations, so the sort
// has many ties to keep in order.
func randomRecords(seed uint64, n int) []core.Record {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	locations := []string{"Tokyo", "Berlin", "Dubai", "London", "Sydney", "New York"}
	channels := []string{"card", "wire_transfer", "mobile_payment", "online_banking"}
	types := []string{"withdrawal", "transfer", "payment", "deposit"}
	flags := []string{"True", "False", "TRUE", "false"}

	out := make([]core.Record, n)
	for i := range out {
		r := storagetest.NewRecord(fmt.Sprintf("T%05d", i), locations[rng.IntN(len(locations))])
		r.PaymentChannel = channels[rng.IntN(len(channels))]
		r.TransactionType = types[rng.IntN(len(types))]
		r.IsFraud = flags[rng.IntN(len(flags))]
		r.Amount = float64(rng.IntN(1000000)) / 100
		out[i] = r
	}
	return out
}

func TestParity_SortedOutputIdentical(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 10, 257, 2000} {
		t.Run(fmt.Sprintf("%d records", n), func(t *testing.T) {
			records := randomRecords(uint64(n)+1, n)
			seq := storagetest.Fill(sequence.New(1), records...)
			ch := storagetest.Fill(chain.New(), records...)

			seq.SortByLocation()
			ch.SortByLocation()

			same, mismatch := storage.Compare(seq, ch)
			require.True(t, same, "mismatch: %+v", mismatch)
			assert.Equal(t, storage.Collect(seq), storage.Collect(ch))
		})
	}
}

func TestParity_Queries(t *testing.T) {
	records := randomRecords(7, 500)
	seq := storagetest.Fill(sequence.New(sequence.DefaultCapacity), records...)
	ch := storagetest.Fill(chain.New(), records...)

	pairs := []struct {
		name string
		seq  storage.Reader
		ch   storage.Reader
	}{
		{"group card", seq.GroupBy(core.FieldPaymentChannel, "card"), ch.GroupBy(core.FieldPaymentChannel, "card")},
		{"group location", seq.GroupBy(core.FieldLocation, "Dubai"), ch.GroupBy(core.FieldLocation, "Dubai")},
		{"search withdrawal", seq.SearchByType("withdrawal"), ch.SearchByType("withdrawal")},
		{"fraudulent", seq.Fraudulent(), ch.Fraudulent()},
		{"clone", seq.Clone(), ch.Clone()},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			same, mismatch := storage.Compare(p.seq, p.ch)
			assert.True(t, same, "mismatch: %+v", mismatch)
			assert.Greater(t, p.seq.Len(), 0)
		})
	}

	assert.Equal(t, seq.Exportable(), ch.Exportable())
}

func TestCompare(t *testing.T) {
	a := storagetest.Fill(chain.New(), storagetest.NewRecord("a", "A"), storagetest.NewRecord("b", "B"))
	b := storagetest.Fill(sequence.New(0), storagetest.NewRecord("a", "A"))

	same, mismatch := storage.Compare(a, b)
	assert.False(t, same)
	require.NotNil(t, mismatch)
	assert.Equal(t, 1, mismatch.Index)
	assert.Zero(t, mismatch.Right)

	b.Add(storagetest.NewRecord("c", "B"))
	same, mismatch = storage.Compare(a, b)
	assert.False(t, same)
	assert.Equal(t, 1, mismatch.Index)

	same, mismatch = storage.Compare(chain.New(), sequence.New(3))
	assert.True(t, same)
	assert.Nil(t, mismatch)
}

func TestHead(t *testing.T) {
	s := storagetest.Fill(chain.New(), storagetest.Locations()...)

	var ids []string
	for r := range storage.Head(s, 3) {
		ids = append(ids, r.TransactionID)
	}
	assert.Equal(t, []string{"T00", "T01", "T02"}, ids)

	count := 0
	for range storage.Head(s, 100) {
		count++
	}
	assert.Equal(t, s.Len(), count)

	for range storage.Head(s, 0) {
		t.Fatal("Head(0) must yield nothing")
	}
}

func TestExportable(t *testing.T) {
	s := storagetest.Fill(sequence.New(1), storagetest.NewRecord("a", "A"))
	out := storage.Exportable(s)
	require.Len(t, out, 1)
	id, ok := out[0].Get("transaction_id")
	require.True(t, ok)
	assert.Equal(t, "a", id)
}
