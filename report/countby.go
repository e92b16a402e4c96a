package report

import (
	"cmp"
	"slices"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

// Bucket is the number of records sharing one field value.
type Bucket struct {
	Value string
	Count int
}

// CountBy counts the records of src per distinct value of field, ordered
// by descending count and then by value.
func CountBy(src storage.Reader, field core.Field) []Bucket {
	counts := make(map[string]int)
	for r := range src.All() {
		counts[r.Value(field)]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for value, count := range counts {
		buckets = append(buckets, Bucket{Value: value, Count: count})
	}
	slices.SortFunc(buckets, func(a, b Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return buckets
}
