package storage

import (
	"iter"

	"github.com/poiesic/txstore/core"
)

// Exportable converts every record of src into its labeled form, in order.
// Both store backings delegate to this function.
func Exportable(src Reader) []core.ExportRecord {
	out := make([]core.ExportRecord, 0, src.Len())
	for r := range src.All() {
		out = append(out, r.Export())
	}
	return out
}

// Collect copies the records of src into a new slice.
func Collect(src Reader) []core.Record {
	out := make([]core.Record, 0, src.Len())
	for r := range src.All() {
		out = append(out, r)
	}
	return out
}

// Head yields at most n records from the front of src.
func Head(src Reader, n int) iter.Seq[core.Record] {
	return func(yield func(core.Record) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for r := range src.All() {
			if !yield(r) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}
}

// Mismatch describes the first position where two sequences differ.
type Mismatch struct {
	Index int
	Left  core.Fingerprint
	Right core.Fingerprint
}

// Compare reports whether a and b hold the same records in the same order,
// comparing record fingerprints. When they differ, the first differing
// position is returned; a length difference shows up at the shorter length
// with a zero fingerprint on the exhausted side.
func Compare(a, b Reader) (bool, *Mismatch) {
	left := fingerprints(a)
	right := fingerprints(b)
	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		if left[i] != right[i] {
			return false, &Mismatch{Index: i, Left: left[i], Right: right[i]}
		}
	}
	switch {
	case len(left) > n:
		return false, &Mismatch{Index: n, Left: left[n]}
	case len(right) > n:
		return false, &Mismatch{Index: n, Right: right[n]}
	}
	return true, nil
}

func fingerprints(src Reader) []core.Fingerprint {
	out := make([]core.Fingerprint, 0, src.Len())
	for r := range src.All() {
		out = append(out, r.Fingerprint())
	}
	return out
}
