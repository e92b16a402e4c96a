package sequence

import "github.com/poiesic/txstore/core"

// SortByLocation sorts the records ascending by location using a top-down
// merge sort. Equal locations keep their relative order.
func (s *Store) SortByLocation() {
	if s.n > 1 {
		mergeSort(s.buf, 0, s.n-1)
	}
}

// mergeSort sorts buf[left..right] inclusive.
func mergeSort(buf []core.Record, left, right int) {
	if left >= right {
		return
	}
	mid := left + (right-left)/2
	mergeSort(buf, left, mid)
	mergeSort(buf, mid+1, right)
	merge(buf, left, mid, right)
}

// merge combines the sorted runs buf[left..mid] and buf[mid+1..right].
// Both runs are copied out and merged back; on equal locations the left run
// wins, which keeps the sort stable.
func merge(buf []core.Record, left, mid, right int) {
	l := make([]core.Record, mid-left+1)
	r := make([]core.Record, right-mid)
	copy(l, buf[left:mid+1])
	copy(r, buf[mid+1:right+1])

	i, j, k := 0, 0, left
	for i < len(l) && j < len(r) {
		if l[i].Location <= r[j].Location {
			buf[k] = l[i]
			i++
		} else {
			buf[k] = r[j]
			j++
		}
		k++
	}
	k += copy(buf[k:], l[i:])
	copy(buf[k:], r[j:])
}
