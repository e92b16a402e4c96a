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

package sequence

import (
	"iter"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

const (
	// DefaultCapacity is the initial buffer capacity used when none is given.
	DefaultCapacity = 1000
)

// Store keeps records in one contiguous buffer.
//
// The buffer holds Len() live records from index 0. Its capacity only ever
// grows by doubling, max(1, 2*cap), and only when an insert would overflow it.
type Store struct {
	buf     []core.Record // len(buf) is the capacity
	n       int
	initCap int
}

var _ storage.Store[*Store] = (*Store)(nil)

// New creates an empty store with the given initial capacity.
// Negative capacities are treated as zero.
func New(initialCapacity int) *Store {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Store{
		buf:     make([]core.Record, initialCapacity),
		initCap: initialCapacity,
	}
}

// Add appends a record, doubling the buffer first if it is full.
func (s *Store) Add(record core.Record) {
	if s.n == len(s.buf) {
		s.grow()
	}
	s.buf[s.n] = record
	s.n++
}

func (s *Store) grow() {
	newCap := 2 * len(s.buf)
	if newCap == 0 {
		newCap = 1
	}
	buf := make([]core.Record, newCap)
	copy(buf, s.buf[:s.n])
	s.buf = buf
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.n
}

// Cap returns the current buffer capacity.
func (s *Store) Cap() int {
	return len(s.buf)
}

// InitialCapacity returns the capacity the store was created with.
// Derived stores are created with the same initial capacity.
func (s *Store) InitialCapacity() int {
	return s.initCap
}

// At returns the record at index i. It panics if i is out of range.
func (s *Store) At(i int) core.Record {
	if i < 0 || i >= s.n {
		panic("sequence: index out of range")
	}
	return s.buf[i]
}

// All yields the records in current order.
func (s *Store) All() iter.Seq[core.Record] {
	return func(yield func(core.Record) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(s.buf[i]) {
				return
			}
		}
	}
}

// Filter returns a new store with every record matching pred, in order.
func (s *Store) Filter(pred core.Predicate) *Store {
	out := New(s.initCap)
	for i := 0; i < s.n; i++ {
		if pred(&s.buf[i]) {
			out.Add(s.buf[i])
		}
	}
	return out
}

// GroupBy returns the records whose field equals value exactly.
func (s *Store) GroupBy(field core.Field, value string) *Store {
	return s.Filter(core.FieldEquals(field, value))
}

// SearchByType returns the records with the given transaction type.
func (s *Store) SearchByType(value string) *Store {
	return s.GroupBy(core.FieldTransactionType, value)
}

// Fraudulent returns the records whose fraud flag is a case-insensitive "true".
func (s *Store) Fraudulent() *Store {
	return s.Filter(core.IsFraudulent)
}

// Exportable returns the labeled form of every record, in current order.
func (s *Store) Exportable() []core.ExportRecord {
	return storage.Exportable(s)
}

// Clone returns a deep copy with the same capacity and initial capacity.
func (s *Store) Clone() *Store {
	out := &Store{
		buf:     make([]core.Record, len(s.buf)),
		n:       s.n,
		initCap: s.initCap,
	}
	copy(out.buf, s.buf[:s.n])
	return out
}

// CopyFrom replaces the contents of s with a deep copy of src.
// The receiver's buffer is released first. Copying a store onto itself is a
// no-op.
func (s *Store) CopyFrom(src *Store) {
	if s == src {
		return
	}
	s.Release()
	s.buf = make([]core.Record, len(src.buf))
	copy(s.buf, src.buf[:src.n])
	s.n = src.n
	s.initCap = src.initCap
}

// Release drops the buffer. The store is empty with zero capacity afterwards.
func (s *Store) Release() {
	clear(s.buf[:s.n])
	s.buf = nil
	s.n = 0
}
