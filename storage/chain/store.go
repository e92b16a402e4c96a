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

package chain

import (
	"iter"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

// node owns one record and its successor.
type node struct {
	record core.Record
	next   *node
}

// Store keeps records in a singly-linked chain of nodes.
//
// Exactly n nodes are reachable from head and tail.next is nil. A node is
// owned by exactly one store; nodes are never shared between stores.
type Store struct {
	head *node
	tail *node // last node, nil when empty
	n    int
}

var _ storage.Store[*Store] = (*Store)(nil)

// New creates an empty chain store.
func New() *Store {
	return &Store{}
}

// Add links a new node holding a copy of record at the end of the chain.
func (s *Store) Add(record core.Record) {
	nd := &node{record: record}
	if s.head == nil {
		s.head = nd
	} else {
		s.tail.next = nd
	}
	s.tail = nd
	s.n++
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.n
}

// All yields the records in chain order.
func (s *Store) All() iter.Seq[core.Record] {
	return func(yield func(core.Record) bool) {
		for cur := s.head; cur != nil; cur = cur.next {
			if !yield(cur.record) {
				return
			}
		}
	}
}

// Filter returns a new store with every record matching pred, in order.
func (s *Store) Filter(pred core.Predicate) *Store {
	out := New()
	for cur := s.head; cur != nil; cur = cur.next {
		if pred(&cur.record) {
			out.Add(cur.record)
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

// Exportable returns the labeled form of every record, in chain order.
func (s *Store) Exportable() []core.ExportRecord {
	return storage.Exportable(s)
}

// Clone returns a deep copy built from freshly allocated nodes.
func (s *Store) Clone() *Store {
	out := New()
	out.head, out.tail = copyChain(s.head)
	out.n = s.n
	return out
}

// CopyFrom replaces the chain of s with a deep copy of src's chain.
// The receiver's existing nodes are released before the copy is built.
// Copying a store onto itself is a no-op.
func (s *Store) CopyFrom(src *Store) {
	if s == src {
		return
	}
	s.Release()
	s.head, s.tail = copyChain(src.head)
	s.n = src.n
}

// Release unlinks every node, one at a time, and leaves the store empty.
func (s *Store) Release() {
	cur := s.head
	for cur != nil {
		next := cur.next
		cur.next = nil
		cur = next
	}
	s.head = nil
	s.tail = nil
	s.n = 0
}

// copyChain duplicates the chain starting at head and returns the new head
// and tail.
func copyChain(head *node) (*node, *node) {
	if head == nil {
		return nil, nil
	}
	newHead := &node{record: head.record}
	tail := newHead
	for cur := head.next; cur != nil; cur = cur.next {
		tail.next = &node{record: cur.record}
		tail = tail.next
	}
	return newHead, tail
}
