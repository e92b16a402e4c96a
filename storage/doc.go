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

// Package storage defines the record container abstraction for txstore.
//
// Two in-memory backings implement the same Store contract and differ only in
// memory layout:
//
//   - storage/sequence: a contiguous buffer that doubles its capacity on overflow
//   - storage/chain: a singly-linked chain of owned nodes
//
// A third package, storage/badger, is an export sink that writes records to a
// BadgerDB directory. It is not a Store.
//
// # Store Contract
//
// Store is generic over the concrete type so that derived stores keep their
// backing:
//
//	var s *sequence.Store = sequence.New(sequence.DefaultCapacity)
//	cards := s.GroupBy(core.FieldPaymentChannel, "card") // *sequence.Store
//
// Every query (Filter, GroupBy, SearchByType, Fraudulent, Clone) returns a new
// store that shares nothing with its source. Add and SortByLocation are the
// only mutating operations. Finding nothing is not an error: the result is an
// empty store.
//
// # Copying
//
// Stores are handled through pointers. Assigning a store value would alias its
// storage, so all fields are unexported; use Clone or CopyFrom to take an
// independent snapshot, for example before sorting.
//
// # Thread Safety
//
// Stores are not safe for concurrent mutation. Concurrent readers are fine as
// long as nothing mutates the store while they run.
//
// # Serialization
//
// MarshalRecord, UnmarshalRecord, MarshalRecords and UnmarshalRecords encode
// records with mus-go. The encoding is used by the export layer and the badger
// sink.
package storage
