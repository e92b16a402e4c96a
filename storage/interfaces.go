package storage

import (
	"iter"

	"github.com/poiesic/txstore/core"
)

// Reader provides read-only, in-order access to a record sequence.
type Reader interface {
	// Len returns the number of records.
	Len() int

	// All yields the records in current order.
	// The store must not be mutated while the sequence is being consumed.
	All() iter.Seq[core.Record]
}

// Sink accepts records one at a time, in load order.
type Sink interface {
	Add(record core.Record)
}

// Store is the capability set shared by every record container.
// S is the concrete store type, so derived stores keep their backing:
// grouping a contiguous store yields a contiguous store.
//
// Query operations never modify the receiver and return a new, independently
// owned store. Empty results are valid empty stores, never errors.
type Store[S any] interface {
	Reader
	Sink

	// Filter returns a new store holding every record matching pred,
	// in original relative order.
	Filter(pred core.Predicate) S

	// GroupBy returns the records whose field equals value exactly.
	GroupBy(field core.Field, value string) S

	// SearchByType returns the records whose transaction type equals value.
	SearchByType(value string) S

	// Fraudulent returns the records whose fraud flag denotes fraud.
	Fraudulent() S

	// SortByLocation sorts the store in place, ascending by location.
	// The sort is stable: equal locations keep their relative order.
	SortByLocation()

	// Exportable returns the labeled form of every record, in current order.
	Exportable() []core.ExportRecord

	// Clone returns a deep copy sharing no storage with the receiver.
	Clone() S
}
