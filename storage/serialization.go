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

package storage

import (
	"errors"
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/txstore/core"
)

// RecordMUS is the MUS serializer for core.Record.
// Fields are written in export order; strings use ord.String and the amount
// uses raw.Float64 so its bits survive exactly.
var RecordMUS = recordMUS{}

type recordMUS struct{}

// Marshal writes v into bs, which must be at least Size(v) bytes long.
func (recordMUS) Marshal(v core.Record, bs []byte) (n int) {
	for i := 0; i < core.FieldCount; i++ {
		f := core.Field(i)
		if f == core.FieldAmount {
			n += raw.Float64.Marshal(v.Amount, bs[n:])
			continue
		}
		n += ord.String.Marshal(v.Value(f), bs[n:])
	}
	return n
}

// Unmarshal reads a record from the start of bs.
func (recordMUS) Unmarshal(bs []byte) (v core.Record, n int, err error) {
	columns := make([]string, core.FieldCount)
	var amount float64
	for i := 0; i < core.FieldCount; i++ {
		var m int
		if core.Field(i) == core.FieldAmount {
			amount, m, err = raw.Float64.Unmarshal(bs[n:])
		} else {
			columns[i], m, err = ord.String.Unmarshal(bs[n:])
		}
		n += m
		if err != nil {
			return core.Record{}, n, fmt.Errorf("field %s: %w", core.Field(i).Name(), err)
		}
	}
	return core.RecordFromColumns(columns, amount), n, nil
}

// Size returns the number of bytes Marshal writes for v.
func (recordMUS) Size(v core.Record) (size int) {
	for i := 0; i < core.FieldCount; i++ {
		f := core.Field(i)
		if f == core.FieldAmount {
			size += raw.Float64.Size(v.Amount)
			continue
		}
		size += ord.String.Size(v.Value(f))
	}
	return size
}

// Skip advances past one encoded record.
func (s recordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record core.Record) []byte {
	buf := make([]byte, RecordMUS.Size(record))
	RecordMUS.Marshal(record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (core.Record, error) {
	if len(data) == 0 {
		return core.Record{}, ErrTruncatedData
	}
	record, _, err := RecordMUS.Unmarshal(data)
	if err != nil {
		return core.Record{}, decodeError(err)
	}
	return record, nil
}

// decodeError classifies a mus decoding failure. Input that ends inside a
// record is truncated; anything else is malformed.
func decodeError(err error) error {
	if errors.Is(err, mus.ErrTooSmallByteSlice) {
		return fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}

// MarshalRecords serializes a record sequence as a count followed by the
// records in order.
func MarshalRecords(src Reader) []byte {
	count := src.Len()
	size := varint.Int.Size(count)
	for r := range src.All() {
		size += RecordMUS.Size(r)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(count, buf)
	for r := range src.All() {
		n += RecordMUS.Marshal(r, buf[n:])
	}
	return buf[:n]
}

// UnmarshalRecords deserializes a sequence written by MarshalRecords.
func UnmarshalRecords(data []byte) ([]core.Record, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: record count: %w", ErrSerializationFailed, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative record count %d", ErrSerializationFailed, count)
	}

	records := make([]core.Record, 0, min(count, len(data)))
	for i := 0; i < count; i++ {
		if n >= len(data) {
			return nil, fmt.Errorf("%w: got %d of %d records", ErrTruncatedData, i, count)
		}
		record, m, err := RecordMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, decodeError(err))
		}
		n += m
		records = append(records, record)
	}
	return records, nil
}
