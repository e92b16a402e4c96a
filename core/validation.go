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

package core

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// ValidateRecord validates a Record before it is handed to a store.
//
// Validation rules:
//   - record must not be nil
//   - Amount must be finite
//   - every text field must be valid UTF-8
//
// NOT validated:
//   - string field contents (empty is permitted)
//   - IsFraud encoding (any text is accepted, see IsFraudFlag)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if !IsFiniteAmount(record.Amount) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNonFiniteAmount)
	}

	for f := Field(0); f.Valid(); f++ {
		if f == FieldAmount {
			continue
		}
		if !utf8.ValidString(record.Value(f)) {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, f, ErrInvalidUTF8)
		}
	}

	return nil
}

// IsFiniteAmount reports whether amount is neither NaN nor infinite.
func IsFiniteAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}
