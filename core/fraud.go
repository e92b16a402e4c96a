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

import "golang.org/x/text/cases"

const (
	fraudTrue  = "true"
	fraudFalse = "false"
)

// FoldFlag case-folds a raw fraud flag. No trimming is applied.
func FoldFlag(flag string) string {
	return cases.Fold().String(flag)
}

// IsFraudFlag is the single interpretation point of the free-text fraud flag.
// Only a value that case-folds to exactly "true" denotes fraud; "1", "yes",
// blanks and typos all count as not fraudulent.
func IsFraudFlag(flag string) bool {
	return FoldFlag(flag) == fraudTrue
}

// IsFalseFlag reports whether the flag case-folds to exactly "false".
// It is only used to surface encodings that are neither true nor false.
func IsFalseFlag(flag string) bool {
	return FoldFlag(flag) == fraudFalse
}

// Predicate selects records.
type Predicate func(r *Record) bool

// FieldEquals matches records whose field equals value exactly.
func FieldEquals(f Field, value string) Predicate {
	return func(r *Record) bool {
		return r.Value(f) == value
	}
}

// IsFraudulent matches records whose fraud flag denotes fraud.
func IsFraudulent(r *Record) bool {
	return IsFraudFlag(r.IsFraud)
}
