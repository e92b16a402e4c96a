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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation or reconstruction.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNonFiniteAmount indicates the amount is NaN or infinite.
	ErrNonFiniteAmount = errors.New("amount must be finite")

	// ErrInvalidUTF8 indicates a text field that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("field is not valid UTF-8")

	// ErrUnknownField indicates a field name outside the 18 record fields.
	ErrUnknownField = errors.New("unknown field")
)
