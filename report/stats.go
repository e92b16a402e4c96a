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

package report

import (
	"github.com/shopspring/decimal"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

var hundred = decimal.NewFromInt(100)

// ratePlaces is the number of decimal places kept in Stats.Rate.
const ratePlaces = 2

// Stats summarizes fraud across a store.
type Stats struct {
	Total      int
	Fraudulent int
	Legitimate int
	// Rate is the fraudulent share as a percentage, zero for an empty store.
	Rate decimal.Decimal
	// TotalAmount and FraudAmount are exact decimal sums of the record
	// amounts. Non-finite amounts are left out of both sums.
	TotalAmount decimal.Decimal
	FraudAmount decimal.Decimal
}

// FraudStats classifies every record of src with core.IsFraudulent.
func FraudStats(src storage.Reader) Stats {
	s := Stats{
		Rate:        decimal.Zero,
		TotalAmount: decimal.Zero,
		FraudAmount: decimal.Zero,
	}
	for r := range src.All() {
		s.Total++
		fraud := core.IsFraudulent(&r)
		if fraud {
			s.Fraudulent++
		}
		if !core.IsFiniteAmount(r.Amount) {
			continue
		}
		amount := decimal.NewFromFloat(r.Amount)
		s.TotalAmount = s.TotalAmount.Add(amount)
		if fraud {
			s.FraudAmount = s.FraudAmount.Add(amount)
		}
	}
	s.Legitimate = s.Total - s.Fraudulent
	if s.Total > 0 {
		s.Rate = decimal.NewFromInt(int64(s.Fraudulent)).
			Mul(hundred).
			DivRound(decimal.NewFromInt(int64(s.Total)), ratePlaces)
	}
	return s
}
