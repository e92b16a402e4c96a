package report

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage/chain"
	"github.com/poiesic/txstore/storage/sequence"
	"github.com/poiesic/txstore/storage/storagetest"
)

func flagged(flags ...string) *chain.Store {
	s := chain.New()
	for i, flag := range flags {
		r := storagetest.NewRecord(fmt.Sprintf("T%d", i), "X")
		r.IsFraud = flag
		s.Add(r)
	}
	return s
}

func TestFraudStats(t *testing.T) {
	s := flagged("True", "False", "TRUE", "1", "false", "true", "", "yes")

	st := FraudStats(s)
	assert.Equal(t, 8, st.Total)
	assert.Equal(t, 3, st.Fraudulent)
	assert.Equal(t, 5, st.Legitimate)
	assert.True(t, decimal.RequireFromString("37.5").Equal(st.Rate), st.Rate.String())
}

func TestFraudStats_Amounts(t *testing.T) {
	s := sequence.New(0)
	for i, amount := range []float64{0.1, 0.2, 0.3, math.NaN()} {
		r := storagetest.NewRecord(fmt.Sprint(i), "X")
		r.Amount = amount
		if i == 1 {
			r.IsFraud = "True"
		}
		s.Add(r)
	}

	st := FraudStats(s)
	assert.Equal(t, 4, st.Total)
	assert.True(t, decimal.RequireFromString("0.6").Equal(st.TotalAmount), st.TotalAmount.String())
	assert.True(t, decimal.RequireFromString("0.2").Equal(st.FraudAmount), st.FraudAmount.String())
	assert.True(t, decimal.RequireFromString("25").Equal(st.Rate))
}

func TestFraudStats_RateRounding(t *testing.T) {
	st := FraudStats(flagged("true", "false", "false"))
	assert.Equal(t, "33.33", st.Rate.StringFixed(2))
}

func TestFraudStats_Empty(t *testing.T) {
	st := FraudStats(chain.New())
	assert.Zero(t, st.Total)
	assert.True(t, st.Rate.IsZero())
	assert.True(t, st.TotalAmount.IsZero())
	assert.True(t, st.FraudAmount.IsZero())
}

func TestFlagDistribution(t *testing.T) {
	s := flagged("True", "False", "True", "TRUE", "0", "", "False", " true")

	d := FlagDistribution(s)
	assert.Equal(t, 8, d.Total)
	assert.Equal(t, 3, d.True)
	assert.Equal(t, 2, d.False)
	assert.Equal(t, 3, d.Other)
	assert.Equal(t, d.Total, d.True+d.False+d.Other)
	assert.Equal(t, []FlagCount{
		{Value: "", Count: 1},
		{Value: " true", Count: 1},
		{Value: "0", Count: 1},
		{Value: "False", Count: 2},
		{Value: "TRUE", Count: 1},
		{Value: "True", Count: 2},
	}, d.Values)

	// Observing flags never changes what counts as fraud.
	assert.Equal(t, d.True, s.Fraudulent().Len())
}

func TestFlagDistribution_Empty(t *testing.T) {
	d := FlagDistribution(sequence.New(1))
	assert.Zero(t, d.Total)
	assert.Empty(t, d.Values)
}

func TestFirstFlags(t *testing.T) {
	s := flagged("True", "False", "x")

	samples := FirstFlags(s, 20)
	require.Len(t, samples, 3)
	assert.Equal(t, FlagSample{Index: 2, TransactionID: "T2", Flag: "x"}, samples[2])

	assert.Len(t, FirstFlags(s, 2), 2)
	assert.Empty(t, FirstFlags(s, 0))
	assert.Empty(t, FirstFlags(s, -3))
}

func TestCountBy(t *testing.T) {
	s := storagetest.Fill(chain.New(), storagetest.Locations()...)

	buckets := CountBy(s, core.FieldLocation)
	assert.Equal(t, []Bucket{
		{Value: "Berlin", Count: 3},
		{Value: "Dubai", Count: 2},
		{Value: "Tokyo", Count: 2},
		{Value: "", Count: 1},
		{Value: "London", Count: 1},
		{Value: "New York", Count: 1},
		{Value: "Sydney", Count: 1},
	}, buckets)

	channels := CountBy(s, core.FieldPaymentChannel)
	assert.Equal(t, []Bucket{{Value: "card", Count: len(storagetest.Locations())}}, channels)

	assert.Empty(t, CountBy(chain.New(), core.FieldLocation))
}
