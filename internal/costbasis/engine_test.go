package costbasis

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func TestMatch_PartialConsumption(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "100", "10", "0"),
		mustNormalize(t, "Sell", "2021-02-10", 2, "40", "12", "0"),
	}

	res := Match(records)
	require.Len(t, res.Gains, 1)
	g := res.Gains[0]
	assertDecimal(t, "400", g.CostBasis)
	assertDecimal(t, "480", g.Proceeds)
	assertDecimal(t, "80", g.GainLoss)
	assert.True(t, g.FullyMatched)
	assert.True(t, g.UnitsUnmatched.IsZero())

	require.Len(t, res.OpenLots, 1)
	assertDecimal(t, "60", res.OpenLots[0].RemainingUnits)
	assertDecimal(t, "600", res.OpenLots[0].RemainingCost)
	assert.Equal(t, int64(1), res.OpenLots[0].AcquisitionSequenceID)
}

func TestMatch_Oversell(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "10", "5", "0"),
		mustNormalize(t, "Sell", "2021-02-10", 2, "15", "6", "0"),
	}

	res := Match(records)
	require.Len(t, res.Gains, 1)
	g := res.Gains[0]
	assert.False(t, g.FullyMatched)
	assertDecimal(t, "5", g.UnitsUnmatched)
	assertDecimal(t, "50", g.CostBasis)
	assertDecimal(t, "90", g.Proceeds)
	assertDecimal(t, "40", g.GainLoss)
	assert.Empty(t, res.OpenLots)
}

func TestMatch_SellWithNoLots(t *testing.T) {
	res := Match([]NormalizedTransaction{
		mustNormalize(t, "Sell", "2021-02-10", 1, "3", "2", "1"),
	})
	require.Len(t, res.Gains, 1)
	g := res.Gains[0]
	assert.False(t, g.FullyMatched)
	assertDecimal(t, "3", g.UnitsUnmatched)
	assert.True(t, g.CostBasis.IsZero())
	assertDecimal(t, "5", g.GainLoss)
	assert.Empty(t, g.Matches)
}

func TestMatch_EndToEndScenario(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "100", "10.00", "5"),
		mustNormalize(t, "Buy", "2021-03-01", 2, "50", "12.00", "5"),
		mustNormalize(t, "Sell", "2021-06-01", 3, "120", "15.00", "10"),
	}

	res := Match(records)
	require.Len(t, res.Gains, 1)
	g := res.Gains[0]
	assertDecimal(t, "1247", g.CostBasis)
	assertDecimal(t, "1790", g.Proceeds)
	assertDecimal(t, "543", g.GainLoss)
	assert.True(t, g.FullyMatched)
	assert.Equal(t, int64(3), g.DisposalSequenceID)
	assert.Equal(t, 2020, g.FiscalYear)
	assert.Equal(t, "ASX:BHP", g.InstrumentKey)

	require.Len(t, g.Matches, 2)
	assert.Equal(t, int64(1), g.Matches[0].AcquisitionSequenceID)
	assertDecimal(t, "100", g.Matches[0].Units)
	assertDecimal(t, "1005", g.Matches[0].Cost)
	assert.Equal(t, 142, g.Matches[0].HoldingDays)
	assert.Equal(t, int64(2), g.Matches[1].AcquisitionSequenceID)
	assertDecimal(t, "20", g.Matches[1].Units)
	assertDecimal(t, "242", g.Matches[1].Cost)

	require.Len(t, res.OpenLots, 1)
	assert.Equal(t, int64(2), res.OpenLots[0].AcquisitionSequenceID)
	assertDecimal(t, "30", res.OpenLots[0].RemainingUnits)
	assertDecimal(t, "363", res.OpenLots[0].RemainingCost)
}

func TestMatch_ExactMultiLotConsumption(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "5", "2", "0"),
		mustNormalize(t, "Buy", "2021-01-11", 2, "5", "4", "0"),
		mustNormalize(t, "Sell", "2021-01-12", 3, "10", "5", "0"),
		mustNormalize(t, "Buy", "2021-01-13", 4, "1", "1", "0"),
	}
	res := Match(records)
	require.Len(t, res.Gains, 1)
	assertDecimal(t, "30", res.Gains[0].CostBasis)
	require.Len(t, res.OpenLots, 1)
	assert.Equal(t, int64(4), res.OpenLots[0].AcquisitionSequenceID)
}

func TestMatch_SameDateAcquisitionsFollowSequence(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 7, "10", "1", "0"),
		mustNormalize(t, "Buy", "2021-01-10", 8, "10", "9", "0"),
		mustNormalize(t, "Sell", "2021-01-20", 9, "10", "5", "0"),
	}
	g := ComputeGainLoss(records)
	require.Len(t, g, 1)
	require.Len(t, g[0].Matches, 1)
	assert.Equal(t, int64(7), g[0].Matches[0].AcquisitionSequenceID)
	assertDecimal(t, "10", g[0].CostBasis)
}

func TestMatch_DisposalOrderDoesNotChangeLotsDrawn(t *testing.T) {
	buys := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "10", "1", "0"),
		mustNormalize(t, "Buy", "2021-01-11", 2, "10", "2", "0"),
	}
	sellA := mustNormalize(t, "Sell", "2021-02-01", 3, "5", "3", "0")
	sellB := mustNormalize(t, "Sell", "2021-02-01", 4, "8", "3", "0")
	sellBFirst := mustNormalize(t, "Sell", "2021-02-01", 3, "8", "3", "0")
	sellASecond := mustNormalize(t, "Sell", "2021-02-01", 4, "5", "3", "0")

	first := Match(append(append([]NormalizedTransaction{}, buys...), sellA, sellB))
	second := Match(append(append([]NormalizedTransaction{}, buys...), sellBFirst, sellASecond))

	drawn := func(res MatchResult) map[int64]decimal.Decimal {
		out := map[int64]decimal.Decimal{}
		for _, g := range res.Gains {
			for _, m := range g.Matches {
				out[m.AcquisitionSequenceID] = out[m.AcquisitionSequenceID].Add(m.Units)
			}
		}
		return out
	}

	a, b := drawn(first), drawn(second)
	require.Len(t, a, 2)
	require.Len(t, b, 2)
	for seq, units := range a {
		assert.True(t, units.Equal(b[seq]), "lot %d: %s vs %s", seq, units, b[seq])
	}
	assertDecimal(t, "10", a[1])
	assertDecimal(t, "3", a[2])
	require.Len(t, first.OpenLots, 1)
	require.Len(t, second.OpenLots, 1)
	assert.Equal(t, first.OpenLots[0].AcquisitionSequenceID, second.OpenLots[0].AcquisitionSequenceID)
	assert.True(t, first.OpenLots[0].RemainingUnits.Equal(second.OpenLots[0].RemainingUnits))
	assert.True(t, first.OpenLots[0].RemainingCost.Equal(second.OpenLots[0].RemainingCost))
	assertDecimal(t, "14", first.OpenLots[0].RemainingCost)

	totalCost := func(res MatchResult) decimal.Decimal {
		sum := decimal.Zero
		for _, g := range res.Gains {
			sum = sum.Add(g.CostBasis)
		}
		return sum
	}
	assert.True(t, totalCost(first).Equal(totalCost(second)))
}

func TestMatch_OldestLotAlwaysFirst(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-01", 1, "3", "1", "0"),
		mustNormalize(t, "Buy", "2021-01-02", 2, "3", "1", "0"),
		mustNormalize(t, "Sell", "2021-01-03", 3, "2", "1", "0"),
		mustNormalize(t, "Buy", "2021-01-04", 4, "3", "1", "0"),
		mustNormalize(t, "Sell", "2021-01-05", 5, "2", "1", "0"),
		mustNormalize(t, "Sell", "2021-01-06", 6, "4", "1", "0"),
	}
	gains := ComputeGainLoss(records)
	require.Len(t, gains, 3)

	var order []int64
	for _, g := range gains {
		for _, m := range g.Matches {
			order = append(order, m.AcquisitionSequenceID)
		}
	}
	assert.Equal(t, []int64{1, 1, 2, 2, 4}, order)
}

func TestMatch_Conservation(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "7", "3.17", "1.99"),
		mustNormalize(t, "Buy", "2021-02-10", 2, "11", "2.03", "0.5"),
		mustNormalize(t, "Sell", "2021-03-10", 3, "3", "4", "1"),
		mustNormalize(t, "Sell", "2021-04-10", 4, "9", "4", "1"),
		mustNormalize(t, "Buy", "2021-05-10", 5, "2", "5", "0"),
		mustNormalize(t, "Sell", "2021-08-10", 6, "20", "6", "1"),
	}

	res := Match(records)
	acquired := decimal.Zero
	for _, r := range records {
		if r.Kind() == Acquisition {
			acquired = acquired.Add(r.NetCost().Abs())
		}
	}

	matchedCost := decimal.Zero
	fullyMatchedCost := decimal.Zero
	for _, g := range res.Gains {
		perDisposal := decimal.Zero
		for _, m := range g.Matches {
			perDisposal = perDisposal.Add(m.Cost)
		}
		assert.True(t, g.CostBasis.Sub(perDisposal).Abs().LessThanOrEqual(d("0.000001")),
			"disposal %d cost basis %s vs matched %s", g.DisposalSequenceID, g.CostBasis, perDisposal)
		matchedCost = matchedCost.Add(g.CostBasis)
		if g.FullyMatched {
			fullyMatchedCost = fullyMatchedCost.Add(g.CostBasis)
		}
	}

	assert.True(t, fullyMatchedCost.LessThanOrEqual(acquired))
	// Every lot is exhausted by the last oversold disposal.
	assert.Empty(t, res.OpenLots)
	assert.True(t, matchedCost.Equal(Round(acquired)), "matched %s acquired %s", matchedCost, acquired)
	assert.False(t, res.Gains[2].FullyMatched)
	assertDecimal(t, "0", res.Gains[1].UnitsUnmatched)
	assertDecimal(t, "12", res.Gains[2].UnitsUnmatched)
}

func TestMatch_Idempotent(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2021-01-10", 1, "3", "10", "1"),
		mustNormalize(t, "Sell", "2021-02-10", 2, "1", "11", "0.1"),
		mustNormalize(t, "Sell", "2021-03-10", 3, "1", "12", "0.1"),
		mustNormalize(t, "Sell", "2021-04-10", 4, "2", "13", "0.1"),
	}

	first, err := json.Marshal(Match(records))
	require.NoError(t, err)
	second, err := json.Marshal(Match(records))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMatch_RoundingStability(t *testing.T) {
	records := []NormalizedTransaction{
		// 3 units costing 10 in total: every 0.01-unit slice costs 0.0333...
		mustNormalize(t, "Buy", "2021-01-10", 1, "3", "1", "7"),
	}
	for i := 0; i < 300; i++ {
		records = append(records, mustNormalize(t, "Sell", "2021-02-10", int64(i+2), "0.01", "4", "0"))
	}

	res := Match(records)
	require.Len(t, res.Gains, 300)
	assert.Empty(t, res.OpenLots)

	sum := decimal.Zero
	for _, g := range res.Gains {
		assert.True(t, g.CostBasis.Equal(Round(g.CostBasis)), "cost basis %s exceeds 6 places", g.CostBasis)
		assert.True(t, g.FullyMatched)
		sum = sum.Add(g.CostBasis)
	}
	assert.True(t, sum.Sub(d("10")).Abs().LessThanOrEqual(d("0.000001")), "drift: total cost basis %s", sum)
}

func TestIsOrdered(t *testing.T) {
	a := mustNormalize(t, "Buy", "2021-01-10", 1, "1", "1", "")
	b := mustNormalize(t, "Buy", "2021-01-10", 2, "1", "1", "")
	c := mustNormalize(t, "Sell", "2021-01-11", 3, "1", "1", "")

	assert.True(t, IsOrdered(nil))
	assert.True(t, IsOrdered([]NormalizedTransaction{a, b, c}))
	assert.False(t, IsOrdered([]NormalizedTransaction{b, a, c}))
	assert.False(t, IsOrdered([]NormalizedTransaction{c, a}))
}
