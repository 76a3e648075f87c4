package costbasis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiscalYearLabel(t *testing.T) {
	assert.Equal(t, "FY2021-22", FiscalYearLabel(2021))
	assert.Equal(t, "FY1999-00", FiscalYearLabel(1999))
}

func TestSummarizeByFiscalYear(t *testing.T) {
	records := []NormalizedTransaction{
		mustNormalize(t, "Buy", "2020-01-10", 1, "10", "10", "0"),
		mustNormalize(t, "Sell", "2021-06-30", 2, "2", "15", "0"), // FY2020: +10
		mustNormalize(t, "Sell", "2021-07-01", 3, "3", "8", "0"),  // FY2021: -6
		mustNormalize(t, "Sell", "2021-12-01", 4, "10", "12", "0"), // FY2021: 5 matched, 5 unmatched
	}
	gains := ComputeGainLoss(records)
	require.Len(t, gains, 3)

	summary := SummarizeByFiscalYear(gains)
	require.Len(t, summary, 2)

	fy20 := summary[0]
	assert.Equal(t, 2020, fy20.FiscalYear)
	assert.Equal(t, "FY2020-21", fy20.Label)
	assert.Equal(t, 1, fy20.Disposals)
	assertDecimal(t, "30", fy20.Proceeds)
	assertDecimal(t, "20", fy20.CostBasis)
	assertDecimal(t, "10", fy20.GainLoss)
	assert.Equal(t, 0, fy20.UnmatchedDisposals)

	fy21 := summary[1]
	assert.Equal(t, 2021, fy21.FiscalYear)
	assert.Equal(t, 2, fy21.Disposals)
	assertDecimal(t, "144", fy21.Proceeds)
	assertDecimal(t, "80", fy21.CostBasis)
	assertDecimal(t, "64", fy21.GainLoss)
	assert.Equal(t, 1, fy21.UnmatchedDisposals)
}

func TestSummarizeByFiscalYear_Empty(t *testing.T) {
	assert.Empty(t, SummarizeByFiscalYear(nil))
}

func TestFilterFiscalYear(t *testing.T) {
	gains := []RealizedGain{
		{DisposalSequenceID: 1, FiscalYear: 2020},
		{DisposalSequenceID: 2, FiscalYear: 2021},
		{DisposalSequenceID: 3, FiscalYear: 2020},
	}
	got := FilterFiscalYear(gains, 2020)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].DisposalSequenceID)
	assert.Equal(t, int64(3), got[1].DisposalSequenceID)
	assert.Empty(t, FilterFiscalYear(gains, 2019))
}

func TestMergeSummaries(t *testing.T) {
	a := SummarizeByFiscalYear([]RealizedGain{
		{FiscalYear: 2020, Proceeds: d("10"), CostBasis: d("4"), GainLoss: d("6"), FullyMatched: true},
	})
	b := SummarizeByFiscalYear([]RealizedGain{
		{FiscalYear: 2020, Proceeds: d("5"), CostBasis: d("7"), GainLoss: d("-2"), FullyMatched: false},
		{FiscalYear: 2019, Proceeds: d("1"), CostBasis: d("1"), GainLoss: d("0"), FullyMatched: true},
	})

	merged := MergeSummaries(a, b)
	require.Len(t, merged, 2)
	assert.Equal(t, 2019, merged[0].FiscalYear)
	assert.Equal(t, 2020, merged[1].FiscalYear)
	assert.Equal(t, 2, merged[1].Disposals)
	assertDecimal(t, "15", merged[1].Proceeds)
	assertDecimal(t, "11", merged[1].CostBasis)
	assertDecimal(t, "4", merged[1].GainLoss)
	assert.Equal(t, 1, merged[1].UnmatchedDisposals)

	// inputs are not mutated
	assertDecimal(t, "10", a[0].Proceeds)
}
