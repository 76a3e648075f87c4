package costbasis

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tropicaldog17/capgains/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustNormalize(t *testing.T, kind, date string, seq int64, units, price, fee string) NormalizedTransaction {
	t.Helper()
	raw := RawTransaction{
		InstrumentKey: "ASX:BHP",
		Kind:          kind,
		Date:          day(date),
		SequenceID:    seq,
		Units:         d(units),
		UnitPrice:     d(price),
	}
	if fee != "" {
		raw.Fee = d(fee)
	}
	n, err := Normalize(raw)
	require.NoError(t, err)
	return n
}

func TestNormalize_DerivedFields(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		units       string
		price       string
		fee         string
		wantKind    Kind
		wantTotal   string
		wantNetCost string
	}{
		{name: "buy includes fee in cost", kind: "Buy", units: "100", price: "10.00", fee: "5", wantKind: Acquisition, wantTotal: "1000", wantNetCost: "-1005"},
		{name: "sell deducts fee from proceeds", kind: "Sell", units: "120", price: "15.00", fee: "10", wantKind: Disposal, wantTotal: "1800", wantNetCost: "1790"},
		{name: "lowercase buy", kind: "buy", units: "1", price: "2", fee: "", wantKind: Acquisition, wantTotal: "2", wantNetCost: "-2"},
		{name: "uppercase sell with padding", kind: "  SELL ", units: "3", price: "1.5", fee: "0.25", wantKind: Disposal, wantTotal: "4.5", wantNetCost: "4.25"},
		{name: "half to even rounds down on even digit", kind: "Buy", units: "1", price: "0.0000025", fee: "", wantKind: Acquisition, wantTotal: "0.000002", wantNetCost: "-0.000002"},
		{name: "half to even rounds up on odd digit", kind: "Buy", units: "1", price: "0.0000035", fee: "", wantKind: Acquisition, wantTotal: "0.000004", wantNetCost: "-0.000004"},
		{name: "fee with extra precision rounds once", kind: "Sell", units: "2", price: "1.1111111", fee: "0.0000005", wantKind: Disposal, wantTotal: "2.222222", wantNetCost: "2.222222"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustNormalize(t, tt.kind, "2021-01-10", 1, tt.units, tt.price, tt.fee)
			assert.Equal(t, tt.wantKind, n.Kind())
			assert.True(t, n.TotalValue().Equal(d(tt.wantTotal)), "total value: got %s want %s", n.TotalValue(), tt.wantTotal)
			assert.True(t, n.NetCost().Equal(d(tt.wantNetCost)), "net cost: got %s want %s", n.NetCost(), tt.wantNetCost)
		})
	}
}

func TestNormalize_FeeDefaultsToZero(t *testing.T) {
	n := mustNormalize(t, "Buy", "2021-01-10", 7, "10", "3", "")
	assert.True(t, n.Fee().IsZero())
	assert.Equal(t, int64(7), n.SequenceID())
	assert.Equal(t, "ASX:BHP", n.InstrumentKey())
	assert.True(t, n.Units().Equal(d("10")))
	assert.True(t, n.UnitPrice().Equal(d("3")))
}

func TestNormalize_Rejections(t *testing.T) {
	base := RawTransaction{Kind: "Buy", Date: day("2021-01-10"), Units: d("1"), UnitPrice: d("1")}

	tests := []struct {
		name    string
		mutate  func(r *RawTransaction)
		wantErr error
		field   string
	}{
		{name: "unknown type", mutate: func(r *RawTransaction) { r.Kind = "Dividend" }, wantErr: apperrors.ErrInvalidTransactionType, field: "type"},
		{name: "empty type", mutate: func(r *RawTransaction) { r.Kind = "" }, wantErr: apperrors.ErrInvalidTransactionType, field: "type"},
		{name: "negative units", mutate: func(r *RawTransaction) { r.Units = d("-1") }, wantErr: apperrors.ErrInvalidAmount, field: "units"},
		{name: "zero units", mutate: func(r *RawTransaction) { r.Units = decimal.Zero }, wantErr: apperrors.ErrInvalidAmount, field: "units"},
		{name: "zero price", mutate: func(r *RawTransaction) { r.UnitPrice = decimal.Zero }, wantErr: apperrors.ErrInvalidAmount, field: "price"},
		{name: "negative fee", mutate: func(r *RawTransaction) { r.Fee = d("-0.01") }, wantErr: apperrors.ErrInvalidAmount, field: "fee"},
		{name: "huge exponent units", mutate: func(r *RawTransaction) { r.Units = d("1e20000000") }, wantErr: apperrors.ErrInvalidAmount, field: "units"},
		{name: "21 integer digit price", mutate: func(r *RawTransaction) { r.UnitPrice = d("123456789012345678901") }, wantErr: apperrors.ErrInvalidAmount, field: "price"},
		{name: "11 fractional digit price", mutate: func(r *RawTransaction) { r.UnitPrice = d("1.00000000001") }, wantErr: apperrors.ErrInvalidAmount, field: "price"},
		{name: "11 fractional digit fee", mutate: func(r *RawTransaction) { r.Fee = d("0.00000000001") }, wantErr: apperrors.ErrInvalidAmount, field: "fee"},
		{name: "total beyond derived column", mutate: func(r *RawTransaction) {
			r.Units = d("10000000000000")
			r.UnitPrice = d("100000000000000")
		}, wantErr: apperrors.ErrInvalidAmount, field: "units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			tt.mutate(&raw)
			_, err := Normalize(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var verr *apperrors.ErrValidation
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNormalize_AmountLimits(t *testing.T) {
	n, err := Normalize(RawTransaction{
		Kind:      "Buy",
		Date:      day("2021-01-10"),
		Units:     d("0.0000000001"),
		UnitPrice: d("12345678901234567890"),
		Fee:       d("1.5"),
	})
	require.NoError(t, err)
	assert.True(t, d("1234567890.123457").Equal(n.TotalValue()), "total %s", n.TotalValue())

	_, err = ParseAmount("units", "1e20000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))

	_, err = ParseAmount("units", "0.12345678901")
	require.Error(t, err)

	got, err := ParseAmount("units", "1e3")
	require.NoError(t, err)
	assert.True(t, d("1000").Equal(got))
}

func TestNormalize_RequiresDate(t *testing.T) {
	_, err := Normalize(RawTransaction{Kind: "Sell", Units: d("1"), UnitPrice: d("1")})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFiscalYearOf(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2021-06-30", 2020},
		{"2021-07-01", 2021},
		{"2021-01-01", 2020},
		{"2021-12-31", 2021},
		{"2000-06-01", 1999},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, FiscalYearOf(day(tt.date)))
		})
	}
}

func TestNormalize_SameDateSameFiscalYear(t *testing.T) {
	a := mustNormalize(t, "Buy", "2021-06-30", 1, "1", "1", "")
	b := mustNormalize(t, "Sell", "2021-06-30", 2, "1", "1", "")
	c := mustNormalize(t, "Sell", "2021-07-01", 3, "1", "1", "")
	assert.Equal(t, a.FiscalYear(), b.FiscalYear())
	assert.Equal(t, 2020, a.FiscalYear())
	assert.Equal(t, 2021, c.FiscalYear())
}

func TestCalendarDate_KeepsLocalDay(t *testing.T) {
	sydney := time.FixedZone("AEST", 10*60*60)
	ts := time.Date(2021, 7, 1, 6, 30, 0, 0, sydney) // 2021-06-30 20:30 UTC
	got := CalendarDate(ts)
	assert.Equal(t, time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, 2021, FiscalYearOf(got))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("price", " 12.50 ")
	require.NoError(t, err)
	assert.True(t, v.Equal(d("12.5")))

	for _, bad := range []string{"", "NaN", "Inf", "-Infinity", "twelve"} {
		_, err := ParseAmount("price", bad)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount), "input %q: got %v", bad, err)
	}
}

func TestKindText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("sElL")))
	assert.Equal(t, Disposal, k)
	b, err := Acquisition.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Buy", string(b))
	assert.Error(t, k.UnmarshalText([]byte("hold")))
}
