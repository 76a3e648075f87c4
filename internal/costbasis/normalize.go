// Package costbasis normalizes buy/sell records and matches disposals against
// open acquisition lots in FIFO order.
package costbasis

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
)

// RawTransaction is a transaction as it arrives from a store, an import file or an API call.
type RawTransaction struct {
	InstrumentKey string
	Kind          string
	Date          time.Time
	SequenceID    int64
	Units         decimal.Decimal
	UnitPrice     decimal.Decimal
	Fee           decimal.Decimal
}

// Amount limits match the DECIMAL(30,10) input columns and the DECIMAL(30,6)
// derived columns.
const (
	MaxAmountScale         = 10
	MaxAmountIntegerDigits = 20
	MaxTotalIntegerDigits  = 24
)

// NormalizedTransaction is the canonical, immutable form consumed by the matching engine.
// Derived fields are computed once by Normalize and cannot be changed afterwards.
type NormalizedTransaction struct {
	instrumentKey string
	kind          Kind
	date          time.Time
	sequenceID    int64
	units         decimal.Decimal
	unitPrice     decimal.Decimal
	fee           decimal.Decimal

	totalValue decimal.Decimal
	netCost    decimal.Decimal
	fiscalYear int
}

// Normalize validates raw and derives total value, net cash cost and fiscal year.
func Normalize(raw RawTransaction) (NormalizedTransaction, error) {
	kind, err := ParseKind(raw.Kind)
	if err != nil {
		return NormalizedTransaction{}, err
	}
	if raw.Date.IsZero() {
		return NormalizedTransaction{}, &apperrors.ErrValidation{Field: "date", Message: "date is required"}
	}
	if !raw.Units.IsPositive() {
		return NormalizedTransaction{}, apperrors.InvalidAmount("units", "must be positive, got "+raw.Units.String())
	}
	if !raw.UnitPrice.IsPositive() {
		return NormalizedTransaction{}, apperrors.InvalidAmount("price", "must be positive, got "+raw.UnitPrice.String())
	}
	if raw.Fee.IsNegative() {
		return NormalizedTransaction{}, apperrors.InvalidAmount("fee", "must not be negative, got "+raw.Fee.String())
	}
	for _, a := range []struct {
		field string
		value decimal.Decimal
	}{{"units", raw.Units}, {"price", raw.UnitPrice}, {"fee", raw.Fee}} {
		if err := checkAmount(a.field, a.value, MaxAmountIntegerDigits); err != nil {
			return NormalizedTransaction{}, err
		}
	}

	date := CalendarDate(raw.Date)
	totalValue := Round(raw.Units.Mul(raw.UnitPrice))
	if integerDigits(totalValue) > MaxTotalIntegerDigits {
		return NormalizedTransaction{}, apperrors.InvalidAmount("units",
			fmt.Sprintf("units x price exceeds %d integer digits", MaxTotalIntegerDigits))
	}

	var netCost decimal.Decimal
	switch kind {
	case Acquisition:
		netCost = Round(totalValue.Add(raw.Fee).Neg())
	case Disposal:
		netCost = Round(totalValue.Sub(raw.Fee))
	}

	return NormalizedTransaction{
		instrumentKey: raw.InstrumentKey,
		kind:          kind,
		date:          date,
		sequenceID:    raw.SequenceID,
		units:         raw.Units,
		unitPrice:     raw.UnitPrice,
		fee:           raw.Fee,
		totalValue:    totalValue,
		netCost:       netCost,
		fiscalYear:    FiscalYearOf(date),
	}, nil
}

func (t NormalizedTransaction) InstrumentKey() string       { return t.instrumentKey }
func (t NormalizedTransaction) Kind() Kind                  { return t.kind }
func (t NormalizedTransaction) Date() time.Time             { return t.date }
func (t NormalizedTransaction) SequenceID() int64           { return t.sequenceID }
func (t NormalizedTransaction) Units() decimal.Decimal      { return t.units }
func (t NormalizedTransaction) UnitPrice() decimal.Decimal  { return t.unitPrice }
func (t NormalizedTransaction) Fee() decimal.Decimal        { return t.fee }
func (t NormalizedTransaction) TotalValue() decimal.Decimal { return t.totalValue }

// NetCost is negative for cash outflows (acquisitions) and positive for inflows (disposals).
func (t NormalizedTransaction) NetCost() decimal.Decimal { return t.netCost }

func (t NormalizedTransaction) FiscalYear() int { return t.fiscalYear }

// FiscalYearOf labels the July-June fiscal year by the calendar year it starts in.
func FiscalYearOf(date time.Time) int {
	if date.Month() >= time.July {
		return date.Year()
	}
	return date.Year() - 1
}

// CalendarDate drops the time of day, keeping the date as seen in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// checkAmount bounds d to MaxAmountScale fractional digits and maxInt integer digits.
// It only inspects the coefficient and exponent, so huge exponents are rejected
// without being expanded.
func checkAmount(field string, d decimal.Decimal, maxInt int) error {
	if d.IsZero() {
		return nil
	}
	if d.Exponent() < -MaxAmountScale {
		return apperrors.InvalidAmount(field, fmt.Sprintf("more than %d decimal places", MaxAmountScale))
	}
	if integerDigits(d) > maxInt {
		return apperrors.InvalidAmount(field, fmt.Sprintf("more than %d integer digits", maxInt))
	}
	return nil
}

func integerDigits(d decimal.Decimal) int {
	n := d.NumDigits() + int(d.Exponent())
	if n < 0 {
		return 0
	}
	return n
}

// ParseAmount parses decimal text coming from string-typed boundaries.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, apperrors.InvalidAmount(field, "value is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.InvalidAmount(field, "not a decimal number: "+s)
	}
	if err := checkAmount(field, d, MaxAmountIntegerDigits); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
