package costbasis

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotMatch records how much of one lot a disposal drew from.
type LotMatch struct {
	AcquisitionSequenceID int64           `json:"acquisition_sequence_id"`
	AcquiredDate          time.Time       `json:"acquired_date"`
	Units                 decimal.Decimal `json:"units"`
	Cost                  decimal.Decimal `json:"cost"`
	HoldingDays           int             `json:"holding_days"`
}

// RealizedGain is the outcome of one disposal.
type RealizedGain struct {
	DisposalSequenceID int64           `json:"disposal_sequence_id"`
	Date               time.Time       `json:"date"`
	InstrumentKey      string          `json:"instrument_key"`
	FiscalYear         int             `json:"fiscal_year"`
	UnitsDisposed      decimal.Decimal `json:"units_disposed"`
	Proceeds           decimal.Decimal `json:"proceeds"`
	CostBasis          decimal.Decimal `json:"cost_basis"`
	GainLoss           decimal.Decimal `json:"gain_loss"`
	FullyMatched       bool            `json:"fully_matched"`
	UnitsUnmatched     decimal.Decimal `json:"units_unmatched"`
	Matches            []LotMatch      `json:"matches"`
}

// MatchResult is the full output of one engine run over a scope.
type MatchResult struct {
	Gains    []RealizedGain `json:"gains"`
	OpenLots []Lot          `json:"open_lots"`
}

// ComputeGainLoss returns one RealizedGain per disposal, in input order.
func ComputeGainLoss(records []NormalizedTransaction) []RealizedGain {
	return Match(records).Gains
}

// Match runs FIFO lot matching over records, which must belong to a single
// (owner, instrument) scope and be sorted by (date, sequence id). The input is
// not re-sorted. Oversold disposals are reported through FullyMatched and
// UnitsUnmatched rather than as errors.
func Match(records []NormalizedTransaction) MatchResult {
	var (
		queue   lotQueue
		rounder cumulativeRounder
	)
	gains := make([]RealizedGain, 0)

	for _, rec := range records {
		switch rec.Kind() {
		case Acquisition:
			queue.push(Lot{
				AcquisitionSequenceID: rec.SequenceID(),
				AcquiredDate:          rec.Date(),
				RemainingUnits:        rec.Units(),
				RemainingCost:         rec.NetCost().Abs(),
			})
		case Disposal:
			gains = append(gains, dispose(&queue, &rounder, rec))
		}
	}

	return MatchResult{Gains: gains, OpenLots: queue.open()}
}

func dispose(queue *lotQueue, rounder *cumulativeRounder, rec NormalizedTransaction) RealizedGain {
	need := rec.Units()
	consumed := decimal.Zero
	matches := make([]LotMatch, 0, 1)

	for need.IsPositive() && !queue.empty() {
		lot := queue.front()

		if lot.RemainingUnits.LessThanOrEqual(need) {
			consumed = consumed.Add(lot.RemainingCost)
			need = need.Sub(lot.RemainingUnits)
			matches = append(matches, matchOf(lot, lot.RemainingUnits, lot.RemainingCost, rec.Date()))
			queue.pop()
			continue
		}

		partial := lot.RemainingCost.Mul(need).DivRound(lot.RemainingUnits, divisionPlaces)
		consumed = consumed.Add(partial)
		matches = append(matches, matchOf(lot, need, partial, rec.Date()))
		lot.RemainingUnits = lot.RemainingUnits.Sub(need)
		lot.RemainingCost = lot.RemainingCost.Sub(partial)
		need = decimal.Zero
	}

	proceeds := rec.NetCost()
	costBasis := rounder.next(consumed)

	return RealizedGain{
		DisposalSequenceID: rec.SequenceID(),
		Date:               rec.Date(),
		InstrumentKey:      rec.InstrumentKey(),
		FiscalYear:         rec.FiscalYear(),
		UnitsDisposed:      rec.Units(),
		Proceeds:           proceeds,
		CostBasis:          costBasis,
		GainLoss:           proceeds.Sub(costBasis),
		FullyMatched:       !need.IsPositive(),
		UnitsUnmatched:     need,
		Matches:            matches,
	}
}

func matchOf(lot *Lot, units, cost decimal.Decimal, disposed time.Time) LotMatch {
	return LotMatch{
		AcquisitionSequenceID: lot.AcquisitionSequenceID,
		AcquiredDate:          lot.AcquiredDate,
		Units:                 units,
		Cost:                  cost,
		HoldingDays:           int(disposed.Sub(lot.AcquiredDate).Hours() / 24),
	}
}

// IsOrdered reports whether records satisfy the (date, sequence id) ordering Match expects.
func IsOrdered(records []NormalizedTransaction) bool {
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if cur.Date().Before(prev.Date()) {
			return false
		}
		if cur.Date().Equal(prev.Date()) && cur.SequenceID() <= prev.SequenceID() {
			return false
		}
	}
	return true
}
