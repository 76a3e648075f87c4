package costbasis

import "github.com/shopspring/decimal"

// Places is the number of fractional digits kept on every emitted monetary field.
const Places = 6

// divisionPlaces bounds proportional cost allocation, which is otherwise exact.
const divisionPlaces = 28

// Round applies round-half-to-even at Places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Places)
}

// cumulativeRounder rounds a running series so that the emitted parts always
// sum to the rounded total of the exact parts.
type cumulativeRounder struct {
	exact   decimal.Decimal
	emitted decimal.Decimal
}

func (r *cumulativeRounder) next(x decimal.Decimal) decimal.Decimal {
	r.exact = r.exact.Add(x)
	target := Round(r.exact)
	part := target.Sub(r.emitted)
	r.emitted = target
	return part
}
