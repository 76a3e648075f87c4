package models

import (
	"fmt"

	"github.com/tropicaldog17/capgains/internal/costbasis"
)

// Scope is the unit the matching engine runs over: one owner, one instrument.
type Scope struct {
	OwnerID       string `json:"owner_id"`
	InstrumentKey string `json:"instrument_key"`
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s", s.OwnerID, s.InstrumentKey)
}

// GainReport is the realized gain report for a single scope
type GainReport struct {
	Scope             Scope                         `json:"scope"`
	Gains             []costbasis.RealizedGain      `json:"gains"`
	OpenLots          []costbasis.Lot               `json:"open_lots"`
	FiscalYears       []costbasis.FiscalYearSummary `json:"fiscal_years"`
	OversoldDisposals int                           `json:"oversold_disposals"`
}

// OwnerGainReport combines the scope reports of every instrument an owner traded
type OwnerGainReport struct {
	OwnerID     string                        `json:"owner_id"`
	FiscalYear  *int                          `json:"fiscal_year,omitempty"`
	Scopes      []*GainReport                 `json:"scopes"`
	FiscalYears []costbasis.FiscalYearSummary `json:"fiscal_years"`
}

// NewGainReport assembles a report from one engine run.
func NewGainReport(scope Scope, res costbasis.MatchResult) *GainReport {
	oversold := 0
	for _, g := range res.Gains {
		if !g.FullyMatched {
			oversold++
		}
	}
	return &GainReport{
		Scope:             scope,
		Gains:             res.Gains,
		OpenLots:          res.OpenLots,
		FiscalYears:       costbasis.SummarizeByFiscalYear(res.Gains),
		OversoldDisposals: oversold,
	}
}

// ForFiscalYear returns a copy restricted to disposals realized in fy.
func (r *GainReport) ForFiscalYear(fy int) *GainReport {
	gains := costbasis.FilterFiscalYear(r.Gains, fy)
	oversold := 0
	for _, g := range gains {
		if !g.FullyMatched {
			oversold++
		}
	}
	return &GainReport{
		Scope:             r.Scope,
		Gains:             gains,
		OpenLots:          r.OpenLots,
		FiscalYears:       costbasis.SummarizeByFiscalYear(gains),
		OversoldDisposals: oversold,
	}
}
