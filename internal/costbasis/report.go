package costbasis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// FiscalYearSummary aggregates the realized gains of one fiscal year.
type FiscalYearSummary struct {
	FiscalYear         int             `json:"fiscal_year"`
	Label              string          `json:"label"`
	Disposals          int             `json:"disposals"`
	Proceeds           decimal.Decimal `json:"proceeds"`
	CostBasis          decimal.Decimal `json:"cost_basis"`
	GainLoss           decimal.Decimal `json:"gain_loss"`
	UnmatchedDisposals int             `json:"unmatched_disposals"`
}

// FiscalYearLabel renders fiscal year 2021 as "FY2021-22".
func FiscalYearLabel(fy int) string {
	return fmt.Sprintf("FY%d-%02d", fy, (fy+1)%100)
}

// SummarizeByFiscalYear sums gains per fiscal year, oldest year first.
func SummarizeByFiscalYear(gains []RealizedGain) []FiscalYearSummary {
	byYear := make(map[int]*FiscalYearSummary)
	for _, g := range gains {
		s, ok := byYear[g.FiscalYear]
		if !ok {
			s = &FiscalYearSummary{
				FiscalYear: g.FiscalYear,
				Label:      FiscalYearLabel(g.FiscalYear),
				Proceeds:   decimal.Zero,
				CostBasis:  decimal.Zero,
				GainLoss:   decimal.Zero,
			}
			byYear[g.FiscalYear] = s
		}
		s.Disposals++
		s.Proceeds = s.Proceeds.Add(g.Proceeds)
		s.CostBasis = s.CostBasis.Add(g.CostBasis)
		s.GainLoss = s.GainLoss.Add(g.GainLoss)
		if !g.FullyMatched {
			s.UnmatchedDisposals++
		}
	}

	out := make([]FiscalYearSummary, 0, len(byYear))
	for _, s := range byYear {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear < out[j].FiscalYear })
	return out
}

// FilterFiscalYear keeps the gains realized in fiscal year fy, preserving order.
func FilterFiscalYear(gains []RealizedGain, fy int) []RealizedGain {
	out := make([]RealizedGain, 0, len(gains))
	for _, g := range gains {
		if g.FiscalYear == fy {
			out = append(out, g)
		}
	}
	return out
}

// MergeSummaries adds per-scope fiscal year summaries into one list.
func MergeSummaries(groups ...[]FiscalYearSummary) []FiscalYearSummary {
	byYear := make(map[int]*FiscalYearSummary)
	for _, group := range groups {
		for _, s := range group {
			acc, ok := byYear[s.FiscalYear]
			if !ok {
				cp := s
				byYear[s.FiscalYear] = &cp
				continue
			}
			acc.Disposals += s.Disposals
			acc.Proceeds = acc.Proceeds.Add(s.Proceeds)
			acc.CostBasis = acc.CostBasis.Add(s.CostBasis)
			acc.GainLoss = acc.GainLoss.Add(s.GainLoss)
			acc.UnmatchedDisposals += s.UnmatchedDisposals
		}
	}
	out := make([]FiscalYearSummary, 0, len(byYear))
	for _, s := range byYear {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear < out[j].FiscalYear })
	return out
}
