package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/tropicaldog17/capgains/internal/costbasis"
	"github.com/tropicaldog17/capgains/internal/importer"
	"github.com/tropicaldog17/capgains/internal/models"
)

// offlineReport is the JSON document printed by the report subcommand.
type offlineReport struct {
	Source      string                        `json:"source"`
	FiscalYear  *int                          `json:"fiscal_year,omitempty"`
	Instruments []*models.GainReport          `json:"instruments"`
	FiscalYears []costbasis.FiscalYearSummary `json:"fiscal_years"`
	Rejected    []models.RowError             `json:"rejected,omitempty"`
}

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	file        string
	fiscalYear  int
	instrument  string
	skipInvalid bool

	out    io.Writer
	errOut io.Writer
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "FIFO realized gains from a trade CSV" }
func (*reportCmd) Usage() string {
	return `capgains report -f <trades.csv> [-fy <year>] [-instrument <key>] [-skip-invalid]

  Matches every sell against the earliest open buys of the same instrument and
  prints the realized gains, open lots and fiscal year totals as JSON.
  Fiscal year 2021 runs from 2021-07-01 to 2022-06-30.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Trade CSV file (date,type,instrument,units,price[,fee][,notes])")
	f.IntVar(&c.fiscalYear, "fy", 0, "Only report disposals in this fiscal year")
	f.StringVar(&c.instrument, "instrument", "", "Only report this instrument key")
	f.BoolVar(&c.skipInvalid, "skip-invalid", false, "Report invalid rows and continue instead of failing")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	errOut := c.errOut
	if errOut == nil {
		errOut = os.Stderr
	}
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	if c.file == "" {
		fmt.Fprintln(errOut, "-f is required")
		return subcommands.ExitUsageError
	}

	f, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(errOut, "Error opening %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	rows, err := importer.ParseCSV(f)
	if err != nil {
		fmt.Fprintf(errOut, "Error reading %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	report, err := buildOfflineReport(rows, c.instrument, c.fiscalYear)
	if err != nil {
		fmt.Fprintf(errOut, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}
	report.Source = c.file

	if len(report.Rejected) > 0 && !c.skipInvalid {
		for _, re := range report.Rejected {
			fmt.Fprintf(errOut, "line %d: %s\n", re.Line, re.Message)
		}
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(errOut, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// buildOfflineReport groups rows per instrument and runs the matcher on each.
// An empty instrument selects all; fy 0 keeps every fiscal year.
func buildOfflineReport(rows []importer.Row, instrument string, fy int) (*offlineReport, error) {
	scopes, rejected := importer.GroupByInstrument(rows)

	report := &offlineReport{Instruments: []*models.GainReport{}}
	for _, row := range rejected {
		report.Rejected = append(report.Rejected, models.RowError{Line: row.Line, Message: row.Err.Error()})
	}
	if fy != 0 {
		report.FiscalYear = &fy
	}

	want := models.NormalizeInstrumentKey(instrument)
	var summaries [][]costbasis.FiscalYearSummary
	for _, key := range importer.Instruments(scopes) {
		if want != "" && key != want {
			continue
		}
		records := scopes[key]
		if !costbasis.IsOrdered(records) {
			return nil, fmt.Errorf("instrument %s: records out of order", key)
		}

		gr := models.NewGainReport(models.Scope{InstrumentKey: key}, costbasis.Match(records))
		if fy != 0 {
			gr = gr.ForFiscalYear(fy)
		}
		report.Instruments = append(report.Instruments, gr)
		summaries = append(summaries, gr.FiscalYears)
	}
	report.FiscalYears = costbasis.MergeSummaries(summaries...)
	return report, nil
}
