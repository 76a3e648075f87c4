package importer

import (
	"sort"

	"github.com/tropicaldog17/capgains/internal/costbasis"
)

// Raw converts a parsed row into normalizer input using seq as its sequence id.
func (r Row) Raw(seq int64) costbasis.RawTransaction {
	return costbasis.RawTransaction{
		InstrumentKey: r.InstrumentKey,
		Kind:          r.Type,
		Date:          r.Date,
		SequenceID:    seq,
		Units:         r.Units,
		UnitPrice:     r.Price,
		Fee:           r.Fee,
	}
}

// GroupByInstrument normalizes rows for offline matching. Sequence ids follow
// file order (the line number), and each instrument's records are stably
// sorted by date so same-day trades keep their file order. Rows that fail to
// parse or normalize are returned in rejected with Err set.
func GroupByInstrument(rows []Row) (scopes map[string][]costbasis.NormalizedTransaction, rejected []Row) {
	scopes = make(map[string][]costbasis.NormalizedTransaction)
	for _, row := range rows {
		if row.Err != nil {
			rejected = append(rejected, row)
			continue
		}
		n, err := costbasis.Normalize(row.Raw(int64(row.Line)))
		if err != nil {
			row.Err = err
			rejected = append(rejected, row)
			continue
		}
		scopes[n.InstrumentKey()] = append(scopes[n.InstrumentKey()], n)
	}

	for _, records := range scopes {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date().Before(records[j].Date())
		})
	}
	return scopes, rejected
}

// Instruments returns the keys of scopes in sorted order.
func Instruments(scopes map[string][]costbasis.NormalizedTransaction) []string {
	keys := make([]string, 0, len(scopes))
	for k := range scopes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
