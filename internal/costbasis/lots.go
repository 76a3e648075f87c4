package costbasis

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is the still-open remainder of one acquisition.
type Lot struct {
	AcquisitionSequenceID int64           `json:"acquisition_sequence_id"`
	AcquiredDate          time.Time       `json:"acquired_date"`
	RemainingUnits        decimal.Decimal `json:"remaining_units"`
	RemainingCost         decimal.Decimal `json:"remaining_cost"`
}

// lotQueue holds open lots oldest first. Removal only ever happens at the head.
type lotQueue struct {
	lots []Lot
	head int
}

func (q *lotQueue) push(l Lot) {
	q.lots = append(q.lots, l)
}

func (q *lotQueue) empty() bool {
	return q.head >= len(q.lots)
}

// front returns the oldest open lot; callers mutate it in place on partial consumption.
func (q *lotQueue) front() *Lot {
	return &q.lots[q.head]
}

func (q *lotQueue) pop() {
	q.lots[q.head] = Lot{}
	q.head++
	if q.empty() {
		q.lots = q.lots[:0]
		q.head = 0
	}
}

func (q *lotQueue) open() []Lot {
	out := make([]Lot, len(q.lots)-q.head)
	copy(out, q.lots[q.head:])
	return out
}
