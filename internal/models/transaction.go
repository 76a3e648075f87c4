package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tropicaldog17/capgains/internal/costbasis"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
)

// Transaction is one stored buy or sell of an instrument by an owner.
// The auto-increment ID doubles as the sequence id that breaks same-date ties.
type Transaction struct {
	ID            int64     `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	OwnerID       string    `json:"owner_id" gorm:"column:owner_id;type:varchar(100);not null;index:idx_tx_scope,priority:1"`
	InstrumentKey string    `json:"instrument_key" gorm:"column:instrument_key;type:varchar(50);not null;index:idx_tx_scope,priority:2"`
	Date          time.Time `json:"date" gorm:"column:date;type:date;not null;index:idx_tx_scope,priority:3"`
	Type          string    `json:"type" gorm:"column:type;type:varchar(10);not null"`

	Units     decimal.Decimal `json:"units" gorm:"column:units;type:decimal(30,10);not null"`
	UnitPrice decimal.Decimal `json:"price" gorm:"column:price;type:decimal(30,10);not null"`
	Fee       decimal.Decimal `json:"fee" gorm:"column:fee;type:decimal(30,10);not null;default:0"`

	// Derived by PreSave, never set directly
	TotalValue decimal.Decimal `json:"total_value" gorm:"column:total_value;type:decimal(30,6);not null"`
	NetCost    decimal.Decimal `json:"cost" gorm:"column:cost;type:decimal(30,6);not null"`
	FiscalYear int             `json:"fy" gorm:"column:fy;not null;index"`

	Notes       *string `json:"notes,omitempty" gorm:"column:notes;type:text"`
	ImportBatch *string `json:"import_batch,omitempty" gorm:"column:import_batch;type:varchar(36);index"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFilter represents filters for querying transactions
type TransactionFilter struct {
	OwnerID     string
	Instruments []string
	Types       []string
	FiscalYear  *int
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}

// Validate checks the fields the normalizer does not own
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return &apperrors.ErrValidation{Field: "owner_id", Message: "is required"}
	}
	if strings.TrimSpace(t.InstrumentKey) == "" {
		return &apperrors.ErrValidation{Field: "instrument_key", Message: "is required"}
	}
	return nil
}

// Raw converts the row into normalizer input.
func (t *Transaction) Raw() costbasis.RawTransaction {
	return costbasis.RawTransaction{
		InstrumentKey: t.InstrumentKey,
		Kind:          t.Type,
		Date:          t.Date,
		SequenceID:    t.ID,
		Units:         t.Units,
		UnitPrice:     t.UnitPrice,
		Fee:           t.Fee,
	}
}

// PreSave normalizes the row and overwrites every derived column.
func (t *Transaction) PreSave() error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.OwnerID = strings.TrimSpace(t.OwnerID)
	t.InstrumentKey = NormalizeInstrumentKey(t.InstrumentKey)

	n, err := costbasis.Normalize(t.Raw())
	if err != nil {
		return err
	}
	t.Type = n.Kind().String()
	t.Date = n.Date()
	t.TotalValue = n.TotalValue()
	t.NetCost = n.NetCost()
	t.FiscalYear = n.FiscalYear()
	return nil
}

// BeforeSave keeps derived columns consistent for every gorm write path.
func (t *Transaction) BeforeSave(*gorm.DB) error {
	return t.PreSave()
}

// Normalized returns the engine view of a stored row.
func (t *Transaction) Normalized() (costbasis.NormalizedTransaction, error) {
	return costbasis.Normalize(t.Raw())
}

// Scope identifies one owner's position in one instrument.
func (t *Transaction) Scope() Scope {
	return Scope{OwnerID: t.OwnerID, InstrumentKey: t.InstrumentKey}
}

// NormalizeInstrumentKey trims and upper-cases an instrument key such as "asx:bhp".
func NormalizeInstrumentKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
