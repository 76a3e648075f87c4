package services

import (
	"context"

	"github.com/tropicaldog17/capgains/internal/importer"
	"github.com/tropicaldog17/capgains/internal/models"
)

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ImportTransactions(ctx context.Context, ownerID string, rows []importer.Row, opts models.ImportOptions) (*models.ImportResult, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error)
	GetTransactionCount(ctx context.Context, filter *models.TransactionFilter) (int, error)
	UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// GainsService computes realized gain reports from stored transactions
type GainsService interface {
	GetScopeReport(ctx context.Context, scope models.Scope) (*models.GainReport, error)
	GetOwnerReport(ctx context.Context, ownerID string, fiscalYear *int) (*models.OwnerGainReport, error)
	ReportInvalidator
}

// ReportInvalidator drops any cached report for a scope after its transactions change.
type ReportInvalidator interface {
	Invalidate(scope models.Scope)
}
