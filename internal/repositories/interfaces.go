package repositories

import (
	"context"

	"github.com/tropicaldog17/capgains/internal/models"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	CreateBatch(ctx context.Context, txs []*models.Transaction) ([]*models.Transaction, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	List(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error)
	GetCount(ctx context.Context, filter *models.TransactionFilter) (int, error)
	UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Transaction, error)
	Delete(ctx context.Context, id int64) error

	// ListScope returns every transaction of one scope ordered by (date, id).
	ListScope(ctx context.Context, scope models.Scope) ([]*models.Transaction, error)
	// ListScopes returns the sorted distinct instrument keys an owner has traded.
	ListScopes(ctx context.Context, ownerID string) ([]string, error)
}
