package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tropicaldog17/capgains/internal/costbasis"
	"github.com/tropicaldog17/capgains/internal/db"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
	"github.com/tropicaldog17/capgains/internal/models"
)

type transactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(database *db.DB) TransactionRepository {
	return &transactionRepository{db: database}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch inserts all rows in one database transaction; either every row is stored or none.
// Rows receive ids in slice order, which is also their tie-break order on equal dates.
func (r *transactionRepository) CreateBatch(ctx context.Context, txs []*models.Transaction) ([]*models.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range txs {
			if t == nil {
				return fmt.Errorf("nil transaction in batch")
			}
			if err := tx.Create(t).Error; err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	return txs, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error) {
	query := applyFilter(r.db.WithContext(ctx), filter)

	query = query.Order("date DESC, id DESC")

	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	var transactions []*models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

func (r *transactionRepository) GetCount(ctx context.Context, filter *models.TransactionFilter) (int, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Transaction{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get transaction count: %w", err)
	}

	return int(count), nil
}

func applyFilter(query *gorm.DB, filter *models.TransactionFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if owner := strings.TrimSpace(filter.OwnerID); owner != "" {
		query = query.Where("owner_id = ?", owner)
	}
	if len(filter.Instruments) > 0 {
		keys := make([]string, len(filter.Instruments))
		for i, k := range filter.Instruments {
			keys[i] = models.NormalizeInstrumentKey(k)
		}
		query = query.Where("instrument_key IN ?", keys)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			if kind, err := costbasis.ParseKind(t); err == nil {
				types[i] = kind.String()
			} else {
				types[i] = t
			}
		}
		query = query.Where("type IN ?", types)
	}
	if filter.FiscalYear != nil {
		query = query.Where("fy = ?", *filter.FiscalYear)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	return query
}

// UpdateNotes changes the only mutable column. It bypasses the save hooks
// because no derived column depends on notes.
func (r *transactionRepository) UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Transaction, error) {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"notes": notes, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("transaction %d: %w", id, apperrors.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *transactionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *transactionRepository) ListScope(ctx context.Context, scope models.Scope) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND instrument_key = ?", scope.OwnerID, models.NormalizeInstrumentKey(scope.InstrumentKey)).
		Order("date ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", scope, err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListScopes(ctx context.Context, ownerID string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("owner_id = ?", ownerID).
		Distinct("instrument_key").
		Order("instrument_key ASC").
		Pluck("instrument_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments for owner %s: %w", ownerID, err)
	}
	return keys, nil
}
