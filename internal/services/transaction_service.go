package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/capgains/internal/errors"
	"github.com/tropicaldog17/capgains/internal/importer"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/metrics"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/repositories"
)

// transactionService implements the TransactionService interface
type transactionService struct {
	repo    repositories.TransactionRepository
	reports ReportInvalidator
	logger  *zap.Logger
}

// NewTransactionService creates a new transaction service. Every write
// invalidates the cached gain report of the affected scope through reports.
func NewTransactionService(repo repositories.TransactionRepository, reports ReportInvalidator, l *zap.Logger) TransactionService {
	return &transactionService{
		repo:    repo,
		reports: reports,
		logger:  logger.OrNop(l),
	}
}

// CreateTransaction validates, derives and stores a single trade
func (s *transactionService) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := tx.PreSave(); err != nil {
		return fmt.Errorf("transaction validation failed: %w", err)
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return err
	}
	s.invalidate(tx.Scope())

	s.logger.Info("Transaction created",
		zap.Int64("id", tx.ID),
		zap.String("scope", tx.Scope().String()),
		zap.String("type", tx.Type))
	return nil
}

// ImportTransactions stores parsed rows for one owner in a single database
// transaction, in row order. Each row goes through the same normalization as
// CreateTransaction. With SkipInvalid unset any rejected row aborts the
// import and nothing is stored.
func (s *transactionService) ImportTransactions(ctx context.Context, ownerID string, rows []importer.Row, opts models.ImportOptions) (*models.ImportResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, &apperrors.ErrValidation{Field: "owner_id", Message: "is required"}
	}

	batchID := uuid.New().String()
	result := &models.ImportResult{
		BatchID:  batchID,
		Created:  []*models.Transaction{},
		Rejected: []models.RowError{},
	}

	txs := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		if row.Err != nil {
			result.Rejected = append(result.Rejected, models.RowError{Line: row.Line, Message: row.Err.Error()})
			continue
		}
		tx := &models.Transaction{
			OwnerID:       ownerID,
			InstrumentKey: row.InstrumentKey,
			Date:          row.Date,
			Type:          row.Type,
			Units:         row.Units,
			UnitPrice:     row.Price,
			Fee:           row.Fee,
			ImportBatch:   &batchID,
		}
		if row.Notes != "" {
			notes := row.Notes
			tx.Notes = &notes
		}
		if err := tx.PreSave(); err != nil {
			result.Rejected = append(result.Rejected, models.RowError{Line: row.Line, Message: err.Error()})
			continue
		}
		txs = append(txs, tx)
	}

	metrics.ImportRows.WithLabelValues("rejected").Add(float64(len(result.Rejected)))

	if len(result.Rejected) > 0 && !opts.SkipInvalid {
		s.logger.Warn("Import aborted",
			zap.String("owner_id", ownerID),
			zap.Int("rows", len(rows)),
			zap.Int("rejected", len(result.Rejected)))
		return result, &apperrors.ErrValidation{
			Field:   "rows",
			Message: fmt.Sprintf("%d of %d rows rejected; nothing imported", len(result.Rejected), len(rows)),
		}
	}

	if len(txs) > 0 {
		created, err := s.repo.CreateBatch(ctx, txs)
		if err != nil {
			return nil, err
		}
		result.Created = created
	}
	metrics.ImportRows.WithLabelValues("created").Add(float64(len(result.Created)))

	seen := make(map[models.Scope]bool)
	for _, tx := range result.Created {
		if scope := tx.Scope(); !seen[scope] {
			seen[scope] = true
			s.invalidate(scope)
		}
	}

	s.logger.Info("Import completed",
		zap.String("batch_id", batchID),
		zap.String("owner_id", ownerID),
		zap.Int("created", len(result.Created)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("scopes", len(seen)))
	return result, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *transactionService) ListTransactions(ctx context.Context, filter *models.TransactionFilter) ([]*models.Transaction, error) {
	return s.repo.List(ctx, filter)
}

func (s *transactionService) GetTransactionCount(ctx context.Context, filter *models.TransactionFilter) (int, error) {
	return s.repo.GetCount(ctx, filter)
}

// UpdateNotes changes a transaction's notes. Trade fields are immutable;
// correcting a trade means deleting it and recording it again.
func (s *transactionService) UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Transaction, error) {
	return s.repo.UpdateNotes(ctx, id, notes)
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id int64) error {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(tx.Scope())

	s.logger.Info("Transaction deleted", zap.Int64("id", id), zap.String("scope", tx.Scope().String()))
	return nil
}

func (s *transactionService) invalidate(scope models.Scope) {
	if s.reports != nil {
		s.reports.Invalidate(scope)
	}
}
