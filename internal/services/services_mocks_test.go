package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/capgains/internal/db"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/repositories"
)

// ---- Test doubles and fixtures shared by the service tests ----

// countingRepository wraps a real repository and counts scope loads.
type countingRepository struct {
	repositories.TransactionRepository

	mu             sync.Mutex
	listScopeCalls int
	listScopeErr   error
}

func (r *countingRepository) ListScope(ctx context.Context, scope models.Scope) ([]*models.Transaction, error) {
	r.mu.Lock()
	r.listScopeCalls++
	err := r.listScopeErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.TransactionRepository.ListScope(ctx, scope)
}

func (r *countingRepository) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listScopeCalls
}

type recordingInvalidator struct {
	mu     sync.Mutex
	scopes []models.Scope
}

func (r *recordingInvalidator) Invalidate(scope models.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, scope)
}

func newCountingRepo(t *testing.T) *countingRepository {
	t.Helper()
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return &countingRepository{TransactionRepository: repositories.NewTransactionRepository(database)}
}

func newTrade(owner, instrument, kind, date, units, price, fee string) *models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &models.Transaction{
		OwnerID:       owner,
		InstrumentKey: instrument,
		Date:          d,
		Type:          kind,
		Units:         decimal.RequireFromString(units),
		UnitPrice:     decimal.RequireFromString(price),
		Fee:           decimal.RequireFromString(fee),
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
