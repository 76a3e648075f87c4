package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tropicaldog17/capgains/internal/costbasis"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/metrics"
	"github.com/tropicaldog17/capgains/internal/models"
	"github.com/tropicaldog17/capgains/internal/repositories"
)

type gainsService struct {
	repo    repositories.TransactionRepository
	cache   *cache.Cache
	workers int
	logger  *zap.Logger

	// generation guards against caching a report computed from rows that
	// were invalidated while the computation was in flight.
	mu         sync.Mutex
	generation map[string]uint64
}

// NewGainsService creates a gains service. Reports are cached for ttl; a
// non-positive ttl disables caching. workers bounds concurrent scope
// computations in owner reports.
func NewGainsService(repo repositories.TransactionRepository, ttl time.Duration, workers int, l *zap.Logger) GainsService {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	if workers <= 0 {
		workers = 1
	}
	return &gainsService{
		repo:       repo,
		cache:      c,
		workers:    workers,
		logger:     logger.OrNop(l),
		generation: make(map[string]uint64),
	}
}

func normalizeScope(scope models.Scope) (models.Scope, error) {
	scope.OwnerID = strings.TrimSpace(scope.OwnerID)
	scope.InstrumentKey = models.NormalizeInstrumentKey(scope.InstrumentKey)
	if scope.OwnerID == "" {
		return scope, &apperrors.ErrValidation{Field: "owner_id", Message: "is required"}
	}
	if scope.InstrumentKey == "" {
		return scope, &apperrors.ErrValidation{Field: "instrument", Message: "is required"}
	}
	return scope, nil
}

// GetScopeReport matches every stored transaction of scope oldest-first and
// summarizes the realized gains by fiscal year.
func (s *gainsService) GetScopeReport(ctx context.Context, scope models.Scope) (*models.GainReport, error) {
	scope, err := normalizeScope(scope)
	if err != nil {
		return nil, err
	}
	key := scope.String()

	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			metrics.CacheHit()
			return cached.(*models.GainReport), nil
		}
		metrics.CacheMiss()
	}

	gen := s.currentGeneration(key)
	report, err := s.compute(ctx, scope)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.mu.Lock()
		if s.generation[key] == gen {
			s.cache.SetDefault(key, report)
		}
		s.mu.Unlock()
	}
	return report, nil
}

func (s *gainsService) compute(ctx context.Context, scope models.Scope) (*models.GainReport, error) {
	started := time.Now()

	rows, err := s.repo.ListScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", scope, err)
	}

	records := make([]costbasis.NormalizedTransaction, 0, len(rows))
	for _, row := range rows {
		n, err := row.Normalized()
		if err != nil {
			return nil, fmt.Errorf("stored transaction %d is invalid: %w", row.ID, err)
		}
		records = append(records, n)
	}
	if !costbasis.IsOrdered(records) {
		return nil, fmt.Errorf("transactions for %s are not in (date, id) order", scope)
	}

	report := models.NewGainReport(scope, costbasis.Match(records))
	metrics.ObserveEngineRun(started, len(report.Gains)-report.OversoldDisposals, report.OversoldDisposals)

	s.logger.Debug("Computed gain report",
		zap.String("scope", scope.String()),
		zap.Int("transactions", len(records)),
		zap.Int("disposals", len(report.Gains)),
		zap.Int("open_lots", len(report.OpenLots)),
		zap.Duration("elapsed", time.Since(started)))
	if report.OversoldDisposals > 0 {
		s.logger.Warn("Disposals exceed held units",
			zap.String("scope", scope.String()),
			zap.Int("oversold_disposals", report.OversoldDisposals))
	}
	return report, nil
}

// GetOwnerReport computes every instrument the owner traded concurrently and
// merges their fiscal year summaries. A non-nil fiscalYear keeps only the
// disposals realized in that year and drops scopes without any.
func (s *gainsService) GetOwnerReport(ctx context.Context, ownerID string, fiscalYear *int) (*models.OwnerGainReport, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, &apperrors.ErrValidation{Field: "owner_id", Message: "is required"}
	}

	keys, err := s.repo.ListScopes(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	reports := make([]*models.GainReport, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, key := range keys {
		g.Go(func() error {
			report, err := s.GetScopeReport(gctx, models.Scope{OwnerID: ownerID, InstrumentKey: key})
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &models.OwnerGainReport{
		OwnerID:    ownerID,
		FiscalYear: fiscalYear,
		Scopes:     make([]*models.GainReport, 0, len(reports)),
	}
	summaries := make([][]costbasis.FiscalYearSummary, 0, len(reports))
	for _, report := range reports {
		if fiscalYear != nil {
			report = report.ForFiscalYear(*fiscalYear)
			if len(report.Gains) == 0 {
				continue
			}
		}
		result.Scopes = append(result.Scopes, report)
		summaries = append(summaries, report.FiscalYears)
	}
	result.FiscalYears = costbasis.MergeSummaries(summaries...)
	return result, nil
}

func (s *gainsService) Invalidate(scope models.Scope) {
	scope.OwnerID = strings.TrimSpace(scope.OwnerID)
	scope.InstrumentKey = models.NormalizeInstrumentKey(scope.InstrumentKey)
	key := scope.String()

	s.mu.Lock()
	s.generation[key]++
	if s.cache != nil {
		s.cache.Delete(key)
	}
	s.mu.Unlock()
}

func (s *gainsService) currentGeneration(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation[key]
}
