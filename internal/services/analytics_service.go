package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/reconcile"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

const (
	overviewCacheKey = "lendtrack:analytics:overview"
	overviewCacheTTL = 15 * time.Minute
)

// AnalyticsService answers the read-only portfolio queries. Figures are
// always recomputed from the reconciled snapshot by the core; redis only
// shortens the window between identical dashboard loads and is bypassed
// when unavailable.
type AnalyticsService struct {
	loanRepo       repository.LoanRepository
	paymentRepo    repository.PaymentRepository
	advanceRepo    repository.AdvanceRepository
	rdb            *redis.Client
	upcomingWindow int
}

// NewAnalyticsService creates a new analytics service. rdb may be nil, in
// which case caching is disabled.
func NewAnalyticsService(loanRepo repository.LoanRepository, paymentRepo repository.PaymentRepository, advanceRepo repository.AdvanceRepository, rdb *redis.Client, upcomingWindow int) *AnalyticsService {
	return &AnalyticsService{
		loanRepo:       loanRepo,
		paymentRepo:    paymentRepo,
		advanceRepo:    advanceRepo,
		rdb:            rdb,
		upcomingWindow: upcomingWindow,
	}
}

// DefaultUpcomingWindow returns the configured upcoming-due window in days.
func (s *AnalyticsService) DefaultUpcomingWindow() int {
	return s.upcomingWindow
}

// Overview returns the dashboard totals
func (s *AnalyticsService) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	loans, payments, advances, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	overview := reconcile.DashboardTotals(loans, reconcile.GroupPayments(payments), advances, time.Now())
	s.writeCache(ctx, &overview)
	return &overview, nil
}

// OverdueLoans returns the loans currently overdue or defaulted
func (s *AnalyticsService) OverdueLoans(ctx context.Context) ([]models.Loan, error) {
	loans, err := s.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.OverdueLoans(loans), nil
}

// UpcomingDueLoans returns the non-archived loans due within the window
func (s *AnalyticsService) UpcomingDueLoans(ctx context.Context, days int) ([]models.Loan, error) {
	loans, err := s.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.UpcomingDueLoans(loans, time.Now(), days), nil
}

// InvalidateCache drops the cached overview after a mutation
func (s *AnalyticsService) InvalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, overviewCacheKey).Err(); err != nil {
		logger.Warn("Failed to invalidate analytics cache", "error", err)
	}
}

func (s *AnalyticsService) snapshot(ctx context.Context) ([]models.Loan, []models.Payment, []models.Advance, error) {
	loans, err := s.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	advances, err := s.advanceRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return loans, payments, advances, nil
}

func (s *AnalyticsService) readCache(ctx context.Context) *models.DashboardOverview {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, overviewCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var overview models.DashboardOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *AnalyticsService) writeCache(ctx context.Context, overview *models.DashboardOverview) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, overviewCacheKey, raw, overviewCacheTTL).Err(); err != nil {
		logger.Warn("Failed to cache analytics overview", "error", err)
	}
}
