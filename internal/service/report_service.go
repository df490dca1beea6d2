package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/cache"
	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportService fetches the inputs of the reporting engines, runs them and
// memoizes the results per user until one of that user's writes invalidates
// them.
type ReportService struct {
	transactionRepo domain.TransactionRepository
	recurringRepo   domain.RecurringRepository
	goalRepo        domain.GoalRepository
	balanceService  *BalanceService
	cache           *cache.Cache[any]
	horizonDays     int
	now             func() time.Time
}

// NewReportService creates a new ReportService. horizonDays is used when a
// caller does not ask for a specific horizon.
func NewReportService(
	transactionRepo domain.TransactionRepository,
	recurringRepo domain.RecurringRepository,
	goalRepo domain.GoalRepository,
	balanceService *BalanceService,
	reportCache *cache.Cache[any],
	horizonDays int,
) *ReportService {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &ReportService{
		transactionRepo: transactionRepo,
		recurringRepo:   recurringRepo,
		goalRepo:        goalRepo,
		balanceService:  balanceService,
		cache:           reportCache,
		horizonDays:     horizonDays,
		now:             time.Now,
	}
}

// InvalidateUser drops every cached report of a user
func (s *ReportService) InvalidateUser(userID string) int {
	return s.cache.InvalidateUser(userID)
}

// GetDRE returns the income statement of a month
func (s *ReportService) GetDRE(ctx context.Context, userID string, month domain.CalendarMonth) (*domain.DREReport, error) {
	key := cache.Key{UserID: userID, Kind: cache.KindDRE, Params: month.String()}
	return cached(s.cache, key, func() (*domain.DREReport, error) {
		transactions, err := s.transactionRepo.ListByDateRange(ctx, userID, month.Start(), month.End())
		if err != nil {
			return nil, fmt.Errorf("list transactions for %s: %w", month, err)
		}
		return ComputeDRE(transactions, month), nil
	})
}

// GetCashFlow projects the balance from today over horizonDays using the
// user's active recurring items. confidence is copied onto the result.
func (s *ReportService) GetCashFlow(ctx context.Context, userID string, horizonDays int, confidence string) (*domain.CashFlowProjection, error) {
	horizonDays, err := s.resolveHorizon(horizonDays)
	if err != nil {
		return nil, err
	}

	today := util.StartOfDay(s.now())
	key := cache.Key{
		UserID: userID,
		Kind:   cache.KindCashFlow,
		Params: fmt.Sprintf("%s|%d|%s", today.Format(chartDateLayout), horizonDays, confidence),
	}
	return cached(s.cache, key, func() (*domain.CashFlowProjection, error) {
		var (
			balance decimal.Decimal
			items   []*domain.RecurringItem
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			balance, err = s.balanceService.CurrentBalance(gctx, userID, today)
			return err
		})
		g.Go(func() error {
			var err error
			items, err = s.recurringRepo.ListByUser(gctx, userID, true)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("load cash-flow inputs: %w", err)
		}

		scheduled := ExpandRecurring(items, today, horizonDays)
		projection := ProjectCashFlow(balance, scheduled, horizonDays, today)
		projection.Confidence = confidence
		return projection, nil
	})
}

// GetOverview combines the DRE of month, the cash-flow projection and the
// user's goals into a display-ready overview
func (s *ReportService) GetOverview(ctx context.Context, userID string, month domain.CalendarMonth, horizonDays int) (*domain.ReportOverview, error) {
	horizonDays, err := s.resolveHorizon(horizonDays)
	if err != nil {
		return nil, err
	}

	now := s.now()
	key := cache.Key{
		UserID: userID,
		Kind:   cache.KindOverview,
		Params: fmt.Sprintf("%s|%s|%d", month, util.StartOfDay(now).Format(chartDateLayout), horizonDays),
	}
	return cached(s.cache, key, func() (*domain.ReportOverview, error) {
		var (
			report     *domain.DREReport
			projection *domain.CashFlowProjection
			goals      []*domain.FinancialGoal
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			report, err = s.GetDRE(gctx, userID, month)
			return err
		})
		g.Go(func() error {
			var err error
			projection, err = s.GetCashFlow(gctx, userID, horizonDays, "")
			return err
		})
		g.Go(func() error {
			var err error
			goals, err = s.goalRepo.ListByUser(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		isClosed := util.IsHistoricalMonth(month.Year, int(month.Month), now)
		return BuildOverview(report, projection, goals, isClosed), nil
	})
}

func (s *ReportService) resolveHorizon(horizonDays int) (int, error) {
	if horizonDays == 0 {
		return s.horizonDays, nil
	}
	if horizonDays < 0 || horizonDays > MaxHorizonDays {
		return 0, fmt.Errorf("%w: horizon must be between 1 and %d days", domain.ErrInvalidInput, MaxHorizonDays)
	}
	return horizonDays, nil
}

// cached returns the entry under key, computing and storing it on a miss.
// Failed computations are not stored, and neither is a result whose owner was
// invalidated while it was being computed.
func cached[T any](c *cache.Cache[any], key cache.Key, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := c.Generation(key.UserID)
	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.SetIfGeneration(key, result, gen)
	return result, nil
}
