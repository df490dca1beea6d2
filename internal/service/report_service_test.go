package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/cache"
	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	svc             *ReportService
	transactionRepo *testutil.MockTransactionRepository
	recurringRepo   *testutil.MockRecurringRepository
	goalRepo        *testutil.MockGoalRepository
}

func setupReportService(now time.Time, horizonDays int) *reportFixture {
	transactionRepo := testutil.NewMockTransactionRepository()
	recurringRepo := testutil.NewMockRecurringRepository()
	goalRepo := testutil.NewMockGoalRepository()

	svc := NewReportService(
		transactionRepo,
		recurringRepo,
		goalRepo,
		NewBalanceService(transactionRepo),
		cache.New[any](100, 0),
		horizonDays,
	)
	svc.now = func() time.Time { return now }

	return &reportFixture{
		svc:             svc,
		transactionRepo: transactionRepo,
		recurringRepo:   recurringRepo,
		goalRepo:        goalRepo,
	}
}

func (f *reportFixture) addTx(typ domain.TransactionType, amount int64, category domain.Category, date time.Time) {
	f.transactionRepo.AddTransaction(&domain.Transaction{
		UserID:          testUserID,
		Type:            typ,
		Amount:          decimal.NewFromInt(amount),
		Description:     string(category),
		Category:        category,
		TransactionDate: date,
	})
}

func (f *reportFixture) addMarch() {
	f.addTx(domain.TransactionTypeIncome, 10000, domain.CategorySales, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f.addTx(domain.TransactionTypeExpense, 500, domain.CategoryTaxes, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	f.addTx(domain.TransactionTypeExpense, 2000, domain.CategorySuppliers, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	f.addTx(domain.TransactionTypeExpense, 3000, domain.CategoryFixed, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
}

var march2024 = domain.CalendarMonth{Year: 2024, Month: time.March}

func TestReportService_GetDRE(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 30)
	f.addMarch()
	// outside the month
	f.addTx(domain.TransactionTypeIncome, 777, domain.CategorySales, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

	report, err := f.svc.GetDRE(context.Background(), testUserID, march2024)
	require.NoError(t, err)

	assert.Equal(t, "10000", report.Totals.GrossRevenue.String())
	assert.Equal(t, "9500", report.Totals.NetRevenue.String())
	assert.Equal(t, "7500", report.Totals.GrossProfit.String())
	assert.Equal(t, "4500", report.Totals.NetIncome.String())
	assert.Equal(t, 4, report.TransactionCount)
}

func TestReportService_GetDRE_Cached(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 30)
	f.addMarch()
	ctx := context.Background()

	first, err := f.svc.GetDRE(ctx, testUserID, march2024)
	require.NoError(t, err)
	second, err := f.svc.GetDRE(ctx, testUserID, march2024)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.transactionRepo.RangeCalls)

	// a different month is a different key
	_, err = f.svc.GetDRE(ctx, testUserID, domain.CalendarMonth{Year: 2024, Month: time.February})
	require.NoError(t, err)
	assert.Equal(t, 2, f.transactionRepo.RangeCalls)
}

func TestReportService_WritesInvalidateCache(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 30)
	f.addMarch()
	ctx := context.Background()

	txService := NewTransactionService(f.transactionRepo)
	txService.SetReportInvalidator(f.svc)

	before, err := f.svc.GetDRE(ctx, testUserID, march2024)
	require.NoError(t, err)
	assert.Equal(t, "4500", before.Totals.NetIncome.String())

	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err = txService.CreateTransaction(ctx, testUserID, CreateTransactionInput{
		Type:            domain.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(1000),
		Description:     "Ads",
		Category:        domain.CategoryMarketing,
		TransactionDate: &date,
	})
	require.NoError(t, err)

	after, err := f.svc.GetDRE(ctx, testUserID, march2024)
	require.NoError(t, err)
	assert.Equal(t, "3500", after.Totals.NetIncome.String())
	assert.Equal(t, 2, f.transactionRepo.RangeCalls)
}

func TestReportService_WriteDuringComputeIsNotCachedStale(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 30)
	f.addMarch()
	ctx := context.Background()

	txService := NewTransactionService(f.transactionRepo)
	txService.SetReportInvalidator(f.svc)

	// snapshot of the month as it was before the write
	before, err := f.transactionRepo.ListByDateRange(ctx, testUserID, march2024.Start(), march2024.End())
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	f.transactionRepo.RangeFn = func(string, time.Time, time.Time) ([]*domain.Transaction, error) {
		close(started)
		<-release
		return before, nil
	}

	done := make(chan *domain.DREReport)
	go func() {
		report, err := f.svc.GetDRE(ctx, testUserID, march2024)
		assert.NoError(t, err)
		done <- report
	}()

	<-started
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err = txService.CreateTransaction(ctx, testUserID, CreateTransactionInput{
		Type:            domain.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(1000),
		Description:     "Ads",
		Category:        domain.CategoryMarketing,
		TransactionDate: &date,
	})
	require.NoError(t, err)
	close(release)

	stale := <-done
	require.NotNil(t, stale)
	assert.Equal(t, "4500", stale.Totals.NetIncome.String())

	f.transactionRepo.RangeFn = nil
	after, err := f.svc.GetDRE(ctx, testUserID, march2024)
	require.NoError(t, err)
	assert.Equal(t, "3500", after.Totals.NetIncome.String())
}

func TestReportService_ErrorsAreNotCached(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 30)
	fail := true
	f.transactionRepo.RangeFn = func(string, time.Time, time.Time) ([]*domain.Transaction, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return nil, nil
	}

	_, err := f.svc.GetDRE(context.Background(), testUserID, march2024)
	require.Error(t, err)

	fail = false
	report, err := f.svc.GetDRE(context.Background(), testUserID, march2024)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TransactionCount)
}

func TestReportService_GetCashFlow_Runway(t *testing.T) {
	f := setupReportService(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 90)
	f.addTx(domain.TransactionTypeIncome, 1500, domain.CategorySales, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	f.addTx(domain.TransactionTypeExpense, 500, domain.CategoryFixed, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	f.recurringRepo.AddItem(&domain.RecurringItem{
		UserID:    testUserID,
		Name:      "Rent",
		Amount:    decimal.NewFromInt(1000),
		Type:      domain.TransactionTypeExpense,
		Category:  domain.CategoryRent,
		Frequency: domain.FrequencyMonthly,
		DueDay:    11,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})

	projection, err := f.svc.GetCashFlow(context.Background(), testUserID, 30, "high")
	require.NoError(t, err)

	assert.Equal(t, "1000", projection.StartingBalance.String())
	require.Len(t, projection.Points, 30)
	require.NotNil(t, projection.RunwayDays)
	assert.Equal(t, 10, *projection.RunwayDays)
	assert.True(t, projection.Points[10].Balance.IsZero())
	assert.Equal(t, "high", projection.Confidence)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), projection.Points[10].Date)
}

func TestReportService_GetCashFlow_Horizon(t *testing.T) {
	f := setupReportService(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 45)
	ctx := context.Background()

	projection, err := f.svc.GetCashFlow(ctx, testUserID, 0, "")
	require.NoError(t, err)
	assert.Len(t, projection.Points, 45)

	for _, horizon := range []int{-1, MaxHorizonDays + 1} {
		_, err := f.svc.GetCashFlow(ctx, testUserID, horizon, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "horizon %d", horizon)
	}
}

func TestReportService_GetOverview(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 14)
	f.addMarch()
	f.goalRepo.AddGoal(&domain.FinancialGoal{
		UserID:        testUserID,
		Title:         "Reserve",
		TargetAmount:  decimal.NewFromInt(2000),
		CurrentAmount: decimal.NewFromInt(1000),
	})

	overview, err := f.svc.GetOverview(context.Background(), testUserID, march2024, 0)
	require.NoError(t, err)

	assert.Equal(t, march2024, overview.Month)
	assert.True(t, overview.IsClosed)

	require.Len(t, overview.Rows, 8)
	assert.Equal(t, domain.LineGrossProfit, overview.Rows[4].Key)
	assert.Equal(t, "7500.00", overview.Rows[4].Value)
	assert.Equal(t, "78.9", overview.Rows[4].Percentage)

	require.Len(t, overview.Series, 14)
	assert.Equal(t, "2024-04-02", overview.Series[0].Date)
	assert.Equal(t, "4500.00", overview.Series[0].Balance)

	assert.Equal(t, "78.9", overview.Summary.GrossMargin.StringFixed(1))
	assert.Nil(t, overview.Summary.RunwayDays)

	require.Len(t, overview.Goals, 1)
	assert.Equal(t, 50, overview.Goals[0].ProgressPercent)
}

func TestReportService_GetOverview_CurrentMonthIsOpen(t *testing.T) {
	f := setupReportService(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC), 7)

	overview, err := f.svc.GetOverview(context.Background(), testUserID, march2024, 0)
	require.NoError(t, err)
	assert.False(t, overview.IsClosed)
	assert.Empty(t, overview.Goals)
}

func TestReportService_InvalidateUser(t *testing.T) {
	f := setupReportService(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), 7)
	ctx := context.Background()

	_, err := f.svc.GetOverview(ctx, testUserID, march2024, 0)
	require.NoError(t, err)

	// overview, DRE and cash flow
	assert.Equal(t, 3, f.svc.InvalidateUser(testUserID))
	assert.Equal(t, 0, f.svc.InvalidateUser(testUserID))
}
