package service

import (
	"context"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BalanceService handles balance calculation logic
type BalanceService struct {
	transactionRepo domain.TransactionRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(transactionRepo domain.TransactionRepository) *BalanceService {
	return &BalanceService{
		transactionRepo: transactionRepo,
	}
}

// CurrentBalance returns income minus expenses over every transaction
// dated on or before asOf's calendar day
func (s *BalanceService) CurrentBalance(ctx context.Context, userID string, asOf time.Time) (decimal.Decimal, error) {
	until := util.StartOfDay(asOf)

	var income, expenses decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.transactionRepo.SumByType(gctx, userID, until, domain.TransactionTypeIncome)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.transactionRepo.SumByType(gctx, userID, until, domain.TransactionTypeExpense)
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	// balance = income - expenses
	return income.Sub(expenses), nil
}
