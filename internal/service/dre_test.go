package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2025 = domain.CalendarMonth{Year: 2025, Month: time.March}

func dreTx(txType domain.TransactionType, amount int64, category domain.Category, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		UserID:          "auth0|user",
		Type:            txType,
		Amount:          decimal.NewFromInt(amount),
		Description:     string(category),
		Category:        category,
		TransactionDate: date,
	}
}

func midMarch() time.Time {
	return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
}

func TestComputeDRE_MarchScenario(t *testing.T) {
	txs := []*domain.Transaction{
		dreTx(domain.TransactionTypeIncome, 10000, domain.CategorySales, midMarch()),
		dreTx(domain.TransactionTypeExpense, 500, domain.CategoryTaxes, midMarch()),
		dreTx(domain.TransactionTypeExpense, 2000, domain.CategorySuppliers, midMarch()),
		dreTx(domain.TransactionTypeExpense, 3000, domain.CategoryFixed, midMarch()),
	}

	report := ComputeDRE(txs, march2025)

	totals := report.Totals
	assert.True(t, totals.GrossRevenue.Equal(decimal.NewFromInt(10000)), "gross revenue %s", totals.GrossRevenue)
	assert.True(t, totals.Deductions.Equal(decimal.NewFromInt(500)), "deductions %s", totals.Deductions)
	assert.True(t, totals.NetRevenue.Equal(decimal.NewFromInt(9500)), "net revenue %s", totals.NetRevenue)
	assert.True(t, totals.VariableCosts.Equal(decimal.NewFromInt(2000)), "variable costs %s", totals.VariableCosts)
	assert.True(t, totals.GrossProfit.Equal(decimal.NewFromInt(7500)), "gross profit %s", totals.GrossProfit)
	assert.True(t, totals.OperatingExpenses.Equal(decimal.NewFromInt(3000)), "operating expenses %s", totals.OperatingExpenses)
	assert.True(t, totals.EBITDA.Equal(decimal.NewFromInt(4500)), "ebitda %s", totals.EBITDA)
	assert.True(t, totals.NetIncome.Equal(decimal.NewFromInt(4500)), "net income %s", totals.NetIncome)
	assert.Equal(t, 4, report.TransactionCount)

	grossProfit, ok := report.Line(domain.LineGrossProfit)
	require.True(t, ok)
	assert.Equal(t, "78.9", grossProfit.Percentage.StringFixed(1))

	netRevenue, ok := report.Line(domain.LineNetRevenue)
	require.True(t, ok)
	assert.True(t, netRevenue.Percentage.Equal(decimal.NewFromInt(100)))
}

func TestComputeDRE_LineOrder(t *testing.T) {
	report := ComputeDRE(nil, march2025)

	wantKeys := []string{
		domain.LineGrossRevenue,
		domain.LineDeductions,
		domain.LineNetRevenue,
		domain.LineVariableCosts,
		domain.LineGrossProfit,
		domain.LineOperatingExpenses,
		domain.LineEBITDA,
		domain.LineNetIncome,
	}
	wantSubtotal := map[string]bool{
		domain.LineNetRevenue:  true,
		domain.LineGrossProfit: true,
		domain.LineEBITDA:      true,
		domain.LineNetIncome:   true,
	}

	require.Len(t, report.Lines, len(wantKeys))
	for i, key := range wantKeys {
		assert.Equal(t, key, report.Lines[i].Key)
		assert.Equal(t, wantSubtotal[key], report.Lines[i].IsSubtotal, "subtotal flag for %s", key)
	}
}

func TestComputeDRE_EmptyInput(t *testing.T) {
	for _, txs := range [][]*domain.Transaction{nil, {}} {
		report := ComputeDRE(txs, march2025)

		require.NotNil(t, report)
		assert.Equal(t, 0, report.TransactionCount)
		assert.Len(t, report.Lines, 8)
		for _, line := range report.Lines {
			assert.True(t, line.Value.IsZero(), "%s value = %s", line.Key, line.Value)
			assert.True(t, line.Percentage.IsZero(), "%s percentage = %s", line.Key, line.Percentage)
		}
	}
}

func TestComputeDRE_ZeroNetRevenue(t *testing.T) {
	// taxes equal to revenue leave net revenue at exactly zero
	txs := []*domain.Transaction{
		dreTx(domain.TransactionTypeIncome, 700, domain.CategorySales, midMarch()),
		dreTx(domain.TransactionTypeExpense, 700, domain.CategoryTaxes, midMarch()),
		dreTx(domain.TransactionTypeExpense, 300, domain.CategoryRent, midMarch()),
	}

	report := ComputeDRE(txs, march2025)

	assert.True(t, report.Totals.NetRevenue.IsZero())
	for _, line := range report.Lines {
		assert.True(t, line.Percentage.IsZero(), "%s percentage = %s", line.Key, line.Percentage)
	}
	assert.True(t, report.Totals.EBITDA.Equal(decimal.NewFromInt(-300)))
}

func TestComputeDRE_MonthBoundaries(t *testing.T) {
	first := march2025.Start()
	last := march2025.End()

	txs := []*domain.Transaction{
		dreTx(domain.TransactionTypeIncome, 1, domain.CategorySales, first),
		dreTx(domain.TransactionTypeIncome, 10, domain.CategorySales, last),
		dreTx(domain.TransactionTypeIncome, 100, domain.CategorySales, first.AddDate(0, 0, -1)),
		dreTx(domain.TransactionTypeIncome, 1000, domain.CategorySales, last.AddDate(0, 0, 1)),
		dreTx(domain.TransactionTypeIncome, 10000, domain.CategorySales, first.Add(-time.Nanosecond)),
	}

	report := ComputeDRE(txs, march2025)

	assert.True(t, report.Totals.GrossRevenue.Equal(decimal.NewFromInt(11)), "gross revenue %s", report.Totals.GrossRevenue)
	assert.Equal(t, 2, report.TransactionCount)
}

func TestComputeDRE_OtherCategoryDependsOnDirection(t *testing.T) {
	txs := []*domain.Transaction{
		dreTx(domain.TransactionTypeIncome, 400, domain.CategoryOther, midMarch()),
		dreTx(domain.TransactionTypeExpense, 150, domain.CategoryOther, midMarch()),
	}

	report := ComputeDRE(txs, march2025)

	assert.True(t, report.Totals.GrossRevenue.Equal(decimal.NewFromInt(400)))
	assert.True(t, report.Totals.OperatingExpenses.Equal(decimal.NewFromInt(150)))
	assert.True(t, report.Totals.Deductions.IsZero())
	assert.True(t, report.Totals.VariableCosts.IsZero())
}

func TestComputeDRE_UnknownCategoryDoesNotFail(t *testing.T) {
	txs := []*domain.Transaction{
		dreTx(domain.TransactionTypeIncome, 900, domain.Category("royalties"), midMarch()),
		dreTx(domain.TransactionTypeExpense, 90, domain.Category("crypto"), midMarch()),
		nil,
	}

	report := ComputeDRE(txs, march2025)

	assert.True(t, report.Totals.GrossRevenue.Equal(decimal.NewFromInt(900)))
	assert.True(t, report.Totals.OperatingExpenses.Equal(decimal.NewFromInt(90)))
}

func TestComputeDRE_IncomeIgnoresCategory(t *testing.T) {
	// income tagged with an expense category still counts as gross revenue
	txs := []*domain.Transaction{
		dreTx(domain.TransactionTypeIncome, 250, domain.CategoryTaxes, midMarch()),
		dreTx(domain.TransactionTypeIncome, 250, domain.CategorySuppliers, midMarch()),
	}

	report := ComputeDRE(txs, march2025)

	assert.True(t, report.Totals.GrossRevenue.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Totals.Deductions.IsZero())
	assert.True(t, report.Totals.VariableCosts.IsZero())
}

func randomTransactions(r *rand.Rand, n int) []*domain.Transaction {
	labels := append([]domain.Category{"unmapped"}, domain.Categories...)
	txs := make([]*domain.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txType := domain.TransactionTypeExpense
		if r.Intn(3) == 0 {
			txType = domain.TransactionTypeIncome
		}
		// cents, spread across February..April
		amount := decimal.New(int64(r.Intn(1_000_000)+1), -2)
		date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.Int63n(int64(89 * 24 * time.Hour))))
		txs = append(txs, &domain.Transaction{
			Type:            txType,
			Amount:          amount,
			Description:     "generated",
			Category:        labels[r.Intn(len(labels))],
			TransactionDate: date,
		})
	}
	return txs
}

func TestComputeDRE_ExpensePartition(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		txs := randomTransactions(r, r.Intn(60))

		expenses := decimal.Zero
		income := decimal.Zero
		for _, tx := range txs {
			if !march2025.Contains(tx.TransactionDate) {
				continue
			}
			if tx.Type == domain.TransactionTypeExpense {
				expenses = expenses.Add(tx.Amount)
			} else {
				income = income.Add(tx.Amount)
			}
		}

		report := ComputeDRE(txs, march2025)
		totals := report.Totals

		partition := totals.Deductions.Add(totals.VariableCosts).Add(totals.OperatingExpenses)
		require.True(t, partition.Equal(expenses), "round %d: partition %s != expenses %s", round, partition, expenses)
		require.True(t, totals.GrossRevenue.Equal(income), "round %d: gross revenue %s != income %s", round, totals.GrossRevenue, income)
		require.True(t, totals.NetIncome.Equal(income.Sub(expenses)), "round %d: net income", round)

		for _, line := range report.Lines {
			if totals.NetRevenue.IsZero() {
				require.True(t, line.Percentage.IsZero())
				continue
			}
			want := line.Value.Div(totals.NetRevenue).Mul(decimal.NewFromInt(100))
			require.True(t, line.Percentage.Equal(want), "round %d: %s percentage %s != %s", round, line.Key, line.Percentage, want)
		}
	}
}

func TestComputeDRE_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	txs := randomTransactions(r, 40)

	a := ComputeDRE(txs, march2025)
	b := ComputeDRE(txs, march2025)

	require.Equal(t, len(a.Lines), len(b.Lines))
	for i := range a.Lines {
		assert.True(t, a.Lines[i].Value.Equal(b.Lines[i].Value))
		assert.True(t, a.Lines[i].Percentage.Equal(b.Lines[i].Percentage))
	}
}
