package service

import (
	"testing"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRows_Formatting(t *testing.T) {
	report := ComputeDRE(nil, march2024)

	rows := BuildRows(report)
	require.Len(t, rows, len(report.Lines))
	for i, row := range rows {
		assert.Equal(t, report.Lines[i].Key, row.Key)
		assert.Equal(t, "0.00", row.Value)
		assert.Equal(t, "0.0", row.Percentage)
	}
}

func TestBuildSeries(t *testing.T) {
	start := time.Date(2024, 12, 30, 15, 0, 0, 0, time.UTC)
	projection := ProjectCashFlow(decimal.RequireFromString("10.5"), []domain.ScheduledItem{
		{DayOffset: 2, Amount: decimal.NewFromInt(3), Type: domain.TransactionTypeExpense},
	}, 3, start)

	series := BuildSeries(projection)
	require.Len(t, series, 3)
	assert.Equal(t, domain.ChartPoint{Day: 0, Date: "2024-12-30", Balance: "10.50"}, series[0])
	assert.Equal(t, domain.ChartPoint{Day: 2, Date: "2025-01-01", Balance: "7.50"}, series[2])
}

func TestBuildSummary_LowestPointAndRunway(t *testing.T) {
	projection := ProjectCashFlow(decimal.NewFromInt(100), []domain.ScheduledItem{
		{DayOffset: 3, Amount: decimal.NewFromInt(150), Type: domain.TransactionTypeExpense},
		{DayOffset: 5, Amount: decimal.NewFromInt(200), Type: domain.TransactionTypeIncome},
	}, 7, projectionStart)

	summary := BuildSummary(ComputeDRE(nil, march2024), projection)

	assert.Equal(t, "100", summary.CurrentBalance.String())
	assert.Equal(t, "150", summary.EndingBalance.String())
	assert.Equal(t, "-50", summary.LowestBalance.String())
	assert.Equal(t, 3, summary.LowestBalanceOn)
	require.NotNil(t, summary.RunwayDays)
	assert.Equal(t, 3, *summary.RunwayDays)
	assert.True(t, summary.GrossMargin.IsZero())
}

func TestBuildGoalProgress(t *testing.T) {
	goals := []*domain.FinancialGoal{
		{Title: "A", TargetAmount: decimal.NewFromInt(3), CurrentAmount: decimal.NewFromInt(1)},
		{Title: "B", TargetAmount: decimal.Zero, CurrentAmount: decimal.NewFromInt(5)},
	}

	progress := BuildGoalProgress(goals)
	require.Len(t, progress, 2)
	assert.Equal(t, 33, progress[0].ProgressPercent)
	assert.Equal(t, 0, progress[1].ProgressPercent)
}
