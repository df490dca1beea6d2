package service

import (
	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// chartDateLayout labels chart points
const chartDateLayout = "2006-01-02"

// BuildOverview shapes a DRE report and a cash-flow projection into the
// structures the dashboard renders. It does no arithmetic of its own beyond
// reading values the two engines already produced.
func BuildOverview(report *domain.DREReport, projection *domain.CashFlowProjection, goals []*domain.FinancialGoal, isClosed bool) *domain.ReportOverview {
	return &domain.ReportOverview{
		Month:    report.Month,
		IsClosed: isClosed,
		DRE:      report,
		Rows:     BuildRows(report),
		CashFlow: projection,
		Series:   BuildSeries(projection),
		Summary:  BuildSummary(report, projection),
		Goals:    BuildGoalProgress(goals),
	}
}

// BuildRows renders DRE lines as table rows, money with two decimals and
// percentages with one
func BuildRows(report *domain.DREReport) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(report.Lines))
	for _, line := range report.Lines {
		rows = append(rows, domain.ReportRow{
			Key:        line.Key,
			Label:      line.Name,
			Value:      line.Value.StringFixed(2),
			Percentage: line.Percentage.StringFixed(1),
			Type:       line.Type,
			IsSubtotal: line.IsSubtotal,
			Level:      line.Level,
		})
	}
	return rows
}

// BuildSeries renders projection points as chart samples
func BuildSeries(projection *domain.CashFlowProjection) []domain.ChartPoint {
	series := make([]domain.ChartPoint, 0, len(projection.Points))
	for _, pt := range projection.Points {
		series = append(series, domain.ChartPoint{
			Day:     pt.Day,
			Date:    pt.Date.Format(chartDateLayout),
			Balance: pt.Balance.StringFixed(2),
		})
	}
	return series
}

// BuildSummary collects the headline margins and balances
func BuildSummary(report *domain.DREReport, projection *domain.CashFlowProjection) domain.ReportSummary {
	summary := domain.ReportSummary{
		GrossMargin:    linePercentage(report, domain.LineGrossProfit),
		EBITDAMargin:   linePercentage(report, domain.LineEBITDA),
		NetMargin:      linePercentage(report, domain.LineNetIncome),
		CurrentBalance: projection.StartingBalance,
		EndingBalance:  projection.EndingBalance(),
		LowestBalance:  projection.StartingBalance,
		RunwayDays:     projection.RunwayDays,
	}
	if lowest, ok := projection.LowestPoint(); ok {
		summary.LowestBalance = lowest.Balance
		summary.LowestBalanceOn = lowest.Day
	}
	return summary
}

// BuildGoalProgress pairs each goal with its completion percentage
func BuildGoalProgress(goals []*domain.FinancialGoal) []domain.GoalProgress {
	progress := make([]domain.GoalProgress, 0, len(goals))
	for _, g := range goals {
		progress = append(progress, domain.GoalProgress{
			Goal:            g,
			ProgressPercent: g.ProgressPercent(),
		})
	}
	return progress
}

func linePercentage(report *domain.DREReport, key string) decimal.Decimal {
	if line, ok := report.Line(key); ok {
		return line.Percentage
	}
	return decimal.Zero
}
