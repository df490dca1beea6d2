package service

import (
	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// dreLine describes a fixed row of the income statement.
type dreLine struct {
	key        string
	name       string
	lineType   domain.LineItemType
	isSubtotal bool
	level      int
	value      func(t *domain.DRETotals) decimal.Decimal
}

// dreLayout is the row order of every report.
var dreLayout = []dreLine{
	{domain.LineGrossRevenue, "Gross Revenue", domain.LineItemRevenue, false, 0, func(t *domain.DRETotals) decimal.Decimal { return t.GrossRevenue }},
	{domain.LineDeductions, "Deductions", domain.LineItemCost, false, 1, func(t *domain.DRETotals) decimal.Decimal { return t.Deductions }},
	{domain.LineNetRevenue, "Net Revenue", domain.LineItemResult, true, 0, func(t *domain.DRETotals) decimal.Decimal { return t.NetRevenue }},
	{domain.LineVariableCosts, "Variable Costs", domain.LineItemCost, false, 1, func(t *domain.DRETotals) decimal.Decimal { return t.VariableCosts }},
	{domain.LineGrossProfit, "Gross Profit", domain.LineItemResult, true, 0, func(t *domain.DRETotals) decimal.Decimal { return t.GrossProfit }},
	{domain.LineOperatingExpenses, "Operating Expenses", domain.LineItemExpense, false, 1, func(t *domain.DRETotals) decimal.Decimal { return t.OperatingExpenses }},
	{domain.LineEBITDA, "EBITDA", domain.LineItemResult, true, 0, func(t *domain.DRETotals) decimal.Decimal { return t.EBITDA }},
	{domain.LineNetIncome, "Net Income", domain.LineItemResult, true, 0, func(t *domain.DRETotals) decimal.Decimal { return t.NetIncome }},
}

// ComputeDRE builds the income statement for month from the given transactions.
// Transactions outside the month are ignored. Every expense lands in exactly one
// of deductions, variable costs or operating expenses.
func ComputeDRE(transactions []*domain.Transaction, month domain.CalendarMonth) *domain.DREReport {
	totals := domain.DRETotals{
		GrossRevenue:      decimal.Zero,
		Deductions:        decimal.Zero,
		VariableCosts:     decimal.Zero,
		OperatingExpenses: decimal.Zero,
	}

	count := 0
	for _, tx := range transactions {
		if tx == nil || !month.Contains(tx.TransactionDate) {
			continue
		}
		count++

		if tx.Type == domain.TransactionTypeIncome {
			totals.GrossRevenue = totals.GrossRevenue.Add(tx.Amount)
			continue
		}

		switch domain.Classify(tx.Category) {
		case domain.BucketDeduction:
			totals.Deductions = totals.Deductions.Add(tx.Amount)
		case domain.BucketVariableCost:
			totals.VariableCosts = totals.VariableCosts.Add(tx.Amount)
		default:
			// operating expenses and unclassified expenses, "other" included
			totals.OperatingExpenses = totals.OperatingExpenses.Add(tx.Amount)
		}
	}

	totals.NetRevenue = totals.GrossRevenue.Sub(totals.Deductions)
	totals.GrossProfit = totals.NetRevenue.Sub(totals.VariableCosts)
	totals.EBITDA = totals.GrossProfit.Sub(totals.OperatingExpenses)
	totals.NetIncome = totals.EBITDA

	lines := make([]domain.DRELineItem, 0, len(dreLayout))
	for _, l := range dreLayout {
		value := l.value(&totals)
		lines = append(lines, domain.DRELineItem{
			Key:        l.key,
			Name:       l.name,
			Value:      value,
			Percentage: percentOf(value, totals.NetRevenue),
			Type:       l.lineType,
			IsSubtotal: l.isSubtotal,
			Level:      l.level,
		})
	}

	return &domain.DREReport{
		Month:            month,
		Lines:            lines,
		Totals:           totals,
		TransactionCount: count,
	}
}

// percentOf returns value/base*100, or zero when base is zero.
func percentOf(value, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return value.Div(base).Mul(hundred)
}
