package domain

import "github.com/shopspring/decimal"

// LineItemType is the semantic kind of a DRE line.
type LineItemType string

const (
	LineItemRevenue LineItemType = "revenue"
	LineItemCost    LineItemType = "cost"
	LineItemExpense LineItemType = "expense"
	LineItemResult  LineItemType = "result"
)

// DRE line keys, in report order.
const (
	LineGrossRevenue      = "gross_revenue"
	LineDeductions        = "deductions"
	LineNetRevenue        = "net_revenue"
	LineVariableCosts     = "variable_costs"
	LineGrossProfit       = "gross_profit"
	LineOperatingExpenses = "operating_expenses"
	LineEBITDA            = "ebitda"
	LineNetIncome         = "net_income"
)

// DRELineItem is one row of the income statement. It is derived, never stored.
type DRELineItem struct {
	Key        string          `json:"key"`
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Type       LineItemType    `json:"type"`
	IsSubtotal bool            `json:"isSubtotal"`
	Level      int             `json:"level"`
}

// DRETotals holds the named aggregates of a report.
type DRETotals struct {
	GrossRevenue      decimal.Decimal `json:"grossRevenue"`
	Deductions        decimal.Decimal `json:"deductions"`
	NetRevenue        decimal.Decimal `json:"netRevenue"`
	VariableCosts     decimal.Decimal `json:"variableCosts"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	EBITDA            decimal.Decimal `json:"ebitda"`
	NetIncome         decimal.Decimal `json:"netIncome"`
}

// DREReport is the income statement for one calendar month.
type DREReport struct {
	Month            CalendarMonth `json:"month"`
	Lines            []DRELineItem `json:"lines"`
	Totals           DRETotals     `json:"totals"`
	TransactionCount int           `json:"transactionCount"`
}

// Line returns the line with the given key.
func (r *DREReport) Line(key string) (DRELineItem, bool) {
	for _, l := range r.Lines {
		if l.Key == key {
			return l, true
		}
	}
	return DRELineItem{}, false
}
