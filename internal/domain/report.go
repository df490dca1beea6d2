package domain

import "github.com/shopspring/decimal"

// ReportRow is a display-ready DRE table row.
type ReportRow struct {
	Key        string       `json:"key"`
	Label      string       `json:"label"`
	Value      string       `json:"value"`
	Percentage string       `json:"percentage"`
	Type       LineItemType `json:"type"`
	IsSubtotal bool         `json:"isSubtotal"`
	Level      int          `json:"level"`
}

// ChartPoint is one sample of the cash-flow chart series.
type ChartPoint struct {
	Day     int    `json:"day"`
	Date    string `json:"date"`
	Balance string `json:"balance"`
}

// ReportSummary carries the headline percentages shown above the report.
type ReportSummary struct {
	GrossMargin     decimal.Decimal `json:"grossMargin"`
	EBITDAMargin    decimal.Decimal `json:"ebitdaMargin"`
	NetMargin       decimal.Decimal `json:"netMargin"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	EndingBalance   decimal.Decimal `json:"endingBalance"`
	LowestBalance   decimal.Decimal `json:"lowestBalance"`
	LowestBalanceOn int             `json:"lowestBalanceOn"`
	RunwayDays      *int            `json:"runwayDays"`
}

// GoalProgress is a goal with its derived completion percentage.
type GoalProgress struct {
	Goal            *FinancialGoal `json:"goal"`
	ProgressPercent int            `json:"progressPercent"`
}

// ReportOverview combines the DRE and the cash-flow projection for display.
type ReportOverview struct {
	Month    CalendarMonth       `json:"month"`
	IsClosed bool                `json:"isClosed"`
	DRE      *DREReport          `json:"dre"`
	Rows     []ReportRow         `json:"rows"`
	CashFlow *CashFlowProjection `json:"cashFlow"`
	Series   []ChartPoint        `json:"series"`
	Summary  ReportSummary       `json:"summary"`
	Goals    []GoalProgress      `json:"goals"`
}
