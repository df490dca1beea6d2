package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledItem is an expected inflow or outflow at a day offset from today.
type ScheduledItem struct {
	DayOffset int             `json:"dayOffset"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Name      string          `json:"name,omitempty"`
}

// Signed returns the amount with the direction applied.
func (s ScheduledItem) Signed() decimal.Decimal {
	return s.Amount.Mul(decimal.NewFromInt(s.Type.Sign()))
}

// CashFlowPoint is the projected balance at the end of a day.
type CashFlowPoint struct {
	Day     int             `json:"day"`
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// CashFlowProjection is the day by day balance walk.
// RunwayDays is nil when the balance stays positive over the horizon.
type CashFlowProjection struct {
	StartingBalance decimal.Decimal `json:"startingBalance"`
	HorizonDays     int             `json:"horizonDays"`
	Points          []CashFlowPoint `json:"points"`
	RunwayDays      *int            `json:"runwayDays"`
	Confidence      string          `json:"confidence,omitempty"`
}

// EndingBalance returns the balance of the last point.
func (p *CashFlowProjection) EndingBalance() decimal.Decimal {
	if len(p.Points) == 0 {
		return p.StartingBalance
	}
	return p.Points[len(p.Points)-1].Balance
}

// LowestPoint returns the point with the smallest balance, first one wins ties.
func (p *CashFlowProjection) LowestPoint() (CashFlowPoint, bool) {
	if len(p.Points) == 0 {
		return CashFlowPoint{}, false
	}
	lowest := p.Points[0]
	for _, pt := range p.Points[1:] {
		if pt.Balance.LessThan(lowest.Balance) {
			lowest = pt
		}
	}
	return lowest, true
}
