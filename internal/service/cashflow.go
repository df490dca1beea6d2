package service

import (
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// DefaultHorizonDays is used when the caller does not pick a horizon
	DefaultHorizonDays = 90
	// MaxHorizonDays caps projections requested over the API
	MaxHorizonDays = 730
)

// ProjectCashFlow walks day offsets 0..horizonDays-1 from currentBalance,
// applying the signed sum of the items scheduled on each day. Items outside
// the horizon are ignored. start only labels the points with calendar dates.
//
// RunwayDays is the first day whose balance is <= 0, nil if none.
func ProjectCashFlow(currentBalance decimal.Decimal, items []domain.ScheduledItem, horizonDays int, start time.Time) *domain.CashFlowProjection {
	day0 := util.StartOfDay(start)

	projection := &domain.CashFlowProjection{
		StartingBalance: currentBalance,
		HorizonDays:     horizonDays,
	}

	if horizonDays <= 0 {
		projection.HorizonDays = 0
		projection.Points = []domain.CashFlowPoint{{Day: 0, Date: day0, Balance: currentBalance}}
		if !currentBalance.IsPositive() {
			projection.RunwayDays = intPtr(0)
		}
		return projection
	}

	deltas := make([]decimal.Decimal, horizonDays)
	for i := range deltas {
		deltas[i] = decimal.Zero
	}
	for _, item := range items {
		if item.DayOffset < 0 || item.DayOffset >= horizonDays {
			continue
		}
		deltas[item.DayOffset] = deltas[item.DayOffset].Add(item.Signed())
	}

	// already out of cash
	if !currentBalance.IsPositive() {
		projection.RunwayDays = intPtr(0)
	}

	points := make([]domain.CashFlowPoint, 0, horizonDays)
	balance := currentBalance
	for day := 0; day < horizonDays; day++ {
		balance = balance.Add(deltas[day])
		points = append(points, domain.CashFlowPoint{
			Day:     day,
			Date:    day0.AddDate(0, 0, day),
			Balance: balance,
		})
		if projection.RunwayDays == nil && !balance.IsPositive() {
			projection.RunwayDays = intPtr(day)
		}
	}
	projection.Points = points

	return projection
}

// ExpandRecurring turns active recurring items into scheduled items for the
// horizon starting at start (day 0).
func ExpandRecurring(items []*domain.RecurringItem, start time.Time, horizonDays int) []domain.ScheduledItem {
	if horizonDays <= 0 {
		return nil
	}
	day0 := util.StartOfDay(start)
	last := day0.AddDate(0, 0, horizonDays-1)

	var scheduled []domain.ScheduledItem
	for _, item := range items {
		if item == nil || !item.IsActive {
			continue
		}
		for _, due := range occurrences(item, day0, last) {
			scheduled = append(scheduled, domain.ScheduledItem{
				DayOffset: util.DaysBetween(day0, due),
				Amount:    item.Amount,
				Type:      item.Type,
				Name:      item.Name,
			})
		}
	}
	return scheduled
}

// occurrences returns the due dates of item within [from, to], both day aligned.
func occurrences(item *domain.RecurringItem, from, to time.Time) []time.Time {
	begin := util.StartOfDay(item.StartDate)
	end := to
	if item.EndDate != nil {
		if e := util.StartOfDay(*item.EndDate); e.Before(end) {
			end = e
		}
	}
	if end.Before(from) || begin.After(end) {
		return nil
	}

	var dates []time.Time
	switch item.Frequency {
	case domain.FrequencyDaily:
		d := begin
		if d.Before(from) {
			d = from
		}
		for ; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	case domain.FrequencyWeekly:
		d := begin
		if d.Before(from) {
			// jump to the first weekly occurrence on or after from
			weeks := (util.DaysBetween(d, from) + 6) / 7
			d = d.AddDate(0, 0, weeks*7)
		}
		for ; !d.After(end); d = d.AddDate(0, 0, 7) {
			dates = append(dates, d)
		}
	case domain.FrequencyMonthly:
		y, m, _ := from.Date()
		for {
			due := util.CalculateActualDate(y, m, item.DueDay)
			if due.After(end) {
				break
			}
			if !due.Before(from) && !due.Before(begin) {
				dates = append(dates, due)
			}
			m++
			if m > time.December {
				m = time.January
				y++
			}
		}
	}
	return dates
}

func intPtr(v int) *int {
	return &v
}
