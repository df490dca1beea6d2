package domain

import (
	"fmt"
	"time"
)

// CalendarMonth identifies a year+month pair.
type CalendarMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// NewCalendarMonth builds a CalendarMonth, rejecting months outside 1..12.
func NewCalendarMonth(year, month int) (CalendarMonth, error) {
	if month < 1 || month > 12 {
		return CalendarMonth{}, fmt.Errorf("%w: %w %d", ErrInvalidInput, ErrInvalidMonth, month)
	}
	return CalendarMonth{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the calendar month a timestamp falls in, as stored.
func MonthOf(t time.Time) CalendarMonth {
	return CalendarMonth{Year: t.Year(), Month: t.Month()}
}

// ParseCalendarMonth parses a "YYYY-MM" string.
func ParseCalendarMonth(s string) (CalendarMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return CalendarMonth{}, fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// String formats the month as "YYYY-MM".
func (m CalendarMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first instant of the month in UTC.
func (m CalendarMonth) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the month in UTC.
func (m CalendarMonth) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Contains reports whether t falls inside the month. The date's own calendar
// fields are compared, no timezone conversion is applied.
func (m CalendarMonth) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}
