package util

import (
	"testing"
	"time"
)

func TestIsHistoricalMonth(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		year     int
		month    int
		expected bool
	}{
		{"current month is not historical", 2025, 6, false},
		{"previous month is historical", 2025, 5, true},
		{"previous year same month is historical", 2024, 6, true},
		{"previous year december is historical", 2024, 12, true},
		{"future month is not historical", 2025, 7, false},
		{"next year is not historical", 2026, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHistoricalMonth(tt.year, tt.month, now)
			if got != tt.expected {
				t.Errorf("IsHistoricalMonth(%d, %d) = %v, want %v",
					tt.year, tt.month, got, tt.expected)
			}
		})
	}
}

func TestCalculateActualDate(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		day     int
		wantDay int
	}{
		{"regular day", 2025, time.March, 15, 15},
		{"31st in february", 2025, time.February, 31, 28},
		{"31st in leap february", 2024, time.February, 31, 29},
		{"31st in april", 2025, time.April, 31, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateActualDate(tt.year, tt.month, tt.day)
			if got.Day() != tt.wantDay || got.Month() != tt.month {
				t.Errorf("CalculateActualDate(%d, %s, %d) = %v, want day %d",
					tt.year, tt.month, tt.day, got, tt.wantDay)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 10 {
		t.Errorf("DaysBetween = %d, want 10", got)
	}
	if got := DaysBetween(b, a); got != -10 {
		t.Errorf("DaysBetween reversed = %d, want -10", got)
	}

	// the calendar date in the stored zone decides
	loc := time.FixedZone("X", 2*3600)
	c := time.Date(2025, 3, 30, 1, 0, 0, 0, loc)
	if got := DaysBetween(a, c); got != 29 {
		t.Errorf("DaysBetween with zone = %d, want 29", got)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := time.Date(2025, 3, 31, 22, 30, 0, 0, loc)
	got := StartOfDay(in)
	want := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}
