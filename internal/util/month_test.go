package util

import (
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonthID_YearBoundary(t *testing.T) {
	got, err := PreviousMonthID("2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2023-12", got)
}

func TestParseMonthID(t *testing.T) {
	year, month, err := ParseMonthID("2024-03")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 3, month)

	for _, bad := range []string{"", "2024", "2024-13", "2024-00", "24-01", "2024-1", "abcd-01"} {
		_, _, err := ParseMonthID(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidMonth, bad)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		id   string
		n    int
		want string
	}{
		{"2024-01", 6, "2024-07"},
		{"2024-11", 3, "2025-02"},
		{"2024-01", -1, "2023-12"},
		{"2024-03", 0, "2024-03"},
	}

	for _, tt := range tests {
		got, err := AddMonths(tt.id, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestMonthsBetween_IgnoresDays(t *testing.T) {
	from := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, MonthsBetween(from, to))

	to = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 12, MonthsBetween(from, to))
}

func TestParseMonthLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"2024-01", "2024-01"},
		{"January 2024", "2024-01"},
		{"Jan 2024", "2024-01"},
		{"01/2024", "2024-01"},
		{"  March 2025 ", "2025-03"},
		{"2024-12-31", "2024-12"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseMonthLabel(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMonthLabel("sometime soon")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January 2024", MonthName("2024-01"))
	assert.Equal(t, "Dec 2023", ShortMonthLabel("2023-12"))
	assert.Equal(t, "garbage", MonthName("garbage"))
}

func TestCalculateActualDate(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		targetDay int
		wantDay   int
	}{
		{"normal day", 2026, time.January, 15, 15},
		{"day 31 in February non-leap", 2026, time.February, 31, 28},
		{"day 31 in February leap year", 2028, time.February, 31, 29},
		{"day 31 in April", 2026, time.April, 31, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateActualDate(tt.year, tt.month, tt.targetDay)
			assert.Equal(t, tt.wantDay, got.Day())
		})
	}
}

func TestNextDueDate(t *testing.T) {
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	// Future due date is returned as is
	future := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, future, NextDueDate(future, now))

	// Past due date recurs on the same day next month
	past := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), NextDueDate(past, now))

	// Past due date whose day is still ahead this month
	pastLate := time.Date(2023, 11, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), NextDueDate(pastLate, now))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatCurrency(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "-£20.00", FormatCurrency(decimal.NewFromInt(-20), "gbp"))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero, ""))
	assert.Equal(t, "12.00 CHF", FormatCurrency(decimal.NewFromInt(12), "CHF"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jan 15, 2024", FormatDate(d))
	assert.Equal(t, "2024-01-15", FormatISODate(d))
	assert.Equal(t, "", FormatDate(time.Time{}))

	parsed, err := ParseISODate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}
