package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
)

// monthLabelLayouts are the label formats accepted when creating a month
var monthLabelLayouts = []string{
	"2006-01",
	"2006-1",
	"2006/01",
	"01/2006",
	"1/2006",
	"January 2006",
	"Jan 2006",
	"January, 2006",
	"2006-01-02",
	"2006 January",
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// FormatMonthID returns the canonical YYYY-MM id for a year and month
func FormatMonthID(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthIDFromTime returns the YYYY-MM id of the month containing t
func MonthIDFromTime(t time.Time) string {
	return FormatMonthID(t.Year(), int(t.Month()))
}

// ParseMonthID splits a canonical YYYY-MM id into year and month
func ParseMonthID(id string) (int, int, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, id)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, id)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, id)
	}
	return year, month, nil
}

// IsValidMonthID reports whether id is a canonical YYYY-MM id
func IsValidMonthID(id string) bool {
	_, _, err := ParseMonthID(id)
	return err == nil
}

// PreviousMonthID returns the id of the calendar month before id
func PreviousMonthID(id string) (string, error) {
	year, month, err := ParseMonthID(id)
	if err != nil {
		return "", err
	}
	return FormatMonthID(PreviousMonth(year, month)), nil
}

// AddMonths shifts a month id by n calendar months (n may be negative)
func AddMonths(id string, n int) (string, error) {
	year, month, err := ParseMonthID(id)
	if err != nil {
		return "", err
	}
	total := year*12 + (month - 1) + n
	return FormatMonthID(total/12, total%12+1), nil
}

// MonthsBetween returns the calendar month difference to - from, ignoring days
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// MonthStart returns the first instant of the month identified by id
func MonthStart(id string) (time.Time, error) {
	year, month, err := ParseMonthID(id)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthName returns a display name such as "January 2024"
func MonthName(id string) string {
	start, err := MonthStart(id)
	if err != nil {
		return id
	}
	return start.Format("January 2006")
}

// ShortMonthLabel returns a chart label such as "Jan 2024"
func ShortMonthLabel(id string) string {
	start, err := MonthStart(id)
	if err != nil {
		return id
	}
	return start.Format("Jan 2006")
}

// ParseMonthLabel derives the canonical YYYY-MM id from a user supplied label
// such as "2024-01", "January 2024", "Jan 2024" or "01/2024"
func ParseMonthLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", domain.ErrInvalidMonth
	}
	for _, layout := range monthLabelLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return MonthIDFromTime(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidMonth, label)
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}

// NextDueDate returns due itself when it is still ahead of now, otherwise the next
// monthly occurrence of its day-of-month on or after now
func NextDueDate(due, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	if !due.Before(today) {
		return due
	}
	candidate := CalculateActualDate(today.Year(), today.Month(), due.Day())
	if candidate.Before(today) {
		next := today.AddDate(0, 0, 1-today.Day()).AddDate(0, 1, 0)
		candidate = CalculateActualDate(next.Year(), next.Month(), due.Day())
	}
	return candidate
}
