package util

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
	"IDR": "Rp",
}

var amountPrinter = message.NewPrinter(language.English)

// FormatCurrency renders an amount with its currency symbol and grouping, e.g. "$1,234.50".
// Unknown currency codes are rendered as a suffix, e.g. "1,234.50 CHF".
func FormatCurrency(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	value, _ := amount.Round(2).Float64()
	number := amountPrinter.Sprintf("%.2f", value)

	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + number
	}
	return sign + number + " " + code
}

// FormatDate renders a date for display, e.g. "Jan 15, 2024"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatISODate renders a date as YYYY-MM-DD
func FormatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ParseISODate parses a YYYY-MM-DD date, also accepting full RFC 3339 timestamps
func ParseISODate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
