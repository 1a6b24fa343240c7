// Package calc holds the pure debt and loan calculations used by the ledger.
//
// Interest compounds monthly, once per whole calendar month between payments.
// Day-of-month is ignored: a payment on Jan 31 followed by one on Feb 1 accrues
// one month of interest. Balances never go below zero.
package calc

import (
	"fmt"
	"math"
	"sort"

	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

const projectionMonths = 6

var hundred = decimal.NewFromInt(100)

// BalancePoint is one point of a debt balance history
type BalancePoint struct {
	Label     string          `json:"label"`
	MonthID   string          `json:"monthId,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Projected bool            `json:"projected,omitempty"`
}

// Projection is the estimated time to pay off a balance
type Projection struct {
	Months int    `json:"months"`
	Text   string `json:"text"`
}

// payment is a single month's payment resolved from a month-keyed map
type payment struct {
	monthID string
	amount  decimal.Decimal
}

// MonthlyRate converts an annual percentage rate into a monthly fraction
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(hundred).Div(decimal.NewFromInt(12))
}

// sortedPayments returns the payments in chronological order, skipping keys that
// are not YYYY-MM month ids
func sortedPayments(payments map[string]decimal.Decimal) []payment {
	out := make([]payment, 0, len(payments))
	for id, amount := range payments {
		if !util.IsValidMonthID(id) {
			continue
		}
		out = append(out, payment{monthID: id, amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].monthID < out[j].monthID })
	return out
}

// compound applies monthly interest for the calendar months between two month ids
func compound(balance, monthlyRate decimal.Decimal, fromID, toID string) decimal.Decimal {
	from, errFrom := util.MonthStart(fromID)
	to, errTo := util.MonthStart(toID)
	if errFrom != nil || errTo != nil {
		return balance
	}
	months := util.MonthsBetween(from, to)
	if months <= 0 || monthlyRate.IsZero() {
		return balance
	}
	factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(int64(months)))
	return balance.Mul(factor)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// RemainingBalance replays the payments in chronological order, compounding interest
// between successive payments and subtracting each payment. With no payments the
// principal is returned unchanged.
func RemainingBalance(principal, annualRate decimal.Decimal, payments map[string]decimal.Decimal) decimal.Decimal {
	ordered := sortedPayments(payments)
	if len(ordered) == 0 {
		return principal
	}

	rate := MonthlyRate(annualRate)
	balance := principal
	prev := ""
	for _, p := range ordered {
		if prev != "" {
			balance = compound(balance, rate, prev, p.monthID)
		}
		balance = floorZero(balance.Sub(p.amount))
		prev = p.monthID
	}
	return balance.Round(2)
}

// PercentPaid returns round(100 - balance/principal*100), or 0 when principal is 0
func PercentPaid(principal, currentBalance decimal.Decimal) int {
	if principal.IsZero() {
		return 0
	}
	paid := hundred.Sub(currentBalance.Div(principal).Mul(hundred))
	return int(paid.Round(0).IntPart())
}

// PayoffProjection estimates the months needed to clear currentBalance with a fixed
// monthly payment using the standard amortization formula, or linear division when
// the rate is zero. Non-finite or negative results are clamped to zero months and
// reported as fully paid, which includes payments too small to ever cover interest.
func PayoffProjection(currentBalance, monthlyPayment, annualRate decimal.Decimal) Projection {
	balance, _ := currentBalance.Float64()
	pmt, _ := monthlyPayment.Float64()
	r, _ := MonthlyRate(annualRate).Float64()

	var months float64
	if r > 0 {
		months = -math.Log(1-r*balance/pmt) / math.Log(1+r)
	} else {
		months = balance / pmt
	}

	if math.IsNaN(months) || math.IsInf(months, 0) || months <= 0 {
		return Projection{Months: 0, Text: "Fully paid"}
	}

	n := int(math.Ceil(months))
	return Projection{Months: n, Text: FormatDuration(n)}
}

// FormatDuration renders a month count as "2 years, 3 months"
func FormatDuration(months int) string {
	if months <= 0 {
		return "Fully paid"
	}
	years, rest := months/12, months%12
	switch {
	case years == 0:
		return plural(rest, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + ", " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// BalanceHistory returns the initial balance, one point per payment in chronological
// order with interest compounded since the previous payment, and, while a balance
// remains, a linear projection six months past the last payment using the average
// payment so far.
func BalanceHistory(principal, annualRate decimal.Decimal, payments map[string]decimal.Decimal) []BalancePoint {
	points := []BalancePoint{{Label: "Start", Balance: principal.Round(2)}}

	ordered := sortedPayments(payments)
	if len(ordered) == 0 {
		return points
	}

	rate := MonthlyRate(annualRate)
	balance := principal
	totalPaid := decimal.Zero
	prev := ""
	for _, p := range ordered {
		if prev != "" {
			balance = compound(balance, rate, prev, p.monthID)
		}
		balance = floorZero(balance.Sub(p.amount))
		totalPaid = totalPaid.Add(p.amount)
		prev = p.monthID

		points = append(points, BalancePoint{
			Label:   util.ShortMonthLabel(p.monthID),
			MonthID: p.monthID,
			Balance: balance.Round(2),
		})
	}

	if balance.IsPositive() {
		average := totalPaid.Div(decimal.NewFromInt(int64(len(ordered))))
		projected := floorZero(balance.Sub(average.Mul(decimal.NewFromInt(projectionMonths))))
		future, err := util.AddMonths(prev, projectionMonths)
		if err == nil {
			points = append(points, BalancePoint{
				Label:     util.ShortMonthLabel(future) + " (Projected)",
				MonthID:   future,
				Balance:   projected.Round(2),
				Projected: true,
			})
		}
	}

	return points
}

// MonthlyBalances maps each payment month to the balance after that payment
func MonthlyBalances(principal, annualRate decimal.Decimal, payments map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, p := range BalanceHistory(principal, annualRate, payments) {
		if p.MonthID == "" || p.Projected {
			continue
		}
		out[p.MonthID] = p.Balance
	}
	return out
}
