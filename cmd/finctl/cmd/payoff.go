package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/calc"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type payoffOutput struct {
	Balance        decimal.Decimal `json:"balance"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	AnnualRate     decimal.Decimal `json:"annualRate"`
	calc.Projection
}

func newPayoffCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Estimate the time needed to pay off a balance",
		Long: `Payoff estimates how many months a fixed monthly payment needs to clear
a balance, compounding interest monthly.

Examples:
  finctl payoff --balance 10000 --monthly-payment 500 --annual-rate 5
  FINCTL_ANNUAL_RATE=18 finctl payoff --balance 2500 --monthly-payment 100`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE:    func(cmd *cobra.Command, args []string) error {
			return runPayoff(cmd, v)
		},
	}

	cmd.Flags().String("balance", "", "current balance (required)")
	cmd.Flags().String("monthly-payment", "", "fixed monthly payment (required)")
	cmd.Flags().String("annual-rate", "0", "annual interest rate in percent")

	return cmd
}

// parseAmount reads a decimal setting, rejecting empty and negative values
func parseAmount(v *viper.Viper, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%s is required", key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", key)
	}
	return d, nil
}

func runPayoff(cmd *cobra.Command, v *viper.Viper) error {
	format, err := outputFormat(v)
	if err != nil {
		return err
	}
	balance, err := parseAmount(v, "balance")
	if err != nil {
		return err
	}
	payment, err := parseAmount(v, "monthly-payment")
	if err != nil {
		return err
	}
	if !payment.IsPositive() {
		return fmt.Errorf("monthly-payment must be greater than zero")
	}
	rate, err := parseAmount(v, "annual-rate")
	if err != nil {
		return err
	}

	projection := calc.PayoffProjection(balance, payment, rate)
	out := cmd.OutOrStdout()

	if format == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payoffOutput{
			Balance:        balance,
			MonthlyPayment: payment,
			AnnualRate:     rate,
			Projection:     projection,
		})
	}

	currency := v.GetString("currency")
	fmt.Fprintf(out, "Balance:         %s\n", util.FormatCurrency(balance, currency))
	fmt.Fprintf(out, "Monthly payment: %s\n", util.FormatCurrency(payment, currency))
	fmt.Fprintf(out, "Annual rate:     %s%%\n", rate.String())
	fmt.Fprintf(out, "Payoff time:     %s (%d months)\n", projection.Text, projection.Months)
	return nil
}
