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

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the balance history of a debt",
		Long: `History replays monthly payments against a principal, compounding interest
between payment months, and projects the balance six months past the last payment.

Payments are given as YYYY-MM=amount pairs.

Examples:
  finctl history --principal 10000 --annual-rate 5 --payment 2024-01=500 --payment 2024-03=750
  finctl history --principal 1200 --payment 2024-01=100,2024-02=100 -f json`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE:    func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, v)
		},
	}

	cmd.Flags().String("principal", "", "original principal (required)")
	cmd.Flags().String("annual-rate", "0", "annual interest rate in percent")
	cmd.Flags().StringSlice("payment", []string{}, "payment as YYYY-MM=amount, repeatable")

	return cmd
}

// parsePayments turns YYYY-MM=amount pairs into a month-keyed payment map.
// Repeated months are summed.
func parsePayments(pairs []string) (map[string]decimal.Decimal, error) {
	payments := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		monthID, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid payment %q: expected YYYY-MM=amount", pair)
		}
		monthID = strings.TrimSpace(monthID)
		if !util.IsValidMonthID(monthID) {
			return nil, fmt.Errorf("invalid payment month %q", monthID)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid payment amount %q: %w", raw, err)
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("payment for %s must be greater than zero", monthID)
		}
		payments[monthID] = payments[monthID].Add(amount)
	}
	return payments, nil
}

func runHistory(cmd *cobra.Command, v *viper.Viper) error {
	format, err := outputFormat(v)
	if err != nil {
		return err
	}
	principal, err := parseAmount(v, "principal")
	if err != nil {
		return err
	}
	rate, err := parseAmount(v, "annual-rate")
	if err != nil {
		return err
	}
	payments, err := parsePayments(v.GetStringSlice("payment"))
	if err != nil {
		return err
	}

	points := calc.BalanceHistory(principal, rate, payments)
	out := cmd.OutOrStdout()

	if format == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	currency := v.GetString("currency")
	for _, p := range points {
		fmt.Fprintf(out, "%-22s %s\n", p.Label, util.FormatCurrency(p.Balance, currency))
	}
	return nil
}
