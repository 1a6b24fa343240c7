package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCategorizeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <description>",
		Short: "Suggest an expense category for a description",
		Long: `Categorize matches an expense description against the built-in keyword
table and prints the suggested category. Unmatched descriptions are Miscellaneous.

Examples:
  finctl categorize "Weekly groceries"
  finctl categorize Netflix subscription -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			description := strings.Join(args, " ")
			category := ledger.CategorizeExpense(description)

			out := cmd.OutOrStdout()
			if format == outputJSON {
				return json.NewEncoder(out).Encode(map[string]string{
					"description": description,
					"category":    string(category),
				})
			}
			fmt.Fprintln(out, category)
			return nil
		},
	}
}
