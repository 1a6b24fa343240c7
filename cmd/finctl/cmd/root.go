package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputConsole = "console"
	outputJSON    = "json"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Execute builds the command tree and runs it. Called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns a fresh finctl command tree with its own viper instance,
// so flag and env state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "finctl",
		Short: "Fintrack calculation tools",
		Long: `finctl runs the Fintrack debt and expense calculations from the command line.

Every flag can also be set through a FINCTL_ prefixed environment variable
(FINCTL_CURRENCY, FINCTL_ANNUAL_RATE, ...) or a config file.

Examples:
  finctl payoff --balance 10000 --monthly-payment 500 --annual-rate 5
  finctl history --principal 10000 --annual-rate 5 --payment 2024-01=500 --payment 2024-02=500
  finctl categorize "Monthly rent payment"`,
		Version:           getVersionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	root.PersistentFlags().String("currency", "USD", "currency code used to format amounts")
	root.PersistentFlags().StringP("output-format", "f", outputConsole, "output format: console, json")
	_ = v.BindPFlag("currency", root.PersistentFlags().Lookup("currency"))
	_ = v.BindPFlag("output-format", root.PersistentFlags().Lookup("output-format"))

	root.AddCommand(newPayoffCmd(v), newHistoryCmd(v), newCategorizeCmd(v))
	return root
}

// initConfig reads the optional config file and FINCTL_ environment variables
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FINCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// bindFlags binds the running command's flags to v. Subcommands share key names
// such as annual-rate, so binding happens once the command is chosen.
func bindFlags(v *viper.Viper) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return v.BindPFlags(cmd.Flags())
	}
}

func outputFormat(v *viper.Viper) (string, error) {
	format := strings.ToLower(v.GetString("output-format"))
	switch format {
	case outputConsole, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be console or json", format)
	}
}

// SetVersionInfo sets the version information reported by --version
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
