// Command riskctl scores transactions offline and manages checkout rules and
// schema.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/infrastructure/config"
	"github.com/bibbank/smart-checkout/pkg/observability"
)

var Version = "dev"

type globalOptions struct {
	rulesFile string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "riskctl",
		Short:         "Offline tooling for the smart checkout risk engine",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.rulesFile, "rules", os.Getenv("RULES_FILE"), "rule file (YAML or JSON); embedded defaults when empty")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(scoreCmd(opts))
	rootCmd.AddCommand(rulesCmd(opts))
	rootCmd.AddCommand(migrateCmd())

	return rootCmd
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	return observability.InitLogger(observability.LogConfig{
		Output: w,
		Level:  o.logLevel,
		Format: "text",
	})
}

func (o *globalOptions) loadRules() (model.RuleSet, error) {
	if o.rulesFile == "" {
		return config.DefaultRuleSet()
	}
	return config.LoadRules(o.rulesFile)
}
