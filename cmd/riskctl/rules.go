package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bibbank/smart-checkout/internal/infrastructure/config"
)

func rulesCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate risk rule sets",
	}
	cmd.AddCommand(rulesValidateCmd(global), rulesShowCmd(global))
	return cmd
}

func rulesValidateCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a rule file; defaults to --rules or the embedded set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := global.rulesFile
			if len(args) == 1 {
				path = args[0]
			}

			rules, err := config.DefaultRuleSet()
			if path != "" {
				rules, err = config.LoadRules(path)
			}
			if err != nil {
				return err
			}
			if err := rules.Validate(); err != nil {
				return fmt.Errorf("invalid rule set:\n%w", err)
			}

			source := path
			if source == "" {
				source = "embedded defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules OK\n", source, len(rules.Rules))
			return nil
		},
	}
}

func rulesShowCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active rules and thresholds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := global.loadRules()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "levels: MEDIUM above %d, HIGH above %d\n", rules.MediumThreshold, rules.HighThreshold)
			fmt.Fprintf(out, "step-up above %d, narrative above %d, max score %d\n",
				rules.StepUpThreshold, rules.NarrativeThreshold, rules.MaxScore)
			for _, r := range rules.Rules {
				target := r.Field + " " + r.Threshold.String()
				if r.Operator.IsCrossField() {
					target = strings.Join(r.Fields, ", ")
				}
				fmt.Fprintf(out, "- %s: %s %s +%d (%s)\n", r.Name, r.Operator.String(), target, r.Score, r.Reason)
			}
			return nil
		},
	}
}
