package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/internal/infrastructure/narrative"
)

type scoreOptions struct {
	amount      string
	currency    string
	method      string
	cardNumber  string
	cardCountry string
	ipCountry   string
	history     int
	asJSON      bool
	narrate     bool
}

func scoreCmd(global *globalOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a transaction against the rule set",
		Long: `Score a transaction without settling it.

Narratives use the fallback template unless --narrate is set and
OPENAI_API_KEY is available.

Examples:
  riskctl score --amount 6000 --method credit_card --card-country US
  riskctl score --amount 120 --method alipay --history 4 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.amount, "amount", "", "transaction amount (required)")
	cmd.Flags().StringVar(&opts.currency, "currency", "CNY", "ISO currency code")
	cmd.Flags().StringVar(&opts.method, "method", "credit_card", "payment method")
	cmd.Flags().StringVar(&opts.cardNumber, "card-number", "", "card number")
	cmd.Flags().StringVar(&opts.cardCountry, "card-country", "", "card issuing country")
	cmd.Flags().StringVar(&opts.ipCountry, "ip-country", "CN", "shopper IP country")
	cmd.Flags().IntVar(&opts.history, "history", 0, "number of prior transactions by the shopper")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the assessment as JSON")
	cmd.Flags().BoolVar(&opts.narrate, "narrate", false, "ask the narrative delegate for an explanation")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runScore(cmd *cobra.Command, global *globalOptions, opts *scoreOptions) error {
	logger := global.logger(cmd.ErrOrStderr())

	rules, err := global.loadRules()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("invalid rule set: %w", err)
	}

	amount, err := decimal.NewFromString(opts.amount)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}
	txn, err := model.NewTransaction(model.TransactionParams{
		Amount:        amount,
		Currency:      strings.ToUpper(opts.currency),
		PaymentMethod: opts.method,
		CardNumber:    opts.cardNumber,
		CardCountry:   opts.cardCountry,
		IPCountry:     opts.ipCountry,
		UserHistory:   opts.history,
	})
	if err != nil {
		return err
	}

	var client port.NarrativeClient
	if opts.narrate {
		c, err := narrative.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"), nil)
		if err != nil {
			return err
		}
		client = c
	}

	narratives := service.NewNarrativeGenerator(client, 0, nil, logger)
	assessment := service.NewRiskEngine(narratives, logger).Assess(cmd.Context(), txn, rules)
	resp := dto.FromAssessment(assessment)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(out, "score:   %d\n", resp.RiskScore)
	fmt.Fprintf(out, "level:   %s\n", resp.RiskLevel)
	fmt.Fprintf(out, "step-up: %t\n", resp.StepUpRequired)
	if len(resp.Reasons) > 0 {
		fmt.Fprintf(out, "reasons: %s\n", strings.Join(resp.Reasons, ", "))
	}
	if resp.Narrative != nil {
		fmt.Fprintf(out, "narrative: %s\n", *resp.Narrative)
	}
	return nil
}
