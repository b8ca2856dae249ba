package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// standardRules mirrors the shipped default rule file.
func standardRules() model.RuleSet {
	return model.RuleSet{
		Rules: []model.RiskRule{
			{
				Name:      "amount",
				Operator:  valueobject.OperatorGreaterThan,
				Field:     model.FieldAmount,
				Threshold: model.NumberValue(decimal.NewFromInt(5000)),
				Score:     20,
				Reason:    "large transaction",
			},
			{
				Name:      "user_history",
				Operator:  valueobject.OperatorEqual,
				Field:     model.FieldUserHistory,
				Threshold: model.NumberValue(decimal.Zero),
				Score:     15,
				Reason:    "new user",
			},
			{
				Name:     "cross_border",
				Operator: valueobject.OperatorFieldsDiffer,
				Fields:   []string{model.FieldIPCountry, model.FieldCardCountry},
				Score:    25,
				Reason:   "cross-border transaction",
			},
		},
		MediumThreshold:    30,
		HighThreshold:      60,
		StepUpThreshold:    40,
		NarrativeThreshold: 30,
		MaxScore:           100,
	}
}

type txnOption func(p *model.TransactionParams)

func newTxn(t *testing.T, opts ...txnOption) model.Transaction {
	t.Helper()
	p := model.TransactionParams{
		Amount:        decimal.NewFromInt(100),
		Currency:      "CNY",
		PaymentMethod: "credit_card",
		CardNumber:    "4111111111111111",
		CardCountry:   "CN",
		IPCountry:     "CN",
		UserHistory:   5,
	}
	for _, opt := range opts {
		opt(&p)
	}
	txn, err := model.NewTransaction(p)
	require.NoError(t, err)
	return txn
}

func withAmount(n int64) txnOption {
	return func(p *model.TransactionParams) { p.Amount = decimal.NewFromInt(n) }
}

func withHistory(n int) txnOption {
	return func(p *model.TransactionParams) { p.UserHistory = n }
}

func withCountries(ip, card string) txnOption {
	return func(p *model.TransactionParams) {
		p.IPCountry = ip
		p.CardCountry = card
	}
}

func withMethod(m string) txnOption {
	return func(p *model.TransactionParams) { p.PaymentMethod = m }
}

// countingNarrator records how often it is asked for a narrative.
type countingNarrator struct {
	mu    sync.Mutex
	calls int
	text  string
}

func (n *countingNarrator) Explain(context.Context, model.Transaction, int, []string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.text
}

func (n *countingNarrator) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// mapStore is a minimal in-test PendingTransactionStore.
type mapStore struct {
	mu      sync.Mutex
	entries map[string]model.PendingChallenge
	putFunc func(ctx context.Context, txn model.Transaction, a model.RiskAssessment) (string, error)
	takeErr error
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]model.PendingChallenge)}
}

func (s *mapStore) Put(ctx context.Context, txn model.Transaction, a model.RiskAssessment) (string, error) {
	if s.putFunc != nil {
		return s.putFunc(ctx, txn, a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.entries[id] = model.NewPendingChallenge(id, txn, a, time.Now())
	return id, nil
}

func (s *mapStore) Take(_ context.Context, id string) (model.PendingChallenge, bool, error) {
	if s.takeErr != nil {
		return model.PendingChallenge{}, false, s.takeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	return p, ok, nil
}

func (s *mapStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// fakeChannel is a SettlementChannel with a scripted result.
type fakeChannel struct {
	mu         sync.Mutex
	name       string
	settleFunc func(ctx context.Context, txn model.Transaction) (model.SettlementResult, error)
	settled    []model.Transaction
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, error) {
	c.mu.Lock()
	c.settled = append(c.settled, txn)
	c.mu.Unlock()
	if c.settleFunc != nil {
		return c.settleFunc(ctx, txn)
	}
	return model.SettlementResult{
		Channel:      c.name,
		SettlementID: "SET_" + uuid.NewString()[:8],
		Message:      c.name + " payment succeeded",
		Success:      true,
	}, nil
}

func (c *fakeChannel) Settled() []model.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Transaction(nil), c.settled...)
}
