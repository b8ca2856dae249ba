package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/application/usecase"
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
	"github.com/bibbank/smart-checkout/pkg/events"
)

// --- Mock implementations ---

type mockRecordRepository struct {
	mu       sync.Mutex
	saved    []model.CheckoutRecord
	saveFunc func(ctx context.Context, record model.CheckoutRecord) error
}

func (m *mockRecordRepository) Save(ctx context.Context, record model.CheckoutRecord) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, record)
	return nil
}

type mockEventPublisher struct {
	mu          sync.Mutex
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
	return nil
}

type memStore struct {
	mu      sync.Mutex
	entries map[string]model.PendingChallenge
}

func (s *memStore) Put(_ context.Context, txn model.Transaction, a model.RiskAssessment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.entries[id] = model.NewPendingChallenge(id, txn, a, time.Now())
	return id, nil
}

func (s *memStore) Take(_ context.Context, id string) (model.PendingChallenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[id]
	delete(s.entries, id)
	return p, ok, nil
}

type okChannel struct{ name string }

func (c okChannel) Name() string { return c.name }

func (c okChannel) Settle(context.Context, model.Transaction) (model.SettlementResult, error) {
	return model.SettlementResult{Channel: c.name, SettlementID: "CC_123456", Message: "credit card payment succeeded", Success: true}, nil
}

// --- Fixtures ---

func amountOf(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func rules() model.RuleSet {
	return model.RuleSet{
		Rules: []model.RiskRule{
			{
				Name: "amount", Operator: valueobject.OperatorGreaterThan, Field: model.FieldAmount,
				Threshold: model.NumberValue(decimal.NewFromInt(5000)), Score: 20, Reason: "large transaction",
			},
			{
				Name: "user_history", Operator: valueobject.OperatorEqual, Field: model.FieldUserHistory,
				Threshold: model.NumberValue(decimal.Zero), Score: 15, Reason: "new user",
			},
			{
				Name: "cross_border", Operator: valueobject.OperatorFieldsDiffer,
				Fields: []string{model.FieldIPCountry, model.FieldCardCountry}, Score: 25, Reason: "cross-border transaction",
			},
		},
		MediumThreshold: 30, HighThreshold: 60, StepUpThreshold: 40, NarrativeThreshold: 30, MaxScore: 100,
	}
}

type fixture struct {
	initiate  *usecase.InitiateCheckout
	submit    *usecase.SubmitChallenge
	status    *usecase.GetNarrativeStatus
	records   *mockRecordRepository
	publisher *mockEventPublisher
}

func newFixture() *fixture {
	narratives := service.NewNarrativeGenerator(nil, 0, nil, testLogger())
	orchestrator := service.NewCheckoutOrchestrator(
		service.NewRiskEngine(narratives, testLogger()),
		service.NewChallengeCoordinator(service.DefaultChallengeConfig(), nil),
		&memStore{entries: make(map[string]model.PendingChallenge)},
		service.NewSettlementRouter(okChannel{name: "credit_card"}),
		rules(),
		service.StepUpModeChallenge,
		testLogger(),
	)
	records := &mockRecordRepository{}
	publisher := &mockEventPublisher{}
	defaults := usecase.TransactionDefaults{Currency: "CNY", IPCountry: "CN"}

	return &fixture{
		initiate:  usecase.NewInitiateCheckout(orchestrator, records, publisher, nil, defaults, testLogger()),
		submit:    usecase.NewSubmitChallenge(orchestrator, records, publisher, nil, testLogger()),
		status:    usecase.NewGetNarrativeStatus(narratives, usecase.NarrativeSettings{Model: "deepseek-chat", BaseURL: "https://api.deepseek.com"}),
		records:   records,
		publisher: publisher,
	}
}

// --- Tests ---

func TestInitiateCheckout_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("low risk checkout succeeds with defaults applied", func(t *testing.T) {
		f := newFixture()

		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(100),
			PaymentMethod: "credit_card",
			CardCountry:   "CN",
			UserHistory:   2,
		})

		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, "CC_123456", resp.TransactionID)
		assert.Equal(t, 0, resp.RiskScore)
		assert.Equal(t, "LOW", resp.RiskLevel)
		require.Len(t, f.records.saved, 1)
		assert.Equal(t, "CNY", f.records.saved[0].Currency)
		assert.Len(t, f.publisher.published, 2)
	})

	t.Run("high risk checkout is suspended", func(t *testing.T) {
		f := newFixture()

		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(6000),
			PaymentMethod: "credit_card",
			CardCountry:   "CN",
			IPCountry:     "US",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending_challenge", resp.Status)
		assert.Equal(t, 60, resp.RiskScore)
		assert.Equal(t, "complete_challenge_verification", resp.NextStep)
		require.NotNil(t, resp.Challenge)
		assert.Equal(t, "3DS2.0", resp.Challenge.Method)
		require.NotNil(t, resp.Narrative)
		assert.Contains(t, *resp.Narrative, "Risk score for this transaction is 60")
	})

	t.Run("invalid request is rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(-5),
			PaymentMethod: "credit_card",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
		assert.Empty(t, f.records.saved)
	})

	t.Run("audit and publish failures do not change the outcome", func(t *testing.T) {
		f := newFixture()
		f.records.saveFunc = func(context.Context, model.CheckoutRecord) error { return errors.New("db down") }
		f.publisher.publishFunc = func(context.Context, ...events.DomainEvent) error { return errors.New("kafka down") }

		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(10),
			PaymentMethod: "credit_card",
			CardCountry:   "CN",
			UserHistory:   1,
		})

		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
	})

	t.Run("missing amount is rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.initiate.Execute(ctx, dto.CheckoutRequest{PaymentMethod: "credit_card"})

		assert.ErrorIs(t, err, usecase.ErrMissingAmount)
		assert.Empty(t, f.records.saved)
		assert.Empty(t, f.publisher.published)
	})

	t.Run("unsupported method fails with score", func(t *testing.T) {
		f := newFixture()

		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(10),
			PaymentMethod: "paypal",
			CardCountry:   "CN",
		})

		require.NoError(t, err)
		assert.Equal(t, "failed", resp.Status)
		assert.Equal(t, 15, resp.RiskScore)
		assert.Equal(t, service.MessageUnsupportedMethod, resp.Message)
	})
}

func TestSubmitChallenge_Execute(t *testing.T) {
	ctx := context.Background()

	suspend := func(t *testing.T, f *fixture) string {
		t.Helper()
		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(6000),
			PaymentMethod: "credit_card",
			CardCountry:   "CN",
			IPCountry:     "US",
		})
		require.NoError(t, err)
		require.Equal(t, "pending_challenge", resp.Status)
		return resp.TransactionID
	}

	t.Run("accepted response settles and reports stored score", func(t *testing.T) {
		f := newFixture()
		id := suspend(t, f)

		resp, err := f.submit.Execute(ctx, dto.ChallengeRequest{TransactionID: id, VerificationCode: "123456"})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.TransactionID)
		assert.Equal(t, "CC_123456", *resp.TransactionID)
		require.NotNil(t, resp.RiskScore)
		assert.Equal(t, 60, *resp.RiskScore)
		require.NotNil(t, resp.PaymentMessage)
		assert.Equal(t, "credit card payment succeeded", *resp.PaymentMessage)
		assert.Len(t, f.records.saved, 2)
	})

	t.Run("rejected response keeps the checkout pending", func(t *testing.T) {
		f := newFixture()
		id := suspend(t, f)

		resp, err := f.submit.Execute(ctx, dto.ChallengeRequest{TransactionID: id, VerificationCode: "654321"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, service.MessageChallengeRejected, resp.Message)
		assert.Nil(t, resp.RiskScore)

		resp, err = f.submit.Execute(ctx, dto.ChallengeRequest{TransactionID: id, VerificationCode: "123456"})
		require.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("challenge_code is preferred over the legacy field", func(t *testing.T) {
		f := newFixture()
		id := suspend(t, f)

		resp, err := f.submit.Execute(ctx, dto.ChallengeRequest{
			TransactionID:    id,
			ChallengeCode:    "123456",
			VerificationCode: "999999",
		})

		require.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("unsupported method after challenge", func(t *testing.T) {
		f := newFixture()
		pendingResp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount:        amountOf(6000),
			PaymentMethod: "paypal",
			CardCountry:   "CN",
			IPCountry:     "US",
		})
		require.NoError(t, err)
		require.Equal(t, "pending_challenge", pendingResp.Status)

		resp, err := f.submit.Execute(ctx, dto.ChallengeRequest{TransactionID: pendingResp.TransactionID, ChallengeCode: "123456"})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, service.MessageUnsupportedMethod, resp.Message)
		assert.Nil(t, resp.RiskScore)
		assert.Nil(t, resp.TransactionID)
		assert.Nil(t, resp.PaymentMessage)

		again, err := f.submit.Execute(ctx, dto.ChallengeRequest{TransactionID: pendingResp.TransactionID, ChallengeCode: "123456"})
		require.NoError(t, err)
		assert.Equal(t, service.MessageInvalidPendingID, again.Message)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture()

		resp, err := f.submit.Execute(ctx, dto.ChallengeRequest{TransactionID: "nope", VerificationCode: "123456"})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, service.MessageInvalidPendingID, resp.Message)
	})

	t.Run("missing id", func(t *testing.T) {
		f := newFixture()

		_, err := f.submit.Execute(ctx, dto.ChallengeRequest{VerificationCode: "123456"})

		assert.ErrorIs(t, err, usecase.ErrMissingTransactionID)
	})
}

func TestGetNarrativeStatus_Execute(t *testing.T) {
	f := newFixture()
	resp := f.status.Execute()
	assert.False(t, resp.Configured)
	assert.False(t, resp.APIKeyProvided)
	assert.Equal(t, "deepseek-chat", resp.Model)
	assert.Equal(t, "https://api.deepseek.com", resp.BaseURL)
}

func TestCheckoutResponse_JSONShapes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	decode := func(t *testing.T, v any) map[string]any {
		t.Helper()
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	t.Run("success", func(t *testing.T) {
		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount: amountOf(1), PaymentMethod: "credit_card", CardCountry: "CN", UserHistory: 4,
		})
		require.NoError(t, err)
		m := decode(t, resp)
		assert.Equal(t, "success", m["status"])
		assert.Equal(t, "CC_123456", m["transaction_id"])
		assert.Contains(t, m, "narrative")
		assert.Nil(t, m["narrative"])
		assert.Equal(t, []any{}, m["reasons"])
	})

	t.Run("pending", func(t *testing.T) {
		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount: amountOf(6000), PaymentMethod: "credit_card", CardCountry: "CN", IPCountry: "US",
		})
		require.NoError(t, err)
		m := decode(t, resp)
		assert.Equal(t, "pending_challenge", m["status"])
		risk, ok := m["risk"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(60), risk["risk_score"])
		assert.Equal(t, "complete_challenge_verification", m["next_step"])
	})

	t.Run("failed", func(t *testing.T) {
		resp, err := f.initiate.Execute(ctx, dto.CheckoutRequest{
			Amount: amountOf(1), PaymentMethod: "cash", CardCountry: "CN",
		})
		require.NoError(t, err)
		m := decode(t, resp)
		assert.Equal(t, "failed", m["status"])
		assert.Contains(t, m, "transaction_id")
		assert.Nil(t, m["transaction_id"])
		assert.Equal(t, float64(15), m["risk_score"])
	})
}
