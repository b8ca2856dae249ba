package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/application/usecase"
)

var _ CheckoutServiceServer = (*CheckoutServiceHandler)(nil)

// CheckoutServiceHandler implements the gRPC CheckoutServiceServer interface.
type CheckoutServiceHandler struct {
	UnimplementedCheckoutServiceServer
	initiate        *usecase.InitiateCheckout
	submitChallenge *usecase.SubmitChallenge
	narrativeStatus *usecase.GetNarrativeStatus
	logger          *slog.Logger
}

// NewCheckoutServiceHandler creates a new gRPC handler.
func NewCheckoutServiceHandler(
	initiate *usecase.InitiateCheckout,
	submitChallenge *usecase.SubmitChallenge,
	narrativeStatus *usecase.GetNarrativeStatus,
	logger *slog.Logger,
) *CheckoutServiceHandler {
	return &CheckoutServiceHandler{
		initiate:        initiate,
		submitChallenge: submitChallenge,
		narrativeStatus: narrativeStatus,
		logger:          logger,
	}
}

// InitiateCheckout scores a checkout and settles or suspends it.
func (h *CheckoutServiceHandler) InitiateCheckout(ctx context.Context, req *InitiateCheckoutRequest) (*InitiateCheckoutResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}

	resp, err := h.initiate.Execute(ctx, dto.CheckoutRequest{
		Amount:        &amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		CardCountry:   req.CardCountry,
		IPCountry:     req.IPCountry,
		UserHistory:   int(req.UserHistory),
	})
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out := &InitiateCheckoutResponse{
		Status:        resp.Status,
		TransactionID: resp.TransactionID,
		NextStep:      resp.NextStep,
		Message:       resp.Message,
		Risk: &RiskAssessmentMsg{
			RiskScore:      int32(resp.RiskScore),
			RiskLevel:      resp.RiskLevel,
			Reasons:        resp.Reasons,
			StepUpRequired: resp.StepUp,
		},
	}
	if resp.Narrative != nil {
		out.Risk.Narrative = *resp.Narrative
	}
	if resp.Challenge != nil {
		out.Challenge = &ChallengeMsg{
			Method:   resp.Challenge.Method,
			Issuer:   resp.Challenge.Issuer,
			Endpoint: resp.Challenge.Endpoint,
		}
	}
	return out, nil
}

// SubmitChallengeResponse validates a step-up response and settles the
// suspended checkout on success.
func (h *CheckoutServiceHandler) SubmitChallengeResponse(ctx context.Context, req *SubmitChallengeResponseRequest) (*SubmitChallengeResponseResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.submitChallenge.Execute(ctx, dto.ChallengeRequest{
		TransactionID:    req.TransactionID,
		ChallengeCode:    req.ChallengeCode,
		VerificationCode: req.VerificationCode,
		CardNumber:       req.CardNumber,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrMissingTransactionID) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.Error("failed to submit challenge response",
			slog.String("pending_id", req.TransactionID),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}

	out := &SubmitChallengeResponseResponse{
		Success: resp.Success,
		Message: resp.Message,
	}
	if resp.TransactionID != nil {
		out.TransactionID = *resp.TransactionID
	}
	if resp.PaymentMessage != nil {
		out.PaymentMessage = *resp.PaymentMessage
	}
	if resp.RiskScore != nil {
		out.RiskScore = int32(*resp.RiskScore)
	}
	return out, nil
}

// GetNarrativeStatus reports the narrative delegate configuration.
func (h *CheckoutServiceHandler) GetNarrativeStatus(_ context.Context, _ *GetNarrativeStatusRequest) (*GetNarrativeStatusResponse, error) {
	s := h.narrativeStatus.Execute()
	return &GetNarrativeStatusResponse{
		Model:          s.Model,
		BaseURL:        s.BaseURL,
		Configured:     s.Configured,
		APIKeyProvided: s.APIKeyProvided,
	}, nil
}
