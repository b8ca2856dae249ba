package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/application/usecase"
)

const maxBodyBytes = 64 << 10

// CheckoutHandler exposes the checkout use cases over HTTP.
type CheckoutHandler struct {
	initiate        *usecase.InitiateCheckout
	submitChallenge *usecase.SubmitChallenge
	narrativeStatus *usecase.GetNarrativeStatus
	logger          *slog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(
	initiate *usecase.InitiateCheckout,
	submitChallenge *usecase.SubmitChallenge,
	narrativeStatus *usecase.GetNarrativeStatus,
	logger *slog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		initiate:        initiate,
		submitChallenge: submitChallenge,
		narrativeStatus: narrativeStatus,
		logger:          logger,
	}
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes registers the checkout endpoints on mux.
func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.HandleFunc("POST /3ds-verify", h.VerifyChallenge)
	mux.HandleFunc("GET /narrative/status", h.NarrativeStatus)
}

// Checkout scores a new checkout. Business failures answer 200 with a
// failed status; only malformed requests answer 400.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.initiate.Execute(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// VerifyChallenge accepts a step-up challenge response.
func (h *CheckoutHandler) VerifyChallenge(w http.ResponseWriter, r *http.Request) {
	var req dto.ChallengeRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.submitChallenge.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrMissingTransactionID) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("failed to verify challenge", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// NarrativeStatus reports the narrative delegate configuration.
func (h *CheckoutHandler) NarrativeStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.narrativeStatus.Execute())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
