package usecase

import (
	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/domain/service"
)

// NarrativeSettings is the configured delegate target, reported even when no
// delegate could be built.
type NarrativeSettings struct {
	Model          string
	BaseURL        string
	APIKeyProvided bool
}

// GetNarrativeStatus reports the narrative delegate configuration.
type GetNarrativeStatus struct {
	narratives *service.NarrativeGenerator
	settings   NarrativeSettings
}

// NewGetNarrativeStatus creates a new GetNarrativeStatus use case.
func NewGetNarrativeStatus(narratives *service.NarrativeGenerator, settings NarrativeSettings) *GetNarrativeStatus {
	return &GetNarrativeStatus{narratives: narratives, settings: settings}
}

// Execute returns the current delegate status.
func (uc *GetNarrativeStatus) Execute() dto.NarrativeStatusResponse {
	s := uc.narratives.Status()
	if !s.Configured {
		return dto.NarrativeStatusResponse{
			Model:          uc.settings.Model,
			BaseURL:        uc.settings.BaseURL,
			APIKeyProvided: uc.settings.APIKeyProvided,
		}
	}
	return dto.NarrativeStatusResponse{
		Configured:     true,
		Model:          s.Model,
		BaseURL:        s.BaseURL,
		APIKeyProvided: true,
	}
}
