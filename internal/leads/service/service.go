// Package service implements lead lifecycle operations over the repository.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"
)

// tagPreQualified is appended to every lead created through the prequal form.
const tagPreQualified = "Pre-Qualified"

// Service coordinates lead reads and writes.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create persists a new lead from a prequalification submission.
// Email is normalized (lower-cased, trimmed), phone normalized to E.164 when
// parseable, and an unknown language falls back to English.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	normalizedPhone := phone.NormalizeE164(req.Phone)

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		Name:               trimPtr(req.Name),
		Email:              NormalizeEmail(req.Email),
		Phone:              &normalizedPhone,
		Language:           NormalizeLanguage(req.Language),
		InterestType:       req.InterestType,
		BusinessExperience: req.BusinessExperience,
		FinancialReadiness: req.FinancialReadiness,
		Timeline:           req.Timeline,
		Commitment:         req.Commitment,
		Seriousness:        req.Seriousness,
		Source:             req.Source,
		CRMTags:            []string{tagPreQualified},
	})
	if err != nil {
		if apperr.GetKind(err) != apperr.KindUnknown {
			return transport.LeadResponse{}, err
		}
		s.log.DatabaseError("create lead", err)
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "could not create lead", err)
	}

	s.log.Info("lead created", "id", lead.ID.String(), "source", strValue(lead.Source))
	return ToResponse(lead), nil
}

// GetByID retrieves a lead document.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToResponse(lead), nil
}

// Update applies a partial update; updated_at is always stamped.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateParams{
		ID:                 id,
		Name:               trimPtr(req.Name),
		Phone:              req.Phone,
		InterestType:       req.InterestType,
		BusinessExperience: req.BusinessExperience,
		FinancialReadiness: req.FinancialReadiness,
		Timeline:           req.Timeline,
		Commitment:         req.Commitment,
		Seriousness:        req.Seriousness,
		Source:             req.Source,
	}

	if req.Email != nil {
		normalized := NormalizeEmail(*req.Email)
		params.Email = &normalized
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.Language != nil {
		normalized := NormalizeLanguage(*req.Language)
		params.Language = &normalized
	}

	lead, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return ToResponse(lead), nil
}

// ResetBooking forces a lead back to the awaiting-booking state. This is an
// administrative escape hatch, not a normal transition.
func (s *Service) ResetBooking(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.SetAppointmentBooked(ctx, id, false)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("booking reset", "id", id.String())
	return ToResponse(lead), nil
}

// NormalizeEmail lower-cases and trims an email address for storage and matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeLanguage coerces the language to a supported value, defaulting to English.
func NormalizeLanguage(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "es":
		return "es"
	default:
		return "en"
	}
}

// ToResponse maps a stored lead to its transport form.
func ToResponse(lead repository.Lead) transport.LeadResponse {
	tags := lead.CRMTags
	if tags == nil {
		tags = []string{}
	}

	return transport.LeadResponse{
		ID:                 lead.ID.String(),
		LeadID:             lead.ID.String(),
		Name:               lead.Name,
		Email:              lead.Email,
		Phone:              lead.Phone,
		Language:           lead.Language,
		InterestType:       lead.InterestType,
		BusinessExperience: lead.BusinessExperience,
		FinancialReadiness: lead.FinancialReadiness,
		Timeline:           lead.Timeline,
		Commitment:         lead.Commitment,
		Seriousness:        lead.Seriousness,
		Source:             lead.Source,
		AppointmentBooked:  lead.AppointmentBooked,
		CRMTags:            tags,
		CreatedAt:          lead.CreatedAt,
		UpdatedAt:          lead.UpdatedAt,
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
