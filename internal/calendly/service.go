package calendly

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"leadflow_backend/internal/leads/repository"
	leadsvc "leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

// EventResult describes how an incoming event was handled.
type EventResult struct {
	// Matched is "leadId", "email", or "none".
	Matched string `json:"matched"`
	// LeadID is set when a lead was resolved and marked booked.
	LeadID string `json:"leadId,omitempty"`
	// Ignored is true for event types the ingest does not act on.
	Ignored bool `json:"ignored,omitempty"`
}

// Service resolves scheduling events to leads and records bookings.
type Service struct {
	leads repository.Repository
	log   *logger.Logger
}

// New creates the webhook matcher service.
func New(leads repository.Repository, log *logger.Logger) *Service {
	return &Service{leads: leads, log: log}
}

// HandleEvent processes one webhook event. Only invitee-created events mark
// a booking; everything else is acknowledged and ignored. Resolution runs
// lead-ID-first, then email: an ID present in the payload always wins, even
// when the payload also carries an email pointing at a different lead. An
// event that matches no lead is still a success; the provider must never be
// told to retry. Store failures are the exception: those surface as internal
// errors so the provider retries later.
func (s *Service) HandleEvent(ctx context.Context, eventType string, payload any) (EventResult, error) {
	if !isBookingEvent(eventType) {
		s.log.WebhookEvent(eventType, "ignored", "")
		return EventResult{Matched: "none", Ignored: true}, nil
	}

	if raw, ok := FindLeadID(payload); ok {
		lead, err := s.bookByID(ctx, raw)
		if err == nil {
			s.log.WebhookEvent(eventType, "leadId", lead.ID.String())
			return EventResult{Matched: "leadId", LeadID: lead.ID.String()}, nil
		}
		if !isNoMatch(err) {
			return EventResult{}, apperr.Wrap(apperr.KindInternal, "failed to record booking", err)
		}
	}

	if rawEmail, ok := FindEmail(payload); ok {
		lead, err := s.bookByEmail(ctx, rawEmail)
		if err == nil {
			s.log.WebhookEvent(eventType, "email", lead.ID.String())
			return EventResult{Matched: "email", LeadID: lead.ID.String()}, nil
		}
		if !isNoMatch(err) {
			return EventResult{}, apperr.Wrap(apperr.KindInternal, "failed to record booking", err)
		}
	}

	s.log.WebhookEvent(eventType, "none", "")
	return EventResult{Matched: "none"}, nil
}

// MarkBooked is the manual booking path: resolve by ID first, then email,
// and fail with NotFound when neither identifies a lead.
func (s *Service) MarkBooked(ctx context.Context, leadID, email string) (EventResult, error) {
	if strings.TrimSpace(leadID) != "" {
		lead, err := s.bookByID(ctx, leadID)
		if err == nil {
			return EventResult{Matched: "leadId", LeadID: lead.ID.String()}, nil
		}
		if !isNoMatch(err) {
			return EventResult{}, apperr.Wrap(apperr.KindInternal, "failed to record booking", err)
		}
	}

	if strings.TrimSpace(email) != "" {
		lead, err := s.bookByEmail(ctx, email)
		if err == nil {
			return EventResult{Matched: "email", LeadID: lead.ID.String()}, nil
		}
		if !isNoMatch(err) {
			return EventResult{}, apperr.Wrap(apperr.KindInternal, "failed to record booking", err)
		}
	}

	return EventResult{}, apperr.NotFound("no lead matches the given ID or email")
}

func (s *Service) bookByID(ctx context.Context, raw string) (repository.Lead, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return repository.Lead{}, apperr.BadRequest("invalid lead ID")
	}
	if _, err := s.leads.GetByID(ctx, id); err != nil {
		return repository.Lead{}, err
	}
	return s.leads.SetAppointmentBooked(ctx, id, true)
}

func (s *Service) bookByEmail(ctx context.Context, raw string) (repository.Lead, error) {
	lead, err := s.leads.FindByEmail(ctx, leadsvc.NormalizeEmail(raw))
	if err != nil {
		return repository.Lead{}, err
	}
	return s.leads.SetAppointmentBooked(ctx, lead.ID, true)
}

// isNoMatch reports whether a lookup error means the identifier simply does
// not resolve to a lead. Anything else is a store failure and must surface,
// or the provider believes the event was processed.
func isNoMatch(err error) bool {
	kind := apperr.GetKind(err)
	return kind == apperr.KindNotFound || kind == apperr.KindBadRequest
}

// isBookingEvent recognizes invitee-creation events across the provider's
// naming variants ("invitee.created", "invitee_created", ...).
func isBookingEvent(eventType string) bool {
	lowered := strings.ToLower(eventType)
	return strings.Contains(lowered, "invitee") && strings.Contains(lowered, "created")
}
