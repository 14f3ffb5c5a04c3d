package calendly

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

type fakeLeadStore struct {
	leads       map[uuid.UUID]repository.Lead
	bookedCalls int
}

func newFakeLeadStore(leads ...repository.Lead) *fakeLeadStore {
	store := &fakeLeadStore{leads: make(map[uuid.UUID]repository.Lead)}
	for _, lead := range leads {
		store.leads[lead.ID] = lead
	}
	return store
}

func (f *fakeLeadStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeLeadStore) FindByEmail(_ context.Context, email string) (repository.Lead, error) {
	for _, lead := range f.leads {
		if lead.Email == email {
			return lead, nil
		}
	}
	return repository.Lead{}, apperr.NotFound("lead not found")
}

func (f *fakeLeadStore) Create(_ context.Context, _ repository.CreateParams) (repository.Lead, error) {
	panic("not used")
}

func (f *fakeLeadStore) Update(_ context.Context, _ repository.UpdateParams) (repository.Lead, error) {
	panic("not used")
}

func (f *fakeLeadStore) SetAppointmentBooked(_ context.Context, id uuid.UUID, booked bool) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.AppointmentBooked = booked
	f.leads[id] = lead
	f.bookedCalls++
	return lead, nil
}

// failingLeadStore simulates a store outage on every lookup.
type failingLeadStore struct {
	*fakeLeadStore
}

func newFailingLeadStore() *failingLeadStore {
	return &failingLeadStore{newFakeLeadStore()}
}

func (f *failingLeadStore) GetByID(context.Context, uuid.UUID) (repository.Lead, error) {
	return repository.Lead{}, errors.New("store unreachable")
}

func (f *failingLeadStore) FindByEmail(context.Context, string) (repository.Lead, error) {
	return repository.Lead{}, errors.New("store unreachable")
}

func testLead(email string) repository.Lead {
	return repository.Lead{ID: uuid.New(), Email: email, Language: "en"}
}

func newTestService(store *fakeLeadStore) *Service {
	return New(store, logger.New("development"))
}

func TestHandleEvent_MatchesByLeadID(t *testing.T) {
	lead := testLead("lead@example.com")
	store := newFakeLeadStore(lead)
	svc := newTestService(store)

	payload := map[string]any{"tracking": map[string]any{"leadId": lead.ID.String()}}
	result, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched != "leadId" || result.LeadID != lead.ID.String() {
		t.Fatalf("got %+v", result)
	}
	if !store.leads[lead.ID].AppointmentBooked {
		t.Fatal("expected appointment_booked set")
	}
}

func TestHandleEvent_LeadIDWinsOverEmail(t *testing.T) {
	byID := testLead("by-id@example.com")
	byEmail := testLead("by-email@example.com")
	store := newFakeLeadStore(byID, byEmail)
	svc := newTestService(store)

	payload := map[string]any{
		"leadId": byID.ID.String(),
		"invitee": map[string]any{
			"email": "by-email@example.com",
		},
	}
	result, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LeadID != byID.ID.String() {
		t.Fatalf("ID match must win, got %+v", result)
	}
	if store.leads[byEmail.ID].AppointmentBooked {
		t.Fatal("email-matched lead must not be booked when ID resolves")
	}
}

func TestHandleEvent_FallsBackToEmail(t *testing.T) {
	lead := testLead("maria@example.com")
	store := newFakeLeadStore(lead)
	svc := newTestService(store)

	// The payload carries a lead ID that matches nothing, plus a valid email.
	payload := map[string]any{
		"leadId":  uuid.New().String(),
		"invitee": map[string]any{"email": "Maria@Example.com "},
	}
	result, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched != "email" || result.LeadID != lead.ID.String() {
		t.Fatalf("got %+v", result)
	}
}

func TestHandleEvent_UnmatchedIsStillSuccess(t *testing.T) {
	store := newFakeLeadStore()
	svc := newTestService(store)

	payload := map[string]any{"invitee": map[string]any{"email": "stranger@example.com"}}
	result, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err != nil {
		t.Fatalf("unmatched events must not error: %v", err)
	}
	if result.Matched != "none" {
		t.Fatalf("got %+v", result)
	}
}

func TestHandleEvent_StoreFailureSurfaces(t *testing.T) {
	svc := New(newFailingLeadStore(), logger.New("development"))

	payload := map[string]any{"leadId": uuid.New().String()}
	_, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err == nil {
		t.Fatal("an unreachable store must not read as no-match")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestHandleEvent_EmailLookupFailureSurfaces(t *testing.T) {
	svc := New(newFailingLeadStore(), logger.New("development"))

	payload := map[string]any{"invitee": map[string]any{"email": "maria@example.com"}}
	_, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err == nil {
		t.Fatal("an unreachable store must not read as no-match")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestHandleEvent_IgnoresNonBookingEvents(t *testing.T) {
	lead := testLead("lead@example.com")
	store := newFakeLeadStore(lead)
	svc := newTestService(store)

	payload := map[string]any{"leadId": lead.ID.String()}
	result, err := svc.HandleEvent(context.Background(), "invitee.canceled", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Ignored {
		t.Fatalf("expected event ignored, got %+v", result)
	}
	if store.leads[lead.ID].AppointmentBooked {
		t.Fatal("canceled event must not book")
	}
}

func TestHandleEvent_RebookingIsIdempotent(t *testing.T) {
	lead := testLead("lead@example.com")
	lead.AppointmentBooked = true
	store := newFakeLeadStore(lead)
	svc := newTestService(store)

	payload := map[string]any{"leadId": lead.ID.String()}
	result, err := svc.HandleEvent(context.Background(), "invitee.created", payload)
	if err != nil {
		t.Fatalf("re-booking must succeed: %v", err)
	}
	if result.Matched != "leadId" {
		t.Fatalf("got %+v", result)
	}
	if !store.leads[lead.ID].AppointmentBooked {
		t.Fatal("flag must remain set")
	}
}

func TestMarkBooked_ResolvesByEmail(t *testing.T) {
	lead := testLead("lead@example.com")
	store := newFakeLeadStore(lead)
	svc := newTestService(store)

	result, err := svc.MarkBooked(context.Background(), "", "LEAD@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched != "email" || result.LeadID != lead.ID.String() {
		t.Fatalf("got %+v", result)
	}
}

func TestMarkBooked_NotFound(t *testing.T) {
	svc := newTestService(newFakeLeadStore())

	_, err := svc.MarkBooked(context.Background(), uuid.New().String(), "ghost@example.com")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
