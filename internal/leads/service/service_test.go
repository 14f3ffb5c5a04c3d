package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

type fakeRepo struct {
	leads      map[uuid.UUID]repository.Lead
	lastCreate repository.CreateParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (repository.Lead, error) {
	for _, lead := range f.leads {
		if lead.Email == email {
			return lead, nil
		}
	}
	return repository.Lead{}, apperr.NotFound("lead not found")
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Lead, error) {
	f.lastCreate = params
	lead := repository.Lead{
		ID:       uuid.New(),
		Name:     params.Name,
		Email:    params.Email,
		Phone:    params.Phone,
		Language: params.Language,
		Source:   params.Source,
		CRMTags:  params.CRMTags,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if params.Email != nil {
		lead.Email = *params.Email
	}
	if params.Language != nil {
		lead.Language = *params.Language
	}
	if params.Name != nil {
		lead.Name = params.Name
	}
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeRepo) SetAppointmentBooked(_ context.Context, id uuid.UUID, booked bool) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.AppointmentBooked = booked
	f.leads[id] = lead
	return lead, nil
}

func ptr(s string) *string { return &s }

func TestCreate_NormalizesInput(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("development"))

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:     ptr("  Maria Lopez "),
		Email:    "  Maria@Example.COM ",
		Phone:    "(212) 555-0123",
		Language: "Swedish",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Email != "maria@example.com" {
		t.Fatalf("email not normalized: %q", resp.Email)
	}
	if resp.Language != "en" {
		t.Fatalf("unsupported language must fall back to en, got %q", resp.Language)
	}
	if repo.lastCreate.Name == nil || *repo.lastCreate.Name != "Maria Lopez" {
		t.Fatalf("name not trimmed: %v", repo.lastCreate.Name)
	}
	if resp.Phone == nil || *resp.Phone != "+12125550123" {
		t.Fatalf("phone not normalized to E.164: %v", resp.Phone)
	}
}

func TestCreate_TagsPreQualified(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("development"))

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Email: "lead@example.com",
		Phone: "+12125550123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.CRMTags) != 1 || resp.CRMTags[0] != "Pre-Qualified" {
		t.Fatalf("expected Pre-Qualified tag, got %v", resp.CRMTags)
	}
	if resp.AppointmentBooked {
		t.Fatal("new leads must start unbooked")
	}
	if resp.LeadID != resp.ID {
		t.Fatal("leadId must mirror id")
	}
}

func TestCreate_SpanishPreserved(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("development"))

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Email:    "lead@example.com",
		Phone:    "+12125550123",
		Language: " ES ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Language != "es" {
		t.Fatalf("got %q", resp.Language)
	}
}

func TestUpdate_NormalizesEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("development"))

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Email: "old@example.com",
		Phone: "+12125550123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, _ := uuid.Parse(created.ID)
	updated, err := svc.Update(context.Background(), id, transport.UpdateLeadRequest{
		Email: ptr(" NEW@Example.com "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Email != "new@example.com" {
		t.Fatalf("got %q", updated.Email)
	}
}

func TestResetBooking(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("development"))

	created, _ := svc.Create(context.Background(), transport.CreateLeadRequest{
		Email: "lead@example.com",
		Phone: "+12125550123",
	})
	id, _ := uuid.Parse(created.ID)
	if _, err := repo.SetAppointmentBooked(context.Background(), id, true); err != nil {
		t.Fatalf("setup: %v", err)
	}

	resp, err := svc.ResetBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AppointmentBooked {
		t.Fatal("expected booking cleared")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("development"))

	_, err := svc.GetByID(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
