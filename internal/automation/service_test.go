package automation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/sequence"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

type fakeLeadReader struct {
	leads map[uuid.UUID]repository.Lead
}

func (f *fakeLeadReader) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeLeadReader) FindByEmail(_ context.Context, _ string) (repository.Lead, error) {
	return repository.Lead{}, apperr.NotFound("lead not found")
}

type recordingEmailSender struct {
	mu   sync.Mutex
	sent []email.Message
	done chan struct{}
}

func newRecordingEmailSender(expected int) *recordingEmailSender {
	return &recordingEmailSender{done: make(chan struct{}, expected)}
}

func (r *recordingEmailSender) Send(_ context.Context, msg email.Message) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingEmailSender) wait(t *testing.T, n int) []email.Message {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for send %d of %d", i+1, n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]email.Message(nil), r.sent...)
}

type recordingSMSSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSMSSender) Send(_ context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to+": "+body)
	return nil
}

func (r *recordingSMSSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func strPtr(s string) *string { return &s }

func newTriggerFixture(lead repository.Lead) (*Service, *recordingEmailSender, *recordingSMSSender, *sequence.ManualClock) {
	clock := sequence.NewManualClock(time.Date(2026, 3, 13, 15, 0, 0, 0, time.UTC))
	log := logger.New("development")
	emails := newRecordingEmailSender(8)
	smses := &recordingSMSSender{}
	scheduler := sequence.New(clock, log, 10*time.Second, 20*time.Second)

	reader := &fakeLeadReader{leads: map[uuid.UUID]repository.Lead{lead.ID: lead}}
	svc := New(reader, emails, smses, scheduler, nil, clock, log, "https://calendly.com/acme/intro")
	return svc, emails, smses, clock
}

func TestTrigger_FansOutAllChannels(t *testing.T) {
	lead := repository.Lead{
		ID:       uuid.New(),
		Name:     strPtr("Maria"),
		Email:    "maria@example.com",
		Phone:    strPtr("+12125550123"),
		Language: "en",
	}
	svc, emails, smses, clock := newTriggerFixture(lead)

	result, err := svc.Trigger(context.Background(), lead.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Triggered {
		t.Fatal("expected triggered")
	}
	if result.Email.Scheduled != 3 {
		t.Fatalf("expected 3 nurture emails scheduled, got %d", result.Email.Scheduled)
	}
	if result.SMS.Scheduled != 3 {
		t.Fatalf("expected 3 nurture SMS scheduled, got %d", result.SMS.Scheduled)
	}

	// The confirmation goes out immediately, detached from the scheduler.
	sent := emails.wait(t, 1)
	if len(sent) != 1 {
		t.Fatalf("expected 1 immediate email, got %d", len(sent))
	}
	confirm := sent[0]
	if confirm.To != "maria@example.com" {
		t.Fatalf("confirmation sent to %q", confirm.To)
	}
	if len(confirm.Attachments) != 1 || confirm.Attachments[0].FileName != "invite.ics" {
		t.Fatalf("confirmation must carry the calendar invite, got %+v", confirm.Attachments)
	}
	if !strings.Contains(string(confirm.Attachments[0].Content), "DTSTART:20260314T150000Z") {
		t.Fatal("invite must propose a slot 24 hours out")
	}
	if !strings.Contains(confirm.Text, "leadId="+lead.ID.String()) {
		t.Fatal("booking link must carry the lead ID")
	}

	// Advance past the maximum cumulative window: all nurture steps fire.
	clock.Advance(61 * time.Second)
	all := emails.wait(t, 3)
	if len(all) != 4 {
		t.Fatalf("expected confirmation + 3 nurture emails, got %d", len(all))
	}
	if smses.count() != 3 {
		t.Fatalf("expected 3 SMS sends, got %d", smses.count())
	}
}

func TestTrigger_SkipsSMSWithoutPhone(t *testing.T) {
	lead := repository.Lead{ID: uuid.New(), Email: "no-phone@example.com", Language: "en"}
	svc, _, smses, clock := newTriggerFixture(lead)

	result, err := svc.Trigger(context.Background(), lead.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SMS.Scheduled != 0 {
		t.Fatalf("expected no SMS scheduled, got %d", result.SMS.Scheduled)
	}

	clock.Advance(2 * time.Minute)
	if smses.count() != 0 {
		t.Fatalf("expected no SMS sent, got %d", smses.count())
	}
}

func TestTrigger_UnknownLead(t *testing.T) {
	svc, _, _, _ := newTriggerFixture(repository.Lead{ID: uuid.New(), Email: "x@example.com"})

	_, err := svc.Trigger(context.Background(), uuid.New(), "")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestTrigger_BookingLinkOverride(t *testing.T) {
	lead := repository.Lead{ID: uuid.New(), Email: "maria@example.com", Language: "en"}
	svc, emails, _, _ := newTriggerFixture(lead)

	if _, err := svc.Trigger(context.Background(), lead.ID, "https://calendly.com/acme/vip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := emails.wait(t, 1)
	if !strings.Contains(sent[0].Text, "https://calendly.com/acme/vip?leadId=") {
		t.Fatalf("override link not used:\n%s", sent[0].Text)
	}
}
