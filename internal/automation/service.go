// Package automation runs the post-submission engagement pipeline: an
// immediate confirmation email with a calendar invite, plus detached email
// and SMS nurture sequences.
package automation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/sequence"
	"leadflow_backend/internal/sms"
	"leadflow_backend/internal/storage"
	"leadflow_backend/platform/logger"
)

const (
	// confirmTimeout bounds the immediate confirmation send.
	confirmTimeout = 15 * time.Second

	// callLeadTime is how far ahead the proposed discovery call is placed.
	callLeadTime = 24 * time.Hour

	// callDuration is the invite's event length.
	callDuration = 30 * time.Minute

	// guideObject is the storage object attached to the first nurture email.
	guideObject = "prequal-guide.pdf"
)

// TriggerResult reports what the trigger scheduled. It is complete before
// any message has actually been sent.
type TriggerResult struct {
	Triggered bool             `json:"triggered"`
	Email     sequence.Summary `json:"email"`
	SMS       sequence.Summary `json:"sms"`
}

// Service orchestrates the three engagement channels for a lead.
type Service struct {
	leads       repository.LeadReader
	email       email.Sender
	sms         sms.Sender
	scheduler   *sequence.Scheduler
	resources   *storage.Service
	clock       sequence.Clock
	log         *logger.Logger
	bookingBase string
}

// New creates the automation service. resources may be nil (no attachment).
func New(
	leads repository.LeadReader,
	emailSender email.Sender,
	smsSender sms.Sender,
	scheduler *sequence.Scheduler,
	resources *storage.Service,
	clock sequence.Clock,
	log *logger.Logger,
	bookingBase string,
) *Service {
	return &Service{
		leads:       leads,
		email:       emailSender,
		sms:         smsSender,
		scheduler:   scheduler,
		resources:   resources,
		clock:       clock,
		log:         log,
		bookingBase: bookingBase,
	}
}

// Trigger launches all engagement channels for the lead and returns as soon
// as everything is scheduled. The confirmation email goes out immediately on
// a detached goroutine; the nurture sequences fire on scheduler timers. A
// failure in any one channel never blocks or cancels the others.
func (s *Service) Trigger(ctx context.Context, leadID uuid.UUID, bookingLinkOverride string) (TriggerResult, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return TriggerResult{}, err
	}

	lang := sequence.ParseLanguage(lead.Language)
	name := ""
	if lead.Name != nil {
		name = *lead.Name
	}
	link := s.bookingLink(bookingLinkOverride, lead.ID)

	s.sendConfirmation(lead, lang, name, link)
	emailSummary := s.scheduleEmailNurture(ctx, lead, lang, name, link)
	smsSummary := s.scheduleSMSNurture(lead, lang, name, link)

	s.log.WithContext(ctx).Info("automation triggered",
		"leadId", lead.ID.String(),
		"language", string(lang),
		"emailSteps", emailSummary.Scheduled,
		"smsSteps", smsSummary.Scheduled,
	)

	return TriggerResult{Triggered: true, Email: emailSummary, SMS: smsSummary}, nil
}

// sendConfirmation fires the immediate confirmation email with the calendar
// invite on its own goroutine, detached from the request context.
func (s *Service) sendConfirmation(lead repository.Lead, lang sequence.Language, name, link string) {
	tmpl := sequence.ConfirmCall(lang, link)
	content := tmpl.Render(name)

	start := s.clock.Now().Add(callLeadTime)
	invite := buildInvite(start, callDuration, "Discovery Call", "Intro call to discuss your goals.", name, lead.Email)

	msg := email.Message{
		To:      lead.Email,
		ToName:  name,
		Subject: tmpl.Subject,
		Text:    content.Text,
		HTML:    content.HTML,
		Attachments: []email.Attachment{{
			Content:  invite,
			FileName: "invite.ics",
			MIMEType: "text/calendar",
		}},
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), confirmTimeout)
		defer cancel()

		if err := s.email.Send(ctx, msg); err != nil {
			s.log.SendFailure("email", lead.Email, "confirmation", err)
		}
	}()
}

func (s *Service) scheduleEmailNurture(ctx context.Context, lead repository.Lead, lang sequence.Language, name, link string) sequence.Summary {
	templates := sequence.EmailNurture(lang, link)

	var guide []email.Attachment
	if data, contentType, ok := s.resources.FetchResource(ctx, guideObject); ok {
		guide = []email.Attachment{{Content: data, FileName: guideObject, MIMEType: contentType}}
	}

	jobs := make([]sequence.Job, 0, len(templates))
	for i, tmpl := range templates {
		content := tmpl.Render(name)
		msg := email.Message{
			To:      lead.Email,
			ToName:  name,
			Subject: tmpl.Subject,
			Text:    content.Text,
			HTML:    content.HTML,
		}
		if i == 0 {
			msg.Attachments = guide
		}

		jobs = append(jobs, sequence.Job{
			Channel:   "email",
			Recipient: lead.Email,
			Step:      fmt.Sprintf("nurture-%d", i+1),
			Run: func(ctx context.Context) error {
				return s.email.Send(ctx, msg)
			},
		})
	}

	return s.scheduler.Schedule(jobs, sequence.Options{})
}

func (s *Service) scheduleSMSNurture(lead repository.Lead, lang sequence.Language, name, link string) sequence.Summary {
	if lead.Phone == nil || strings.TrimSpace(*lead.Phone) == "" {
		return sequence.Summary{}
	}
	phone := *lead.Phone

	templates := sequence.SMSNurture(lang, link)
	jobs := make([]sequence.Job, 0, len(templates))
	for i, tmpl := range templates {
		body := tmpl.Render(name).Text
		jobs = append(jobs, sequence.Job{
			Channel:   "sms",
			Recipient: phone,
			Step:      fmt.Sprintf("nurture-%d", i+1),
			Run: func(ctx context.Context) error {
				return s.sms.Send(ctx, phone, body)
			},
		})
	}

	return s.scheduler.Schedule(jobs, sequence.Options{})
}

// bookingLink resolves the link embedded in every outbound message: an
// explicit override wins, otherwise the configured base gets the lead ID as
// a query parameter so the booking page can associate the visit.
func (s *Service) bookingLink(override string, leadID uuid.UUID) string {
	base := strings.TrimSpace(override)
	if base == "" {
		base = s.bookingBase
	}
	if base == "" {
		return ""
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := parsed.Query()
	q.Set("leadId", leadID.String())
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
