package subscriptions

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"leadflow_backend/internal/email"
	leadsvc "leadflow_backend/internal/leads/service"
	"leadflow_backend/internal/sequence"
	"leadflow_backend/platform/logger"
)

// broadcastConcurrency caps how many subscriptions are enrolled in parallel.
const broadcastConcurrency = 8

// BroadcastResult summarizes one admin broadcast run.
type BroadcastResult struct {
	Enrolled int `json:"enrolled"`
	Failed   int `json:"failed"`
}

// Service manages newsletter subscriptions.
type Service struct {
	repo        Repository
	sender      email.Sender
	scheduler   *sequence.Scheduler
	log         *logger.Logger
	bookingBase string
}

// NewService creates a subscription service.
func NewService(repo Repository, sender email.Sender, scheduler *sequence.Scheduler, log *logger.Logger, bookingBase string) *Service {
	return &Service{
		repo:        repo,
		sender:      sender,
		scheduler:   scheduler,
		log:         log,
		bookingBase: bookingBase,
	}
}

// Subscribe records an opt-in. Re-subscribing the same email is a no-op
// refresh, never an error.
func (s *Service) Subscribe(ctx context.Context, rawEmail string, name *string, language string, source *string) (Subscription, error) {
	return s.repo.Upsert(ctx, leadsvc.NormalizeEmail(rawEmail), name, leadsvc.NormalizeLanguage(language), source)
}

// Broadcast enrolls every not-yet-scheduled subscriber into the email
// nurture sequence. The scheduled flag flips before jobs are registered so a
// subscriber can never be enrolled twice, even across overlapping broadcast
// calls. Individual failures are counted, not fatal.
func (s *Service) Broadcast(ctx context.Context) (BroadcastResult, error) {
	subs, err := s.repo.ListUnscheduled(ctx)
	if err != nil {
		return BroadcastResult{}, err
	}

	var result BroadcastResult
	results := make([]error, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(broadcastConcurrency)
	for i, sub := range subs {
		g.Go(func() error {
			results[i] = s.enroll(gctx, sub)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			result.Failed++
			s.log.Error("broadcast enrollment failed", "subscriptionId", subs[i].ID.String(), "error", err.Error())
			continue
		}
		result.Enrolled++
	}
	return result, nil
}

func (s *Service) enroll(ctx context.Context, sub Subscription) error {
	if err := s.repo.MarkScheduled(ctx, sub.ID); err != nil {
		return err
	}

	name := ""
	if sub.Name != nil {
		name = *sub.Name
	}

	templates := sequence.EmailNurture(sequence.ParseLanguage(sub.Language), s.bookingBase)
	jobs := make([]sequence.Job, 0, len(templates))
	for i, tmpl := range templates {
		content := tmpl.Render(name)
		msg := email.Message{
			To:      sub.Email,
			ToName:  name,
			Subject: tmpl.Subject,
			Text:    content.Text,
			HTML:    content.HTML,
		}
		jobs = append(jobs, sequence.Job{
			Channel:   "email",
			Recipient: sub.Email,
			Step:      fmt.Sprintf("broadcast-%d", i+1),
			Run: func(ctx context.Context) error {
				return s.sender.Send(ctx, msg)
			},
		})
	}

	s.scheduler.Schedule(jobs, sequence.Options{})
	return nil
}
