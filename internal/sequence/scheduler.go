// Package sequence implements the timed nurture message scheduler.
//
// Scheduling is purely in-process: each step becomes a timer callback on the
// scheduler's Clock, with no persisted state. If the process restarts before
// a timer fires, that message is permanently lost, an accepted limitation at
// this system's lead volume. There is also no cancellation: a lead that books
// moments after a trigger still receives the remaining steps.
package sequence

import (
	"context"
	"math/rand/v2"
	"time"

	"leadflow_backend/platform/logger"
)

// sendTimeout bounds each outbound send so a hung provider is logged as a
// failure instead of pinning a goroutine.
const sendTimeout = 15 * time.Second

// Job is one scheduled send, content already rendered and recipient already
// bound at schedule time.
type Job struct {
	Channel   string // "email" or "sms", for logging
	Recipient string
	Step      string
	Run       func(ctx context.Context) error
}

// Options tunes one Schedule invocation.
type Options struct {
	// Delays gives an explicit delay per step. When shorter than the job
	// list (or empty), the remaining steps draw a uniform-random integer
	// number of seconds from the scheduler's [min, max] window.
	Delays []time.Duration
}

// Summary is returned immediately, before any message is sent.
type Summary struct {
	Scheduled  int           `json:"scheduled"`
	TotalDelay time.Duration `json:"totalDelay"`
}

// Scheduler fires each job of a sequence at its cumulative offset.
type Scheduler struct {
	clock    Clock
	log      *logger.Logger
	minDelay time.Duration
	maxDelay time.Duration
}

// New creates a scheduler with the given randomization window.
func New(clock Clock, log *logger.Logger, minDelay, maxDelay time.Duration) *Scheduler {
	if minDelay <= 0 {
		minDelay = 10 * time.Second
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &Scheduler{
		clock:    clock,
		log:      log,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Schedule registers every job at the cumulative sum of the step delays: step
// i fires at delay_0 + … + delay_i, giving strictly increasing fire times
// even with randomized per-step draws. Each step is an independent failure
// domain: a failed send is logged and later steps still fire. The returned
// Summary is available before any send happens.
func (s *Scheduler) Schedule(jobs []Job, opts Options) Summary {
	var cumulative time.Duration

	for i, job := range jobs {
		cumulative += s.stepDelay(opts, i)
		s.scheduleAt(cumulative, job)
	}

	return Summary{Scheduled: len(jobs), TotalDelay: cumulative}
}

func (s *Scheduler) stepDelay(opts Options, step int) time.Duration {
	if step < len(opts.Delays) && opts.Delays[step] > 0 {
		return opts.Delays[step]
	}

	minSec := int(s.minDelay / time.Second)
	maxSec := int(s.maxDelay / time.Second)
	return time.Duration(minSec+rand.IntN(maxSec-minSec+1)) * time.Second
}

func (s *Scheduler) scheduleAt(offset time.Duration, job Job) {
	s.clock.AfterFunc(offset, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			s.log.SendFailure(job.Channel, job.Recipient, job.Step, err)
		}
	})
}
