// Package jobs runs background work on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"medical-appointments/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const digestTimeout = 2 * time.Minute

type DigestRunner interface {
	Digest(ctx context.Context) (*usecase.RiskDigest, error)
}

// Scheduler owns the cron runner for the risk digest.
type Scheduler struct {
	cron   *cron.Cron
	log    *logrus.Logger
	runner DigestRunner
}

func NewScheduler(log *logrus.Logger, runner DigestRunner, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.PrintfLogger(log))),
		),
		log:    log,
		runner: runner,
	}
}

// ScheduleDigest registers the digest under a standard five-field cron spec.
func (s *Scheduler) ScheduleDigest(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunDigest); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return nil
}

// RunDigest executes one digest and logs the outcome.
func (s *Scheduler) RunDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	digest, err := s.runner.Digest(ctx)
	if err != nil {
		s.log.Warnf("Failed to run risk digest: %+v", err)
		return
	}

	top := make([]uint, 0, len(digest.Top))
	for _, alert := range digest.Top {
		top = append(top, alert.AppointmentID)
	}

	s.log.WithFields(logrus.Fields{
		"upcoming":         digest.Upcoming,
		"high":             digest.High,
		"medium":           digest.Medium,
		"top_appointments": top,
	}).Info("Risk digest completed")
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d job(s)", len(s.cron.Entries()))
}

// Stop waits for a running job to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}
