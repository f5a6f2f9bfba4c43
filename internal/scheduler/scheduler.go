// Package scheduler periodically sends due campaigns and resumes stalled ones.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Campaigns is the part of the campaign service the scheduler drives
type Campaigns interface {
	SendDue(ctx context.Context) (int, error)
	ResumeStalled(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	spec      string
	campaigns Campaigns
	logger    *logrus.Logger
}

func NewScheduler(spec string, campaigns Campaigns, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		// a sweep still running when the next tick fires is not started twice
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:      spec,
		campaigns: campaigns,
		logger:    logger,
	}
}

// Start registers the sweep and starts the cron runner
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.WithField("spec", s.spec).Info("campaign scheduler started")
	return nil
}

// Stop halts the runner and waits for a sweep in progress
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce resumes stalled sends, then sends due campaigns
func (s *Scheduler) RunOnce(ctx context.Context) {
	resumed, err := s.campaigns.ResumeStalled(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to resume stalled campaigns")
	} else if resumed > 0 {
		s.logger.WithField("campaigns", resumed).Info("resumed stalled campaigns")
	}

	sent, err := s.campaigns.SendDue(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to send due campaigns")
	} else if sent > 0 {
		s.logger.WithField("campaigns", sent).Info("sent scheduled campaigns")
	}
}
