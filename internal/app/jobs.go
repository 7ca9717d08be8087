package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
)

const (
	pruneSchedule = "@every 5m"
	jobTimeout    = 2 * time.Minute
)

// Jobs runs the periodic imports and viewport session cleanup.
type Jobs struct {
	cron *cron.Cron
}

func NewJobs(deps *Dependencies, cfg config.Application) (*Jobs, error) {
	c := cron.New(cron.WithLocation(cfg.Calendar.Location()), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if len(cfg.Ics.Feeds) > 0 {
		feeds := cfg.Ics.Feeds
		if _, err := c.AddFunc(cfg.Ics.Schedule, withTimeout(func(ctx context.Context) error {
			return deps.IcsService.ImportFeeds(ctx, feeds)
		}, "ICS import")); err != nil {
			return nil, fmt.Errorf("invalid ICS schedule %q: %w", cfg.Ics.Schedule, err)
		}
	}

	if cfg.Google.Enabled {
		if _, err := c.AddFunc(cfg.Google.Schedule, withTimeout(func(ctx context.Context) error {
			_, err := deps.GoogleSyncer.Sync(ctx)
			return err
		}, "Google sync")); err != nil {
			return nil, fmt.Errorf("invalid Google schedule %q: %w", cfg.Google.Schedule, err)
		}
	}

	ttl := cfg.Viewport.SessionTtl
	if _, err := c.AddFunc(pruneSchedule, func() {
		if pruned := deps.ViewportSessions.Prune(ttl); pruned > 0 {
			log.Debugf("pruned %d idle viewport sessions", pruned)
		}
	}); err != nil {
		return nil, err
	}

	return &Jobs{cron: c}, nil
}

func withTimeout(job func(ctx context.Context) error, name string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			log.Errorf("%s failed: %v", name, err)
		}
	}
}

func (j *Jobs) Start() {
	j.cron.Start()
}

// Stop waits for running jobs to finish.
func (j *Jobs) Stop() {
	<-j.cron.Stop().Done()
}
