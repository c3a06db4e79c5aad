package background

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"healthhub/internal/repositories"
	"healthhub/internal/services"
)

// JobScheduler runs the periodic maintenance jobs: purging expired sessions
// and keeping the tenant cache warm. Session expiry is still enforced at
// authentication time; the purge only bounds table growth.
type JobScheduler struct {
	scheduler gocron.Scheduler
	sessions  repositories.SessionRepository
	directory services.TenantDirectory
	logger    zerolog.Logger
}

func NewJobScheduler(sessions repositories.SessionRepository, directory services.TenantDirectory, logger zerolog.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		sessions:  sessions,
		directory: directory,
		logger:    logger,
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.purgeExpiredSessions),
		gocron.WithName("session-purge"),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.warmTenantCache),
		gocron.WithName("tenant-cache-warm"),
	)
	return err
}

func (js *JobScheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := js.sessions.DeleteExpired(ctx)
	if err != nil {
		js.logger.Error().Err(err).Msg("expired session purge failed")
		return
	}
	if deleted > 0 {
		js.logger.Info().Int64("deleted", deleted).Msg("purged expired sessions")
	}
}

func (js *JobScheduler) warmTenantCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := js.directory.WarmCache(ctx); err != nil {
		js.logger.Error().Err(err).Msg("tenant cache warm failed")
	}
}
