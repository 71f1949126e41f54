// Package sweeper periodically removes sessions whose refresh window has
// closed.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

const DefaultSchedule = "15 * * * *"

// Pruner is satisfied by services.AuthService.
type Pruner interface {
	PruneExpiredSessions(dbc dbctx.Context) (int64, error)
}

type Job struct {
	log    *logger.Logger
	pruner Pruner
}

func New(baseLog *logger.Logger, pruner Pruner) *Job {
	return &Job{log: baseLog.With("component", "SessionSweeper"), pruner: pruner}
}

func (j *Job) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if _, err := j.RunOnce(runCtx); err != nil {
			j.log.Warn("Session sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", spec, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

func (j *Job) RunOnce(ctx context.Context) (int64, error) {
	return j.pruner.PruneExpiredSessions(dbctx.New(ctx))
}
