// Package reminder nudges users whose practice streak is about to lapse.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/domain/notify"
	"github.com/yungbote/studyquiz-backend/internal/learning"
	"github.com/yungbote/studyquiz-backend/internal/observability"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/platform/sendgrid"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

// DefaultSchedule fires at 18:00 every day.
const DefaultSchedule = "0 18 * * *"

const runTimeout = 5 * time.Minute

type Job struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	practiceRepo  repos.DailyPracticeRepo
	notifications services.NotificationService
	// email is nil when SendGrid is not configured.
	email sendgrid.Client
	now   func() time.Time

	cron *cron.Cron
}

func New(
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	practiceRepo repos.DailyPracticeRepo,
	notifications services.NotificationService,
	email sendgrid.Client,
) *Job {
	return &Job{
		log:           baseLog.With("component", "StreakReminder"),
		userRepo:      userRepo,
		practiceRepo:  practiceRepo,
		notifications: notifications,
		email:         email,
		now:           time.Now,
	}
}

// Start schedules the job on spec (standard five-field cron, UTC). The
// scheduler stops when ctx is done.
func (j *Job) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		n, err := j.RunOnce(runCtx)
		if err != nil {
			j.log.Warn("Streak reminder run failed", "error", err)
			return
		}
		j.log.Info("Streak reminder run finished", "notified", n)
	}); err != nil {
		return fmt.Errorf("schedule streak reminder %q: %w", spec, err)
	}
	j.cron = c
	c.Start()
	j.log.Info("Streak reminder scheduled", "spec", spec)

	go func() {
		<-ctx.Done()
		stopped := c.Stop()
		<-stopped.Done()
		j.log.Info("Streak reminder stopped")
	}()
	return nil
}

// RunOnce notifies every user who practiced yesterday but not yet today and
// returns how many were notified.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	now := j.now().UTC()
	today := learning.PracticeDate(now)
	yesterday := learning.PracticeDate(now.AddDate(0, 0, -1))
	dbc := dbctx.New(ctx)

	before, err := j.practiceRepo.ListUserIDsForDate(dbc, yesterday)
	if err != nil {
		return 0, fmt.Errorf("list users for %s: %w", yesterday, err)
	}
	if len(before) == 0 {
		return 0, nil
	}
	done, err := j.practiceRepo.ListUserIDsForDate(dbc, today)
	if err != nil {
		return 0, fmt.Errorf("list users for %s: %w", today, err)
	}
	practicedToday := make(map[uuid.UUID]struct{}, len(done))
	for _, id := range done {
		practicedToday[id] = struct{}{}
	}

	targets := make([]uuid.UUID, 0, len(before))
	for _, id := range before {
		if _, ok := practicedToday[id]; !ok {
			targets = append(targets, id)
		}
	}

	notified := 0
	for _, userID := range targets {
		if err := ctx.Err(); err != nil {
			return notified, err
		}
		_, err := j.notifications.Create(dbc, services.NewNotification{
			UserID:   userID,
			Type:     notify.TypeStreakReminder,
			Title:    "Keep your streak going!",
			Message:  "You practiced yesterday. Take a quick quiz today to keep your streak alive.",
			Icon:     "🔥",
			Metadata: map[string]any{"practice_date": today},
		})
		if err != nil {
			j.log.Warn("Streak reminder notification failed", "user_id", userID, "error", err)
			observability.Current().IncReminder("in_app", "failed")
			continue
		}
		observability.Current().IncReminder("in_app", "sent")
		notified++
	}

	if j.email != nil && len(targets) > 0 {
		j.sendEmails(ctx, dbc, targets)
	}
	return notified, nil
}

func (j *Job) sendEmails(ctx context.Context, dbc dbctx.Context, userIDs []uuid.UUID) {
	users, err := j.userRepo.GetByIDs(dbc, userIDs)
	if err != nil {
		j.log.Warn("Streak reminder could not load users", "error", err)
		return
	}
	for _, u := range users {
		if u == nil || u.Email == "" {
			continue
		}
		_, err := j.email.Send(ctx, sendgrid.SendEmailRequest{
			To:      sendgrid.EmailAddress{Email: u.Email, Name: u.Name},
			Subject: "Keep your study streak going",
			Text:    fmt.Sprintf("Hi %s,\n\nYou practiced yesterday. A short quiz today keeps your streak alive.\n", u.Name),
		})
		if err != nil {
			j.log.Warn("Streak reminder email failed", "user_id", u.ID, "error", err)
			observability.Current().IncReminder("email", "failed")
			continue
		}
		observability.Current().IncReminder("email", "sent")
	}
}
