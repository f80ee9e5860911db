package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	"github.com/agendahub/agenda-api/pkg/jobs"
)

type reminderScheduleRepository interface {
	ListByWeekdayAll(ctx context.Context, weekday string) ([]models.ScheduleEntry, error)
}

type reminderSubjectRepository interface {
	FindAny(ctx context.Context, id string) (*models.Subject, error)
}

// ReminderService scans the weekly schedule and queues a push notification
// for every class starting within the lookahead window. A sweep is
// triggered by the internal ticker or by the runner endpoint.
type ReminderService struct {
	entries  reminderScheduleRepository
	subjects reminderSubjectRepository
	tokens   pushTokenRepository
	client   PushClient
	queue    *jobs.Queue
	metrics  *MetricsService
	logger   *zap.Logger

	lookahead time.Duration
	tick      time.Duration
	now       func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

// NewReminderService creates the reminder scheduler. The queue is built
// here so its handler closes over the push client.
func NewReminderService(
	entries reminderScheduleRepository,
	subjects reminderSubjectRepository,
	tokens pushTokenRepository,
	client PushClient,
	metrics *MetricsService,
	logger *zap.Logger,
	lookahead, tick time.Duration,
	queueCfg jobs.QueueConfig,
) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookahead <= 0 {
		lookahead = 10 * time.Minute
	}
	if tick <= 0 {
		tick = time.Minute
	}
	s := &ReminderService{
		entries:   entries,
		subjects:  subjects,
		tokens:    tokens,
		client:    client,
		metrics:   metrics,
		logger:    logger,
		lookahead: lookahead,
		tick:      tick,
		now:       time.Now,
		sent:      make(map[string]time.Time),
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("reminders", s.deliver, queueCfg)
	return s
}

// Start launches the delivery workers and the sweep ticker.
func (s *ReminderService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.run(ctx)
}

// Stop drains the delivery workers.
func (s *ReminderService) Stop() {
	s.queue.Stop()
}

func (s *ReminderService) run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("reminder sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs one sweep: every class on today's weekday whose start
// time falls within [now, now+lookahead) gets one reminder queued. A class
// occurrence is reminded at most once per day.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	weekday := models.WeekdayName(now)

	entries, err := s.entries.ListByWeekdayAll(ctx, weekday)
	if err != nil {
		return 0, fmt.Errorf("list schedule entries: %w", err)
	}

	queued := 0
	for _, entry := range entries {
		start, err := classStartAt(now, entry.StartTime)
		if err != nil {
			s.logger.Warn("skipping entry with bad start time",
				zap.String("entry_id", entry.ID), zap.String("start_time", entry.StartTime))
			continue
		}
		if start.Before(now) || !start.Before(now.Add(s.lookahead)) {
			continue
		}
		if s.alreadySent(entry.ID, now) {
			continue
		}

		tokens, err := s.tokens.ListByUser(ctx, entry.UserID)
		if err != nil {
			s.logger.Warn("failed to load push tokens", zap.String("user_id", entry.UserID), zap.Error(err))
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		msg, err := s.buildMessage(ctx, entry)
		if err != nil {
			s.logger.Warn("failed to build reminder", zap.String("entry_id", entry.ID), zap.Error(err))
			continue
		}
		if err := s.queue.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Type:    "class_reminder",
			Payload: msg,
		}); err != nil {
			s.logger.Warn("failed to enqueue reminder", zap.String("entry_id", entry.ID), zap.Error(err))
			continue
		}
		s.markSent(entry.ID, now)
		queued++
	}

	if queued > 0 {
		s.logger.Info("reminder sweep queued notifications",
			zap.String("weekday", weekday), zap.Int("count", queued))
	}
	return queued, nil
}

func (s *ReminderService) buildMessage(ctx context.Context, entry models.ScheduleEntry) (models.PushMessage, error) {
	subjectName := ""
	subject, err := s.subjects.FindAny(ctx, entry.SubjectID)
	if err == nil {
		subjectName = subject.Name
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.PushMessage{}, fmt.Errorf("load subject: %w", err)
	}

	body := fmt.Sprintf("%s (%s) starts at %s", subjectName, entry.Kind, entry.StartTime)
	if subjectName == "" {
		body = fmt.Sprintf("Class (%s) starts at %s", entry.Kind, entry.StartTime)
	}
	return models.PushMessage{
		UserID: entry.UserID,
		Title:  "Upcoming class",
		Body:   body,
	}, nil
}

func (s *ReminderService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(models.PushMessage)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	err := s.client.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.RecordReminder(err)
	}
	if err != nil {
		return fmt.Errorf("deliver reminder for user %s: %w", msg.UserID, err)
	}
	return nil
}

func (s *ReminderService) alreadySent(entryID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.sent[entryID]
	return ok && sameDay(day, now)
}

func (s *ReminderService) markSent(entryID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, day := range s.sent {
		if !sameDay(day, now) {
			delete(s.sent, id)
		}
	}
	s.sent[entryID] = now
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// classStartAt anchors an HH:MM start time onto the given date in its
// location.
func classStartAt(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
