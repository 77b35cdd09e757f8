package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/internal/models"
	"github.com/noah-isme/e-surat-api/pkg/config"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type reminderCalendar interface {
	ListDueForReminder(ctx context.Context, now, horizon time.Time) ([]models.CalendarEvent, error)
	MarkNotified3Days(ctx context.Context, id string) error
	MarkNotified1Day(ctx context.Context, id string) error
}

type reminderLetters interface {
	ListOverdueInvitations(ctx context.Context, now time.Time, limit int) ([]models.Letter, error)
	MarkOverdueNotified(ctx context.Context, ids []string, ts time.Time) error
	CountCreatedBetween(ctx context.Context, start, end time.Time) (models.WeeklyLetterCounts, error)
}

type jobObserver interface {
	JobCompleted(job string, success bool)
}

// ReminderService drives the three scheduled jobs: upcoming-event reminders,
// overdue invitation sweeps, and the weekly register summary. Each job holds
// a process-local guard so a slow run is skipped rather than overlapped.
type ReminderService struct {
	calendar reminderCalendar
	letters  reminderLetters
	notifier letterNotifier
	metrics  jobObserver
	cfg      config.RemindersConfig
	logger   *zap.Logger
	now      func() time.Time

	upcomingRunning atomic.Bool
	overdueRunning  atomic.Bool
	weeklyRunning   atomic.Bool
}

// NewReminderService wires the scheduler. metrics may be nil.
func NewReminderService(
	calendar reminderCalendar,
	letters reminderLetters,
	notifier letterNotifier,
	metrics jobObserver,
	cfg config.RemindersConfig,
	logger *zap.Logger,
) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		calendar: calendar,
		letters:  letters,
		notifier: notifier,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches the ticker loops. Each job also fires once at startup so a
// restarted process does not wait a full interval to catch up.
func (s *ReminderService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("reminder jobs disabled")
		return
	}
	go s.loop(ctx, "reminder_upcoming", s.cfg.UpcomingInterval, s.RunUpcomingOnce)
	go s.loop(ctx, "reminder_overdue", s.cfg.OverdueInterval, s.RunOverdueOnce)
	go s.loop(ctx, "reminder_weekly", s.cfg.WeeklyInterval, s.RunWeeklyOnce)
}

func (s *ReminderService) loop(ctx context.Context, name string, interval time.Duration, run func(context.Context) error) {
	s.runJob(ctx, name, run)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder loop stopped", zap.String("job", name))
			return
		case <-ticker.C:
			s.runJob(ctx, name, run)
		}
	}
}

func (s *ReminderService) runJob(ctx context.Context, name string, run func(context.Context) error) {
	err := run(ctx)
	if s.metrics != nil {
		s.metrics.JobCompleted(name, err == nil)
	}
	if err != nil {
		s.logger.Error("reminder job failed", zap.String("job", name), zap.Error(err))
	}
}

// RunUpcomingOnce broadcasts reminders for events exactly 3 days and exactly
// 1 day ahead. Each threshold fires at most once per event; rescheduling
// resets the flags upstream in the projector.
func (s *ReminderService) RunUpcomingOnce(ctx context.Context) error {
	if !s.upcomingRunning.CompareAndSwap(false, true) {
		s.logger.Warn("upcoming reminder run already in progress, skipping")
		return nil
	}
	defer s.upcomingRunning.Store(false)

	today := truncateDay(s.now())
	horizon := today.AddDate(0, 0, 3)
	events, err := s.calendar.ListDueForReminder(ctx, today, horizon)
	if err != nil {
		s.reportFailure(ctx, "Pengingat acara gagal dijalankan", err)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reminder candidates")
	}

	for i := range events {
		event := &events[i]
		days := daysBetween(today, truncateDay(event.Date))
		switch {
		case days == 3 && !event.Notified3Days:
			s.remindEvent(ctx, event, days, s.calendar.MarkNotified3Days)
		case days == 1 && !event.Notified1Day:
			s.remindEvent(ctx, event, days, s.calendar.MarkNotified1Day)
		}
	}
	return nil
}

func (s *ReminderService) remindEvent(ctx context.Context, event *models.CalendarEvent, days int, mark func(context.Context, string) error) {
	message := fmt.Sprintf("%s pada %s", event.Title, event.Date.Format("2006-01-02"))
	if event.Time != nil {
		message = fmt.Sprintf("%s %s", message, *event.Time)
	}
	if event.Location != nil {
		message = fmt.Sprintf("%s di %s", message, *event.Location)
	}
	// Reminders are broadcast: every viewer sees the upcoming event, not
	// just the registrant.
	_, err := s.notifier.Notify(ctx, NotificationInput{
		Title:    fmt.Sprintf("Pengingat acara %d hari lagi", days),
		Message:  message,
		Severity: models.SeverityInfo,
		Email:    true,
	})
	if err != nil {
		s.logger.Warn("failed to send event reminder", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	// The flag flips only after the notification settled, so a failed send
	// is retried on the next run.
	if err := mark(ctx, event.ID); err != nil {
		s.logger.Warn("failed to mark reminder sent", zap.String("event_id", event.ID), zap.Error(err))
	}
}

// RunOverdueOnce sweeps incoming invitations whose event date has passed
// without an overdue alert. The batch is capped so one run never floods the
// sink; the remainder is picked up by subsequent runs.
func (s *ReminderService) RunOverdueOnce(ctx context.Context) error {
	if !s.overdueRunning.CompareAndSwap(false, true) {
		s.logger.Warn("overdue reminder run already in progress, skipping")
		return nil
	}
	defer s.overdueRunning.Store(false)

	now := s.now()
	letters, err := s.letters.ListOverdueInvitations(ctx, truncateDay(now), s.cfg.OverdueBatchSize)
	if err != nil {
		s.reportFailure(ctx, "Pemeriksaan undangan terlewat gagal", err)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue invitations")
	}
	if len(letters) == 0 {
		return nil
	}

	ids := make([]string, 0, len(letters))
	numbers := make([]string, 0, len(letters))
	for i := range letters {
		ids = append(ids, letters[i].ID)
		numbers = append(numbers, letters[i].LetterNumber)
	}
	_, err = s.notifier.Notify(ctx, NotificationInput{
		Title:    fmt.Sprintf("%d undangan terlewat", len(letters)),
		Message:  fmt.Sprintf("Acara sudah lewat tanpa tindak lanjut: %s", strings.Join(numbers, ", ")),
		Severity: models.SeverityWarning,
		Email:    true,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send overdue notification")
	}
	if err := s.letters.MarkOverdueNotified(ctx, ids, now.UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark overdue letters")
	}
	return nil
}

// RunWeeklyOnce broadcasts the register counts of the last full week, Monday
// through Sunday.
func (s *ReminderService) RunWeeklyOnce(ctx context.Context) error {
	if !s.weeklyRunning.CompareAndSwap(false, true) {
		s.logger.Warn("weekly summary run already in progress, skipping")
		return nil
	}
	defer s.weeklyRunning.Store(false)

	start, end := lastFullWeek(s.now())
	counts, err := s.letters.CountCreatedBetween(ctx, start, end)
	if err != nil {
		s.reportFailure(ctx, "Rekap mingguan gagal dijalankan", err)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count weekly letters")
	}

	message := fmt.Sprintf("Periode %s s.d. %s: %d surat masuk, %d surat keluar",
		start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"),
		counts.Incoming, counts.Outgoing)
	_, err = s.notifier.Notify(ctx, NotificationInput{
		Title:    "Rekap mingguan surat",
		Message:  message,
		Severity: models.SeverityInfo,
		Email:    true,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send weekly summary")
	}
	return nil
}

// reportFailure surfaces a job failure in the sink so operators see it
// without tailing logs. Failure to report is only logged.
func (s *ReminderService) reportFailure(ctx context.Context, title string, cause error) {
	_, err := s.notifier.Notify(ctx, NotificationInput{
		Title:    title,
		Message:  cause.Error(),
		Severity: models.SeverityError,
	})
	if err != nil {
		s.logger.Warn("failed to report job failure", zap.Error(err))
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days between two instants. Dates are
// compared in UTC so a DST transition never produces a short day.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	u := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(u.Sub(f).Hours() / 24)
}

// lastFullWeek returns the half-open [Monday, next Monday) interval of the
// week before the one containing t.
func lastFullWeek(t time.Time) (time.Time, time.Time) {
	day := truncateDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	thisMonday := day.AddDate(0, 0, -(weekday - 1))
	return thisMonday.AddDate(0, 0, -7), thisMonday
}
