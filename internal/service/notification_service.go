package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	CountUnread(ctx context.Context, viewerID string) (int, error)
	MarkRead(ctx context.Context, id, viewerID string) (bool, error)
	MarkAllRead(ctx context.Context, viewerID string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// NotificationInput describes a notification to record. Email toggles
// best-effort forwarding through the mail queue.
type NotificationInput struct {
	Title    string
	Message  string
	Severity models.NotificationSeverity
	UserID   *string
	Email    bool
}

// MailPayload rides on the mail queue.
type MailPayload struct {
	Subject string
	Body    string
}

const unreadCacheTTL = time.Minute

// NotificationService is the notification sink: it stores in-app messages
// and forwards a subset via email. Rows are written only by the reminder
// jobs and letter-mutation side effects.
type NotificationService struct {
	repo   notificationStore
	queue  jobDispatcher
	cache  *redis.Client
	logger *zap.Logger
}

// NewNotificationService constructs the sink. queue and cache may be nil;
// both degrade gracefully.
func NewNotificationService(repo notificationStore, queue jobDispatcher, cache *redis.Client, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, queue: queue, cache: cache, logger: logger}
}

// Notify records a notification and optionally queues an email copy.
func (s *NotificationService) Notify(ctx context.Context, input NotificationInput) (*models.Notification, error) {
	severity := input.Severity
	if severity == "" {
		severity = models.SeverityInfo
	}
	n := &models.Notification{
		Title:    input.Title,
		Message:  input.Message,
		Severity: severity,
		UserID:   input.UserID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}

	s.invalidateUnread(ctx, input.UserID)

	if input.Email {
		s.queueMail(input.Title, input.Message)
	}
	return n, nil
}

// List returns the viewer's notifications with pagination and unread count.
func (s *NotificationService) List(ctx context.Context, viewerID string, query dto.NotificationListQuery) ([]models.Notification, int, int, error) {
	filter := models.NotificationFilter{
		ViewerID:   viewerID,
		UnreadOnly: query.UnreadOnly,
		Page:       query.Page,
		PageSize:   query.Limit,
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.unreadCount(ctx, viewerID)
	if err != nil {
		s.logger.Warn("failed to count unread notifications", zap.Error(err))
		unread = 0
	}
	return items, total, unread, nil
}

// MarkRead flips the read flag. The flag is monotonic: there is no way back
// to unread through this contract.
func (s *NotificationService) MarkRead(ctx context.Context, id, viewerID string) error {
	updated, err := s.repo.MarkRead(ctx, id, viewerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if !updated {
		return appErrors.ErrNotFound
	}
	s.invalidateUnread(ctx, &viewerID)
	return nil
}

// MarkAllRead flips every unread notification visible to the viewer.
func (s *NotificationService) MarkAllRead(ctx context.Context, viewerID string) error {
	if err := s.repo.MarkAllRead(ctx, viewerID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	s.invalidateUnread(ctx, &viewerID)
	return nil
}

func (s *NotificationService) unreadCount(ctx context.Context, viewerID string) (int, error) {
	key := unreadCacheKey(viewerID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.Atoi(raw); err == nil {
				return count, nil
			}
		}
	}
	count, err := s.repo.CountUnread(ctx, viewerID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache unread count", zap.Error(err))
		}
	}
	return count, nil
}

// invalidateUnread drops the cached counter for a scoped notification. A
// broadcast has no single owner; its counters expire via the short TTL.
func (s *NotificationService) invalidateUnread(ctx context.Context, userID *string) {
	if s.cache == nil || userID == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadCacheKey(*userID)).Err(); err != nil {
		s.logger.Warn("failed to invalidate unread count", zap.Error(err))
	}
}

func (s *NotificationService) queueMail(subject, body string) {
	if s.queue == nil {
		s.logger.Debug("mail queue absent, skipping email forward", zap.String("subject", subject))
		return
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "notification_mail",
		Payload: MailPayload{Subject: subject, Body: body},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification mail", zap.Error(err))
	}
}

func unreadCacheKey(viewerID string) string {
	return fmt.Sprintf("notifications:unread:%s", viewerID)
}
