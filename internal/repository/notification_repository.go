package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/e-surat-api/internal/models"
)

const notificationColumns = `id, title, message, severity, user_id, read, created_at, updated_at`

// NotificationRepository persists in-app notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	query := `INSERT INTO notifications (` + notificationColumns + `)
VALUES (:id, :title, :message, :severity, :user_id, :read, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns a viewer's notifications newest-first: broadcasts plus rows
// scoped to the viewer.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	where := []string{"(user_id IS NULL OR user_id = $1)"}
	args := []interface{}{filter.ViewerID}
	if filter.UnreadOnly {
		where = append(where, "read = FALSE")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE %s
ORDER BY created_at DESC LIMIT %d OFFSET %d`, notificationColumns, whereClause, size, offset)
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notifications WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return notifications, total, nil
}

// CountUnread counts a viewer's unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, viewerID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE (user_id IS NULL OR user_id = $1) AND read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, viewerID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips the read flag on one notification the viewer can see. The
// flag is monotonic; rows already read are left untouched.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, viewerID string) (bool, error) {
	query := `UPDATE notifications SET read = TRUE, updated_at = $1
WHERE id = $2 AND (user_id IS NULL OR user_id = $3)`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, viewerID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, nil
	}
	return affected > 0, nil
}

// MarkAllRead flips every unread notification visible to the viewer.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, viewerID string) error {
	query := `UPDATE notifications SET read = TRUE, updated_at = $1
WHERE (user_id IS NULL OR user_id = $2) AND read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), viewerID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
