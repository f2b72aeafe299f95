package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type notificationRepository struct {
	*BaseRepository
}

func NewNotificationRepository(base *BaseRepository) repository.NotificationRepository {
	return &notificationRepository{BaseRepository: base}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, category, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	notification.CreatedAt = time.Now()
	notification.Read = false

	_, err := r.GetDB().ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Category,
		notification.Link,
		notification.Read,
		notification.CreatedAt,
	)
	return mapError("notification", err)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, title, message, category, link, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var notifications []*model.Notification
	if err := r.GetDB().SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, mapError("notification", err)
	}
	return notifications, nil
}

// MarkRead is idempotent: re-reading an already read notification is a no-op,
// not an error. The user scope keeps one user's IDs useless to another; a row
// outside it surfaces as NotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.GetDB().ExecContext(ctx, query, id, userID)
	if err != nil {
		return mapError("notification", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return mapError("notification", sql.ErrNoRows)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`
	_, err := r.GetDB().ExecContext(ctx, query, userID)
	return mapError("notification", err)
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	var count int
	if err := r.GetDB().GetContext(ctx, &count, query, userID); err != nil {
		return 0, mapError("notification", err)
	}
	return count, nil
}
