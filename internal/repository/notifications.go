package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/models"
)

// NotificationRepository stores in-app notifications
type NotificationRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

// NewNotificationRepository creates a NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool, log *zap.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, log: log}
}

// Create inserts a notification for n.UserID
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.UserID == uuid.Nil {
		return errors.New("user_id cannot be nil")
	}
	if strings.TrimSpace(n.Type) == "" {
		return errors.New("notification type is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("notification title is required")
	}
	if len(n.Title) > 255 {
		return errors.New("notification title exceeds maximum length of 255 characters")
	}

	var dataJSON any
	if len(n.Data) > 0 {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = string(b)
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	cmd, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, false, $7)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, dataJSON, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return errors.New("unexpected number of rows affected")
	}
	return nil
}

// List returns the user's notifications newest first, the matching total and the unread count
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, f models.NotificationFilter) ([]models.Notification, int, int, error) {
	var unread int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND read = false`, userID,
	).Scan(&unread); err != nil {
		return nil, 0, 0, fmt.Errorf("count unread notifications: %w", err)
	}

	var where whereBuilder
	where.add("user_id = %s", userID)
	if f.UnreadOnly {
		where.addRaw("read = false")
	}

	var total int
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(1) FROM notifications %s`, where.sql()), where.args...,
	).Scan(&total); err != nil {
		return nil, 0, 0, fmt.Errorf("count notifications: %w", err)
	}

	limit := clampLimit(f.Limit)
	page := where.page(limit, max(f.Offset, 0))
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, user_id, type, title, message, data, read, created_at
		FROM notifications %s
		ORDER BY created_at DESC
		%s
	`, where.sql(), page), where.args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	items := make([]models.Notification, 0, limit)
	for rows.Next() {
		var (
			n       models.Notification
			dataRaw []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &dataRaw, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, 0, fmt.Errorf("scan notification: %w", err)
		}
		if len(dataRaw) > 0 && string(dataRaw) != "null" {
			if err := json.Unmarshal(dataRaw, &n.Data); err != nil {
				r.log.Warn("failed to unmarshal notification data", zap.String("notification_id", n.ID.String()), zap.Error(err))
				n.Data = nil
			}
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, total, unread, nil
}

// MarkRead marks one of the user's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check notification %s: %w", id, err)
	}
	if exists {
		return ErrNotOwner
	}
	return ErrNotFound
}

// MarkAllRead marks every unread notification of the user and returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return cmd.RowsAffected(), nil
}
