package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"studytime/internal/models"
)

const notificationColumns = `id, user_id, type, message, read, created_at`

type notificationRepo struct {
	db *sql.DB
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n       models.Notification
		created int64
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &created); err != nil {
		return nil, err
	}
	n.CreatedAt = fromMillis(created)
	return &n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	created, err := scanNotification(r.db.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, type, message, read, created_at) VALUES (?, ?, ?, ?, ?)
		RETURNING `+notificationColumns,
		n.UserID, n.Type, n.Message, n.Read, toMillis(n.CreatedAt)))
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return created, nil
}

func (r *notificationRepo) Get(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("notification %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query notification: %w", err)
	}
	return n, nil
}

// ListByUser returns newest first. A non-positive limit means no limit.
func (r *notificationRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	result := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? RETURNING `+notificationColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("notification %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}
