package notification

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = errors.New("notification not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ntype, title, body string, bookingID *int) (*Notification, error) {
	query := `
		INSERT INTO notifications (type, title, body, booking_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, type, title, body, booking_id, read, created_at
	`

	var n Notification
	err := r.db.GetContext(ctx, &n, query, ntype, title, body, bookingID)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	query := `
		SELECT id, type, title, body, booking_id, read, created_at
		FROM notifications
	`

	if unreadOnly {
		query += " WHERE read = false"
	}

	query += " ORDER BY created_at DESC LIMIT $1"

	var notifications []Notification
	err := r.db.SelectContext(ctx, &notifications, query, limit)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *repository) MarkRead(ctx context.Context, id int) error {
	query := `UPDATE notifications SET read = true WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
