package reconcile

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrItemNotFound = errors.New("reconciliation item not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Enqueue(ctx context.Context, bookingID *int, gatewayOrderID string, gatewayPaymentID *string, amountCents int64, reason string) (*Item, error) {
	query := `
		INSERT INTO payment_reconciliations (booking_id, gateway_order_id, gateway_payment_id, amount_cents, reason, status)
		VALUES ($1, $2, $3, $4, $5, 'open')
		RETURNING id, booking_id, gateway_order_id, gateway_payment_id, amount_cents, reason, status, created_at, resolved_at
	`

	var item Item
	err := r.db.GetContext(ctx, &item, query, bookingID, gatewayOrderID, gatewayPaymentID, amountCents, reason)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) ListOpen(ctx context.Context) ([]Item, error) {
	query := `
		SELECT id, booking_id, gateway_order_id, gateway_payment_id, amount_cents, reason, status, created_at, resolved_at
		FROM payment_reconciliations
		WHERE status = 'open'
		ORDER BY created_at ASC
	`

	var items []Item
	err := r.db.SelectContext(ctx, &items, query)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) Resolve(ctx context.Context, id int) error {
	query := `
		UPDATE payment_reconciliations
		SET status = 'resolved', resolved_at = NOW()
		WHERE id = $1 AND status = 'open'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) CountOpen(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM payment_reconciliations WHERE status = 'open'`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}
