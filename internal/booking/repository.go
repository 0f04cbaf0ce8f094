package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"basho/internal/workshop"

	"github.com/jmoiron/sqlx"
)

var ErrBookingNotFound = errors.New("booking not found")

const bookingColumns = `id, user_id, workshop_id, booking_date, time_slot, guests, total_amount_cents,
	customer_name, customer_email, customer_phone, payment_status, booking_status,
	gateway_order_id, gateway_payment_id, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID, workshopID int, bookingDate time.Time, timeSlot string, guests int, totalAmountCents int64, customerName, customerEmail, customerPhone, gatewayOrderID string) (*Booking, error) {
	query := `
		INSERT INTO bookings (user_id, workshop_id, booking_date, time_slot, guests, total_amount_cents,
			customer_name, customer_email, customer_phone, payment_status, booking_status, gateway_order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', 'pending', $10)
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query,
		userID, workshopID, bookingDate, timeSlot, guests, totalAmountCents,
		customerName, customerEmail, customerPhone, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// ConfirmPayment runs the whole verification commit in one transaction. The
// booking row is locked first, constrained to the gateway order and the
// calling user, so a valid signature for one user's order cannot confirm
// another user's booking and concurrent duplicates of the same request
// serialize on the row lock instead of racing the ledger.
//
// Outcomes: a booking already in a terminal state is returned unchanged with
// confirmed=false (replay handling belongs to the caller). When reserve
// reports the slot full, the booking is cancelled in the same transaction and
// returned alongside the error, since the payment was already captured.
func (r *repository) ConfirmPayment(ctx context.Context, bookingID int, gatewayOrderID string, userID int, gatewayPaymentID string, reserve ReserveFunc) (*Booking, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var b Booking
	err = tx.QueryRowxContext(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE id = $1 AND gateway_order_id = $2 AND user_id = $3
		 FOR UPDATE`,
		bookingID, gatewayOrderID, userID,
	).StructScan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrBookingNotFound
		}
		return nil, false, err
	}

	if b.BookingStatus != StatusPending {
		return &b, false, nil
	}

	if rerr := reserve(ctx, tx, &b); rerr != nil {
		if !errors.Is(rerr, workshop.ErrSlotExhausted) {
			return nil, false, rerr
		}

		// Money moved but the seats are gone. Record the cancellation
		// durably before reporting the conflict.
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings
			 SET payment_status = 'failed', booking_status = 'cancelled', updated_at = NOW()
			 WHERE id = $1`,
			b.ID,
		)
		if err != nil {
			return nil, false, err
		}
		if err = tx.Commit(); err != nil {
			return nil, false, err
		}

		b.PaymentStatus = PaymentFailed
		b.BookingStatus = StatusCancelled
		return &b, false, rerr
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bookings
		 SET payment_status = 'paid', booking_status = 'confirmed', gateway_payment_id = $2, updated_at = NOW()
		 WHERE id = $1`,
		b.ID, gatewayPaymentID,
	)
	if err != nil {
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, err
	}

	b.PaymentStatus = PaymentPaid
	b.BookingStatus = StatusConfirmed
	b.GatewayPaymentID = &gatewayPaymentID
	return &b, true, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetByWorkshop(ctx context.Context, workshopID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE workshop_id = $1 ORDER BY created_at DESC`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, workshopID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
