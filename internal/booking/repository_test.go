package booking

import (
	"context"
	"testing"
	"time"

	"basho/internal/workshop"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

var bookingDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

func bookingRows(status, paymentStatus string, paymentID interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "workshop_id", "booking_date", "time_slot", "guests", "total_amount_cents",
		"customer_name", "customer_email", "customer_phone", "payment_status", "booking_status",
		"gateway_order_id", "gateway_payment_id", "created_at", "updated_at",
	}).AddRow(10, 1, 2, bookingDate, "10:00 AM", 2, int64(250000),
		"Asha", "asha@example.com", "+919876543210", paymentStatus, status,
		"order_abc", paymentID, now, now)
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(1, 2, bookingDate, "10:00 AM", 2, int64(250000),
			"Asha", "asha@example.com", "+919876543210", "order_abc").
		WillReturnRows(bookingRows("pending", "pending", nil))

	b, err := repo.Create(context.Background(), 1, 2, bookingDate, "10:00 AM", 2, 250000,
		"Asha", "asha@example.com", "+919876543210", "order_abc")
	require.NoError(t, err)
	require.Equal(t, 10, b.ID)
	require.Equal(t, StatusPending, b.BookingStatus)
	require.Equal(t, PaymentPending, b.PaymentStatus)
	require.Nil(t, b.GatewayPaymentID)
}

func TestConfirmPayment(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1 AND gateway_order_id = \$2 AND user_id = \$3 FOR UPDATE`).
		WithArgs(10, "order_abc", 1).
		WillReturnRows(bookingRows("pending", "pending", nil))
	mock.ExpectExec(`UPDATE bookings SET payment_status = 'paid', booking_status = 'confirmed'`).
		WithArgs(10, "pay_xyz").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reserved := false
	reserve := func(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
		reserved = true
		require.NotNil(t, tx)
		require.Equal(t, 2, b.WorkshopID)
		require.Equal(t, 2, b.Guests)
		return nil
	}

	b, confirmed, err := repo.ConfirmPayment(context.Background(), 10, "order_abc", 1, "pay_xyz", reserve)
	require.NoError(t, err)
	require.True(t, confirmed)
	require.True(t, reserved)
	require.Equal(t, StatusConfirmed, b.BookingStatus)
	require.Equal(t, PaymentPaid, b.PaymentStatus)
	require.NotNil(t, b.GatewayPaymentID)
	require.Equal(t, "pay_xyz", *b.GatewayPaymentID)
}

func TestConfirmPayment_WrongUser(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1 AND gateway_order_id = \$2 AND user_id = \$3 FOR UPDATE`).
		WithArgs(10, "order_abc", 99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, _, err := repo.ConfirmPayment(context.Background(), 10, "order_abc", 99, "pay_xyz",
		func(ctx context.Context, tx *sqlx.Tx, b *Booking) error { return nil })
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmPayment_AlreadyTerminal(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// A booking past pending comes back untouched; the row lock is released
	// without running the seat commit.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1 AND gateway_order_id = \$2 AND user_id = \$3 FOR UPDATE`).
		WithArgs(10, "order_abc", 1).
		WillReturnRows(bookingRows("confirmed", "paid", "pay_xyz"))
	mock.ExpectRollback()

	b, confirmed, err := repo.ConfirmPayment(context.Background(), 10, "order_abc", 1, "pay_xyz",
		func(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
			t.Fatal("seat commit must not run for a terminal booking")
			return nil
		})
	require.NoError(t, err)
	require.False(t, confirmed)
	require.Equal(t, StatusConfirmed, b.BookingStatus)
}

func TestConfirmPayment_SlotExhausted_CancelsBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1 AND gateway_order_id = \$2 AND user_id = \$3 FOR UPDATE`).
		WithArgs(10, "order_abc", 1).
		WillReturnRows(bookingRows("pending", "pending", nil))
	mock.ExpectExec(`UPDATE bookings SET payment_status = 'failed', booking_status = 'cancelled'`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, confirmed, err := repo.ConfirmPayment(context.Background(), 10, "order_abc", 1, "pay_xyz",
		func(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
			return workshop.ErrSlotExhausted
		})
	require.ErrorIs(t, err, workshop.ErrSlotExhausted)
	require.False(t, confirmed)
	require.Equal(t, StatusCancelled, b.BookingStatus)
	require.Equal(t, PaymentFailed, b.PaymentStatus)
}

func TestGetUserBookings(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(1).
		WillReturnRows(bookingRows("confirmed", "paid", "pay_xyz"))

	list, err := repo.GetUserBookings(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, StatusConfirmed, list[0].BookingStatus)
	require.NotNil(t, list[0].GatewayPaymentID)
	require.Equal(t, "pay_xyz", *list[0].GatewayPaymentID)
}
