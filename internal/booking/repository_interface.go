package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// ReserveFunc commits seats for a booking inside the verification transaction.
type ReserveFunc func(ctx context.Context, tx *sqlx.Tx, b *Booking) error

type Repository interface {
	Create(ctx context.Context, userID, workshopID int, bookingDate time.Time, timeSlot string, guests int, totalAmountCents int64, customerName, customerEmail, customerPhone, gatewayOrderID string) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	ConfirmPayment(ctx context.Context, bookingID int, gatewayOrderID string, userID int, gatewayPaymentID string, reserve ReserveFunc) (*Booking, bool, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetByWorkshop(ctx context.Context, workshopID int) ([]Booking, error)
}
