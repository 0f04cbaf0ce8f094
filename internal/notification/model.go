package notification

import "time"

const TypeBookingConfirmed = "booking_confirmed"
const TypePaymentConflict = "payment_conflict"

type Notification struct {
	ID        int       `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	BookingID *int      `db:"booking_id" json:"booking_id,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
