package booking

import "time"

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a log of demand. Capacity is owned by the time_slots counter; a
// booking only occupies seats once the verifier has committed them there.
type Booking struct {
	ID               int       `db:"id" json:"id"`
	UserID           int       `db:"user_id" json:"user_id"`
	WorkshopID       int       `db:"workshop_id" json:"workshop_id"`
	BookingDate      time.Time `db:"booking_date" json:"booking_date"`
	TimeSlot         string    `db:"time_slot" json:"time_slot"`
	Guests           int       `db:"guests" json:"guests"`
	TotalAmountCents int64     `db:"total_amount_cents" json:"total_amount_cents"`
	CustomerName     string    `db:"customer_name" json:"customer_name"`
	CustomerEmail    string    `db:"customer_email" json:"customer_email"`
	CustomerPhone    string    `db:"customer_phone" json:"customer_phone"`
	PaymentStatus    string    `db:"payment_status" json:"payment_status"`
	BookingStatus    string    `db:"booking_status" json:"booking_status"`
	GatewayOrderID   string    `db:"gateway_order_id" json:"gateway_order_id"`
	GatewayPaymentID *string   `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type CreateOrderRequest struct {
	WorkshopID       int    `json:"workshop_id" binding:"required"`
	BookingDate      string `json:"booking_date" binding:"required"`
	TimeSlot         string `json:"time_slot" binding:"required"`
	Guests           int    `json:"guests" binding:"required,min=1"`
	TotalAmountCents int64  `json:"total_amount" binding:"required,gt=0"`
	CustomerName     string `json:"customer_name" binding:"required"`
	CustomerEmail    string `json:"customer_email" binding:"required,email"`
	CustomerPhone    string `json:"customer_phone" binding:"required"`
}

type CreateOrderResponse struct {
	OrderID       string `json:"order_id"`
	BookingID     int    `json:"booking_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency" example:"INR"`
	WorkshopTitle string `json:"workshop_title"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	GatewaySignature string `json:"gateway_signature" binding:"required"`
	BookingID        int    `json:"booking_id" binding:"required"`
}

type VerifyPaymentResponse struct {
	Success bool     `json:"success"`
	Booking *Booking `json:"booking"`
}
