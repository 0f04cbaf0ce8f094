package reconcile

import "time"

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"

	// ReasonPaidSlotExhausted marks the one conflict money has already moved
	// on: the payment was captured but the slot filled up before the seats
	// could be committed. Requires a manual refund.
	ReasonPaidSlotExhausted = "paid_slot_exhausted"

	// ReasonOrphanedOrder marks a gateway order that was created but whose
	// booking row failed to persist.
	ReasonOrphanedOrder = "orphaned_gateway_order"
)

type Item struct {
	ID               int        `db:"id" json:"id"`
	BookingID        *int       `db:"booking_id" json:"booking_id,omitempty"`
	GatewayOrderID   string     `db:"gateway_order_id" json:"gateway_order_id"`
	GatewayPaymentID *string    `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	AmountCents      int64      `db:"amount_cents" json:"amount_cents"`
	Reason           string     `db:"reason" json:"reason"`
	Status           string     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt       *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}
