package reconcile

import "context"

type Repository interface {
	Enqueue(ctx context.Context, bookingID *int, gatewayOrderID string, gatewayPaymentID *string, amountCents int64, reason string) (*Item, error)
	ListOpen(ctx context.Context) ([]Item, error)
	Resolve(ctx context.Context, id int) error
	CountOpen(ctx context.Context) (int, error)
}
