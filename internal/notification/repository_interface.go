package notification

import "context"

type Repository interface {
	Create(ctx context.Context, ntype, title, body string, bookingID *int) (*Notification, error)
	List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id int) error
}
