package workshop

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateWorkshop(ctx context.Context, title, description, location, mapsLink string) (*Workshop, error)
	GetWorkshopByID(ctx context.Context, id int) (*Workshop, error)
	GetAllWorkshops(ctx context.Context) ([]Workshop, error)

	CreateTimeSlot(ctx context.Context, workshopID int, slotDate time.Time, slotTime string, maxSpots int) (*TimeSlot, error)
	GetTimeSlot(ctx context.Context, workshopID int, slotDate time.Time, slotTime string) (*TimeSlot, error)
	GetTimeSlotsByWorkshop(ctx context.Context, workshopID int, onlyFuture bool) ([]TimeSlot, error)

	ReserveSeats(ctx context.Context, tx *sqlx.Tx, workshopID int, slotDate time.Time, slotTime string, guests int) error
}
