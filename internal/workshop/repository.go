package workshop

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrWorkshopNotFound = errors.New("workshop not found")
	ErrSlotNotFound     = errors.New("time slot not found")
	ErrSlotExhausted    = errors.New("time slot is full")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWorkshop(ctx context.Context, title, description, location, mapsLink string) (*Workshop, error) {
	query := `
		INSERT INTO workshops (title, description, location, maps_link)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, location, maps_link, created_at
	`

	var w Workshop
	err := r.db.GetContext(ctx, &w, query, title, description, location, mapsLink)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *repository) GetWorkshopByID(ctx context.Context, id int) (*Workshop, error) {
	query := `
		SELECT id, title, description, location, maps_link, created_at
		FROM workshops
		WHERE id = $1
	`

	var w Workshop
	err := r.db.GetContext(ctx, &w, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkshopNotFound
		}
		return nil, err
	}

	return &w, nil
}

func (r *repository) GetAllWorkshops(ctx context.Context) ([]Workshop, error) {
	query := `
		SELECT id, title, description, location, maps_link, created_at
		FROM workshops
		ORDER BY created_at DESC
	`

	var workshops []Workshop
	err := r.db.SelectContext(ctx, &workshops, query)
	if err != nil {
		return nil, err
	}

	return workshops, nil
}

func (r *repository) CreateTimeSlot(ctx context.Context, workshopID int, slotDate time.Time, slotTime string, maxSpots int) (*TimeSlot, error) {
	query := `
		INSERT INTO time_slots (workshop_id, slot_date, slot_time, max_spots, booked)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id, workshop_id, slot_date, slot_time, max_spots, booked, created_at
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, workshopID, slotDate, slotTime, maxSpots)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetTimeSlot(ctx context.Context, workshopID int, slotDate time.Time, slotTime string) (*TimeSlot, error) {
	query := `
		SELECT id, workshop_id, slot_date, slot_time, max_spots, booked, created_at
		FROM time_slots
		WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, workshopID, slotDate, slotTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetTimeSlotsByWorkshop(ctx context.Context, workshopID int, onlyFuture bool) ([]TimeSlot, error) {
	query := `
		SELECT id, workshop_id, slot_date, slot_time, max_spots, booked, created_at
		FROM time_slots
		WHERE workshop_id = $1
	`

	if onlyFuture {
		query += " AND slot_date >= CURRENT_DATE"
	}

	query += " ORDER BY slot_date ASC, slot_time ASC"

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query, workshopID)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// ReserveSeats is the single mutation path for slot occupancy. The predicate
// and the increment run as one statement, so two confirmations racing for the
// last seats cannot both pass: the row is updated only while
// booked + guests <= max_spots holds. It runs on the caller's transaction so
// the seat commit and the booking confirmation land or fail together.
func (r *repository) ReserveSeats(ctx context.Context, tx *sqlx.Tx, workshopID int, slotDate time.Time, slotTime string, guests int) error {
	query := `
		UPDATE time_slots
		SET booked = booked + $4
		WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3
		  AND booked + $4 <= max_spots
	`

	result, err := tx.ExecContext(ctx, query, workshopID, slotDate, slotTime, guests)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		exists, err := slotExists(ctx, tx, workshopID, slotDate, slotTime)
		if err != nil {
			return err
		}
		if !exists {
			return ErrSlotNotFound
		}
		return ErrSlotExhausted
	}

	return nil
}

func slotExists(ctx context.Context, tx *sqlx.Tx, workshopID int, slotDate time.Time, slotTime string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM time_slots
			WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3
		)
	`

	var exists bool
	err := tx.GetContext(ctx, &exists, query, workshopID, slotDate, slotTime)
	if err != nil {
		return false, err
	}

	return exists, nil
}
