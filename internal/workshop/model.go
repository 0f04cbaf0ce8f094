package workshop

import "time"

type Workshop struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	MapsLink    string    `db:"maps_link" json:"maps_link,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type TimeSlot struct {
	ID         int       `db:"id" json:"id"`
	WorkshopID int       `db:"workshop_id" json:"workshop_id"`
	SlotDate   time.Time `db:"slot_date" json:"slot_date"`
	SlotTime   string    `db:"slot_time" json:"slot_time"`
	MaxSpots   int       `db:"max_spots" json:"max_spots"`
	Booked     int       `db:"booked" json:"booked"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Remaining is an advisory snapshot. The slot can fill up between reading it
// and confirming a payment; only the conditional increment in the repository
// enforces capacity.
func (ts *TimeSlot) Remaining() int {
	return ts.MaxSpots - ts.Booked
}

type TimeSlotWithAvailability struct {
	TimeSlot
	Remaining int  `json:"remaining"`
	IsFull    bool `json:"is_full"`
}

type WorkshopWithSlots struct {
	Workshop
	Slots []TimeSlotWithAvailability `json:"slots"`
}

type CreateWorkshopRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	MapsLink    string `json:"maps_link"`
}

type CreateTimeSlotRequest struct {
	SlotDate string `json:"slot_date" validate:"required"`
	SlotTime string `json:"slot_time" validate:"required"`
	MaxSpots int    `json:"max_spots" validate:"required,min=1"`
}
