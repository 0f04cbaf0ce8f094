package workshop

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, *sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, sqlxDB, mock, closer
}

var slotDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

func TestReserveSeats_Success(t *testing.T) {
	repo, db, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET booked = booked + $4 WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3 AND booked + $4 <= max_spots")).
		WithArgs(1, slotDate, "10:00 AM", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	err = repo.ReserveSeats(context.Background(), tx, 1, slotDate, "10:00 AM", 2)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}

func TestReserveSeats_Exhausted(t *testing.T) {
	repo, db, mock, close := setupMock(t)
	defer close()

	// The conditional update touches no row, and the slot exists: capacity is
	// the only thing that could have failed the predicate.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET booked = booked + $4 WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3 AND booked + $4 <= max_spots")).
		WithArgs(1, slotDate, "10:00 AM", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS( SELECT 1 FROM time_slots WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3 )")).
		WithArgs(1, slotDate, "10:00 AM").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	err = repo.ReserveSeats(context.Background(), tx, 1, slotDate, "10:00 AM", 3)
	require.ErrorIs(t, err, ErrSlotExhausted)
	require.NoError(t, tx.Rollback())
}

func TestReserveSeats_MissingSlot(t *testing.T) {
	repo, db, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_slots SET booked = booked + $4 WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3 AND booked + $4 <= max_spots")).
		WithArgs(9, slotDate, "4:00 PM", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS( SELECT 1 FROM time_slots WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3 )")).
		WithArgs(9, slotDate, "4:00 PM").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	err = repo.ReserveSeats(context.Background(), tx, 9, slotDate, "4:00 PM", 1)
	require.ErrorIs(t, err, ErrSlotNotFound)
	require.NoError(t, tx.Rollback())
}

func TestGetTimeSlot(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "workshop_id", "slot_date", "slot_time", "max_spots", "booked", "created_at"}).
		AddRow(3, 1, slotDate, "10:00 AM", 8, 5, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, workshop_id, slot_date, slot_time, max_spots, booked, created_at FROM time_slots WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3")).
		WithArgs(1, slotDate, "10:00 AM").
		WillReturnRows(rows)

	slot, err := repo.GetTimeSlot(context.Background(), 1, slotDate, "10:00 AM")
	require.NoError(t, err)
	require.Equal(t, 8, slot.MaxSpots)
	require.Equal(t, 5, slot.Booked)
	require.Equal(t, 3, slot.Remaining())
}

func TestGetTimeSlot_NotFound(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, workshop_id, slot_date, slot_time, max_spots, booked, created_at FROM time_slots WHERE workshop_id = $1 AND slot_date = $2 AND slot_time = $3")).
		WithArgs(1, slotDate, "11:00 PM").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetTimeSlot(context.Background(), 1, slotDate, "11:00 PM")
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCreateWorkshopAndSlot(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO workshops (title, description, location, maps_link) VALUES ($1, $2, $3, $4) RETURNING id, title, description, location, maps_link, created_at")).
		WithArgs("Wheel Throwing Basics", "Intro class", "12 Pottery Lane", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "location", "maps_link", "created_at"}).
			AddRow(1, "Wheel Throwing Basics", "Intro class", "12 Pottery Lane", "", now))

	w, err := repo.CreateWorkshop(context.Background(), "Wheel Throwing Basics", "Intro class", "12 Pottery Lane", "")
	require.NoError(t, err)
	require.Equal(t, 1, w.ID)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO time_slots (workshop_id, slot_date, slot_time, max_spots, booked) VALUES ($1, $2, $3, $4, 0) RETURNING id, workshop_id, slot_date, slot_time, max_spots, booked, created_at")).
		WithArgs(1, slotDate, "10:00 AM", 8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workshop_id", "slot_date", "slot_time", "max_spots", "booked", "created_at"}).
			AddRow(3, 1, slotDate, "10:00 AM", 8, 0, now))

	slot, err := repo.CreateTimeSlot(context.Background(), 1, slotDate, "10:00 AM", 8)
	require.NoError(t, err)
	require.Equal(t, 0, slot.Booked)
}
