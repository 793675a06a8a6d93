package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
)

const mysqlDuplicateEntry = 1062

type BookingRepository struct {
	DB *sql.DB
}

// Book reserves one seat in a single transaction: a conditional decrement
// guarded by available_seats > 0, then the booking insert. If the decrement
// touches no row the trip is full; if the insert hits the (trip, passenger)
// unique key the caller already holds a booking and the decrement is rolled
// back. Two concurrent callers racing for the last seat therefore cannot both
// win, and the counter cannot go negative.
func (r BookingRepository) Book(ctx context.Context, bookingID, tripID, passengerID string) (models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, storeErr("bookings.book.begin", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE trips
		SET available_seats = available_seats - 1, updated_at = NOW()
		WHERE id = ? AND available_seats > 0
	`, tripID)
	if err != nil {
		return models.Booking{}, storeErr("bookings.book.decrement", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Booking{}, storeErr("bookings.book.decrement", err)
	}
	if affected == 0 {
		return models.Booking{}, domain.EligibilityError{Code: domain.CodeNoSeats, Msg: "no seats available"}
	}

	bookedAt := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (id, trip_id, passenger_id, booked_at)
		VALUES (?, ?, ?, ?)
	`, bookingID, tripID, passengerID, bookedAt); err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return models.Booking{}, domain.EligibilityError{Code: domain.CodeAlreadyBooked, Msg: "already booked"}
		}
		return models.Booking{}, storeErr("bookings.book.insert", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, storeErr("bookings.book.commit", err)
	}

	return models.Booking{
		ID:          bookingID,
		TripID:      tripID,
		PassengerID: passengerID,
		BookedAt:    bookedAt,
	}, nil
}

func (r BookingRepository) Exists(ctx context.Context, tripID, passengerID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings WHERE trip_id = ? AND passenger_id = ?
	`, tripID, passengerID).Scan(&n)
	if err != nil {
		return false, storeErr("bookings.exists", err)
	}
	return n > 0, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var b models.Booking
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, trip_id, passenger_id, booked_at FROM bookings WHERE id = ?
	`, id).Scan(&b.ID, &b.TripID, &b.PassengerID, &b.BookedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, storeErr("bookings.get", err)
	}
	return b, nil
}

// ListByPassenger returns the caller's bookings with the trip snapshot needed
// for a listing row, newest first.
func (r BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]models.BookingSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT b.id, b.trip_id, b.passenger_id, b.booked_at,
			t.origin_text, t.destination_text, t.departure_at, t.price
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE b.passenger_id = ?
		ORDER BY b.booked_at DESC
	`, passengerID)
	if err != nil {
		return nil, storeErr("bookings.list", err)
	}
	defer rows.Close()

	out := []models.BookingSummary{}
	for rows.Next() {
		var (
			s     models.BookingSummary
			price sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.TripID, &s.PassengerID, &s.BookedAt,
			&s.Origin, &s.Destination, &s.DepartureAt, &price); err != nil {
			return nil, storeErr("bookings.list", err)
		}
		if price.Valid {
			s.Price = &price.Float64
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("bookings.list", err)
	}
	return out, nil
}
