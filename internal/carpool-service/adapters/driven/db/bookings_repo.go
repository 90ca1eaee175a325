package db

import (
	"context"
	"errors"
	"fmt"

	"decarpool/internal/carpool-service/core/domain/model"
	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

type BookingsRepo struct {
	db *DB
}

func NewBookingsRepo(db *DB) ports.IBookingsRepo {
	return &BookingsRepo{
		db: db,
	}
}

// CreateBooking runs the seat decrement and the booking insert as one
// transaction. The decrement is conditional on enough seats being left,
// so two concurrent bookings for the last seat cannot both pass.
func (br *BookingsRepo) CreateBooking(ctx context.Context, rideID, passengerID string, seats int) (string, error) {
	tx, err := br.db.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	q1 := `
	UPDATE rides
	SET
		available_seats = available_seats - $2
	WHERE
		ride_id = $1
		AND is_active = true
		AND available_seats >= $2`

	tag, err := tx.Exec(ctx, q1, rideID, seats)
	if err != nil {
		return "", fmt.Errorf("failed to reserve seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", myerrors.ErrRideUnavailable
	}

	q2 := `INSERT INTO bookings (
		ride_id,
		passenger_id,
		seats_booked,
		status
	) VALUES ($1, $2, $3, 'pending') RETURNING booking_id`

	bookingID := ""
	row := tx.QueryRow(ctx, q2, rideID, passengerID, seats)
	if err := row.Scan(&bookingID); err != nil {
		// partial unique index on (ride_id, passenger_id) for
		// non-cancelled bookings
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", myerrors.ErrDuplicateBooking
		}
		return "", fmt.Errorf("failed to insert booking: %w", err)
	}

	return bookingID, tx.Commit(ctx)
}

func (br *BookingsRepo) ConfirmBooking(ctx context.Context, bookingID, txRef string) error {
	q := `UPDATE bookings SET status = 'confirmed', external_tx_ref = $2 WHERE booking_id = $1 AND status = 'pending'`

	tag, err := br.db.pool.Exec(ctx, q, bookingID, txRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not pending", bookingID)
	}
	return nil
}

func (br *BookingsRepo) ListByPassenger(ctx context.Context, passengerID string) ([]model.Booking, error) {
	q := `
	SELECT
		booking_id,
		ride_id,
		passenger_id,
		seats_booked,
		status,
		external_tx_ref,
		created_at
	FROM
		bookings
	WHERE
		passenger_id = $1
	ORDER BY created_at DESC`

	rows, err := br.db.pool.Query(ctx, q, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(
			&b.BookingID,
			&b.RideID,
			&b.PassengerID,
			&b.SeatsBooked,
			&b.Status,
			&b.ExternalTxRef,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
