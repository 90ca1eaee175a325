package db

import (
	"context"
	"errors"
	"fmt"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/domain/model"
	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type RidesRepo struct {
	db *DB
}

func NewRidesRepo(db *DB) ports.IRidesRepo {
	return &RidesRepo{
		db: db,
	}
}

func (rr *RidesRepo) CreateRide(ctx context.Context, m model.Ride) (string, error) {
	q := `INSERT INTO rides (
		driver_id,
		start_location,
		end_location,
		departure_time,
		price,
		seats_offered,
		available_seats,
		is_active
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ride_id`

	rideID := ""
	row := rr.db.pool.QueryRow(ctx, q,
		m.DriverID,
		m.StartLocation,
		m.EndLocation,
		m.DepartureTime,
		m.Price,
		m.SeatsOffered,
		m.AvailableSeats,
		m.IsActive,
	)
	if err := row.Scan(&rideID); err != nil {
		return "", fmt.Errorf("failed to insert ride: %w", err)
	}

	return rideID, nil
}

func (rr *RidesRepo) GetRide(ctx context.Context, rideID string) (model.Ride, error) {
	q := `
	SELECT
		ride_id,
		driver_id,
		start_location,
		end_location,
		departure_time,
		price,
		seats_offered,
		available_seats,
		external_ride_id,
		is_active,
		created_at
	FROM
		rides
	WHERE
		ride_id = $1`

	var m model.Ride
	row := rr.db.pool.QueryRow(ctx, q, rideID)
	err := row.Scan(
		&m.RideID,
		&m.DriverID,
		&m.StartLocation,
		&m.EndLocation,
		&m.DepartureTime,
		&m.Price,
		&m.SeatsOffered,
		&m.AvailableSeats,
		&m.ExternalRef,
		&m.IsActive,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Ride{}, myerrors.ErrRideNotFound
		}
		return model.Ride{}, err
	}

	return m, nil
}

func (rr *RidesRepo) ListActiveRides(ctx context.Context, f dto.RideFilter) ([]model.Ride, error) {
	q := `
	SELECT
		ride_id,
		driver_id,
		start_location,
		end_location,
		departure_time,
		price,
		seats_offered,
		available_seats,
		external_ride_id,
		is_active,
		created_at
	FROM
		rides
	WHERE
		is_active = true`

	args := []any{}
	if f.From != "" {
		args = append(args, "%"+f.From+"%")
		q += fmt.Sprintf(" AND start_location ILIKE $%d", len(args))
	}
	if f.To != "" {
		args = append(args, "%"+f.To+"%")
		q += fmt.Sprintf(" AND end_location ILIKE $%d", len(args))
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		q += fmt.Sprintf(" AND departure_time >= $%d AND departure_time < $%d + interval '1 day'", len(args), len(args))
	}
	q += " ORDER BY departure_time"

	rows, err := rr.db.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

func (rr *RidesRepo) ListByDriver(ctx context.Context, driverID string) ([]model.Ride, error) {
	q := `
	SELECT
		ride_id,
		driver_id,
		start_location,
		end_location,
		departure_time,
		price,
		seats_offered,
		available_seats,
		external_ride_id,
		is_active,
		created_at
	FROM
		rides
	WHERE
		driver_id = $1
	ORDER BY departure_time DESC`

	rows, err := rr.db.pool.Query(ctx, q, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

func scanRides(rows pgx.Rows) ([]model.Ride, error) {
	var rides []model.Ride
	for rows.Next() {
		var m model.Ride
		err := rows.Scan(
			&m.RideID,
			&m.DriverID,
			&m.StartLocation,
			&m.EndLocation,
			&m.DepartureTime,
			&m.Price,
			&m.SeatsOffered,
			&m.AvailableSeats,
			&m.ExternalRef,
			&m.IsActive,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rides = append(rides, m)
	}
	return rides, rows.Err()
}

func (rr *RidesRepo) SetExternalRef(ctx context.Context, rideID string, externalRideID int64) error {
	q := `UPDATE rides SET external_ride_id = $2 WHERE ride_id = $1`

	tag, err := rr.db.pool.Exec(ctx, q, rideID, externalRideID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrRideNotFound
	}
	return nil
}

// CompleteRide deactivates the ride and completes its non-cancelled
// bookings as one transaction. The remote completion call, if any, has
// already happened outside of here.
func (rr *RidesRepo) CompleteRide(ctx context.Context, rideID string) (int, error) {
	tx, err := rr.db.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	q1 := `UPDATE rides SET is_active = false WHERE ride_id = $1`
	tag, err := tx.Exec(ctx, q1, rideID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, myerrors.ErrRideNotFound
	}

	q2 := `UPDATE bookings SET status = 'completed' WHERE ride_id = $1 AND status <> 'cancelled'`
	tag, err = tx.Exec(ctx, q2, rideID)
	if err != nil {
		return 0, fmt.Errorf("failed to complete bookings: %w", err)
	}

	return int(tag.RowsAffected()), tx.Commit(ctx)
}
