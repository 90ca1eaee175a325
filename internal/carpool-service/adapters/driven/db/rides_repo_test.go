package db

import (
	"context"
	"testing"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/domain/model"
	"decarpool/internal/carpool-service/core/myerrors"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rideColumns = []string{
	"ride_id", "driver_id", "start_location", "end_location", "departure_time",
	"price", "seats_offered", "available_seats", "external_ride_id", "is_active", "created_at",
}

func TestCreateRide(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	departure := time.Now().Add(24 * time.Hour)
	m := model.Ride{
		DriverID:       "driver-1",
		StartLocation:  "Downtown",
		EndLocation:    "Airport",
		DepartureTime:  departure,
		Price:          12.5,
		SeatsOffered:   3,
		AvailableSeats: 3,
		IsActive:       true,
	}

	mock.ExpectQuery("INSERT INTO rides").
		WithArgs("driver-1", "Downtown", "Airport", departure, 12.5, 3, 3, true).
		WillReturnRows(pgxmock.NewRows([]string{"ride_id"}).AddRow("ride-1"))

	id, err := repo.CreateRide(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "ride-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRide(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	ref := int64(42)
	now := time.Now()
	mock.ExpectQuery("SELECT(.|\\s)*FROM\\s+rides").
		WithArgs("ride-1").
		WillReturnRows(pgxmock.NewRows(rideColumns).
			AddRow("ride-1", "driver-1", "Downtown", "Airport", now.Add(24*time.Hour), 12.5, 3, 2, &ref, true, now))

	m, err := repo.GetRide(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, "driver-1", m.DriverID)
	assert.Equal(t, 2, m.AvailableSeats)
	require.NotNil(t, m.ExternalRef)
	assert.Equal(t, int64(42), *m.ExternalRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRide_NotFound(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	mock.ExpectQuery("SELECT(.|\\s)*FROM\\s+rides").
		WithArgs("ride-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetRide(context.Background(), "ride-404")
	assert.ErrorIs(t, err, myerrors.ErrRideNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveRides_Filters(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery("SELECT(.|\\s)*is_active = true(.|\\s)*start_location ILIKE(.|\\s)*end_location ILIKE(.|\\s)*departure_time >=").
		WithArgs("%Downtown%", "%Airport%", date).
		WillReturnRows(pgxmock.NewRows(rideColumns).
			AddRow("ride-1", "driver-1", "Downtown", "Airport", date.Add(9*time.Hour), 12.5, 3, 3, nil, true, now))

	rides, err := repo.ListActiveRides(context.Background(), dto.RideFilter{
		From: "Downtown",
		To:   "Airport",
		Date: &date,
	})
	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Nil(t, rides[0].ExternalRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetExternalRef(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	mock.ExpectExec("UPDATE rides SET external_ride_id").
		WithArgs("ride-1", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetExternalRef(context.Background(), "ride-1", 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetExternalRef_UnknownRide(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	mock.ExpectExec("UPDATE rides SET external_ride_id").
		WithArgs("ride-404", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetExternalRef(context.Background(), "ride-404", 42)
	assert.ErrorIs(t, err, myerrors.ErrRideNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRide(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rides SET is_active = false").
		WithArgs("ride-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE bookings SET status = 'completed'").
		WithArgs("ride-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectCommit()

	completed, err := repo.CompleteRide(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, 3, completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRide_UnknownRide(t *testing.T) {
	mock, database := newMockRepo(t)
	repo := NewRidesRepo(database)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rides SET is_active = false").
		WithArgs("ride-404").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := repo.CompleteRide(context.Background(), "ride-404")
	assert.ErrorIs(t, err, myerrors.ErrRideNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
