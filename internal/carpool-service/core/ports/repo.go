package ports

import (
	"context"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/domain/model"
)

type IRidesRepo interface {
	CreateRide(ctx context.Context, m model.Ride) (string, error)
	GetRide(ctx context.Context, rideID string) (model.Ride, error)
	ListActiveRides(ctx context.Context, f dto.RideFilter) ([]model.Ride, error)
	ListByDriver(ctx context.Context, driverID string) ([]model.Ride, error)
	SetExternalRef(ctx context.Context, rideID string, externalRideID int64) error
	// CompleteRide deactivates the ride and moves every non-cancelled
	// booking to completed in one transaction. Returns the number of
	// bookings that were completed.
	CompleteRide(ctx context.Context, rideID string) (int, error)
}

type IBookingsRepo interface {
	// CreateBooking decrements the ride's seat counter and inserts the
	// pending booking as one atomic unit. Fails with ErrRideUnavailable
	// when the ride is inactive or has fewer seats left than requested,
	// and with ErrDuplicateBooking when the passenger already holds a
	// non-cancelled booking on the ride.
	CreateBooking(ctx context.Context, rideID, passengerID string, seats int) (string, error)
	ConfirmBooking(ctx context.Context, bookingID, txRef string) error
	ListByPassenger(ctx context.Context, passengerID string) ([]model.Booking, error)
}

type IUsersRepo interface {
	Create(ctx context.Context, u model.User) (string, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, userID string) (model.User, error)
	SetProfileContentID(ctx context.Context, userID, contentID string) error
	SetOTPSecret(ctx context.Context, userID, secret string) error
	EnableOTP(ctx context.Context, userID string) error
}
