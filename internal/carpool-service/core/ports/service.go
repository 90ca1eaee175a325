package ports

import (
	"context"

	"decarpool/internal/carpool-service/core/domain/dto"
)

// IRidesService is the ride transaction coordinator: local write first,
// best-effort remote mirroring second.
type IRidesService interface {
	OfferRide(ctx context.Context, driverID string, req dto.OfferRideRequest) (dto.OfferRideResponse, error)
	BookRide(ctx context.Context, passengerID, rideID string, req dto.BookRideRequest) (dto.BookRideResponse, error)
	CompleteRide(ctx context.Context, driverID, rideID string) (dto.CompleteRideResponse, error)
	GetRide(ctx context.Context, rideID string) (dto.RideDetailsResponse, error)
	ListRides(ctx context.Context, f dto.RideFilter) ([]dto.RideResponse, error)
}

type IAuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	SetupOTP(ctx context.Context, userID string) (dto.OTPSetupResponse, error)
	EnableOTP(ctx context.Context, userID, otpCode string) error
	Profile(ctx context.Context, userID string) (dto.ProfileResponse, error)
}
