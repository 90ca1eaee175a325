package ports

import (
	"context"

	"decarpool/internal/carpool-service/core/domain/dto"
)

// ILedgerClient is the external ledger capability. LiveClient and
// SimulatedClient both implement it; the choice is made once at startup.
// Write calls fail with myerrors.ErrLedgerUnavailable (unreachable or
// confirmation timeout) or myerrors.ErrRemoteRejected (executed but
// reverted/denied), never with anything else.
type ILedgerClient interface {
	CreateRide(ctx context.Context, ownerAddr, start, end string, price float64, seats int) (dto.LedgerCreated, error)
	BookRide(ctx context.Context, buyerAddr string, externalRideID int64, totalPrice float64) (string, error)
	CompleteRide(ctx context.Context, ownerAddr string, externalRideID int64) (string, error)
	GetRide(ctx context.Context, externalRideID int64) (dto.LedgerRideView, error)
}
