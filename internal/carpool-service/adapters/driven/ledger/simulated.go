package ledger

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/mylogger"
)

const hexDigits = "0123456789abcdef"

// SimulatedClient stands in for the ledger when no live gateway is
// configured or the startup probe failed. It never fails for well-formed
// input: there is no network to fail against. It also makes no
// idempotence promise, two identical createRide calls get two different
// ids. GetRide returns a canned placeholder, not the state an earlier
// simulated create produced.
type SimulatedClient struct {
	mylog mylogger.Logger
	mu    sync.Mutex
	rnd   *rand.Rand
}

func NewSimulatedClient(mylog mylogger.Logger) ports.ILedgerClient {
	return &SimulatedClient{
		mylog: mylog,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *SimulatedClient) CreateRide(ctx context.Context, ownerAddr, start, end string, price float64, seats int) (dto.LedgerCreated, error) {
	c.mu.Lock()
	created := dto.LedgerCreated{
		ExternalRideID: int64(c.rnd.Intn(1000)) + 1,
		TxRef:          c.txRefLocked(),
	}
	c.mu.Unlock()

	c.mylog.Action("ledger_create_ride").Info("simulated ride creation",
		"external_ride_id", created.ExternalRideID)
	return created, nil
}

func (c *SimulatedClient) BookRide(ctx context.Context, buyerAddr string, externalRideID int64, totalPrice float64) (string, error) {
	c.mu.Lock()
	ref := c.txRefLocked()
	c.mu.Unlock()

	c.mylog.Action("ledger_book_ride").Info("simulated ride booking",
		"external_ride_id", externalRideID)
	return ref, nil
}

func (c *SimulatedClient) CompleteRide(ctx context.Context, ownerAddr string, externalRideID int64) (string, error) {
	c.mu.Lock()
	ref := c.txRefLocked()
	c.mu.Unlock()

	c.mylog.Action("ledger_complete_ride").Info("simulated ride completion",
		"external_ride_id", externalRideID)
	return ref, nil
}

func (c *SimulatedClient) GetRide(ctx context.Context, externalRideID int64) (dto.LedgerRideView, error) {
	zeroAddr := "0x"
	for i := 0; i < 40; i++ {
		zeroAddr += "0"
	}
	return dto.LedgerRideView{
		Driver:         zeroAddr,
		StartLocation:  "Mock Start Location",
		EndLocation:    "Mock End Location",
		Price:          0.1,
		AvailableSeats: 3,
		IsAvailable:    true,
	}, nil
}

// txRefLocked generates a pseudo-random 32-byte hex reference. Caller
// holds the mutex.
func (c *SimulatedClient) txRefLocked() string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = hexDigits[c.rnd.Intn(len(hexDigits))]
	}
	return "0x" + string(b)
}
