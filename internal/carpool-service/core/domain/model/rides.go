package model

import "time"

// Ride is the relational source of truth for a ride offer. ExternalRef
// correlates it with the external-ledger copy when one was mirrored.
type Ride struct {
	RideID         string
	DriverID       string
	StartLocation  string
	EndLocation    string
	DepartureTime  time.Time
	Price          float64
	SeatsOffered   int
	AvailableSeats int
	ExternalRef    *int64
	IsActive       bool
	CreatedAt      time.Time
}

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	BookingID     string
	RideID        string
	PassengerID   string
	SeatsBooked   int
	Status        string
	ExternalTxRef *string
	CreatedAt     time.Time
}
