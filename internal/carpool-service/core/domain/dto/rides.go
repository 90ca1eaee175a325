package dto

import "time"

type OfferRideRequest struct {
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	DepartureTime string  `json:"departure_time"`
	Price         float64 `json:"price"`
	Seats         int     `json:"seats"`
}

type BookRideRequest struct {
	Seats int `json:"seats"`
}

// LedgerOutcome reports how the remote mirroring of a local write went.
// Mirrored=false with a Warning is the degraded-success state, it is
// distinct from a hard failure of the whole operation.
type LedgerOutcome struct {
	Mirrored bool   `json:"mirrored"`
	TxRef    string `json:"tx_ref,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

func Confirmed(txRef string) LedgerOutcome {
	return LedgerOutcome{Mirrored: true, TxRef: txRef}
}

func Degraded(reason string) LedgerOutcome {
	return LedgerOutcome{Mirrored: false, Warning: reason}
}

type RideResponse struct {
	RideID         string  `json:"ride_id"`
	DriverID       string  `json:"driver_id"`
	StartLocation  string  `json:"start_location"`
	EndLocation    string  `json:"end_location"`
	DepartureTime  string  `json:"departure_time"`
	Price          float64 `json:"price"`
	SeatsOffered   int     `json:"seats_offered"`
	AvailableSeats int     `json:"available_seats"`
	ExternalRef    *int64  `json:"external_ref,omitempty"`
	IsActive       bool    `json:"is_active"`
}

type OfferRideResponse struct {
	Ride   RideResponse  `json:"ride"`
	Ledger LedgerOutcome `json:"ledger"`
}

type BookRideResponse struct {
	BookingID      string        `json:"booking_id"`
	RideID         string        `json:"ride_id"`
	SeatsBooked    int           `json:"seats_booked"`
	Status         string        `json:"status"`
	AvailableSeats int           `json:"available_seats"`
	Ledger         LedgerOutcome `json:"ledger"`
}

type CompleteRideResponse struct {
	RideID            string        `json:"ride_id"`
	Status            string        `json:"status"`
	BookingsCompleted int           `json:"bookings_completed"`
	Ledger            LedgerOutcome `json:"ledger"`
}

// RideDetailsResponse is the local row plus the best-effort remote view.
type RideDetailsResponse struct {
	Ride       RideResponse    `json:"ride"`
	LedgerView *LedgerRideView `json:"ledger_view,omitempty"`
}

type RideFilter struct {
	From string
	To   string
	Date *time.Time
}

// LedgerCreated is the result of a successful createRide on the ledger.
type LedgerCreated struct {
	ExternalRideID int64  `json:"ride_id"`
	TxRef          string `json:"tx_hash"`
}

// LedgerRideView is the ledger's copy of a ride, as returned by getRide.
type LedgerRideView struct {
	Driver         string  `json:"driver"`
	StartLocation  string  `json:"start_location"`
	EndLocation    string  `json:"end_location"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"available_seats"`
	IsAvailable    bool    `json:"is_available"`
}
