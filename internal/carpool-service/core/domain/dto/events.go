package dto

// RideEvent is published to the message broker on every ride lifecycle
// change and forwarded to websocket subscribers.
type RideEvent struct {
	Type          string  `json:"type"` // created, booked, confirmed, completed
	RideID        string  `json:"ride_id"`
	BookingID     string  `json:"booking_id,omitempty"`
	StartLocation string  `json:"start_location,omitempty"`
	EndLocation   string  `json:"end_location,omitempty"`
	Seats         int     `json:"seats,omitempty"`
	Price         float64 `json:"price,omitempty"`
	Mirrored      bool    `json:"mirrored"`
	CorrelationID string  `json:"correlation_id"`
	Timestamp     string  `json:"timestamp"`
}

const (
	EventRideCreated      = "created"
	EventRideBooked       = "booked"
	EventBookingConfirmed = "confirmed"
	EventRideCompleted    = "completed"
)
