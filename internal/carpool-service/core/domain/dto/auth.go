package dto

import "encoding/json"

type RegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	LedgerAddress string `json:"ledger_address,omitempty"`
}

type RegisterResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	Warning     string `json:"warning,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type OTPSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

type OTPEnableRequest struct {
	OTPCode string `json:"otp_code"`
}

type ProfileResponse struct {
	UserID        string            `json:"user_id"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	LedgerAddress string            `json:"ledger_address,omitempty"`
	OTPEnabled    bool              `json:"otp_enabled"`
	Snapshot      json.RawMessage   `json:"snapshot,omitempty"`
	OfferedRides  []RideResponse    `json:"offered_rides"`
	Bookings      []BookingResponse `json:"bookings"`
}

type BookingResponse struct {
	BookingID     string `json:"booking_id"`
	RideID        string `json:"ride_id"`
	SeatsBooked   int    `json:"seats_booked"`
	Status        string `json:"status"`
	ExternalTxRef string `json:"external_tx_ref,omitempty"`
}
