package model

import "time"

type User struct {
	UserID           string
	Username         string
	Email            string
	PasswordHash     string
	LedgerAddress    *string
	ProfileContentID *string
	OTPSecret        *string
	OTPEnabled       bool
	CreatedAt        time.Time
}

// HasLedgerAddress reports whether remote mirroring is enabled for this
// user. A missing address is not an error, it just keeps rides local-only.
func (u User) HasLedgerAddress() bool {
	return u.LedgerAddress != nil && *u.LedgerAddress != ""
}
