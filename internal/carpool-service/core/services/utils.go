package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/myerrors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLen = 1
	MaxUsernameLen = 64

	MinEmailLen = 5
	MaxEmailLen = 120

	MinPasswordLen = 5
	MaxPasswordLen = 72

	MaxLocationLen = 128

	HashFactor = 10
)

var ErrFieldIsEmpty = errors.New("field is empty")

func validateOfferRide(req dto.OfferRideRequest) (time.Time, error) {
	if err := validateLocation(req.StartLocation); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid start location: %v", myerrors.ErrValidation, err)
	}
	if err := validateLocation(req.EndLocation); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid end location: %v", myerrors.ErrValidation, err)
	}

	if req.Price <= 0 {
		return time.Time{}, fmt.Errorf("%w: price must be positive", myerrors.ErrValidation)
	}
	if req.Seats <= 0 {
		return time.Time{}, fmt.Errorf("%w: seats must be positive", myerrors.ErrValidation)
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid departure time: %v", myerrors.ErrValidation, err)
	}
	if !departure.After(time.Now()) {
		return time.Time{}, fmt.Errorf("%w: departure must be in the future", myerrors.ErrValidation)
	}

	return departure, nil
}

func validateLocation(s string) error {
	if s == "" {
		return ErrFieldIsEmpty
	}
	if len(s) > MaxLocationLen {
		return fmt.Errorf("maximum %d characters allowed", MaxLocationLen)
	}
	return nil
}

func validateRegistration(username, email, password string) error {
	if err := validateName(username); err != nil {
		return fmt.Errorf("%w: invalid name: %v", myerrors.ErrValidation, err)
	}

	if err := validateEmail(email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrValidation, err)
	}

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("%w: invalid password: %v", myerrors.ErrValidation, err)
	}

	return nil
}

func validateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrValidation, err)
	}

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("%w: invalid password: %v", myerrors.ErrValidation, err)
	}
	return nil
}

func validateName(username string) error {
	if username == "" {
		return ErrFieldIsEmpty
	}

	usernameLen := len(username)
	if usernameLen < MinUsernameLen || usernameLen > MaxUsernameLen {
		return fmt.Errorf("must be in range [%d, %d]", MinUsernameLen, MaxUsernameLen)
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrFieldIsEmpty
	}

	emailLen := len(email)
	if emailLen < MinEmailLen || emailLen > MaxEmailLen {
		return fmt.Errorf("must be in range [%d, %d]", MinEmailLen, MaxEmailLen)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("must contain only one @: %s", email)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrFieldIsEmpty
	}

	passwordLen := len(password)
	if passwordLen < MinPasswordLen || passwordLen > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashFactor)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func generateCorrelationID() string {
	return "req_" + uuid.NewString()[:8]
}
