package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"decarpool/internal/carpool-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response with the specified status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// serviceError maps the core taxonomy to HTTP status codes in one place.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, myerrors.ErrValidation):
		JsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, myerrors.ErrRideNotFound):
		JsonError(w, http.StatusNotFound, err)
	case errors.Is(err, myerrors.ErrRideUnavailable),
		errors.Is(err, myerrors.ErrDuplicateBooking),
		errors.Is(err, myerrors.ErrUsernameTaken),
		errors.Is(err, myerrors.ErrEmailRegistered):
		JsonError(w, http.StatusConflict, err)
	case errors.Is(err, myerrors.ErrForbidden):
		JsonError(w, http.StatusForbidden, err)
	case errors.Is(err, myerrors.ErrUnknownEmail),
		errors.Is(err, myerrors.ErrPasswordUnknown),
		errors.Is(err, myerrors.ErrOTPRequired),
		errors.Is(err, myerrors.ErrOTPInvalid):
		JsonError(w, http.StatusUnauthorized, err)
	default:
		JsonError(w, http.StatusInternalServerError, err)
	}
}
