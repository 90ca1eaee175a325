package handle

import (
	"encoding/json"
	"net/http"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/mylogger"
)

type AuthHandler struct {
	authService ports.IAuthService
	log         mylogger.Logger
}

func NewAuthHandler(as ports.IAuthService, log mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: as,
		log:         log,
	}
}

func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.RegisterRequest{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.Register(r.Context(), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LoginRequest{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.Login(r.Context(), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) SetupOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ah.authService.SetupOTP(r.Context(), r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) EnableOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.OTPEnableRequest{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := ah.authService.EnableOTP(r.Context(), r.Header.Get("X-UserId"), req.OTPCode); err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusNoContent, nil)
	}
}

func (ah *AuthHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ah.authService.Profile(r.Context(), r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
