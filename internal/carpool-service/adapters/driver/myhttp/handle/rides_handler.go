package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/mylogger"
)

type RidesHandler struct {
	ridesService ports.IRidesService
	log          mylogger.Logger
}

func NewRidesHandler(rs ports.IRidesService, log mylogger.Logger) *RidesHandler {
	return &RidesHandler{
		ridesService: rs,
		log:          log,
	}
}

func (rh *RidesHandler) OfferRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.OfferRideRequest{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := rh.ridesService.OfferRide(r.Context(), r.Header.Get("X-UserId"), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RidesHandler) BookRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideID := r.PathValue("ride_id")

		req := dto.BookRideRequest{Seats: 1}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				JsonError(w, http.StatusBadRequest, err)
				return
			}
		}

		res, err := rh.ridesService.BookRide(r.Context(), r.Header.Get("X-UserId"), rideID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RidesHandler) CompleteRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideID := r.PathValue("ride_id")

		res, err := rh.ridesService.CompleteRide(r.Context(), r.Header.Get("X-UserId"), rideID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) GetRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideID := r.PathValue("ride_id")

		res, err := rh.ridesService.GetRide(r.Context(), rideID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) ListRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := dto.RideFilter{
			From: r.URL.Query().Get("from"),
			To:   r.URL.Query().Get("to"),
		}
		if dateStr := r.URL.Query().Get("date"); dateStr != "" {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				JsonError(w, http.StatusBadRequest, err)
				return
			}
			f.Date = &date
		}

		res, err := rh.ridesService.ListRides(r.Context(), f)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
