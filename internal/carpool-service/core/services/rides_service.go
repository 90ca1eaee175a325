package services

import (
	"context"
	"fmt"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/domain/model"
	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/mylogger"
)

const dbTimeout = 15 * time.Second

// RidesService coordinates the two ledgers. The relational store is
// written first and stays authoritative for seat accounting; the external
// ledger is mirrored best-effort afterwards. A failed remote call never
// rolls back a committed local write, it only degrades the response.
type RidesService struct {
	ctx           context.Context
	mylog         mylogger.Logger
	ridesRepo     ports.IRidesRepo
	bookingsRepo  ports.IBookingsRepo
	usersRepo     ports.IUsersRepo
	ledger        ports.ILedgerClient
	broker        ports.IEventsBroker
	ledgerTimeout time.Duration
}

func NewRidesService(ctx context.Context,
	mylog mylogger.Logger,
	ridesRepo ports.IRidesRepo,
	bookingsRepo ports.IBookingsRepo,
	usersRepo ports.IUsersRepo,
	ledger ports.ILedgerClient,
	broker ports.IEventsBroker,
	ledgerTimeout time.Duration,
) ports.IRidesService {
	if ledgerTimeout <= 0 {
		ledgerTimeout = dbTimeout
	}
	return &RidesService{
		ctx:           ctx,
		mylog:         mylog,
		ridesRepo:     ridesRepo,
		bookingsRepo:  bookingsRepo,
		usersRepo:     usersRepo,
		ledger:        ledger,
		broker:        broker,
		ledgerTimeout: ledgerTimeout,
	}
}

func (rs *RidesService) OfferRide(ctx context.Context, driverID string, req dto.OfferRideRequest) (dto.OfferRideResponse, error) {
	log := rs.mylog.Action("OfferRide")

	departure, err := validateOfferRide(req)
	if err != nil {
		return dto.OfferRideResponse{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	driver, err := rs.usersRepo.GetByID(dbCtx, driverID)
	if err != nil {
		log.Error("cannot load driver", err, "driver_id", driverID)
		return dto.OfferRideResponse{}, err
	}

	m := model.Ride{
		DriverID:       driverID,
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		DepartureTime:  departure,
		Price:          req.Price,
		SeatsOffered:   req.Seats,
		AvailableSeats: req.Seats,
		IsActive:       true,
	}

	rideID, err := rs.ridesRepo.CreateRide(dbCtx, m)
	if err != nil {
		log.Error("cannot insert ride", err)
		return dto.OfferRideResponse{}, err
	}
	m.RideID = rideID
	log.Info("ride created locally", "ride_id", rideID, "driver_id", driverID, "seats", req.Seats)

	// remote mirroring is best-effort and happens after the local commit,
	// outside any store transaction
	var outcome dto.LedgerOutcome
	if !driver.HasLedgerAddress() {
		outcome = dto.Degraded("driver has no ledger address, ride stays local-only")
	} else {
		ledgerCtx, cancelLedger := context.WithTimeout(ctx, rs.ledgerTimeout)
		defer cancelLedger()

		created, err := rs.ledger.CreateRide(ledgerCtx, *driver.LedgerAddress, req.StartLocation, req.EndLocation, req.Price, req.Seats)
		if err != nil {
			log.Warn("ledger createRide failed, ride stays local-only", "ride_id", rideID, "reason", err.Error())
			outcome = dto.Degraded(err.Error())
		} else {
			refCtx, cancelRef := context.WithTimeout(ctx, dbTimeout)
			defer cancelRef()
			if err := rs.ridesRepo.SetExternalRef(refCtx, rideID, created.ExternalRideID); err != nil {
				log.Error("cannot store external ref", err, "ride_id", rideID)
				outcome = dto.Degraded("ledger ride created but reference could not be stored: " + err.Error())
			} else {
				m.ExternalRef = &created.ExternalRideID
				outcome = dto.Confirmed(created.TxRef)
			}
		}
	}

	rs.publish(dto.RideEvent{
		Type:          dto.EventRideCreated,
		RideID:        rideID,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Seats:         req.Seats,
		Price:         req.Price,
		Mirrored:      outcome.Mirrored,
	})

	return dto.OfferRideResponse{
		Ride:   rideToResponse(m),
		Ledger: outcome,
	}, nil
}

func (rs *RidesService) BookRide(ctx context.Context, passengerID, rideID string, req dto.BookRideRequest) (dto.BookRideResponse, error) {
	log := rs.mylog.Action("BookRide")

	if req.Seats < 1 {
		return dto.BookRideResponse{}, fmt.Errorf("%w: seats must be at least 1", myerrors.ErrValidation)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(dbCtx, rideID)
	if err != nil {
		return dto.BookRideResponse{}, err
	}

	passenger, err := rs.usersRepo.GetByID(dbCtx, passengerID)
	if err != nil {
		log.Error("cannot load passenger", err, "passenger_id", passengerID)
		return dto.BookRideResponse{}, err
	}

	// seat decrement + booking insert, one atomic unit
	bookingID, err := rs.bookingsRepo.CreateBooking(dbCtx, rideID, passengerID, req.Seats)
	if err != nil {
		return dto.BookRideResponse{}, err
	}
	log.Info("booking created locally", "booking_id", bookingID, "ride_id", rideID, "seats", req.Seats)

	status := model.BookingPending
	var outcome dto.LedgerOutcome
	switch {
	case ride.ExternalRef == nil:
		outcome = dto.Degraded("ride has no ledger copy, booking stays local-only")
	case !passenger.HasLedgerAddress():
		outcome = dto.Degraded("passenger has no ledger address, booking stays local-only")
	default:
		ledgerCtx, cancelLedger := context.WithTimeout(ctx, rs.ledgerTimeout)
		defer cancelLedger()

		txRef, err := rs.ledger.BookRide(ledgerCtx, *passenger.LedgerAddress, *ride.ExternalRef, ride.Price*float64(req.Seats))
		if err != nil {
			// the local reservation is the binding commitment, seats are
			// not restored on a failed settlement
			log.Warn("ledger bookRide failed, booking stays pending", "booking_id", bookingID, "reason", err.Error())
			outcome = dto.Degraded(err.Error())
		} else {
			confirmCtx, cancelConfirm := context.WithTimeout(ctx, dbTimeout)
			defer cancelConfirm()
			if err := rs.bookingsRepo.ConfirmBooking(confirmCtx, bookingID, txRef); err != nil {
				log.Error("cannot confirm booking", err, "booking_id", bookingID)
				outcome = dto.Degraded("ledger booking succeeded but confirmation could not be stored: " + err.Error())
			} else {
				status = model.BookingConfirmed
				outcome = dto.Confirmed(txRef)
			}
		}
	}

	evType := dto.EventRideBooked
	if status == model.BookingConfirmed {
		evType = dto.EventBookingConfirmed
	}
	rs.publish(dto.RideEvent{
		Type:      evType,
		RideID:    rideID,
		BookingID: bookingID,
		Seats:     req.Seats,
		Mirrored:  outcome.Mirrored,
	})

	return dto.BookRideResponse{
		BookingID:      bookingID,
		RideID:         rideID,
		SeatsBooked:    req.Seats,
		Status:         status,
		AvailableSeats: ride.AvailableSeats - req.Seats,
		Ledger:         outcome,
	}, nil
}

func (rs *RidesService) CompleteRide(ctx context.Context, driverID, rideID string) (dto.CompleteRideResponse, error) {
	log := rs.mylog.Action("CompleteRide")

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(dbCtx, rideID)
	if err != nil {
		return dto.CompleteRideResponse{}, err
	}

	if ride.DriverID != driverID {
		return dto.CompleteRideResponse{}, myerrors.ErrForbidden
	}

	// the remote completion is attempted first, independently of the
	// local transaction; whatever it says, the local completion proceeds
	var outcome dto.LedgerOutcome
	if ride.ExternalRef == nil {
		outcome = dto.Degraded("ride has no ledger copy")
	} else {
		driver, err := rs.usersRepo.GetByID(dbCtx, driverID)
		if err != nil {
			log.Error("cannot load driver", err, "driver_id", driverID)
			return dto.CompleteRideResponse{}, err
		}
		if !driver.HasLedgerAddress() {
			outcome = dto.Degraded("driver has no ledger address")
		} else {
			ledgerCtx, cancel := context.WithTimeout(ctx, rs.ledgerTimeout)
			defer cancel()

			txRef, err := rs.ledger.CompleteRide(ledgerCtx, *driver.LedgerAddress, *ride.ExternalRef)
			if err != nil {
				log.Warn("ledger completeRide failed, completing locally anyway", "ride_id", rideID, "reason", err.Error())
				outcome = dto.Degraded(err.Error())
			} else {
				outcome = dto.Confirmed(txRef)
			}
		}
	}

	completeCtx, cancelComplete := context.WithTimeout(ctx, dbTimeout)
	defer cancelComplete()

	completed, err := rs.ridesRepo.CompleteRide(completeCtx, rideID)
	if err != nil {
		log.Error("cannot complete ride locally", err, "ride_id", rideID)
		return dto.CompleteRideResponse{}, err
	}
	log.Info("ride completed", "ride_id", rideID, "bookings_completed", completed)

	rs.publish(dto.RideEvent{
		Type:     dto.EventRideCompleted,
		RideID:   rideID,
		Mirrored: outcome.Mirrored,
	})

	return dto.CompleteRideResponse{
		RideID:            rideID,
		Status:            "completed",
		BookingsCompleted: completed,
		Ledger:            outcome,
	}, nil
}

func (rs *RidesService) GetRide(ctx context.Context, rideID string) (dto.RideDetailsResponse, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(dbCtx, rideID)
	if err != nil {
		return dto.RideDetailsResponse{}, err
	}

	res := dto.RideDetailsResponse{Ride: rideToResponse(ride)}

	// the remote view is best-effort, a dead ledger must not break reads
	if ride.ExternalRef != nil {
		ledgerCtx, cancel := context.WithTimeout(ctx, rs.ledgerTimeout)
		defer cancel()

		view, err := rs.ledger.GetRide(ledgerCtx, *ride.ExternalRef)
		if err != nil {
			rs.mylog.Action("GetRide").Warn("cannot fetch ledger view", "ride_id", rideID, "reason", err.Error())
		} else {
			res.LedgerView = &view
		}
	}

	return res, nil
}

func (rs *RidesService) ListRides(ctx context.Context, f dto.RideFilter) ([]dto.RideResponse, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rides, err := rs.ridesRepo.ListActiveRides(dbCtx, f)
	if err != nil {
		return nil, err
	}

	res := make([]dto.RideResponse, 0, len(rides))
	for _, m := range rides {
		res = append(res, rideToResponse(m))
	}
	return res, nil
}

// publish is best-effort: the broker is glue, a dead broker never fails
// a booking
func (rs *RidesService) publish(ev dto.RideEvent) {
	if rs.broker == nil {
		return
	}

	ev.CorrelationID = generateCorrelationID()
	ev.Timestamp = time.Now().Format(time.RFC3339)

	ctx, cancel := context.WithTimeout(rs.ctx, 5*time.Second)
	defer cancel()

	if err := rs.broker.PublishRideEvent(ctx, ev); err != nil {
		rs.mylog.Action("publish").Warn("cannot publish ride event", "type", ev.Type, "ride_id", ev.RideID, "reason", err.Error())
	}
}

func rideToResponse(m model.Ride) dto.RideResponse {
	return dto.RideResponse{
		RideID:         m.RideID,
		DriverID:       m.DriverID,
		StartLocation:  m.StartLocation,
		EndLocation:    m.EndLocation,
		DepartureTime:  m.DepartureTime.Format(time.RFC3339),
		Price:          m.Price,
		SeatsOffered:   m.SeatsOffered,
		AvailableSeats: m.AvailableSeats,
		ExternalRef:    m.ExternalRef,
		IsActive:       m.IsActive,
	}
}
