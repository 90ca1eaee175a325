package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/domain/model"
	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"

	"github.com/golang-jwt/jwt"
	"github.com/pquerna/otp/totp"
)

const tokenTTL = time.Hour * 24 * 7

type AuthService struct {
	ctx          context.Context
	cfg          *config.Config
	mylog        mylogger.Logger
	usersRepo    ports.IUsersRepo
	ridesRepo    ports.IRidesRepo
	bookingsRepo ports.IBookingsRepo
	contentStore ports.IContentStore
}

func NewAuthService(
	ctx context.Context,
	cfg *config.Config,
	mylog mylogger.Logger,
	usersRepo ports.IUsersRepo,
	ridesRepo ports.IRidesRepo,
	bookingsRepo ports.IBookingsRepo,
	contentStore ports.IContentStore,
) ports.IAuthService {
	return &AuthService{
		ctx:          ctx,
		cfg:          cfg,
		mylog:        mylog,
		usersRepo:    usersRepo,
		ridesRepo:    ridesRepo,
		bookingsRepo: bookingsRepo,
		contentStore: contentStore,
	}
}

// ======================= Register =======================
func (as *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error) {
	mylog := as.mylog.Action("Register")

	if err := validateRegistration(req.Username, req.Email, req.Password); err != nil {
		return dto.RegisterResponse{}, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("failed to hash password: %v", err)
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	if req.LedgerAddress != "" {
		user.LedgerAddress = &req.LedgerAddress
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := as.usersRepo.Create(dbCtx, user)
	if err != nil {
		if errors.Is(err, myerrors.ErrUsernameTaken) || errors.Is(err, myerrors.ErrEmailRegistered) {
			mylog.Warn("failed to register", "reason", err.Error())
			return dto.RegisterResponse{}, err
		}
		mylog.Error("failed to save user in db", err)
		return dto.RegisterResponse{}, fmt.Errorf("cannot save user in db: %w", err)
	}

	// the profile snapshot is not on any critical path, a dead content
	// store only degrades the response
	warning := ""
	snapshot, _ := json.Marshal(map[string]string{
		"username":       req.Username,
		"email":          req.Email,
		"ledger_address": req.LedgerAddress,
		"created_at":     time.Now().UTC().Format(time.RFC3339),
	})
	contentID, err := as.contentStore.Put(ctx, snapshot)
	if err != nil {
		mylog.Warn("failed to store profile snapshot", "reason", err.Error())
		warning = "profile snapshot could not be stored"
	} else if err := as.usersRepo.SetProfileContentID(dbCtx, id, contentID); err != nil {
		mylog.Error("failed to save profile content id", err)
		warning = "profile snapshot reference could not be stored"
	}

	token, err := as.issueToken(id, req.Email)
	if err != nil {
		mylog.Error("error to create jwt token", err)
		return dto.RegisterResponse{}, err
	}

	mylog.Info("user registered successfully", "user_id", id)
	return dto.RegisterResponse{
		UserID:      id,
		AccessToken: token,
		Warning:     warning,
	}, nil
}

func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	mylog := as.mylog.Action("Login")

	if err := validateLogin(req.Email, req.Password); err != nil {
		return dto.LoginResponse{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := as.usersRepo.GetByEmail(dbCtx, req.Email)
	if err != nil {
		if errors.Is(err, myerrors.ErrUnknownEmail) {
			mylog.Warn("failed to login, unknown email")
			return dto.LoginResponse{}, err
		}
		mylog.Error("failed to load user from db", err)
		return dto.LoginResponse{}, err
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		mylog.Debug("failed to login, wrong password")
		return dto.LoginResponse{}, myerrors.ErrPasswordUnknown
	}

	// step-up: an account with OTP enabled also needs a valid code
	if user.OTPEnabled {
		if req.OTPCode == "" {
			return dto.LoginResponse{}, myerrors.ErrOTPRequired
		}
		if user.OTPSecret == nil || !totp.Validate(req.OTPCode, *user.OTPSecret) {
			mylog.Warn("failed to login, invalid otp code", "user_id", user.UserID)
			return dto.LoginResponse{}, myerrors.ErrOTPInvalid
		}
	}

	token, err := as.issueToken(user.UserID, req.Email)
	if err != nil {
		mylog.Error("error to create jwt token", err)
		return dto.LoginResponse{}, err
	}

	mylog.Info("user login successfully", "user_id", user.UserID)
	return dto.LoginResponse{AccessToken: token}, nil
}

func (as *AuthService) SetupOTP(ctx context.Context, userID string) (dto.OTPSetupResponse, error) {
	mylog := as.mylog.Action("SetupOTP")

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := as.usersRepo.GetByID(dbCtx, userID)
	if err != nil {
		return dto.OTPSetupResponse{}, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      as.cfg.App.OTPIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		mylog.Error("cannot generate otp secret", err)
		return dto.OTPSetupResponse{}, err
	}

	if err := as.usersRepo.SetOTPSecret(dbCtx, userID, key.Secret()); err != nil {
		mylog.Error("cannot store otp secret", err)
		return dto.OTPSetupResponse{}, err
	}

	mylog.Info("otp secret provisioned", "user_id", userID)
	return dto.OTPSetupResponse{
		Secret: key.Secret(),
		URI:    key.URL(),
	}, nil
}

func (as *AuthService) EnableOTP(ctx context.Context, userID, otpCode string) error {
	mylog := as.mylog.Action("EnableOTP")

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := as.usersRepo.GetByID(dbCtx, userID)
	if err != nil {
		return err
	}

	if user.OTPSecret == nil || !totp.Validate(otpCode, *user.OTPSecret) {
		return myerrors.ErrOTPInvalid
	}

	if err := as.usersRepo.EnableOTP(dbCtx, userID); err != nil {
		mylog.Error("cannot enable otp", err)
		return err
	}

	mylog.Info("otp enabled", "user_id", userID)
	return nil
}

func (as *AuthService) Profile(ctx context.Context, userID string) (dto.ProfileResponse, error) {
	mylog := as.mylog.Action("Profile")

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := as.usersRepo.GetByID(dbCtx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	res := dto.ProfileResponse{
		UserID:     user.UserID,
		Username:   user.Username,
		Email:      user.Email,
		OTPEnabled: user.OTPEnabled,
	}
	if user.LedgerAddress != nil {
		res.LedgerAddress = *user.LedgerAddress
	}

	if user.ProfileContentID != nil {
		data, err := as.contentStore.Get(ctx, *user.ProfileContentID)
		if err != nil {
			mylog.Warn("cannot fetch profile snapshot", "content_id", *user.ProfileContentID, "reason", err.Error())
		} else {
			res.Snapshot = data
		}
	}

	rides, err := as.ridesRepo.ListByDriver(dbCtx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	res.OfferedRides = make([]dto.RideResponse, 0, len(rides))
	for _, m := range rides {
		res.OfferedRides = append(res.OfferedRides, rideToResponse(m))
	}

	bookings, err := as.bookingsRepo.ListByPassenger(dbCtx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	res.Bookings = make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		br := dto.BookingResponse{
			BookingID:   b.BookingID,
			RideID:      b.RideID,
			SeatsBooked: b.SeatsBooked,
			Status:      b.Status,
		}
		if b.ExternalTxRef != nil {
			br.ExternalTxRef = *b.ExternalTxRef
		}
		res.Bookings = append(res.Bookings, br)
	}

	return res, nil
}

func (as *AuthService) issueToken(userID, email string) (string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return accessToken.SignedString([]byte(as.cfg.App.JwtSecret))
}
