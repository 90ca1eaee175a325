package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"decarpool/internal/carpool-service/core/domain/model"
	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UsersRepo struct {
	db *DB
}

func NewUsersRepo(db *DB) ports.IUsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (ur *UsersRepo) Create(ctx context.Context, u model.User) (string, error) {
	q := `INSERT INTO users (
		username,
		email,
		password_hash,
		ledger_address
	) VALUES ($1, $2, $3, $4) RETURNING user_id`

	id := ""
	row := ur.db.pool.QueryRow(ctx, q, u.Username, u.Email, u.PasswordHash, u.LedgerAddress)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			if strings.Contains(pgErr.ConstraintName, "email") {
				return "", myerrors.ErrEmailRegistered
			}
			return "", myerrors.ErrUsernameTaken
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

const userColumns = `
		user_id,
		username,
		email,
		password_hash,
		ledger_address,
		profile_content_id,
		otp_secret,
		otp_enabled,
		created_at`

func (ur *UsersRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return ur.getOne(ctx, q, email)
}

func (ur *UsersRepo) GetByID(ctx context.Context, userID string) (model.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE user_id = $1`
	return ur.getOne(ctx, q, userID)
}

func (ur *UsersRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var u model.User
	err := ur.db.pool.QueryRow(ctx, q, arg).Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.LedgerAddress,
		&u.ProfileContentID,
		&u.OTPSecret,
		&u.OTPEnabled,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, myerrors.ErrUnknownEmail
		}
		return model.User{}, err
	}

	return u, nil
}

func (ur *UsersRepo) SetProfileContentID(ctx context.Context, userID, contentID string) error {
	q := `UPDATE users SET profile_content_id = $2 WHERE user_id = $1`
	_, err := ur.db.pool.Exec(ctx, q, userID, contentID)
	return err
}

func (ur *UsersRepo) SetOTPSecret(ctx context.Context, userID, secret string) error {
	q := `UPDATE users SET otp_secret = $2, otp_enabled = false WHERE user_id = $1`
	_, err := ur.db.pool.Exec(ctx, q, userID, secret)
	return err
}

func (ur *UsersRepo) EnableOTP(ctx context.Context, userID string) error {
	q := `UPDATE users SET otp_enabled = true WHERE user_id = $1 AND otp_secret IS NOT NULL`

	tag, err := ur.db.pool.Exec(ctx, q, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no otp secret provisioned for user %s", userID)
	}
	return nil
}
