package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, name, username, email, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, name, username, email, password_hash, email_verified, active_status, del_status
`

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, uuid.New(), arg.Name, arg.Username, arg.Email, arg.HashedPassword)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return user, apperrors.ErrEmailAlreadyExists
			default:
				return user, apperrors.ErrUserAlreadyExists
			}
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, name, username, email, password_hash, email_verified, active_status, del_status
FROM users
WHERE id = $1 AND active_status AND NOT del_status
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, created_at, name, username, email, password_hash, email_verified, active_status, del_status
FROM users
WHERE email = $1 AND active_status AND NOT del_status
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT id, created_at, name, username, email, password_hash, email_verified, active_status, del_status
FROM users
WHERE username = $1 AND active_status AND NOT del_status
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	return collectUser(rows)
}

const markEmailVerified = `-- name: MarkEmailVerified
UPDATE users
SET email_verified = now()
WHERE id = $1 AND email_verified IS NULL
RETURNING id, created_at, name, username, email, password_hash, email_verified, active_status, del_status
`

func (r *UserRepo) MarkEmailVerified(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, markEmailVerified, userID)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either no such user or already verified, tell the two apart
		existing, getErr := r.GetUserByID(ctx, userID)
		if getErr != nil {
			return user, getErr
		}
		if existing.IsVerified() {
			return existing, apperrors.ErrEmailAlreadyVerified
		}
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Username, &u.Email, &u.HashedPassword, &u.EmailVerified, &u.ActiveStatus, &u.DelStatus)
	return u, err
}
