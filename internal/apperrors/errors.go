package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")

	ErrEmailAlreadyVerified = errors.New("email is already verified")
	ErrEmailNotVerified     = errors.New("email is not verified")
	ErrInvalidToken         = errors.New("token is invalid or expired")
	ErrWrongCredentials     = errors.New("wrong login credentials")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrWalletAlreadyExists = errors.New("user wallet already exists")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrRecipientNotFound   = errors.New("recipient wallet not found")

	ErrDuplicateTransaction   = errors.New("transaction with idempotency key already exists")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrNoTransactionHistory   = errors.New("no transaction history records")
	ErrTransactionIDExhausted = errors.New("could not generate unique transaction id")
)
