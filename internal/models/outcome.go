package models

import (
	"errors"

	"github.com/kodwo/sikawallet/internal/apperrors"
)

// Outcome is the application-level response taxonomy: a stable code plus a
// human readable description. The HTTP layer maps outcomes to status codes
// separately, the codes themselves never change.
type Outcome struct {
	Code string `json:"responseCode"`
	Desc string `json:"responseDesc"`
}

var (
	Success               = Outcome{"001", "Success"}
	Failure               = Outcome{"002", "Failure"}
	UserCreationSuccess   = Outcome{"003", "Your account has been created successfully. Please check your email in order to verify this account and finally login."}
	UserCreationFailed    = Outcome{"004", "Your account could not be created successfully. Please try again."}
	UsernameExists        = Outcome{"005", "Sorry, the username you provided already exists. Please check and try again."}
	EmailExists           = Outcome{"006", "Sorry, the email you provided already exists. Please check and try again."}
	RecordNotFound        = Outcome{"007", "Sorry, we could not find your records. Please check and try again."}
	EmailAlreadyVerified  = Outcome{"008", "This email has already been verified. You can now login."}
	EmailVerifySuccess    = Outcome{"009", "Your account has successfully been verified. You can now login."}
	EmailVerifyFailed     = Outcome{"010", "Your account could not be verified successfully. Please check and try again."}
	InvalidVerifyToken    = Outcome{"011", "Invalid or expired verification token."}
	AccountUnverified     = Outcome{"012", "Sorry, your account has not been verified. Kindly verify it in order to login."}
	WrongLoginCredentials = Outcome{"013", "Sorry! You provided incorrect login details. Please check and try again."}
	LoginSuccess          = Outcome{"014", "You have been logged in successfully."}
	LoginFailed           = Outcome{"015", "Sorry, we could not log you in. Please try again."}
	AccountTopupSuccess   = Outcome{"016", "Your account has been credited successfully."}
	AccountTopupFailed    = Outcome{"017", "Sorry, your account could not credited. Please try again."}
	TransactionComplete   = Outcome{"018", "Transaction completed successfully."}
	TransactionFailed     = Outcome{"019", "Sorry, the transaction could not be completed. Please try again."}
	DuplicateTransaction  = Outcome{"020", "A transaction with this idempotency key has already been processed."}
	RecipientNotFound     = Outcome{"021", "Sorry, we could not find the recipient. Please check and try again."}
	InsufficientBalance   = Outcome{"022", "Sorry, your wallet balance is insufficient for this transaction."}
)

// OutcomeForError maps a well known ledger error to its outcome.
// Unknown errors map to the generic fallback so internals never leak.
func OutcomeForError(err error, fallback Outcome) Outcome {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, apperrors.ErrDuplicateTransaction):
		return DuplicateTransaction
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		return InsufficientBalance
	case errors.Is(err, apperrors.ErrRecipientNotFound):
		return RecipientNotFound
	case errors.Is(err, apperrors.ErrWalletNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrNoTransactionHistory):
		return RecordNotFound
	default:
		return fallback
	}
}
