package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kodwo/sikawallet/internal/models"
)

type CreateUserParams struct {
	Name           string
	Username       string
	Email          string
	HashedPassword string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists must return apperrors.ErrUserAlreadyExists
	// If user with email exists must return apperrors.ErrEmailAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id, email or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Set email_verified to now
	// If already verified must return apperrors.ErrEmailAlreadyVerified
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token and mark it used in one step
	// If the token is already used must return apperrors.ErrRefreshTokenIsUsed
	// and must not overwrite the existing used_at
	GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error)
}

// Wallet repository interface
// Balances are never written here directly by callers: the wallet service
// is the single mutation path and always runs inside Storage.InTx
type WalletRepo interface {
	// Create zero balance wallet for user
	// If the user already has a wallet must return apperrors.ErrWalletAlreadyExists
	CreateWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error)

	// Get active, not soft-deleted wallet by owning user
	// If wallet not found must return apperrors.ErrWalletNotFound
	GetWalletByUserID(ctx context.Context, userID uuid.UUID) (models.Wallet, error)

	// Persist new balances for wallet
	UpdateBalances(ctx context.Context, walletID uuid.UUID, grossBal decimal.Decimal, netBal decimal.Decimal) (models.Wallet, error)
}

type HistoryPage struct {
	Entries    []models.WalletTransaction
	TotalCount int64
}

// Ledger repository interface (wallet_transactions table)
type LedgerRepo interface {
	// Append ledger entry. Entries are immutable after write
	AppendEntry(ctx context.Context, entry models.WalletTransaction) (models.WalletTransaction, error)

	// Report whether any ledger entry holds the transaction id
	TransactionIDExists(ctx context.Context, transactionID string) (bool, error)

	// Posted entries for user ordered by created_at descending,
	// limit/offset paginated, together with the total posted count
	ListEntries(ctx context.Context, userID uuid.UUID, limit int, offset int) (HistoryPage, error)
}

// Transaction repository interface (peer-to-peer transfer records)
type TransactionRepo interface {
	// Create transfer record in pending state
	// If the idempotency key exists must return apperrors.ErrDuplicateTransaction
	Create(ctx context.Context, transaction models.Transaction) (models.Transaction, error)

	// Get transfer record by caller supplied idempotency key
	// If not found must return apperrors.ErrTransactionNotFound
	GetByIdempotencyKey(ctx context.Context, key string) (models.Transaction, error)

	// Flip status from pending to complete
	MarkComplete(ctx context.Context, id uuid.UUID) (models.Transaction, error)
}

// Notification repository interface
type NotificationRepo interface {
	Create(ctx context.Context, notification models.Notification) (models.Notification, error)
}

// Storage aggregates every repository plus the transactional boundary.
// InTx runs fn against a storage bound to one database transaction:
// commit if fn returns nil, rollback otherwise.
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Wallet() WalletRepo
	Ledger() LedgerRepo
	Transaction() TransactionRepo
	Notification() NotificationRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}
