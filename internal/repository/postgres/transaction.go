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
)

type TransactionRepo struct {
	DB DBTX
}

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (
	id, transaction_id, sender_id, recipient_id,
	amount, charge, currency, idempotency_key, trans_type, status
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, transaction_id, sender_id, recipient_id, amount, charge, currency,
	idempotency_key, trans_type, status, created_at, updated_at
`

// Create transfer record. The unique constraint on idempotency_key is what
// resolves two racing submissions with the same key: exactly one insert
// succeeds, the loser gets ErrDuplicateTransaction
func (r *TransactionRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createTransaction,
		id, t.TransactionID, t.SenderID, t.RecipientID,
		t.Amount, t.Charge, t.Currency, t.IdempotencyKey, t.TransType, t.Status,
	)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return transaction, apperrors.ErrDuplicateTransaction
		}

		return transaction, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

const getByIdempotencyKey = `-- name: GetByIdempotencyKey
SELECT id, transaction_id, sender_id, recipient_id, amount, charge, currency,
	idempotency_key, trans_type, status, created_at, updated_at
FROM transactions
WHERE idempotency_key = $1
`

func (r *TransactionRepo) GetByIdempotencyKey(ctx context.Context, key string) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, getByIdempotencyKey, key)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return transaction, nil
	case errors.Is(err, pgx.ErrNoRows):
		return transaction, apperrors.ErrTransactionNotFound
	default:
		return transaction, fmt.Errorf("db error: %w", err)
	}
}

const markComplete = `-- name: MarkComplete
UPDATE transactions
SET status = true, updated_at = now()
WHERE id = $1
RETURNING id, transaction_id, sender_id, recipient_id, amount, charge, currency,
	idempotency_key, trans_type, status, created_at, updated_at
`

func (r *TransactionRepo) MarkComplete(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, markComplete, id)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return transaction, nil
	case errors.Is(err, pgx.ErrNoRows):
		return transaction, apperrors.ErrTransactionNotFound
	default:
		return transaction, fmt.Errorf("db error: %w", err)
	}
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.TransactionID, &t.SenderID, &t.RecipientID,
		&t.Amount, &t.Charge, &t.Currency,
		&t.IdempotencyKey, &t.TransType, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
