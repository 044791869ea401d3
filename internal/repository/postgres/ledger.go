package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
)

type LedgerRepo struct {
	DB DBTX
}

const appendEntry = `-- name: AppendEntry
INSERT INTO wallet_transactions (
	id, user_id, transaction_id, trans_type,
	amount, net_amount, charge,
	gross_bal_bef, gross_bal_aft, net_bal_bef, net_bal_aft, status
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, user_id, transaction_id, trans_type, amount, net_amount, charge,
	gross_bal_bef, gross_bal_aft, net_bal_bef, net_bal_aft, status, created_at
`

func (r *LedgerRepo) AppendEntry(ctx context.Context, e models.WalletTransaction) (models.WalletTransaction, error) {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, appendEntry,
		id, e.UserID, e.TransactionID, e.TransType,
		e.Amount, e.NetAmount, e.Charge,
		e.GrossBalBef, e.GrossBalAft, e.NetBalBef, e.NetBalAft, e.Status,
	)
	entry, err := pgx.CollectOneRow(rows, rowToWalletTransaction)
	if err != nil {
		return entry, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

const transactionIDExists = `-- name: TransactionIDExists
SELECT EXISTS (SELECT 1 FROM wallet_transactions WHERE transaction_id = $1)
    OR EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)
`

// Probe both ledger entries and transfer records, a candidate id must be
// unused across the two tables
func (r *LedgerRepo) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	rows, _ := r.DB.Query(ctx, transactionIDExists, transactionID)
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

const listEntries = `-- name: ListEntries
SELECT id, user_id, transaction_id, trans_type, amount, net_amount, charge,
	gross_bal_bef, gross_bal_aft, net_bal_bef, net_bal_aft, status, created_at,
	count(*) OVER () AS total_count
FROM wallet_transactions
WHERE user_id = $1 AND status
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

func (r *LedgerRepo) ListEntries(ctx context.Context, userID uuid.UUID, limit int, offset int) (repository.HistoryPage, error) {
	var page repository.HistoryPage

	rows, _ := r.DB.Query(ctx, listEntries, userID, limit, offset)
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.WalletTransaction, error) {
		var e models.WalletTransaction
		err := row.Scan(
			&e.ID, &e.UserID, &e.TransactionID, &e.TransType,
			&e.Amount, &e.NetAmount, &e.Charge,
			&e.GrossBalBef, &e.GrossBalAft, &e.NetBalBef, &e.NetBalAft,
			&e.Status, &e.CreatedAt,
			&page.TotalCount,
		)
		return e, err
	})
	if err != nil {
		return page, fmt.Errorf("db error: %w", err)
	}

	page.Entries = entries
	return page, nil
}

func rowToWalletTransaction(row pgx.CollectableRow) (models.WalletTransaction, error) {
	var e models.WalletTransaction
	err := row.Scan(
		&e.ID, &e.UserID, &e.TransactionID, &e.TransType,
		&e.Amount, &e.NetAmount, &e.Charge,
		&e.GrossBalBef, &e.GrossBalAft, &e.NetBalBef, &e.NetBalAft,
		&e.Status, &e.CreatedAt,
	)
	return e, err
}
