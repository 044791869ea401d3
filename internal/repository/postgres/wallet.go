package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/models"
)

type WalletRepo struct {
	DB DBTX
}

const createWallet = `-- name: CreateWallet
INSERT INTO wallets (id, user_id, gross_bal, net_bal)
VALUES ($1, $2, 0, 0)
RETURNING id, user_id, gross_bal, net_bal, currency, active_status, del_status, created_at, updated_at
`

func (r *WalletRepo) CreateWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	rows, _ := r.DB.Query(ctx, createWallet, uuid.New(), userID)
	wallet, err := pgx.CollectOneRow(rows, rowToWallet)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return wallet, apperrors.ErrWalletAlreadyExists
		}

		return wallet, fmt.Errorf("db error: %w", err)
	}

	return wallet, nil
}

const getWalletByUserID = `-- name: GetWalletByUserID
SELECT id, user_id, gross_bal, net_bal, currency, active_status, del_status, created_at, updated_at
FROM wallets
WHERE user_id = $1 AND active_status AND NOT del_status
`

func (r *WalletRepo) GetWalletByUserID(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	rows, _ := r.DB.Query(ctx, getWalletByUserID, userID)
	wallet, err := pgx.CollectOneRow(rows, rowToWallet)

	switch {
	case err == nil:
		return wallet, nil
	case errors.Is(err, pgx.ErrNoRows):
		return wallet, apperrors.ErrWalletNotFound
	default:
		return wallet, fmt.Errorf("db error: %w", err)
	}
}

const updateBalances = `-- name: UpdateBalances
UPDATE wallets
SET gross_bal = $2, net_bal = $3, updated_at = now()
WHERE id = $1
RETURNING id, user_id, gross_bal, net_bal, currency, active_status, del_status, created_at, updated_at
`

func (r *WalletRepo) UpdateBalances(ctx context.Context, walletID uuid.UUID, grossBal decimal.Decimal, netBal decimal.Decimal) (models.Wallet, error) {
	rows, _ := r.DB.Query(ctx, updateBalances, walletID, grossBal, netBal)
	wallet, err := pgx.CollectOneRow(rows, rowToWallet)

	switch {
	case err == nil:
		return wallet, nil
	case errors.Is(err, pgx.ErrNoRows):
		return wallet, apperrors.ErrWalletNotFound
	default:
		return wallet, fmt.Errorf("db error: %w", err)
	}
}

func rowToWallet(row pgx.CollectableRow) (models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.GrossBal, &w.NetBal, &w.Currency, &w.ActiveStatus, &w.DelStatus, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}
