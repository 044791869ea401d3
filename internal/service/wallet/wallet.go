package wallet

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
)

const (
	// Transaction ids are numeric strings of this many digits
	transactionIDLength = 12

	// Collisions are vanishingly rare with 12 digits but the generate loop
	// still needs a cap so a pathological store can't spin it forever
	maxIDAttempts = 100
)

type AdjustParams struct {
	UserID        uuid.UUID
	Amount        decimal.Decimal
	TransactionID string
	TransType     string
}

// Adjustment is the result of one balance mutation: the wallet after the
// write and the ledger entry that recorded it
type Adjustment struct {
	Wallet models.Wallet
	Entry  models.WalletTransaction
}

type WalletService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *WalletService {
	return &WalletService{storage: storage}
}

// AdjustWallet is the single choke point through which every balance
// mutation flows. It must run inside one atomic unit: callers composing
// several adjustments (transfers) pass their tx-scoped storage in.
//
// Sign rule: Transfer-Out subtracts the amount from both balances, every
// other type adds it. Balances are rounded to 2 decimal places after each
// operation. If the user has no wallet yet one is created with zero
// balances as part of the same unit.
func (s *WalletService) AdjustWallet(ctx context.Context, store repository.Storage, p AdjustParams) (Adjustment, error) {
	var adj Adjustment

	w, err := store.Wallet().GetWalletByUserID(ctx, p.UserID)
	switch {
	case errors.Is(err, apperrors.ErrWalletNotFound):
		w, err = store.Wallet().CreateWallet(ctx, p.UserID)
		if err != nil {
			return adj, fmt.Errorf("creating wallet: %w", err)
		}
	case err != nil:
		return adj, fmt.Errorf("resolving wallet: %w", err)
	}

	amount := p.Amount.Round(models.MoneyScale)

	var grossAft, netAft decimal.Decimal
	switch p.TransType {
	case models.TransTypeTransferOut:
		grossAft = w.GrossBal.Sub(amount).Round(models.MoneyScale)
		netAft = w.NetBal.Sub(amount).Round(models.MoneyScale)
	default:
		grossAft = w.GrossBal.Add(amount).Round(models.MoneyScale)
		netAft = w.NetBal.Add(amount).Round(models.MoneyScale)
	}

	// A debit may never take the net balance below zero
	if netAft.IsNegative() {
		return adj, apperrors.ErrInsufficientBalance
	}

	updated, err := store.Wallet().UpdateBalances(ctx, w.ID, grossAft, netAft)
	if err != nil {
		return adj, fmt.Errorf("updating balances: %w", err)
	}

	entry, err := store.Ledger().AppendEntry(ctx, models.WalletTransaction{
		UserID:        p.UserID,
		TransactionID: p.TransactionID,
		TransType:     p.TransType,
		Amount:        amount,
		NetAmount:     amount,
		Charge:        decimal.Zero,
		GrossBalBef:   w.GrossBal,
		GrossBalAft:   updated.GrossBal,
		NetBalBef:     w.NetBal,
		NetBalAft:     updated.NetBal,
		Status:        true,
	})
	if err != nil {
		return adj, fmt.Errorf("appending ledger entry: %w", err)
	}

	return Adjustment{Wallet: updated, Entry: entry}, nil
}

// GenerateTransactionID draws random digits and probes the store until the
// candidate is unused. Returns apperrors.ErrTransactionIDExhausted if the
// attempt cap is hit
func (s *WalletService) GenerateTransactionID(ctx context.Context, store repository.Storage) (string, error) {
	for range maxIDAttempts {
		id, err := randomDigits(transactionIDLength)
		if err != nil {
			return "", fmt.Errorf("generating transaction id: %w", err)
		}

		exists, err := store.Ledger().TransactionIDExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("probing transaction id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", apperrors.ErrTransactionIDExhausted
}

// CreateWallet opens a zero balance wallet for the user and records the
// AccountOpen ledger entry, all in one atomic unit. The unique constraint
// on wallets.user_id makes the one-wallet-per-user rule race proof
func (s *WalletService) CreateWallet(ctx context.Context, userID uuid.UUID) error {
	return s.storage.InTx(ctx, func(store repository.Storage) error {
		_, err := store.Wallet().GetWalletByUserID(ctx, userID)
		switch {
		case err == nil:
			return apperrors.ErrWalletAlreadyExists
		case !errors.Is(err, apperrors.ErrWalletNotFound):
			return err
		}

		transactionID, err := s.GenerateTransactionID(ctx, store)
		if err != nil {
			return err
		}

		_, err = s.AdjustWallet(ctx, store, AdjustParams{
			UserID:        userID,
			Amount:        decimal.Zero,
			TransactionID: transactionID,
			TransType:     models.TransTypeAccountOpen,
		})
		return err
	})
}

// GetBalance is a pure read, no atomic unit beyond the store's own
// read consistency
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	return s.storage.Wallet().GetWalletByUserID(ctx, userID)
}

// TopUp credits the user's wallet. The wallet and the user profile must
// exist already, a top-up never opens a wallet
func (s *WalletService) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Wallet, error) {
	var w models.Wallet

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		if _, err := store.User().GetUserByID(ctx, userID); err != nil {
			return err
		}
		if _, err := store.Wallet().GetWalletByUserID(ctx, userID); err != nil {
			return err
		}

		transactionID, err := s.GenerateTransactionID(ctx, store)
		if err != nil {
			return err
		}

		adj, err := s.AdjustWallet(ctx, store, AdjustParams{
			UserID:        userID,
			Amount:        amount,
			TransactionID: transactionID,
			TransType:     models.TransTypeCredit,
		})
		if err != nil {
			return err
		}

		w = adj.Wallet
		return nil
	})
	if err != nil {
		return w, err
	}

	return w, nil
}

func randomDigits(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
