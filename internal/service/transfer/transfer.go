package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/logger"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
	"github.com/kodwo/sikawallet/internal/service/wallet"
)

// Adjustment engine capability the orchestrator composes. The store passed
// in is tx-scoped so both legs land inside the transfer's atomic unit
type walletEngine interface {
	AdjustWallet(ctx context.Context, store repository.Storage, p wallet.AdjustParams) (wallet.Adjustment, error)
	GenerateTransactionID(ctx context.Context, store repository.Storage) (string, error)
}

// Notification dispatch capability. Best effort: failures are logged by
// the transfer service, never propagated
type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, email string, subject string, message string) error
}

type TransferParams struct {
	SenderID       uuid.UUID
	RecipientID    uuid.UUID
	IdempotencyKey string
	Amount         decimal.Decimal
}

type TransferResult struct {
	Transaction      models.Transaction
	SenderBalance    decimal.Decimal
	RecipientBalance decimal.Decimal
}

type TransferService struct {
	storage  repository.Storage
	wallets  walletEngine
	notifier notifier
	logger   logger.Logger
}

func NewService(storage repository.Storage, wallets walletEngine, n notifier, l logger.Logger) *TransferService {
	return &TransferService{
		storage:  storage,
		wallets:  wallets,
		notifier: n,
		logger:   l,
	}
}

// Transfer moves money between two wallets as one atomic unit: idempotency
// check, balance check, pending transfer record, debit and credit through
// the adjustment engine, then the flip to complete. Either all of it
// commits or none of it does. Notifications go out after the commit.
//
// Well known failures: apperrors.ErrDuplicateTransaction,
// ErrWalletNotFound / ErrUserNotFound (sender side), ErrRecipientNotFound,
// ErrInsufficientBalance
func (s *TransferService) Transfer(ctx context.Context, p TransferParams) (TransferResult, error) {
	var (
		result    TransferResult
		sender    models.User
		recipient models.User
	)

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		// Idempotency check comes first, before any mutation
		_, err := store.Transaction().GetByIdempotencyKey(ctx, p.IdempotencyKey)
		switch {
		case err == nil:
			return apperrors.ErrDuplicateTransaction
		case !errors.Is(err, apperrors.ErrTransactionNotFound):
			return fmt.Errorf("idempotency check: %w", err)
		}

		senderWallet, err := store.Wallet().GetWalletByUserID(ctx, p.SenderID)
		if err != nil {
			return fmt.Errorf("resolving sender wallet: %w", err)
		}
		if _, err := store.Wallet().GetWalletByUserID(ctx, p.RecipientID); err != nil {
			if errors.Is(err, apperrors.ErrWalletNotFound) {
				return apperrors.ErrRecipientNotFound
			}
			return fmt.Errorf("resolving recipient wallet: %w", err)
		}

		// Profiles are needed for the notification texts, a missing
		// profile counts the same as a missing wallet
		sender, err = store.User().GetUserByID(ctx, p.SenderID)
		if err != nil {
			return fmt.Errorf("resolving sender: %w", err)
		}
		recipient, err = store.User().GetUserByID(ctx, p.RecipientID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return apperrors.ErrRecipientNotFound
			}
			return fmt.Errorf("resolving recipient: %w", err)
		}

		amount := p.Amount.Round(models.MoneyScale)
		if amount.GreaterThan(senderWallet.NetBal) {
			return apperrors.ErrInsufficientBalance
		}

		transactionID, err := s.wallets.GenerateTransactionID(ctx, store)
		if err != nil {
			return err
		}

		pending, err := store.Transaction().Create(ctx, models.Transaction{
			TransactionID:  transactionID,
			SenderID:       p.SenderID,
			RecipientID:    p.RecipientID,
			Amount:         amount,
			Charge:         decimal.Zero,
			Currency:       senderWallet.Currency,
			IdempotencyKey: p.IdempotencyKey,
			TransType:      models.TransTypeTransfer,
			Status:         false,
		})
		if err != nil {
			return fmt.Errorf("creating transfer record: %w", err)
		}

		// Debit and credit share the transaction id, that is what pairs
		// the two ledger rows with this transfer
		debit, err := s.wallets.AdjustWallet(ctx, store, wallet.AdjustParams{
			UserID:        p.SenderID,
			Amount:        amount,
			TransactionID: transactionID,
			TransType:     models.TransTypeTransferOut,
		})
		if err != nil {
			return fmt.Errorf("debiting sender: %w", err)
		}
		credit, err := s.wallets.AdjustWallet(ctx, store, wallet.AdjustParams{
			UserID:        p.RecipientID,
			Amount:        amount,
			TransactionID: transactionID,
			TransType:     models.TransTypeTransferIn,
		})
		if err != nil {
			return fmt.Errorf("crediting recipient: %w", err)
		}

		complete, err := store.Transaction().MarkComplete(ctx, pending.ID)
		if err != nil {
			return fmt.Errorf("completing transfer record: %w", err)
		}

		result = TransferResult{
			Transaction:      complete,
			SenderBalance:    debit.Wallet.NetBal,
			RecipientBalance: credit.Wallet.NetBal,
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.notifyParties(ctx, result, sender, recipient)

	return result, nil
}

// notifyParties dispatches the two post-transfer notifications. The money
// has already committed at this point, a failed dispatch is only logged
func (s *TransferService) notifyParties(ctx context.Context, r TransferResult, sender models.User, recipient models.User) {
	currency := r.Transaction.Currency
	amount := r.Transaction.Amount.StringFixed(models.MoneyScale)

	senderMsg := fmt.Sprintf(
		"You have transferred %s %s to %s. Your new wallet balance is %s %s.",
		currency, amount, recipient.Name, currency, r.SenderBalance.StringFixed(models.MoneyScale),
	)
	if err := s.notifier.Notify(ctx, sender.ID, sender.Email, "Funds Transfer", senderMsg); err != nil {
		s.logger.Error("Failed to notify sender", "error", err, "transaction_id", r.Transaction.TransactionID)
	}

	recipientMsg := fmt.Sprintf(
		"You have received %s %s from %s. Your new wallet balance is %s %s.",
		currency, amount, sender.Name, currency, r.RecipientBalance.StringFixed(models.MoneyScale),
	)
	if err := s.notifier.Notify(ctx, recipient.ID, recipient.Email, "Funds Received", recipientMsg); err != nil {
		s.logger.Error("Failed to notify recipient", "error", err, "transaction_id", r.Transaction.TransactionID)
	}
}
