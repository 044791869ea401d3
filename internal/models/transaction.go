package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type recorded on peer-to-peer transfer records
const TransTypeTransfer = "Transfer"

// Transaction records one logical peer-to-peer transfer. It shares its
// TransactionID with the pair of WalletTransaction rows (debit and credit)
// the transfer produced.
type Transaction struct {
	ID             uuid.UUID
	TransactionID  string
	SenderID       uuid.UUID
	RecipientID    uuid.UUID
	Amount         decimal.Decimal
	Charge         decimal.Decimal
	Currency       string
	IdempotencyKey string
	TransType      string
	Status         bool // complete (true) or pending
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
