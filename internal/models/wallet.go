package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet transaction types
// TransTypeTransferOut is the only type that debits a wallet, every other type credits it
const (
	TransTypeAccountOpen = "AccountOpen"
	TransTypeCredit      = "Credit"
	TransTypeTransferOut = "Transfer-Out"
	TransTypeTransferIn  = "Transfer-In"
)

const DefaultCurrency = "GHS"

// Scale of every monetary value: amounts and balances are rounded
// to 2 decimal places after each arithmetic operation
const MoneyScale = 2

type Wallet struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	GrossBal     decimal.Decimal
	NetBal       decimal.Decimal
	Currency     string
	ActiveStatus bool
	DelStatus    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WalletTransaction is a ledger entry for one balance mutation on one wallet.
// Rows are written once and never updated: the wallet balances are a
// materialized view, these rows are the source of truth.
type WalletTransaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TransactionID string
	TransType     string
	Amount        decimal.Decimal
	NetAmount     decimal.Decimal
	Charge        decimal.Decimal
	GrossBalBef   decimal.Decimal
	GrossBalAft   decimal.Decimal
	NetBalBef     decimal.Decimal
	NetBalAft     decimal.Decimal
	Status        bool // posted or not
	CreatedAt     time.Time
}

// TransTypeLabel maps a transaction type to the label shown in history
func TransTypeLabel(transType string) string {
	switch transType {
	case TransTypeAccountOpen:
		return "Account Opening"
	case TransTypeCredit:
		return "Deposit"
	case TransTypeTransferOut:
		return "Outbound Funds Transfer"
	default:
		return "Funds Received"
	}
}
