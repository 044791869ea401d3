package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
)

const (
	defaultHistoryLimit = 10
	defaultHistoryPage  = 1
)

type HistoryEntry struct {
	models.WalletTransaction

	// Human readable name of the transaction type
	Label string
}

type History struct {
	Entries     []HistoryEntry
	TotalCount  int64
	PageSize    int
	CurrentPage int
}

// GetTransactionHistory returns the user's posted ledger entries, newest
// first, offset paginated. page and limit fall back to defaults when not
// positive. Returns apperrors.ErrNoTransactionHistory when nothing matches
func (s *WalletService) GetTransactionHistory(ctx context.Context, userID uuid.UUID, page int, limit int) (History, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if page <= 0 {
		page = defaultHistoryPage
	}
	offset := (page - 1) * limit

	var result repository.HistoryPage
	result, err := s.storage.Ledger().ListEntries(ctx, userID, limit, offset)
	if err != nil {
		return History{}, fmt.Errorf("listing ledger entries: %w", err)
	}
	if result.TotalCount == 0 {
		return History{}, apperrors.ErrNoTransactionHistory
	}

	entries := make([]HistoryEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, HistoryEntry{
			WalletTransaction: e,
			Label:             models.TransTypeLabel(e.TransType),
		})
	}

	return History{
		Entries:     entries,
		TotalCount:  result.TotalCount,
		PageSize:    limit,
		CurrentPage: page,
	}, nil
}
