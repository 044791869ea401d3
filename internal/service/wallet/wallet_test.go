package wallet

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
	"github.com/kodwo/sikawallet/internal/repository/postgres"
	"github.com/kodwo/sikawallet/internal/testutil"
)

func createTestUser(t *testing.T, storage repository.Storage, username string) uuid.UUID {
	t.Helper()

	user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
		Name:           "Test User",
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "hashedpassword",
	})
	require.NoError(t, err, "creating user should not fail")
	return user.ID
}

func TestWalletService(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(repository.Storage, *WalletService)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(storage, NewService(storage))
		})
	}

	t.Run("CreateWallet", func(t *testing.T) {
		t.Run("opens wallet with zero balances and ledger entry", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "open-user")

				err := service.CreateWallet(t.Context(), userID)
				require.NoError(t, err, "wallet has to be created ok")

				w, err := service.GetBalance(t.Context(), userID)
				require.NoError(t, err)
				require.True(t, w.GrossBal.IsZero(), "gross balance should start at zero")
				require.True(t, w.NetBal.IsZero(), "net balance should start at zero")

				history, err := service.GetTransactionHistory(t.Context(), userID, 1, 10)
				require.NoError(t, err)
				require.Len(t, history.Entries, 1, "opening should write exactly one ledger entry")
				require.Equal(t, models.TransTypeAccountOpen, history.Entries[0].TransType)
				require.Equal(t, "Account Opening", history.Entries[0].Label)
				require.Len(t, history.Entries[0].TransactionID, 12, "transaction id should be 12 digits")
			})
		})

		t.Run("second wallet rejected", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "open-twice-user")

				require.NoError(t, service.CreateWallet(t.Context(), userID))
				err := service.CreateWallet(t.Context(), userID)

				require.ErrorIs(t, err, apperrors.ErrWalletAlreadyExists, "one wallet per user")
			})
		})
	})

	t.Run("TopUp", func(t *testing.T) {
		t.Run("credits wallet and appends entry", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "topup-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))

				w, err := service.TopUp(t.Context(), userID, decimal.RequireFromString("100"))
				require.NoError(t, err, "top-up has to succeed")
				require.True(t, w.NetBal.Equal(decimal.RequireFromString("100")), "balance should be 100, got %s", w.NetBal)

				w, err = service.TopUp(t.Context(), userID, decimal.RequireFromString("50"))
				require.NoError(t, err)
				require.True(t, w.NetBal.Equal(decimal.RequireFromString("150")), "balance should be 150, got %s", w.NetBal)
				require.True(t, w.GrossBal.Equal(w.NetBal), "gross and net move together without charges")

				history, err := service.GetTransactionHistory(t.Context(), userID, 1, 10)
				require.NoError(t, err)
				require.EqualValues(t, 3, history.TotalCount, "account open plus two deposits")

				latest := history.Entries[0]
				require.Equal(t, models.TransTypeCredit, latest.TransType)
				require.Equal(t, "Deposit", latest.Label)
				require.True(t, latest.NetBalBef.Equal(decimal.RequireFromString("100")), "before balance should be 100")
				require.True(t, latest.NetBalAft.Equal(decimal.RequireFromString("150")), "after balance should be 150")
			})
		})

		t.Run("amount rounded to 2 decimal places", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "topup-round-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))

				w, err := service.TopUp(t.Context(), userID, decimal.RequireFromString("10.005"))

				require.NoError(t, err)
				require.True(t, w.NetBal.Equal(decimal.RequireFromString("10.01")), "amount should be rounded, got %s", w.NetBal)
			})
		})

		t.Run("unknown user", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				_, err := service.TopUp(t.Context(), uuid.New(), decimal.RequireFromString("10"))

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})

		t.Run("user without wallet", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "topup-nowallet-user")

				_, err := service.TopUp(t.Context(), userID, decimal.RequireFromString("10"))

				require.ErrorIs(t, err, apperrors.ErrWalletNotFound, "top-up must not open a wallet")
			})
		})
	})

	t.Run("AdjustWallet", func(t *testing.T) {
		t.Run("debit below zero rejected and nothing written", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "adjust-debit-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))
				_, err := service.TopUp(t.Context(), userID, decimal.RequireFromString("30"))
				require.NoError(t, err)

				err = storage.InTx(t.Context(), func(store repository.Storage) error {
					_, err := service.AdjustWallet(t.Context(), store, AdjustParams{
						UserID:        userID,
						Amount:        decimal.RequireFromString("30.01"),
						TransactionID: "300000000001",
						TransType:     models.TransTypeTransferOut,
					})
					return err
				})
				require.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

				w, err := service.GetBalance(t.Context(), userID)
				require.NoError(t, err)
				require.True(t, w.NetBal.Equal(decimal.RequireFromString("30")), "failed debit must not move the balance")

				history, err := service.GetTransactionHistory(t.Context(), userID, 1, 10)
				require.NoError(t, err)
				require.EqualValues(t, 2, history.TotalCount, "failed debit must not leave a ledger entry")
			})
		})

		t.Run("debit to exactly zero allowed", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "adjust-zero-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))
				_, err := service.TopUp(t.Context(), userID, decimal.RequireFromString("30"))
				require.NoError(t, err)

				err = storage.InTx(t.Context(), func(store repository.Storage) error {
					adj, err := service.AdjustWallet(t.Context(), store, AdjustParams{
						UserID:        userID,
						Amount:        decimal.RequireFromString("30"),
						TransactionID: "300000000002",
						TransType:     models.TransTypeTransferOut,
					})
					if err != nil {
						return err
					}
					require.True(t, adj.Wallet.NetBal.IsZero(), "balance should be drained to zero")
					return nil
				})
				require.NoError(t, err, "draining the whole balance is allowed")
			})
		})

		t.Run("ledger reconstructs the balance", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "adjust-replay-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))
				for _, amount := range []string{"10", "25.50", "0.05"} {
					_, err := service.TopUp(t.Context(), userID, decimal.RequireFromString(amount))
					require.NoError(t, err)
				}

				w, err := service.GetBalance(t.Context(), userID)
				require.NoError(t, err)

				history, err := service.GetTransactionHistory(t.Context(), userID, 1, 100)
				require.NoError(t, err)

				// Replay entries oldest first, each must chain onto the previous
				replayed := decimal.Zero
				for i := len(history.Entries) - 1; i >= 0; i-- {
					e := history.Entries[i]
					require.True(t, e.NetBalBef.Equal(replayed), "entry %s must start where the previous ended", e.TransactionID)
					if e.TransType == models.TransTypeTransferOut {
						replayed = replayed.Sub(e.NetAmount)
					} else {
						replayed = replayed.Add(e.NetAmount)
					}
					require.True(t, e.NetBalAft.Equal(replayed), "entry %s after-balance must match the replay", e.TransactionID)
				}
				require.True(t, replayed.Equal(w.NetBal), "replayed ledger should equal the stored balance")
			})
		})
	})

	t.Run("GenerateTransactionID", func(t *testing.T) {
		inTx(t, func(storage repository.Storage, service *WalletService) {
			seen := map[string]bool{}
			for range 20 {
				id, err := service.GenerateTransactionID(t.Context(), storage)

				require.NoError(t, err)
				require.Len(t, id, 12, "transaction id should be 12 characters")
				for _, c := range id {
					require.True(t, c >= '0' && c <= '9', "transaction id should be digits only, got %q", id)
				}
				require.False(t, seen[id], "generated ids should not repeat")
				seen[id] = true
			}
		})
	})

	t.Run("GetTransactionHistory", func(t *testing.T) {
		t.Run("no history", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "history-empty-user")

				_, err := service.GetTransactionHistory(t.Context(), userID, 1, 10)

				require.ErrorIs(t, err, apperrors.ErrNoTransactionHistory)
			})
		})

		t.Run("second page of twelve entries", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "history-page-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))
				for i := range 11 {
					_, err := service.TopUp(t.Context(), userID, decimal.NewFromInt(int64(i+1)))
					require.NoError(t, err)
				}

				history, err := service.GetTransactionHistory(t.Context(), userID, 2, 5)

				require.NoError(t, err)
				require.Len(t, history.Entries, 5, "second page of 12 should hold 5 entries")
				require.EqualValues(t, 12, history.TotalCount)
				require.Equal(t, 5, history.PageSize)
				require.Equal(t, 2, history.CurrentPage)
			})
		})

		t.Run("defaults applied", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "history-defaults-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))
				for i := range 11 {
					_, err := service.TopUp(t.Context(), userID, decimal.NewFromInt(int64(i+1)))
					require.NoError(t, err)
				}

				history, err := service.GetTransactionHistory(t.Context(), userID, 0, 0)

				require.NoError(t, err)
				require.Len(t, history.Entries, 10, "default page size is 10")
				require.Equal(t, 10, history.PageSize)
				require.Equal(t, 1, history.CurrentPage)
			})
		})

		t.Run("page beyond the end", func(t *testing.T) {
			inTx(t, func(storage repository.Storage, service *WalletService) {
				userID := createTestUser(t, storage, "history-beyond-user")
				require.NoError(t, service.CreateWallet(t.Context(), userID))

				history, err := service.GetTransactionHistory(t.Context(), userID, 5, 10)

				// count(*) over () yields no rows when the page is empty,
				// which reads the same as having no history at all
				require.ErrorIs(t, err, apperrors.ErrNoTransactionHistory)
				_ = history
			})
		})
	})
}

func TestTransTypeLabels(t *testing.T) {
	tests := []struct {
		transType string
		label     string
	}{
		{models.TransTypeAccountOpen, "Account Opening"},
		{models.TransTypeCredit, "Deposit"},
		{models.TransTypeTransferOut, "Outbound Funds Transfer"},
		{models.TransTypeTransferIn, "Funds Received"},
	}

	for _, tt := range tests {
		t.Run(tt.transType, func(t *testing.T) {
			require.Equal(t, tt.label, models.TransTypeLabel(tt.transType), fmt.Sprintf("wrong label for %s", tt.transType))
		})
	}
}
