package wallet

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/kodwo/sikawallet/internal/testutil"
	"github.com/kodwo/sikawallet/tests/e2e"
)

const (
	BalanceURL = "/api/wallet/balance"
	TopupURL   = "/api/wallet/topup"
)

func Test_Balance(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("get balance ok", func(t *testing.T) {
			testutil.InTx(tx, t, func(ttx pgx.Tx) {
				u := e2e.CreateVerifiedUser(t, ttx, s, "balance-user", "StrongEnoughPassword")

				req := e2e.AuthRequest(t, s, http.MethodGet, srvURL+BalanceURL, nil, u.Email, "StrongEnoughPassword")
				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err, "failed to send request")
				defer func() { _ = resp.Body.Close() }()

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err, "failed to read response body")

				require.Equalf(t, http.StatusOK, resp.StatusCode, "balance request should return 200. Body: %s", string(body))
				require.JSONEq(t, `{
					"responseCode": "001",
					"responseDesc": "Success",
					"balance": 0,
					"currency": "GHS"
				}`, string(body))
			})
		})

		t.Run("unauthorized request", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				req, err := http.NewRequest(http.MethodGet, srvURL+BalanceURL, nil)
				require.NoError(t, err, "failed to create request")

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err, "failed to send request")
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "unauthorized request should return 401")
			})
		})
	})
}

func Test_Topup(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("topup then balance", func(t *testing.T) {
			testutil.InTx(tx, t, func(ttx pgx.Tx) {
				u := e2e.CreateVerifiedUser(t, ttx, s, "topup-user", "StrongEnoughPassword")

				req := e2e.AuthRequest(t, s, http.MethodPost, srvURL+TopupURL, strings.NewReader(`{"amount": 100}`), u.Email, "StrongEnoughPassword")
				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "topup should return 200. Body: %s", string(body))
				require.JSONEq(t, `{
					"responseCode": "016",
					"responseDesc": "Your account has been credited successfully.",
					"balance": 100,
					"currency": "GHS"
				}`, string(body))

				// Balance reflects the credit
				req = e2e.AuthRequest(t, s, http.MethodGet, srvURL+BalanceURL, nil, u.Email, "StrongEnoughPassword")
				resp, err = http.DefaultClient.Do(req)
				require.NoError(t, err)
				body, err = io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.Contains(t, string(body), `"balance":100`)
			})
		})

		t.Run("negative amount rejected", func(t *testing.T) {
			testutil.InTx(tx, t, func(ttx pgx.Tx) {
				u := e2e.CreateVerifiedUser(t, ttx, s, "topup-negative", "StrongEnoughPassword")

				req := e2e.AuthRequest(t, s, http.MethodPost, srvURL+TopupURL, strings.NewReader(`{"amount": -5}`), u.Email, "StrongEnoughPassword")
				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "negative topup should return 400. Body: %s", string(body))
			})
		})
	})
}
