package auth

import (
	"fmt"
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
	RegisterURL = "/api/user/register"
	VerifyURL   = "/api/user/verify"
)

func Test_Register(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		registerData := `{
			"name": "Ama Mensah",
			"username": "ama",
			"email": "ama@example.com",
			"password": "StrongEnoughPassword"
		}`

		t.Run("register ok", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(registerData))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.JSONEq(t, `
					{
						"responseCode": "003",
						"responseDesc": "Your account has been created successfully. Please check your email in order to verify this account and finally login."
					}`, string(body))

				require.NotContains(t, resp.Header, "Authorization", "registration must not log the user in")
			})
		})

		t.Run("register same username twice", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(registerData))
				require.NoError(t, err)
				_ = resp.Body.Close()
				require.Equal(t, http.StatusOK, resp.StatusCode)

				otherEmail := strings.Replace(registerData, "ama@example.com", "other@example.com", 1)
				resp, err = http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(otherEmail))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Contains(t, string(body), `"responseCode":"005"`)
			})
		})

		t.Run("register same email twice", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(registerData))
				require.NoError(t, err)
				_ = resp.Body.Close()
				require.Equal(t, http.StatusOK, resp.StatusCode)

				otherUsername := strings.Replace(registerData, `"ama"`, `"ama2"`, 1)
				resp, err = http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(otherUsername))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Contains(t, string(body), `"responseCode":"006"`)
			})
		})

		t.Run("register invalid payload", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				data := `{"name": "No Email", "username": "noemail", "password": "StrongEnoughPassword"}`

				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			})
		})
	})
}

func Test_Verify(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		register := func(t *testing.T) string {
			t.Helper()

			u, err := s.AuthService.Register(t.Context(), e2e.RegisterParams("kojo"))
			require.NoError(t, err)

			issued, err := s.TokenManager.GenerateVerify(u)
			require.NoError(t, err)
			return issued.Value
		}

		t.Run("verify ok then already verified", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				token := register(t)
				data := fmt.Sprintf(`{"token": %q}`, token)

				resp, err := http.Post(srvURL+VerifyURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Contains(t, string(body), `"responseCode":"009"`)

				// Second verification with the same token
				resp, err = http.Post(srvURL+VerifyURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err = io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Contains(t, string(body), `"responseCode":"008"`)
			})
		})

		t.Run("verify with garbage token", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				data := `{"token": "not-a-token"}`

				resp, err := http.Post(srvURL+VerifyURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Contains(t, string(body), `"responseCode":"011"`)
			})
		})
	})
}
