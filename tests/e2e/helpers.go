package e2e

import (
	"io"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
	"github.com/kodwo/sikawallet/internal/repository/postgres"
	"github.com/kodwo/sikawallet/internal/service/auth"
	"github.com/kodwo/sikawallet/internal/service/user"
)

// Storage binds the repositories to the given transaction
func Storage(tx pgx.Tx) repository.Storage {
	return postgres.NewStorage(tx)
}

// CreateUserParams builds user service params for a throwaway test user
func CreateUserParams(username string) user.CreateUserParams {
	return user.CreateUserParams{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "StrongEnoughPassword",
	}
}

// RegisterParams builds registration params for a throwaway test user
func RegisterParams(username string) auth.RegisterParams {
	return auth.RegisterParams{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "StrongEnoughPassword",
	}
}

// CreateVerifiedUser creates a verified account with an open wallet, the
// state a user reaches after register plus verify
func CreateVerifiedUser(t *testing.T, tx pgx.Tx, s Services, username string, password string) models.User {
	t.Helper()

	storage := postgres.NewStorage(tx)

	u, err := s.UserService.CreateUser(t.Context(), user.CreateUserParams{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err, "failed to create user")

	u, err = storage.User().MarkEmailVerified(t.Context(), u.ID)
	require.NoError(t, err, "failed to verify user")

	require.NoError(t, s.WalletService.CreateWallet(t.Context(), u.ID), "failed to open wallet")
	return u
}

// AuthRequest builds a request authenticated as the given user
func AuthRequest(t *testing.T, s Services, method string, url string, body io.Reader, email string, password string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "failed to create request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	pair, err := s.AuthService.Login(t.Context(), email, password)
	require.NoError(t, err, "failed to login user")

	s.AuthService.SetTokenPairToRequest(req, pair)
	return req
}
