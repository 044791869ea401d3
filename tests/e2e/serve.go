package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/kodwo/sikawallet/internal/handlers"
	"github.com/kodwo/sikawallet/internal/handlers/middleware"
	"github.com/kodwo/sikawallet/internal/logger"
	"github.com/kodwo/sikawallet/internal/mailer"
	"github.com/kodwo/sikawallet/internal/repository/postgres"
	"github.com/kodwo/sikawallet/internal/service/auth"
	"github.com/kodwo/sikawallet/internal/service/auth/tokenmanager"
	"github.com/kodwo/sikawallet/internal/service/notification"
	"github.com/kodwo/sikawallet/internal/service/transfer"
	"github.com/kodwo/sikawallet/internal/service/user"
	"github.com/kodwo/sikawallet/internal/service/wallet"
	"github.com/kodwo/sikawallet/internal/testutil"
)

type Services struct {
	AuthService     *auth.AuthService
	UserService     *user.UserService
	WalletService   *wallet.WalletService
	TransferService *transfer.TransferService
	TokenManager    *tokenmanager.TokenManager
}

// Run the whole HTTP stack against a storage bound to one database
// transaction that rolls back when the test ends. The transaction is passed
// to the inner function so testutil.InTx nests safely on top of it.
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		l := logger.NewNoOp()
		storage := postgres.NewStorage(tx)

		// Initialize services, email delivery is a no-op in tests
		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
		require.NoError(t, err, "token manager should be created without errors")

		notificationService := notification.NewService(storage, mailer.NoOp{}, l)
		userService := user.NewService(auth.DefaultHasher, storage)
		walletService := wallet.NewService(storage)
		transferService := transfer.NewService(storage, walletService, notificationService, l)
		authService, err := auth.NewService(tokenManager, userService, walletService, notificationService, storage, l)
		require.NoError(t, err, "auth service starting error")

		// Initialize handlers
		authHandler := handlers.NewAuth(authService, l)
		walletHandler := handlers.NewWallet(walletService, transferService, l)
		authMiddleware := middleware.NewAuth(authService)

		router := handlers.NewRouter(
			authHandler,
			walletHandler,
			authMiddleware,
			middleware.LoggerMiddleware(l),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:     authService,
			UserService:     userService,
			WalletService:   walletService,
			TransferService: transferService,
			TokenManager:    tokenManager,
		})
	})
}
