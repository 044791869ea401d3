package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kodwo/sikawallet/internal/db"
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
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Email delivery is optional, without a token notifications are only persisted
	var mail notification.Mailer = mailer.NoOp{}
	if c.EmailToken != "" {
		mail = mailer.NewClient(c.EmailToken, c.EmailFrom, l)
	}

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	notificationService := notification.NewService(storage, mail, l)
	userService := user.NewService(auth.DefaultHasher, storage)
	walletService := wallet.NewService(storage)
	transferService := transfer.NewService(storage, walletService, notificationService, l)
	authService, err := auth.NewService(tokenManager, userService, walletService, notificationService, storage, l)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuth(authService, l)
	walletHandler := handlers.NewWallet(walletService, transferService, l)
	authMiddleware := middleware.NewAuth(authService)

	mux := handlers.NewRouter(
		authHandler,
		walletHandler,
		authMiddleware,
		middleware.LoggerMiddleware(l),
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
