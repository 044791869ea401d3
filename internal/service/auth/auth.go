package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/logger"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/repository"
	"github.com/kodwo/sikawallet/internal/service/user"
)

const refreshCookieName = "refresh_token"

// User management capability the auth service builds on
type userService interface {
	CreateUser(ctx context.Context, arg user.CreateUserParams) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CheckPassword(user models.User, password string) error
}

// Token issue and parse capability
type tokenManager interface {
	GeneratePair(ctx context.Context, user models.User) (models.TokenPair, error)
	UseRefresh(ctx context.Context, refresh string) (models.RefreshToken, error)
	ParseAccess(ctx context.Context, access string) (uuid.UUID, error)
	GenerateVerify(user models.User) (models.IssuedToken, error)
	ParseVerify(tokenString string) (uuid.UUID, error)
}

// Ledger handoff: a verified account gets its wallet opened here
type walletCreator interface {
	CreateWallet(ctx context.Context, userID uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, email string, subject string, message string) error
}

type RegisterParams struct {
	Name     string
	Username string
	Email    string
	Password string
}

type AuthService struct {
	token    tokenManager
	users    userService
	wallets  walletCreator
	notifier notifier
	storage  repository.Storage
	logger   logger.Logger
}

func NewService(token tokenManager, users userService, wallets walletCreator, n notifier, storage repository.Storage, l logger.Logger) (*AuthService, error) {
	if token == nil || users == nil || wallets == nil || n == nil || storage == nil {
		return nil, errors.New("auth service dependencies must not be nil")
	}

	return &AuthService{
		token:    token,
		users:    users,
		wallets:  wallets,
		notifier: n,
		storage:  storage,
		logger:   l,
	}, nil
}

// Register creates an unverified account and sends the verification email.
// The wallet is not opened yet, that happens on verification
func (s *AuthService) Register(ctx context.Context, arg RegisterParams) (models.User, error) {
	u, err := s.users.CreateUser(ctx, user.CreateUserParams{
		Name:     arg.Name,
		Username: arg.Username,
		Email:    arg.Email,
		Password: arg.Password,
	})
	if err != nil {
		return u, err
	}

	verify, err := s.token.GenerateVerify(u)
	if err != nil {
		return u, fmt.Errorf("could not generate verification token. Err: %w", err)
	}

	message := fmt.Sprintf(
		"Welcome %s! Please verify your account with this token: %s",
		u.Username, verify.Value,
	)
	if err := s.notifier.Notify(ctx, u.ID, u.Email, "Verify your account", message); err != nil {
		s.logger.Error("Failed to send verification email", "error", err, "user_id", u.ID)
	}

	return u, nil
}

// VerifyEmail marks the account verified and opens its zero balance wallet.
// Verifying twice returns apperrors.ErrEmailAlreadyVerified
func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) (models.User, error) {
	var u models.User

	userID, err := s.token.ParseVerify(tokenString)
	if err != nil {
		return u, err
	}

	u, err = s.storage.User().MarkEmailVerified(ctx, userID)
	if err != nil {
		return u, err
	}

	err = s.wallets.CreateWallet(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrWalletAlreadyExists) {
		return u, fmt.Errorf("could not open wallet. Err: %w", err)
	}

	return u, nil
}

// Login issues a token pair for a verified account
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return pair, apperrors.ErrWrongCredentials
		}
		return pair, err
	}

	if err := s.users.CheckPassword(u, password); err != nil {
		return pair, apperrors.ErrWrongCredentials
	}

	if !u.IsVerified() {
		return pair, apperrors.ErrEmailNotVerified
	}

	pair, err = s.token.GeneratePair(ctx, u)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Refresh rotates the refresh token and issues a fresh pair
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	token, err := s.token.UseRefresh(ctx, refresh)
	if err != nil {
		return pair, err
	}

	u, err := s.users.GetUserByID(ctx, token.UserID)
	if err != nil {
		return pair, err
	}

	pair, err = s.token.GeneratePair(ctx, u)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Auth authenticates a request by its bearer access token
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	var u models.User

	header := r.Header.Get("Authorization")
	access, found := strings.CutPrefix(header, "Bearer ")
	if !found || access == "" {
		return u, apperrors.ErrInvalidToken
	}

	userID, err := s.token.ParseAccess(ctx, access)
	if err != nil {
		return u, err
	}

	return s.users.GetUserByID(ctx, userID)
}

// SetTokenPairToResponse puts the access token in the Authorization header
// and the refresh token in an http-only cookie
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set("Authorization", "Bearer "+pair.Access.Value)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.Refresh.Value,
		Expires:  pair.Refresh.ExpiresAt,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
}

// SetTokenPairToRequest mirrors SetTokenPairToResponse for outgoing
// requests, handy in tests
func (s *AuthService) SetTokenPairToRequest(r *http.Request, pair models.TokenPair) {
	r.Header.Set("Authorization", "Bearer "+pair.Access.Value)
	r.AddCookie(&http.Cookie{
		Name:    refreshCookieName,
		Value:   pair.Refresh.Value,
		Expires: pair.Refresh.ExpiresAt,
	})
}

// GetRefreshString extracts the refresh token from the request cookie
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrRefreshTokenNotFound
	}

	return cookie.Value, nil
}
