package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/kodwo/sikawallet/internal/apperrors"
	"github.com/kodwo/sikawallet/internal/handlers/render"
	"github.com/kodwo/sikawallet/internal/logger"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/service/auth"
)

type authService interface {
	Register(ctx context.Context, arg auth.RegisterParams) (models.User, error)
	VerifyEmail(ctx context.Context, tokenString string) (models.User, error)
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
	GetRefreshString(r *http.Request) (string, error)
}

type AuthHandler struct {
	authService authService
	logger      logger.Logger
}

func NewAuth(as authService, l logger.Logger) *AuthHandler {
	return &AuthHandler{authService: as, logger: l}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /verify", h.verify)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /refresh", h.refresh)

	return mux
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	data, err := render.BindAndValidate[request](w, r)
	if err != nil {
		return
	}

	_, err = h.authService.Register(r.Context(), auth.RegisterParams{
		Name:     data.Name,
		Username: data.Username,
		Email:    data.Email,
		Password: data.Password,
	})

	switch {
	case err == nil:
		render.JSON(w, models.UserCreationSuccess)
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		render.JSONWithStatus(w, models.UsernameExists, http.StatusConflict)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		render.JSONWithStatus(w, models.EmailExists, http.StatusConflict)
	default:
		h.logger.Error("Failed to register user", "error", err)
		render.JSONWithStatus(w, models.UserCreationFailed, http.StatusInternalServerError)
	}
}

func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Token string `json:"token" validate:"required"`
	}

	data, err := render.BindAndValidate[request](w, r)
	if err != nil {
		return
	}

	_, err = h.authService.VerifyEmail(r.Context(), data.Token)

	switch {
	case err == nil:
		render.JSON(w, models.EmailVerifySuccess)
	case errors.Is(err, apperrors.ErrEmailAlreadyVerified):
		render.JSON(w, models.EmailAlreadyVerified)
	case errors.Is(err, apperrors.ErrInvalidToken):
		render.JSONWithStatus(w, models.InvalidVerifyToken, http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.JSONWithStatus(w, models.RecordNotFound, http.StatusNotFound)
	default:
		h.logger.Error("Failed to verify email", "error", err)
		render.JSONWithStatus(w, models.EmailVerifyFailed, http.StatusInternalServerError)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[request](w, r)
	if err != nil {
		return
	}

	pair, err := h.authService.Login(r.Context(), data.Email, data.Password)

	switch {
	case err == nil:
		h.authService.SetTokenPairToResponse(w, pair)
		render.JSON(w, models.LoginSuccess)
	case errors.Is(err, apperrors.ErrWrongCredentials):
		render.JSONWithStatus(w, models.WrongLoginCredentials, http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		render.JSONWithStatus(w, models.AccountUnverified, http.StatusForbidden)
	default:
		h.logger.Error("Failed to login user", "error", err)
		render.JSONWithStatus(w, models.LoginFailed, http.StatusInternalServerError)
	}
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	refresh, err := h.authService.GetRefreshString(r)
	if err != nil {
		render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), refresh)

	switch {
	case err == nil:
		h.authService.SetTokenPairToResponse(w, pair)
		render.JSON(w, models.Success)
	case errors.Is(err, apperrors.ErrRefreshTokenExpired):
		render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
	default:
		render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
	}
}
