package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kodwo/sikawallet/internal/handlers/render"
	"github.com/kodwo/sikawallet/internal/handlers/userctx"
	"github.com/kodwo/sikawallet/internal/logger"
	"github.com/kodwo/sikawallet/internal/models"
	"github.com/kodwo/sikawallet/internal/service/transfer"
	"github.com/kodwo/sikawallet/internal/service/wallet"
)

type walletService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Wallet, error)
	GetTransactionHistory(ctx context.Context, userID uuid.UUID, page int, limit int) (wallet.History, error)
}

type transferService interface {
	Transfer(ctx context.Context, p transfer.TransferParams) (transfer.TransferResult, error)
}

type WalletHandler struct {
	walletService   walletService
	transferService transferService
	logger          logger.Logger
}

func NewWallet(ws walletService, ts transferService, l logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService:   ws,
		transferService: ts,
		logger:          l,
	}
}

func (h *WalletHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance", h.balance)
	mux.HandleFunc("POST /topup", h.topUp)
	mux.HandleFunc("POST /transfer", h.transfer)
	mux.HandleFunc("GET /history", h.history)

	return mux
}

// outcomeStatus maps an outcome to the HTTP status it travels with
func outcomeStatus(o models.Outcome) int {
	switch o {
	case models.DuplicateTransaction:
		return http.StatusConflict
	case models.InsufficientBalance:
		return http.StatusPaymentRequired
	case models.RecipientNotFound, models.RecordNotFound:
		return http.StatusNotFound
	case models.Failure, models.AccountTopupFailed, models.TransactionFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// renderError writes the outcome for a failed operation. Errors outside the
// well known taxonomy log and render the fallback
func (h *WalletHandler) renderError(w http.ResponseWriter, err error, fallback models.Outcome, logMsg string, logArgs ...any) {
	outcome := models.OutcomeForError(err, fallback)
	if outcome == fallback {
		h.logger.Error(logMsg, append([]any{"error", err}, logArgs...)...)
	}
	render.JSONWithStatus(w, outcome, outcomeStatus(outcome))
}

type balanceResponse struct {
	models.Outcome
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

func (h *WalletHandler) balance(w http.ResponseWriter, r *http.Request) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	wlt, err := h.walletService.GetBalance(r.Context(), user.ID)
	if err != nil {
		h.renderError(w, err, models.Failure, "Failed to get balance", "user_id", user.ID)
		return
	}

	balance, _ := wlt.NetBal.Float64()
	render.JSON(w, balanceResponse{Outcome: models.Success, Balance: balance, Currency: wlt.Currency})
}

func (h *WalletHandler) topUp(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Amount decimal.Decimal `json:"amount" validate:"required"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[request](w, r)
	if err != nil {
		return
	}
	if !data.Amount.IsPositive() {
		render.ServiceError(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	wlt, err := h.walletService.TopUp(r.Context(), user.ID, data.Amount)
	if err != nil {
		h.renderError(w, err, models.AccountTopupFailed, "Failed to top up wallet", "user_id", user.ID)
		return
	}

	balance, _ := wlt.NetBal.Float64()
	render.JSON(w, balanceResponse{Outcome: models.AccountTopupSuccess, Balance: balance, Currency: wlt.Currency})
}

func (h *WalletHandler) transfer(w http.ResponseWriter, r *http.Request) {
	type request struct {
		IdempotencyKey string          `json:"idempotencyKey" validate:"required,max=255"`
		RecipientID    uuid.UUID       `json:"recipientId" validate:"required"`
		Amount         decimal.Decimal `json:"amount" validate:"required"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := render.BindAndValidate[request](w, r)
	if err != nil {
		return
	}
	if !data.Amount.IsPositive() {
		render.ServiceError(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	_, err = h.transferService.Transfer(r.Context(), transfer.TransferParams{
		SenderID:       user.ID,
		RecipientID:    data.RecipientID,
		IdempotencyKey: data.IdempotencyKey,
		Amount:         data.Amount,
	})
	if err != nil {
		h.renderError(w, err, models.TransactionFailed, "Failed to transfer money", "sender_id", user.ID)
		return
	}

	render.JSON(w, models.TransactionComplete)
}

func (h *WalletHandler) history(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		TransactionID string    `json:"transactionId"`
		TransType     string    `json:"transType"`
		Description   string    `json:"description"`
		Amount        float64   `json:"amount"`
		NetAmount     float64   `json:"netAmount"`
		Charge        float64   `json:"charge"`
		NetBalBefore  float64   `json:"netBalBefore"`
		NetBalAfter   float64   `json:"netBalAfter"`
		CreatedAt     time.Time `json:"createdAt"`
	}
	type response struct {
		models.Outcome
		Entries              []entry `json:"entries"`
		TotalNumberOfRecords int64   `json:"totalNumberOfRecords"`
		PageSize             int     `json:"pageSize"`
		CurrentPage          int     `json:"currentPage"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	history, err := h.walletService.GetTransactionHistory(r.Context(), user.ID, page, limit)
	if err != nil {
		h.renderError(w, err, models.Failure, "Failed to get transaction history", "user_id", user.ID)
		return
	}

	entries := make([]entry, 0, len(history.Entries))
	for _, e := range history.Entries {
		amount, _ := e.Amount.Float64()
		netAmount, _ := e.NetAmount.Float64()
		charge, _ := e.Charge.Float64()
		netBalBef, _ := e.NetBalBef.Float64()
		netBalAft, _ := e.NetBalAft.Float64()
		entries = append(entries, entry{
			TransactionID: e.TransactionID,
			TransType:     e.TransType,
			Description:   e.Label,
			Amount:        amount,
			NetAmount:     netAmount,
			Charge:        charge,
			NetBalBefore:  netBalBef,
			NetBalAfter:   netBalAft,
			CreatedAt:     e.CreatedAt,
		})
	}
	render.JSON(w, response{
		Outcome:              models.Success,
		Entries:              entries,
		TotalNumberOfRecords: history.TotalCount,
		PageSize:             history.PageSize,
		CurrentPage:          history.CurrentPage,
	})
}

// queryInt reads a positive int query param, zero means not provided
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
