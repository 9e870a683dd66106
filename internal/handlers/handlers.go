// Package handlers is the HTTP presentation collaborator: it decodes
// requests, calls the core, and maps domain errors onto statuses and
// user-visible messages. No banking rules live here.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/bank"
	"github.com/pocketbank/pocketbank/internal/middleware"
	"github.com/pocketbank/pocketbank/internal/models"
	"github.com/pocketbank/pocketbank/internal/session"
)

type Handler struct {
	svc      *bank.Service
	sessions *session.Manager
}

func New(svc *bank.Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// RegisterRoutes wires all endpoints onto the mux. Routes under the
// session guard require a logged-in account.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/v1/register", h.register)
	mux.HandleFunc("POST /api/v1/login", h.login)
	mux.HandleFunc("POST /api/v1/logout", h.logout)

	guard := middleware.RequireSession(h.sessions)
	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/v1/me", h.me)
	protected.HandleFunc("POST /api/v1/deposit", h.deposit)
	protected.HandleFunc("POST /api/v1/withdraw", h.withdraw)
	protected.HandleFunc("PUT /api/v1/profile", h.updateProfile)
	protected.HandleFunc("GET /api/v1/transactions", h.transactions)
	mux.Handle("/api/v1/", guard(protected))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountID, err := h.svc.Register(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"accountId": accountID})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "accountId and password are required")
		return
	}

	account, err := h.sessions.Login(r.Context(), req.AccountID, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		log.Printf("ERROR: logout: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.svc.Deposit)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.svc.Withdraw)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.UpdateProfile(r.Context(), account.AccountID, update); err != nil {
		respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	txns, err := h.svc.Transactions(r.Context(), account.AccountID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	writeJSON(w, http.StatusOK, txns)
}

// applyAmount is the shared deposit/withdraw flow: resolve the account
// from the session, decode the amount, run the operation, return the
// new balance formatted to two decimals.
func (h *Handler) applyAmount(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, accountID string, amount decimal.Decimal, description string) (decimal.Decimal, error),
) {
	account, ok := middleware.GetAccount(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := op(r.Context(), account.AccountID, req.Amount, req.Description)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"amount":  req.Amount.StringFixed(2),
		"balance": balance.StringFixed(2),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

// respondDomainError maps core errors onto HTTP statuses. Unknown
// errors are infrastructure failures and surface as 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrIncorrectPassword):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrExceedsMaxWithdrawal),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrBelowMinimumBalance):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrMissingAadhar),
		errors.Is(err, models.ErrPasswordMismatch),
		errors.Is(err, models.ErrPasswordTooLong),
		errors.Is(err, models.ErrInvalidContactNumber),
		errors.Is(err, models.ErrNameTooLong),
		errors.Is(err, models.ErrAddressTooLong),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
