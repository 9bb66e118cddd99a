package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"crypto-trade-sim-go/internal/account"
	"crypto-trade-sim-go/internal/market"
	"crypto-trade-sim-go/internal/portfolio"
	"crypto-trade-sim-go/internal/trading"
	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log       *zap.Logger
	market    *market.Engine
	executor  *trading.Executor
	portfolio *portfolio.Service
	accounts  *account.Service
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, market *market.Engine, executor *trading.Executor,
	portfolio *portfolio.Service, accounts *account.Service) *APIHandler {
	return &APIHandler{
		log:       log,
		market:    market,
		executor:  executor,
		portfolio: portfolio,
		accounts:  accounts,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// CoinsHandler lists all coins (walking their prices first) on GET and
// executes a purchase on POST.
func (h *APIHandler) CoinsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCoins(w, r)
	case http.MethodPost:
		h.buyCoin(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *APIHandler) listCoins(w http.ResponseWriter, r *http.Request) {
	coins, err := h.market.ListCoins()
	if err != nil {
		h.log.Error("Failed to list coins", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch coins")
		return
	}
	writeJSON(w, http.StatusOK, coins)
}

// BuyRequest is the POST /api/coins payload.
type BuyRequest struct {
	UserID string  `json:"userId"`
	CoinID string  `json:"coinId"`
	Amount float64 `json:"amount"`
}

func (h *APIHandler) buyCoin(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.executor.Buy(req.UserID, req.CoinID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, trading.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, trading.ErrNotFound):
			writeError(w, http.StatusNotFound, "User or coin not found")
		case errors.Is(err, trading.ErrInsufficientBalance):
			writeError(w, http.StatusBadRequest, "Insufficient balance")
		default:
			h.log.Error("Failed to process purchase", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to process purchase")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SignupRequest is the POST /api/auth/signup payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupHandler registers a new user.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		h.log.Error("Failed to create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// userID extracts the required userId query parameter; it writes a 400 and
// returns false when the parameter is missing.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("userId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return "", false
	}
	return id, true
}

// UserHandler returns the user's profile record for the profile page.
func (h *APIHandler) UserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Get(id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("Failed to get user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UserCoinsHandler returns the user's holdings joined with their coins.
func (h *APIHandler) UserCoinsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	holdings, err := h.portfolio.Holdings(id)
	if err != nil {
		h.log.Error("Failed to get user coins", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch user coins")
		return
	}

	writeJSON(w, http.StatusOK, holdings)
}

// PerformanceHandler returns the synthesized portfolio performance report.
func (h *APIHandler) PerformanceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	report, err := h.portfolio.Performance(id)
	if err != nil {
		if errors.Is(err, portfolio.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("Failed to get performance data", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch performance data")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// HistoryHandler returns the simulated trade-history series.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	series, err := h.portfolio.History(id)
	if err != nil {
		if errors.Is(err, portfolio.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("Failed to get history data", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch history data")
		return
	}

	writeJSON(w, http.StatusOK, series)
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK\n"))
}
