package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/application/usecase"
)

// BankHandler serves bank linking and account endpoints.
type BankHandler struct {
	linkToken *usecase.CreateLinkToken
	exchange  *usecase.ExchangePublicToken
	accounts  *usecase.AccountReader
	logger    *slog.Logger
}

// NewBankHandler creates a BankHandler.
func NewBankHandler(
	linkToken *usecase.CreateLinkToken,
	exchange *usecase.ExchangePublicToken,
	accounts *usecase.AccountReader,
	logger *slog.Logger,
) *BankHandler {
	return &BankHandler{linkToken: linkToken, exchange: exchange, accounts: accounts, logger: logger}
}

// RegisterRoutes registers the bank and account endpoints.
func (h *BankHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/banks/link-token", h.CreateLinkToken)
	mux.HandleFunc("POST /api/v1/banks", h.LinkBank)
	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{bank_id}", h.GetAccount)
}

func (h *BankHandler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	resp, err := h.linkToken.Execute(r.Context(), uid)
	if err != nil {
		h.logger.WarnContext(r.Context(), "create link token failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BankHandler) LinkBank(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.ExchangePublicTokenRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = uid

	resp, err := h.exchange.Execute(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "link bank failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BankHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	resp, err := h.accounts.GetAccounts(r.Context(), uid)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BankHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	bankID, ok := pathUUID(w, r, "bank_id")
	if !ok {
		return
	}
	resp, err := h.accounts.GetAccount(r.Context(), uid, bankID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
