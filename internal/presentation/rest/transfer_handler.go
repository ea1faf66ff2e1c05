package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/application/usecase"
)

// TransferHandler serves funds transfer endpoints.
type TransferHandler struct {
	create *usecase.CreateTransfer
	get    *usecase.GetTransfer
	logger *slog.Logger
}

// NewTransferHandler creates a TransferHandler.
func NewTransferHandler(create *usecase.CreateTransfer, get *usecase.GetTransfer, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{create: create, get: get, logger: logger}
}

// RegisterRoutes registers the transfer endpoints.
func (h *TransferHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/transfers", h.CreateTransfer)
	mux.HandleFunc("GET /api/v1/transfers/{id}", h.GetTransfer)
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.CreateTransferRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = uid

	resp, err := h.create.Execute(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "create transfer failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	resp, err := h.get.Execute(r.Context(), dto.GetTransferRequest{UserID: uid, TransferID: id})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
