package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/application/usecase"
)

// FraudHandler serves the fraud evaluation endpoints.
type FraudHandler struct {
	evaluate *usecase.EvaluateTransaction
	get      *usecase.GetAssessment
	list     *usecase.ListAssessments
	classify *usecase.ClassifyScore
	logger   *slog.Logger
}

// NewFraudHandler creates a FraudHandler.
func NewFraudHandler(
	evaluate *usecase.EvaluateTransaction,
	get *usecase.GetAssessment,
	list *usecase.ListAssessments,
	classify *usecase.ClassifyScore,
	logger *slog.Logger,
) *FraudHandler {
	return &FraudHandler{evaluate: evaluate, get: get, list: list, classify: classify, logger: logger}
}

// RegisterRoutes registers the fraud endpoints.
func (h *FraudHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/fraud/evaluations", h.Evaluate)
	mux.HandleFunc("GET /api/v1/fraud/evaluations", h.List)
	mux.HandleFunc("GET /api/v1/fraud/evaluations/{id}", h.Get)
	mux.HandleFunc("GET /api/v1/fraud/classify", h.Classify)
}

// Evaluate scores a transaction. When the body omits them, the network
// address and language tag come from the request itself.
func (h *FraudHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req dto.EvaluateTransactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = uid
	if req.IPAddress == "" {
		req.IPAddress = clientKey(r)
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}
	if req.AcceptLanguage == "" {
		req.AcceptLanguage = r.Header.Get("Accept-Language")
	}

	resp, err := h.evaluate.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "evaluate transaction failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get returns one of the caller's assessments.
func (h *FraudHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.get.Execute(r.Context(), dto.GetAssessmentRequest{UserID: uid, AssessmentID: id})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// List pages through the caller's assessments.
func (h *FraudHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	resp, err := h.list.Execute(r.Context(), dto.ListAssessmentsRequest{UserID: uid, Limit: limit, Offset: offset})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Classify returns the advisory for ?score=N.
func (h *FraudHandler) Classify(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("score")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "score must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, h.classify.Execute(score))
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
