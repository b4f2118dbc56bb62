package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/spacesedan/reviewradar/internal/service"
)

type Handler struct {
	svc *service.AnalysisService
}

func NewHandler(svc *service.AnalysisService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("POST /api/reviews/analyze", h.handleAnalyze)
	mux.HandleFunc("GET /api/reviews/history", h.handleHistory)
	mux.HandleFunc("DELETE /api/reviews/history", h.handleClearHistory)
	mux.HandleFunc("GET /api/reviews/search", h.handleSearch)
	mux.HandleFunc("GET /api/reviews/{id}", h.handleByID)
	mux.HandleFunc("POST /api/sentiment", h.handleSentiment)

	return mux
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "API is running",
	})
}

type analyzeRequest struct {
	AppName string `json:"app_name"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	appName := r.URL.Query().Get("app_name")
	if appName == "" && r.Body != nil {
		var req analyzeRequest
		// Body is optional; the query parameter is the documented form.
		_ = json.NewDecoder(r.Body).Decode(&req)
		appName = req.AppName
	}

	if strings.TrimSpace(appName) == "" {
		writeError(w, http.StatusBadRequest, "App name or package ID is required")
		return
	}

	result, err := h.svc.Analyze(r.Context(), appName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.History())
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	h.svc.ClearHistory()
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Analysis history cleared",
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	suggestions, err := h.svc.Suggest(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) handleByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	result, err := h.svc.ByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type sentimentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON with a text field")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.ClassifyText(r.Context(), req.Text))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, errMessage(err))
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, errMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, errMessage(err))
	}
}

// errMessage strips the sentinel prefix so clients see only the
// human-readable part.
func errMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrNotFound, service.ErrUpstream, service.ErrValidation} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[API] Failed to encode response",
			slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
