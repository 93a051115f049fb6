// Package httpapi is the thin inbound gateway over the ledger service.
//
// It owns no ledger logic: it decodes requests, hands them to the
// service layer, and maps the error taxonomy onto HTTP status codes.
// POST /v1/messages plays the role of the chat transport, delivering
// one line of user text at a time.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Svyat-tmn/workledger/internal/balance"
	"github.com/Svyat-tmn/workledger/internal/models"
	"github.com/Svyat-tmn/workledger/internal/service"
)

// NewRouter builds the HTTP handler for the gateway. The registry is
// exposed on /metrics; pass the same one the service's collector is
// registered with.
func NewRouter(ledger *service.Ledger, reg *prometheus.Registry) http.Handler {
	s := &server{ledger: ledger}

	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", s.handleMessage)
		r.Get("/records", s.handleListRecords)
		r.Get("/balance", s.handleBalance)
	})
	return r
}

type server struct {
	ledger *service.Ledger
}

type messageRequest struct {
	ExternalID string `json:"external_id"`
	Text       string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

type recordResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	WhoDid      string `json:"who_did"`
	ForWhom     string `json:"for_whom"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	CreatorName string `json:"creator_name,omitempty"`
}

type balanceResponse struct {
	Month    string            `json:"month"`
	Balances map[string]string `json:"balances"`
	Report   string            `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}
	if req.ExternalID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "external_id is required"})
		return
	}

	reply, err := s.ledger.Dispatch(r.Context(), req.ExternalID, req.Text)
	if err != nil {
		// Dispatch only returns persistence failures; user-level
		// problems are already rendered into the reply.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Reply: reply})
}

func (s *server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	externalID := r.URL.Query().Get("external_id")
	if externalID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "external_id is required"})
		return
	}

	records, err := s.ledger.OnListRecords(r.Context(), externalID, r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]recordResponse, len(records))
	for i, rec := range records {
		out[i] = recordResponse{
			ID:          rec.ID,
			Date:        rec.Date,
			WhoDid:      rec.WhoDid,
			ForWhom:     rec.ForWhom,
			Description: rec.Description,
			Amount:      rec.Amount.String(),
			CreatorName: rec.CreatorName,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleBalance(w http.ResponseWriter, r *http.Request) {
	externalID := r.URL.Query().Get("external_id")
	if externalID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "external_id is required"})
		return
	}
	month := r.URL.Query().Get("month")

	balances, err := s.ledger.OnComputeBalance(r.Context(), externalID, month)
	if err != nil {
		writeError(w, err)
		return
	}
	if month == "" {
		month = time.Now().Format(models.MonthLayout)
	}

	rendered := make(map[string]string, len(balances))
	for name, val := range balances {
		rendered[name] = val.String()
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Month:    month,
		Balances: rendered,
		Report:   balance.Report(balances, month),
	})
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotInGroup), errors.Is(err, models.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrRecordNotFound), errors.Is(err, models.ErrGroupNotFound), errors.Is(err, models.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// requestLogger logs all incoming requests.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
