package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/consultabot/internal/appointments"
	"github.com/wolfman30/consultabot/internal/audit"
	httpmiddleware "github.com/wolfman30/consultabot/internal/http/middleware"
	"github.com/wolfman30/consultabot/pkg/logging"
)

// AuditCounter reads per-user totals from the booking audit trail.
type AuditCounter interface {
	CountByType(ctx context.Context, userID string, eventType audit.EventType) (int, error)
}

// Config holds the dependencies of the operations router.
type Config struct {
	Logger *logging.Logger
	// MetricsHandler serves Prometheus metrics when set.
	MetricsHandler http.Handler
	// Ledger enables the read-only /appointments listing when set.
	Ledger appointments.Ledger
	// Audit enables /users/{userID}/audit when set.
	Audit AuditCounter
	// Checks are named readiness checks reported by /health.
	Checks map[string]func(ctx context.Context) error
}

// New creates the chi router exposing health, metrics and the ledger listing.
func New(cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.Checks))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Ledger != nil {
		r.Get("/appointments", listHandler(cfg.Ledger, cfg.Logger))
	}
	if cfg.Audit != nil {
		r.Get("/users/{userID}/audit", auditHandler(cfg.Audit, cfg.Logger))
	}
	return r
}

func healthHandler(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := map[string]string{"status": "ok"}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp[name] = err.Error()
				resp["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp[name] = "ok"
		}
		writeJSON(w, code, resp)
	}
}

type appointmentView struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	ScheduledFor string `json:"scheduled_for"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// listHandler omits the national ID; it is personal data the ops surface
// has no use for.
func listHandler(ledger appointments.Ledger, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := ledger.List(r.Context())
		if err != nil {
			logger.Error("list appointments failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list appointments"})
			return
		}
		out := make([]appointmentView, 0, len(records))
		for _, rec := range records {
			out = append(out, appointmentView{
				ID:           rec.ID,
				UserID:       rec.UserID,
				Name:         rec.Name,
				ScheduledFor: rec.ScheduledFor.Format(time.DateOnly),
				Status:       string(rec.Status),
				CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"appointments": out, "count": len(out)})
	}
}

var auditedEvents = []audit.EventType{audit.EventBooked, audit.EventAppendFailed, audit.EventRestarted}

// auditHandler reports how many times a user booked, hit a ledger failure
// or restarted the conversation.
func auditHandler(counter AuditCounter, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		counts := make(map[string]int, len(auditedEvents))
		for _, eventType := range auditedEvents {
			n, err := counter.CountByType(r.Context(), userID, eventType)
			if err != nil {
				logger.Error("count audit events failed", "user_id", userID, "event_type", eventType, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read audit trail"})
				return
			}
			counts[string(eventType)] = n
		}
		writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "events": counts})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
