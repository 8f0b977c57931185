package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
	"github.com/patsapolpro/web-starter-kit-ai/internal/httputil"
	"github.com/patsapolpro/web-starter-kit-ai/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

const databaseDependency = "postgres"

type Handler struct {
	database Pinger
	logger   *slog.Logger
	metrics  *metrics.DependencyMetrics
}

func NewHandler(database Pinger, logger *slog.Logger, m *metrics.DependencyMetrics) *Handler {
	return &Handler{
		database: database,
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithData(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready fails with CONNECTION_ERROR while the database cannot be reached.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := h.database.Ping(r.Context())
	h.metrics.RecordCheck(r.Context(), databaseDependency, time.Since(start), err)
	if err != nil {
		h.logger.WarnContext(r.Context(), "readiness check failed", "error", err)
		httputil.RespondWithError(w, apperror.Connection("Database unavailable", err).
			WithDetails(map[string]string{"dependency": databaseDependency}))
		return
	}

	httputil.RespondWithData(w, http.StatusOK, HealthResponse{Status: "ready"})
}
