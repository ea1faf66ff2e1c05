package rest

import (
	"context"
	"net/http"
	"time"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	startTime time.Time
	checks    map[string]ReadinessCheck
	mode      string
}

// Service modes reported by /readyz.
const (
	ModeProduction = "production"
	ModeDemo       = "demo"
)

// NewHealthHandler creates a health handler. live selects the production
// mode, meaning both external providers are configured.
func NewHealthHandler(live bool, checks map[string]ReadinessCheck) *HealthHandler {
	mode := ModeDemo
	if live {
		mode = ModeProduction
	}
	return &HealthHandler{
		startTime: time.Now(),
		checks:    checks,
		mode:      mode,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Mode    string            `json:"mode"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness checks.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "finboard",
		Uptime:  time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// Readyz runs every readiness check with a short deadline.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := ReadinessResponse{
		Status:  "ready",
		Service: "finboard",
		Mode:    h.mode,
		Checks:  make(map[string]string, len(h.checks)),
	}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, code, resp)
}
