// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

const probeTimeout = 5 * time.Second

const (
	StatusOK           = "ok"
	StatusDegraded     = "degraded"
	StatusNotReady     = "not_ready"
	StatusShuttingDown = "shutting_down"
)

type Checker interface {
	Ping(ctx context.Context) error
}

// Dependency is a backing service the API cannot serve without.
type Dependency struct {
	Name    string
	Checker Checker
}

type Handler struct {
	deps     []Dependency
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(deps ...Dependency) *Handler {
	h := &Handler{deps: deps}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.shutdown.Load() {
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: StatusShuttingDown})
		return
	}
	writeProbe(w, http.StatusOK, StatusResponse{Status: StatusOK})
}

// Readiness pings every dependency concurrently. One failing dependency
// takes the instance out of rotation.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.shutdown.Load():
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: StatusShuttingDown})
		return
	case !h.ready.Load():
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: StatusNotReady})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.check(ctx)

	resp := ReadinessResponse{Status: StatusOK, Checks: checks}
	code := http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			resp.Status = StatusDegraded
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeProbe(w, code, resp)
}

func (h *Handler) check(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.deps))

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = ping(ctx, dep)
		}()
	}
	wg.Wait()

	return checks
}

func ping(ctx context.Context, dep Dependency) HealthCheck {
	check := HealthCheck{Name: dep.Name, Healthy: true}

	if dep.Checker == nil {
		check.Healthy = false
		check.Message = dep.Name + " checker not configured"
		return check
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

// writeProbe wraps a probe result in the standard envelope. Probes are
// never cached.
func writeProbe(w http.ResponseWriter, code int, data statusCarrier) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	env := core.Envelope{Message: data.status(), Data: data, Status: code}
	if code >= http.StatusBadRequest {
		env.Error = env.Message
	}
	core.JSON(w, env)
}

type statusCarrier interface {
	status() string
}

type StatusResponse struct {
	Status string `json:"status"`
}

func (s StatusResponse) status() string { return s.Status }

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

func (r ReadinessResponse) status() string { return r.Status }

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
