// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

// RecordCounter reports how many rows each CRM table holds.
type RecordCounter interface {
	CountRecords(ctx context.Context) (*RecordCounts, error)
}

type Database interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

type Cache interface {
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
}

type HandlerConfig struct {
	Records    RecordCounter
	Database   Database
	Cache      Cache
	Migrations func(ctx context.Context) ([]string, error)
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetOverview)
		r.Get("/stats/records", h.GetRecordStats)
		r.Get("/stats/database", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

// GetOverview gathers every section it can. A failing section is logged
// and left out; the request itself never fails.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := OverviewResponse{Runtime: readRuntime()}

	if h.cfg.Records != nil {
		counts, err := h.cfg.Records.CountRecords(ctx)
		if err != nil {
			slog.WarnContext(ctx, "count records failed", "error", err)
		} else {
			resp.Records = counts
		}
	}

	if h.cfg.Database != nil {
		resp.Database = &DatabaseStatus{
			Healthy: h.cfg.Database.Ping(ctx) == nil,
			Pool:    toDBPoolStats(h.cfg.Database.Stats()),
		}
	}

	if h.cfg.Cache != nil {
		resp.Redis = &RedisStatus{
			Healthy: h.cfg.Cache.Ping(ctx) == nil,
			Pool:    toRedisPoolStats(h.cfg.Cache.PoolStats()),
		}
	}

	if h.cfg.Migrations != nil {
		pending, err := h.cfg.Migrations(ctx)
		if err != nil {
			slog.WarnContext(ctx, "list pending migrations failed", "error", err)
		} else {
			resp.Schema = &SchemaStatus{UpToDate: len(pending) == 0, Pending: pending}
		}
	}

	core.OK(w, "System stats retrieved successfully", resp)
}

func (h *Handler) GetRecordStats(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Records == nil {
		core.NotFound(w, "Record stats")
		return
	}

	counts, err := h.cfg.Records.CountRecords(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Record stats retrieved successfully", counts)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	if h.cfg.Database == nil {
		core.NotFound(w, "Database stats")
		return
	}
	core.OK(w, "Database stats retrieved successfully", toDBPoolStats(h.cfg.Database.Stats()))
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	if h.cfg.Cache == nil {
		core.NotFound(w, "Redis stats")
		return
	}
	core.OK(w, "Redis stats retrieved successfully", toRedisPoolStats(h.cfg.Cache.PoolStats()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, "Runtime stats retrieved successfully", readRuntime())
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}
