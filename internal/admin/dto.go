// AngelaMos | 2026
// dto.go

package admin

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
)

type OverviewResponse struct {
	Records  *RecordCounts   `json:"records,omitempty"`
	Database *DatabaseStatus `json:"database,omitempty"`
	Redis    *RedisStatus    `json:"redis,omitempty"`
	Schema   *SchemaStatus   `json:"schema,omitempty"`
	Runtime  RuntimeStats    `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool        `json:"healthy"`
	Pool    DBPoolStats `json:"pool"`
}

type RedisStatus struct {
	Healthy bool           `json:"healthy"`
	Pool    RedisPoolStats `json:"pool"`
}

type SchemaStatus struct {
	UpToDate bool     `json:"up_to_date"`
	Pending  []string `json:"pending"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}

func toDBPoolStats(s sql.DBStats) DBPoolStats {
	return DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func toRedisPoolStats(s *redis.PoolStats) RedisPoolStats {
	if s == nil {
		return RedisPoolStats{}
	}
	return RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}
