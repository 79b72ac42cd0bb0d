// AngelaMos | 2026
// logger.go

package core

import (
	"io"
	"log/slog"

	"github.com/carterperez-dev/templates/crm-backend/internal/config"
)

// NewLogger builds the process logger from log.level and log.format.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
