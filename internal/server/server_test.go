// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/crm-backend/internal/config"
	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type notifier struct{ shutdown bool }

func (n *notifier) SetShutdown(shutdown bool) { n.shutdown = shutdown }

func TestFallbackEnvelopes(t *testing.T) {
	srv := New(Config{ServerConfig: config.ServerConfig{Host: "127.0.0.1", Port: 0}})
	srv.Router().Get("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		method  string
		path    string
		status  int
		message string
	}{
		{"unknown path", http.MethodGet, "/api/nothing", http.StatusNotFound, "Resource not found"},
		{"wrong method", http.MethodPatch, "/api/products", http.StatusMethodNotAllowed, `Method "PATCH" not allowed.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.status, rec.Code)

			var env core.Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.status, env.Status)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestShutdownNotifiesHealth(t *testing.T) {
	n := &notifier{}
	srv := New(Config{HealthHandler: n})

	require.NoError(t, srv.Shutdown(context.Background(), 0))
	assert.True(t, n.shutdown)
}

func TestShutdownHonoursContextDuringDrain(t *testing.T) {
	srv := New(Config{HealthHandler: &notifier{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.Shutdown(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
