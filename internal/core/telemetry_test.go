// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/templates/crm-backend/internal/config"
)

func TestTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(
		context.Background(),
		config.OtelConfig{Enabled: false, Endpoint: "collector:4317"},
		config.AppConfig{Name: "crm"},
	)
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSampleRate(t *testing.T) {
	assert.InDelta(t, defaultSampleRate, sampleRate(0), 0)
	assert.InDelta(t, defaultSampleRate, sampleRate(1.5), 0)
	assert.InDelta(t, 0.25, sampleRate(0.25), 0)
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(
		trace.SpanContextConfig{TraceID: traceID, SpanID: spanID},
	))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", TraceIDFromContext(ctx))
}
