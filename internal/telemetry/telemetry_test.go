package telemetry_test

import (
	"context"
	"testing"

	"github.com/patsapolpro/web-starter-kit-ai/internal/config"
	"github.com/patsapolpro/web-starter-kit-ai/internal/logger"
	"github.com/patsapolpro/web-starter-kit-ai/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledTelemetryIsNoOp(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	provider, err := telemetry.InitMeterProvider(ctx, config.TelemetryConfig{Enabled: false}, "tracker", "dev", log)
	require.NoError(t, err)
	assert.Nil(t, provider)

	assert.NoError(t, telemetry.Shutdown(ctx, provider, log))
}

func TestEnabledTelemetryBuildsProvider(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	// The gRPC exporter connects lazily, so no collector is needed here.
	provider, err := telemetry.InitMeterProvider(ctx, config.TelemetryConfig{Enabled: true, Endpoint: "127.0.0.1:4317"}, "tracker", "dev", log)
	require.NoError(t, err)
	require.NotNil(t, provider)

	shutdownCtx, cancel := context.WithTimeout(ctx, 0)
	defer cancel()
	_ = telemetry.Shutdown(shutdownCtx, provider, log)
}
