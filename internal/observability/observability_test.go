package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/drill-recommendation-service/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel slog.Level
		text      bool
	}{
		{"json info", "info", "json", slog.LevelInfo, false},
		{"text debug", "debug", "TEXT", slog.LevelDebug, true},
		{"warning alias", "warning", "json", slog.LevelWarn, false},
		{"error", "error", "text", slog.LevelError, true},
		{"unknown falls back", "verbose", "yaml", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format})
			ctx := context.Background()

			assert.Same(t, logger, slog.Default())
			assert.True(t, logger.Enabled(ctx, tt.wantLevel))
			if tt.wantLevel > slog.LevelDebug {
				assert.False(t, logger.Enabled(ctx, tt.wantLevel-4))
			}
			if tt.text {
				assert.IsType(t, &slog.TextHandler{}, logger.Handler())
			} else {
				assert.IsType(t, &slog.JSONHandler{}, logger.Handler())
			}
		})
	}
}

func TestNewMetrics_RegistersEveryCollector(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, registerAll(reg, m))

	m.MessagesConsumed.Add(3)
	m.DrillsScheduled.WithLabelValues("Flood").Inc()
	assert.InDelta(t, 3, testutil.ToFloat64(m.MessagesConsumed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DrillsScheduled.WithLabelValues("Flood")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "drill_recommender_rosters_consumed_total")
	assert.Contains(t, names, "drill_recommender_drills_scheduled_total")
}

func registerAll(reg *prometheus.Registry, m *Metrics) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
