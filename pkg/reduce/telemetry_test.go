package reduce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetrics_NilSafe(t *testing.T) {
	ctx := context.Background()

	var m *Metrics
	m.RecordRun(ctx, StatusCompleted, 1, time.Second)
	m.RecordBatch(ctx, 0, 100)
	m.RecordExtractFailure(ctx, 0)
	m.RecordItemsSkipped(ctx, 2)
}

func TestNewMetrics_GlobalMeter(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	m.RecordRun(context.Background(), StatusCompleted, 0, time.Millisecond)
}

func TestMetrics_RecordsThroughReader(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRun(ctx, StatusCompleted, 1, 2*time.Second)
	m.RecordBatch(ctx, 0, 500)
	m.RecordExtractFailure(ctx, 0)
	m.RecordItemsSkipped(ctx, 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, inst := range sm.Metrics {
			names[inst.Name] = true
		}
	}
	assert.True(t, names["reduce.runs.total"])
	assert.True(t, names["reduce.batches.total"])
	assert.True(t, names["reduce.extract.failures.total"])
	assert.True(t, names["reduce.items.skipped.total"])
}
