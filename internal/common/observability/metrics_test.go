package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordRequest(t *testing.T) {
	reader := metric.NewManualReader()
	obs := newWithReader("admissions-test", reader)
	defer obs.Shutdown(context.Background())

	ctx := context.Background()
	obs.RecordRequest(ctx, "/webhook/experiencia", 200, 25*time.Millisecond)
	obs.RecordRequest(ctx, "/webhook/experiencia", 200, 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = m
	}
	require.Contains(t, names, "webhook.requests")
	require.Contains(t, names, "webhook.duration")

	sum, ok := names["webhook.requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestZeroValueIsSafe(t *testing.T) {
	var obs Observability
	obs.RecordRequest(context.Background(), "/health", 200, time.Millisecond)
	assert.NoError(t, obs.Shutdown(context.Background()))
}
