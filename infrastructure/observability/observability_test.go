package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollector_DynamicMetrics(t *testing.T) {
	c := NewCollector("zyra")

	c.IncrementCounter("commands_total", map[string]string{"command": "CreateCanvasCommand", "status": "success"})
	c.IncrementCounter("commands_total", map[string]string{"command": "CreateCanvasCommand", "status": "success"})
	c.IncrementCounter("commands_total", map[string]string{"command": "CreateCanvasCommand", "status": "error"})
	// A different label set for an existing name is dropped.
	c.IncrementCounter("commands_total", map[string]string{"other": "x"})
	c.RecordDuration("command_duration_seconds", 0.25, map[string]string{"command": "CreateCanvasCommand"})

	vec := c.counters["commands_total"].vec
	assert.Equal(t, 2.0, testutil.ToFloat64(vec.WithLabelValues("CreateCanvasCommand", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("CreateCanvasCommand", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.histograms["command_duration_seconds"].vec))
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	c := NewCollector("zyra")
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(c))
	r.Get("/canvases/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/canvases/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/canvases/{id}", "404")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("zyra")
	c.IncrementCounter("pdf_uploads_total", nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "zyra_pdf_uploads_total 1")
}

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestCloudWatchMetrics(t *testing.T) {
	client := &fakeCloudWatch{}
	m := NewCloudWatchMetrics("Zyra", client, zap.NewNop())

	m.RecordDuration("chat_completion_duration_seconds", 1.5, map[string]string{"status": "success", "provider": "gemini"})

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "Zyra", aws.ToString(in.Namespace))
	datum := in.MetricData[0]
	assert.Equal(t, 1500.0, aws.ToFloat64(datum.Value))
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "provider", aws.ToString(datum.Dimensions[0].Name))

	client.err = errors.New("throttled")
	assert.NotPanics(t, func() { m.IncrementCounter("x", nil) })
}

func TestFanout(t *testing.T) {
	a, b := NewCollector("a"), NewCollector("b")
	Fanout{a, b}.IncrementCounter("hits_total", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.counters["hits_total"].vec.WithLabelValues()))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.counters["hits_total"].vec.WithLabelValues()))
}
