package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Labib591/zyra/application/commands/bus"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("localhost:4317"))
	assert.True(t, isLoopback("127.0.0.1:4317"))
	assert.True(t, isLoopback("[::1]:4317"))
	assert.False(t, isLoopback("otel-collector.internal:4317"))
	assert.False(t, isLoopback("10.0.0.5:4317"))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), Sampler("development", 0).Description())
	assert.Contains(t, Sampler("production", 0.1).Description(), "root:TraceIDRatioBased{0.1}")
	assert.Contains(t, Sampler("production", 7).Description(), "root:AlwaysOnSampler")
}

type traceCommand struct{ Fail bool }

func (traceCommand) Validate() error { return nil }

func TestCommandSpans(t *testing.T) {
	recorder := recordSpans(t)
	b := bus.NewCommandBus(CommandSpans())
	require.NoError(t, bus.HandleErr(b, func(_ context.Context, cmd traceCommand) error {
		if cmd.Fail {
			return pkgerrors.NewConflictError("Note already exists")
		}
		return nil
	}))

	_, err := b.Send(context.Background(), traceCommand{})
	require.NoError(t, err)
	_, err = b.Send(context.Background(), traceCommand{Fail: true})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "command observability.traceCommand", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestTracingMiddleware_NamesSpanByRoute(t *testing.T) {
	recorder := recordSpans(t)
	r := chi.NewRouter()
	r.Use(TracingMiddleware("zyra-test"))
	r.Get("/api/v1/canvases/{canvasID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/canvases/c1", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/canvases/{canvasID}", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
