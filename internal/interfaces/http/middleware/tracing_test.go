package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	r := okEngine(TracingWithConfig(TracingConfig{Enabled: false}))

	w := testutil.Do(t, r, http.MethodGet, "/test", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SocietyAttributesAndErrors(t *testing.T) {
	sr := setupTestTracer(t)
	actor := scope.Actor{UserID: uuid.New(), Role: resident.RoleOwner}
	tenant := scope.Tenant{Society: testutil.NewSociety(t, "acme", "sqlite://memory")}

	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}), SpanErrorMarker())
	r.GET("/flats/:id",
		func(c *gin.Context) {
			c.Set(TenantKey, tenant)
			c.Set(ActorKey, actor)
			c.Next()
		},
		SpanAttributes(),
		func(c *gin.Context) { c.Status(http.StatusNotFound) },
	)

	w := testutil.Do(t, r, http.MethodGet, "/flats/1", nil, map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	got := attrs(spans[0])
	assert.Equal(t, "req-42", got["request_id"].AsString())
	assert.Equal(t, tenant.Key(), got["society_id"].AsString())
	assert.Equal(t, "acme", got["society_code"].AsString())
	assert.Equal(t, actor.UserID.String(), got["user_id"].AsString())
	assert.Equal(t, "owner", got["user_role"].AsString())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestSpanErrorMarker_SuccessLeavesStatusUnset(t *testing.T) {
	sr := setupTestTracer(t)
	r := okEngine(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}), SpanErrorMarker())

	testutil.Do(t, r, http.MethodGet, "/test", nil, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestBoundedRequestID(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	r := gin.New()
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, boundedRequestID(c))
	})

	w := testutil.Do(t, r, http.MethodGet, "/test", nil, map[string]string{"X-Request-ID": string(long)})
	assert.Len(t, w.Body.String(), MaxRequestIDLength)
}
