package otel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "sojourn-test", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupExportsToCollector(t *testing.T) {
	hits := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	shutdown, err := Setup(context.Background(), "sojourn-test", srv.URL+"/v1/traces")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "turn")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	select {
	case path := <-hits:
		assert.Equal(t, "/v1/traces", path)
	default:
		t.Fatal("collector received no spans")
	}
}
