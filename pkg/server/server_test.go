package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func Test_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer(HTTPConfig{
		Port:           8000,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second,
		WriteTimeout:   2 * time.Second,
		IdleTimeout:    3 * time.Second,
		ReadHeader:     4 * time.Second,
	}, http.NotFoundHandler())

	assert.Equal(t, ":8000", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)
}

func Test_NewChiRouter_PlainTextFallbacks(t *testing.T) {
	mux := NewChiRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux.Get("/products", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found.", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/products", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func Test_NewGRPCServer_RegistersServices(t *testing.T) {
	srv := NewGRPCServer(true, nil, func(s *grpc.Server) {
		healthpb.RegisterHealthServer(s, health.NewServer())
	})
	defer srv.Stop()

	info := srv.GetServiceInfo()
	assert.Contains(t, info, healthpb.Health_ServiceDesc.ServiceName)
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")
}

func Test_NewGRPCServer_WithoutReflection(t *testing.T) {
	srv := NewGRPCServer(false, []grpc.ServerOption{grpc.MaxRecvMsgSize(1 << 20)})
	defer srv.Stop()

	assert.NotContains(t, srv.GetServiceInfo(), "grpc.reflection.v1.ServerReflection")
}
