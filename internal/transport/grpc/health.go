// Package grpc exposes the product catalog's readiness over the standard gRPC health protocol.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the server-wide "" entry.
const ServiceName = "product"

// ReadinessChecker reports whether the catalog can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthServer keeps the gRPC health status in line with the store's readiness.
type HealthServer struct {
	health   *health.Server
	checker  ReadinessChecker
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthServer(checker ReadinessChecker, interval time.Duration, logger *slog.Logger) *HealthServer {
	return &HealthServer{
		health:   health.NewServer(),
		checker:  checker,
		interval: interval,
		logger:   logger.With("component", "grpc_health"),
	}
}

// Register attaches the health service to s.
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Check runs one readiness probe and publishes the result.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	probeCtx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.checker.Ready(probeCtx); err != nil {
		h.logger.WarnContext(ctx, "readiness probe failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Run probes readiness immediately and then every interval until ctx is done.
// On exit every status is switched to NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			h.logger.Info("health probe stopped")
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown switches every status to NOT_SERVING and ignores later updates.
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
}
