// Package app wires the product catalog: store selection, HTTP and gRPC servers.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/service"
	"github.com/abgdnv/productcatalog/internal/store"
	grpcImpl "github.com/abgdnv/productcatalog/internal/transport/grpc"
	"github.com/abgdnv/productcatalog/internal/transport/rest"
	"github.com/abgdnv/productcatalog/pkg/bootstrap"
	pconfig "github.com/abgdnv/productcatalog/pkg/config"
	"github.com/abgdnv/productcatalog/pkg/metrics"
	"github.com/abgdnv/productcatalog/pkg/server"
	"github.com/abgdnv/productcatalog/pkg/telemetry"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics
	// Tracing wraps the HTTP handler and gRPC server with OpenTelemetry instrumentation.
	Tracing bool
}

func SetupDependencies(productStore store.ProductStore, logger *slog.Logger, m *metrics.Metrics) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(productStore),
		Logger:         logger,
		Metrics:        m,
	}
}

// NewStore builds the store selected by cfg.Store.Driver and wraps it with metrics when m is set.
// The returned close function releases the database pool, if any.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (store.ProductStore, func(), error) {
	var (
		productStore store.ProductStore
		closeFn      = func() {}
	)

	switch cfg.Store.Driver {
	case pconfig.StoreDriverPostgres:
		if cfg.Database.Migrate {
			if err := store.Migrate(cfg.Database.URL); err != nil {
				return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		productStore = store.NewPgStore(dbPool)
		if cfg.Breaker.Enabled {
			productStore = store.NewBreakerStore(productStore, cfg.Breaker, logger)
		}
		closeFn = dbPool.Close
	default:
		var seed []store.Product
		if cfg.Store.Seed {
			seed = store.SeedProducts()
		}
		productStore = store.NewInMemoryStore(seed...)
		logger.Info("Using in-memory product store", "seeded", len(seed))
	}

	if m != nil {
		productStore = store.NewInstrumentedStore(productStore, m, cfg.Store.Driver)
	}
	return productStore, closeFn, nil
}

// SetupHttpHandler builds the router with all product routes and, when enabled, /metrics.
// Used by tests to exercise the full HTTP stack without a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	var extra []func(http.Handler) http.Handler
	if deps.Metrics != nil {
		extra = append(extra, deps.Metrics.Middleware)
	}
	if deps.Tracing {
		extra = append(extra, telemetry.RouteSpanNamer)
	}
	mux := server.NewChiRouter(deps.Logger, extra...)
	wireRoutes(mux, deps)
	if deps.Tracing {
		return otelhttp.NewHandler(mux, "http.server")
	}
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
}

// SetupHttpServer creates and configures the HTTP server for the catalog.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer creates the gRPC server carrying the health service.
// The caller runs the returned HealthServer to keep its status current.
func SetupGrpcServer(deps *Dependencies, cfg *config.Config) (*grpc.Server, *grpcImpl.HealthServer) {
	healthServer := grpcImpl.NewHealthServer(deps.ProductService, cfg.GRPC.HealthInterval, deps.Logger)
	var opts []grpc.ServerOption
	if deps.Tracing {
		opts = append(opts, grpc.StatsHandler(otelgrpc.NewServerHandler()))
	}
	return server.NewGRPCServer(cfg.GRPC.ReflectionEnabled, opts, healthServer.Register), healthServer
}
