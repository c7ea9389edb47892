// Package app contains the application setup for the products service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/products/internal/config"
	"github.com/abgdnv/products/internal/service"
	"github.com/abgdnv/products/internal/store"
	"github.com/abgdnv/products/internal/transport/rest"
	"github.com/abgdnv/products/pkg/messaging"
	"github.com/abgdnv/products/pkg/server"
	"github.com/abgdnv/products/pkg/telemetry"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// Metrics is nil when metrics are disabled.
	Metrics     *telemetry.Metrics
	MetricsPath string
}

func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	pService := service.NewService(productStore, publisher, logger)

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the routes and middleware of the products API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "products",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// wireRoutes sets up the HTTP routes for the products service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)

	if deps.Metrics != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.Metrics.Handler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the products service.
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

// SetupGrpcServer initializes the gRPC server that exposes the standard health service.
// The returned health server reports SERVING until the caller flips it on shutdown.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	grpcHealth := health.NewServer()
	grpcHealth.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpcServer := server.NewGRPCServer(deps.Logger, reflectionEnabled, server.HealthRegistration(grpcHealth))
	return grpcServer, grpcHealth
}
