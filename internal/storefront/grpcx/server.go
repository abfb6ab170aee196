// Package grpcx hosts the storefront's gRPC surface: the standard health
// service, instrumented with OTel and the request-id interceptor.
package grpcx

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
)

// ServiceName is the health entry reported alongside the overall "" entry.
const ServiceName = "storefront.v1.Storefront"

type Server struct {
	*grpc.Server
	health *health.Server
}

func NewServer() *Server {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor()),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Server{Server: s, health: h}
}

// SetServing flips the storefront entry, e.g. when a dependency goes away.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
}

// Stop reports NOT_SERVING everywhere, then drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
