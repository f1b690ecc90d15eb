package diagnostics

import (
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	pb "github.com/oshokin/alert-router/internal/pb/v1"
)

// ServiceName is the fully qualified name reported by the health service.
const ServiceName = "alertrouter.v1.Diagnostics"

// NewGRPCServer builds a gRPC server exposing srv, the standard health service
// and Prometheus interceptors. The health server starts as SERVING.
func NewGRPCServer(srv pb.DiagnosticsServer, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	grpc_prometheus.EnableHandlingTimeHistogram()

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(grpc_prometheus.UnaryServerInterceptor),
		grpc.ChainStreamInterceptor(grpc_prometheus.StreamServerInterceptor),
	}
	serverOpts = append(serverOpts, opts...)

	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterDiagnosticsServer(grpcServer, srv)
	grpc_prometheus.Register(grpcServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}
