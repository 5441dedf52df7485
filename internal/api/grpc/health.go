// Package grpc serves the standard gRPC health protocol for orchestrators.
package grpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"storefront-library/internal/api/grpc/interceptor"
	"storefront-library/internal/logger"
)

// ServiceName is the health service name reported for the library API.
const ServiceName = "storefront.library.v1.Library"

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// HealthServer wraps a gRPC server exposing grpc.health.v1 and reflection.
// It starts NOT_SERVING until MarkServing is called.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

func NewHealthServer() *HealthServer {
	logging := interceptor.NewLoggingInterceptor(healthCheckMethod)
	s := grpc.NewServer(grpc.UnaryInterceptor(logging.Unary()))

	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, h)

	// Register reflection service for grpcurl
	reflection.Register(s)

	return &HealthServer{server: s, health: h}
}

func (s *HealthServer) MarkServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	logger.Info("Health status set", "status", "SERVING")
}

func (s *HealthServer) MarkNotServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	logger.Info("Health status set", "status", "NOT_SERVING")
}

// Serve blocks accepting connections on lis.
func (s *HealthServer) Serve(lis net.Listener) error {
	logger.Info("gRPC health server listening", "address", lis.Addr().String())
	return s.server.Serve(lis)
}

// Stop flips every service to NOT_SERVING and drains open calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// Checker exposes the health service for in-process callers.
func (s *HealthServer) Checker() healthpb.HealthServer {
	return s.health
}
