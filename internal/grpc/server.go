package grpcserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"todoApp/internal/auth"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// ServiceName is reported next to the overall ("") health status.
const ServiceName = "todoapp"

// Server is the gRPC listener. It carries the health service; every other
// unary method has to present a valid bearer token.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// New builds the server and marks it SERVING.
func New(tm *auth.TokenManager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(tm, log, healthCheckMethod)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Server{srv: srv, health: hs, log: log}
}

// Serve blocks on lis until the server stops.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc server listening", zap.String("address", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// Start listens on addr and serves in the background. The returned function
// shuts the server down.
func Start(addr string, tm *auth.TokenManager, log *zap.Logger) (*Server, func(context.Context) error, error) {
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	s := New(tm, log)
	go func() {
		if err := s.Serve(lis); err != nil {
			s.log.Error("grpc serve", zap.Error(err))
		}
	}()
	return s, s.Shutdown, nil
}

// Shutdown flips health to NOT_SERVING and stops gracefully, forcing the stop
// when ctx ends first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() { s.srv.GracefulStop(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}
