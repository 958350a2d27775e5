// Package grpcserver runs the guardian's gRPC endpoint: the standard health
// service plus reflection, every call passing through the gate.
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dmitrijs2005/tokenbridge/internal/guardian/gate"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

type GRPCServer struct {
	address string
	gate    *gate.GRPCGate
	health  *health.Server
	logger  logging.Logger
}

func NewGRPCServer(address string, g *gate.GRPCGate, l logging.Logger) *GRPCServer {
	return &GRPCServer{
		address: address,
		gate:    g,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.gate.UnaryInterceptor),
		grpc.ChainStreamInterceptor(s.gate.StreamInterceptor),
	)
	grpc_health_v1.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)
	return srv
}

// Run listens on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
