// Package grpc is the gRPC transport for AuthService with the standard
// health service attached.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthInterval = 10 * time.Second

type GRPCServer struct {
	address string
	users   *services.UserService
	checker *services.HealthService
	logger  logging.Logger
	debug   bool
	steps   map[string]auth.Step
	health  *health.Server
}

// NewGRPCServer prepares a gRPC server listening on a. Me and GetUser run
// behind gate; debug adds DebugInfo details to internal errors.
func NewGRPCServer(a string, l logging.Logger, us *services.UserService, hs *services.HealthService, gate *auth.Gate, debug bool) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		checker: hs,
		debug:   debug,
		steps: map[string]auth.Step{
			rpc.MethodMe:      gate.Authenticate,
			rpc.MethodGetUser: auth.Chain(gate.Authenticate, auth.RequireAdmin()),
		},
		health: health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.recoveryInterceptor,
		s.loggingInterceptor,
		s.statusInterceptor,
		s.authInterceptor,
	))
	rpc.RegisterAuthServiceServer(srv, &handler{users: s.users})
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	if s.checker != nil {
		s.refreshHealth(ctx)
		go s.watchHealth(ctx)
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

func (s *GRPCServer) watchHealth(ctx context.Context) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshHealth(ctx)
		}
	}
}

// refreshHealth mirrors the store's reachability into the health service.
func (s *GRPCServer) refreshHealth(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if !s.checker.Check(ctx).Healthy() {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn(ctx, "database unreachable")
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(rpc.ServiceName, st)
}
