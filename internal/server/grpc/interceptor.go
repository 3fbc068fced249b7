package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authInterceptor runs the auth steps registered for the called method.
func (s *GRPCServer) authInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	step, ok := s.steps[info.FullMethod]
	if !ok {
		return handler(ctx, req)
	}

	var authorization string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			authorization = values[0]
		}
	}

	ctx, err := step(ctx, authorization)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

// statusInterceptor turns rejections into gRPC statuses.
func (s *GRPCServer) statusInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		if _, isStatus := status.FromError(err); !isStatus {
			ce := common.Internal(err)
			if ce.Kind == common.KindInternal {
				s.logger.Error(ctx, "call failed", "method", info.FullMethod, "error", err)
			}
		}
		return nil, rpc.ToStatus(err, s.debug)
	}
	return resp, nil
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "call",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic: %v", r)
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "error", cause)
			resp, err = nil, rpc.ToStatus(common.Internal(cause), s.debug)
		}
	}()
	return handler(ctx, req)
}
