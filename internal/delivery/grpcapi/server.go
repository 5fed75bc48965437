package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "escrow.internal.v1.EscrowInternal"

// NewServer builds the internal gRPC server with the escrow service and the
// standard health service registered.
func NewServer(handler *EscrowHandler) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor))
	Register(srv, handler)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	return srv, healthSrv
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	started := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Warn("grpc call failed", "method", info.FullMethod, "duration_ms", time.Since(started).Milliseconds(), "error", err)
	} else {
		slog.Debug("grpc call", "method", info.FullMethod, "duration_ms", time.Since(started).Milliseconds())
	}
	return resp, err
}
