package grpcapi

import (
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// toStatus maps the error taxonomy onto gRPC codes, keeping the reason code
// as the message prefix.
func toStatus(err error) error {
	de, ok := domain.AsError(err)
	if !ok {
		slog.Error("internal grpc error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, domain.ErrPreconditionFailed):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrConflict):
		code = codes.AlreadyExists
	case errors.Is(err, domain.ErrRateLimited):
		code = codes.ResourceExhausted
	case errors.Is(err, domain.ErrExternalFailure):
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Errorf(code, "%s: %s", de.Code, de.Message)
}
