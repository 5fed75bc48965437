package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// EscrowInternalService is called by trusted back-office services. Payloads
// are google.protobuf.Struct so callers need no generated stubs.
type EscrowInternalService interface {
	MarkPaid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExpirePayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveDispute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseAuction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(EscrowInternalService, context.Context, *structpb.Struct) (*structpb.Struct, error)

func Register(server grpc.ServiceRegistrar, svc EscrowInternalService) {
	methods := map[string]unaryMethod{
		"MarkPaid":       EscrowInternalService.MarkPaid,
		"ExpirePayment":  EscrowInternalService.ExpirePayment,
		"ResolveDispute": EscrowInternalService.ResolveDispute,
		"CloseAuction":   EscrowInternalService.CloseAuction,
		"GetTransaction": EscrowInternalService.GetTransaction,
	}
	desc := &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*EscrowInternalService)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "escrow/internal/v1/escrow_internal.proto",
	}
	for _, name := range []string{"MarkPaid", "ExpirePayment", "ResolveDispute", "CloseAuction", "GetTransaction"} {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unaryHandler(name, methods[name]),
		})
	}
	server.RegisterService(desc, svc)
}

func unaryHandler(name string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		svc := srv.(EscrowInternalService)
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(svc, ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + serviceName + "/" + name,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(svc, ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

// Invoke calls one EscrowInternal method on conn.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, method string, req *structpb.Struct) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, "/"+serviceName+"/"+method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}
