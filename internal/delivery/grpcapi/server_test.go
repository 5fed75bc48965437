package grpcapi

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/usecasetest"
)

func dialTestServer(t *testing.T, h *usecasetest.Harness) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewServer(NewEscrowHandler(h.Transactions, h.Disputes, h.Auctions))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("build struct: %v", err)
	}
	return s
}

func TestMarkPaidAndGetTransaction(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t, usecasetest.Options{})
	h.Users.AllVerified = true
	conn := dialTestServer(t, h)

	l := h.ActiveFixedListing(t, "seller-1", 100000)
	created, err := h.Transactions.CreateTransaction(ctx, &transactiondto.CreateTransactionInput{
		ListingID: l.ID,
		BuyerID:   "buyer-1",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	out, err := Invoke(ctx, conn, "MarkPaid", mustStruct(t, map[string]any{"invoice_id": created.Payment.ExternalInvoiceID}))
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got := out.GetFields()["status"].GetStringValue(); got != string(domain.StatusPaid) {
		t.Fatalf("status = %s, want PAID", got)
	}
	if got := out.GetFields()["seller_payout"].GetNumberValue(); got != 95000 {
		t.Fatalf("seller_payout = %v", got)
	}

	out, err = Invoke(ctx, conn, "GetTransaction", mustStruct(t, map[string]any{"transaction_id": created.Transaction.ID}))
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got := out.GetFields()["reference"].GetStringValue(); got != created.Transaction.Reference {
		t.Fatalf("reference = %s, want %s", got, created.Transaction.Reference)
	}
}

func TestInvokeErrorCodes(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t, usecasetest.Options{})
	conn := dialTestServer(t, h)

	tests := []struct {
		name   string
		method string
		req    map[string]any
		want   codes.Code
	}{
		{"missing argument", "MarkPaid", map[string]any{}, codes.InvalidArgument},
		{"unknown invoice", "MarkPaid", map[string]any{"invoice_id": "inv-missing"}, codes.NotFound},
		{"unknown transaction", "GetTransaction", map[string]any{"transaction_id": "missing"}, codes.NotFound},
		{"unknown auction", "CloseAuction", map[string]any{"listing_id": "missing"}, codes.NotFound},
		{"resolve without admin", "ResolveDispute", map[string]any{"dispute_id": "d-1"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Invoke(ctx, conn, tt.method, mustStruct(t, tt.req))
			if got := status.Code(err); got != tt.want {
				t.Fatalf("code = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{domain.NotFound(domain.CodeListingNotFound, "listing not found"), codes.NotFound},
		{domain.Forbidden(domain.CodeSelfPurchase, "own listing"), codes.PermissionDenied},
		{domain.Precondition(domain.CodeInvalidState, "bad state"), codes.FailedPrecondition},
		{domain.Conflict(domain.CodeListingReserved, "reserved", ""), codes.AlreadyExists},
		{domain.External("GATEWAY_FAILURE", "gateway down", errors.New("timeout")), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		st, _ := status.FromError(toStatus(tt.err))
		if st.Code() != tt.want {
			t.Fatalf("toStatus(%v) = %s, want %s", tt.err, st.Code(), tt.want)
		}
	}

	st, _ := status.FromError(toStatus(domain.Conflict(domain.CodeListingReserved, "reserved", "")))
	if st.Message() != domain.CodeListingReserved+": reserved" {
		t.Fatalf("message = %q", st.Message())
	}
}
