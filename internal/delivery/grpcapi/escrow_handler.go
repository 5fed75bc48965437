package grpcapi

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/auction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	auctiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/auction"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/transaction"
)

type EscrowHandler struct {
	transactions transaction.TransactionUsecase
	disputes     dispute.DisputeUsecase
	auctions     auction.AuctionUsecase
}

func NewEscrowHandler(
	transactions transaction.TransactionUsecase,
	disputes dispute.DisputeUsecase,
	auctions auction.AuctionUsecase,
) *EscrowHandler {
	return &EscrowHandler{
		transactions: transactions,
		disputes:     disputes,
		auctions:     auctions,
	}
}

// MarkPaid accepts either payment_id or invoice_id.
func (h *EscrowHandler) MarkPaid(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var (
		out *transactiondto.TransactionOutput
		err error
	)
	switch paymentID, invoiceID := stringField(req, "payment_id"), stringField(req, "invoice_id"); {
	case paymentID != "":
		out, err = h.transactions.MarkPaid(ctx, paymentID)
	case invoiceID != "":
		out, err = h.transactions.MarkPaidByInvoice(ctx, invoiceID)
	default:
		return nil, status.Error(codes.InvalidArgument, "payment_id or invoice_id is required")
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return transactionStruct(out.Transaction, out.Payment)
}

func (h *EscrowHandler) ExpirePayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var (
		out *transactiondto.TransactionOutput
		err error
	)
	switch paymentID, invoiceID := stringField(req, "payment_id"), stringField(req, "invoice_id"); {
	case paymentID != "":
		out, err = h.transactions.ExpirePayment(ctx, paymentID)
	case invoiceID != "":
		out, err = h.transactions.ExpirePaymentByInvoice(ctx, invoiceID)
	default:
		return nil, status.Error(codes.InvalidArgument, "payment_id or invoice_id is required")
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return transactionStruct(out.Transaction, out.Payment)
}

func (h *EscrowHandler) ResolveDispute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	disputeID := stringField(req, "dispute_id")
	adminID := stringField(req, "admin_id")
	if disputeID == "" || adminID == "" {
		return nil, status.Error(codes.InvalidArgument, "dispute_id and admin_id are required")
	}
	out, err := h.disputes.ResolveDispute(ctx, &disputedto.ResolveDisputeInput{
		DisputeID:    disputeID,
		AdminID:      adminID,
		Resolution:   domain.DisputeResolution(stringField(req, "resolution")),
		RefundAmount: int64(numberField(req, "refund_amount")),
		Note:         stringField(req, "note"),
		IsAdmin:      true,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"dispute_id":     out.Dispute.ID,
		"status":         string(out.Dispute.Status),
		"resolution":     string(out.Dispute.Resolution),
		"refund_amount":  out.Dispute.RefundAmount,
		"transaction_id": out.Transaction.ID,
		"tx_status":      string(out.Transaction.Status),
	})
}

// CloseAuction closes as the system actor.
func (h *EscrowHandler) CloseAuction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	listingID := stringField(req, "listing_id")
	if listingID == "" {
		return nil, status.Error(codes.InvalidArgument, "listing_id is required")
	}
	out, err := h.auctions.CloseAuction(ctx, &auctiondto.CloseAuctionInput{ListingID: listingID, ActorID: domain.SystemActor})
	if err != nil {
		return nil, toStatus(err)
	}
	fields := map[string]any{
		"listing_id":     out.Listing.ID,
		"listing_status": string(out.Listing.Status),
		"sold":           out.Sold(),
	}
	if out.Sold() {
		fields["transaction_id"] = out.Transaction.ID
		fields["winning_bid"] = out.WinningBid.Amount
		fields["winner_id"] = out.WinningBid.BidderID
	}
	return structpb.NewStruct(fields)
}

func (h *EscrowHandler) GetTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	transactionID := stringField(req, "transaction_id")
	if transactionID == "" {
		return nil, status.Error(codes.InvalidArgument, "transaction_id is required")
	}
	out, err := h.transactions.GetTransaction(ctx, transactionID, "", true)
	if err != nil {
		return nil, toStatus(err)
	}
	return transactionStruct(out.Transaction, out.Payment)
}

func stringField(s *structpb.Struct, name string) string {
	if v, ok := s.GetFields()[name]; ok {
		return v.GetStringValue()
	}
	return ""
}

func numberField(s *structpb.Struct, name string) float64 {
	if v, ok := s.GetFields()[name]; ok {
		return v.GetNumberValue()
	}
	return 0
}

func transactionStruct(tx *domain.Transaction, p *domain.Payment) (*structpb.Struct, error) {
	fields := map[string]any{
		"transaction_id":     tx.ID,
		"reference":          tx.Reference,
		"listing_id":         tx.ListingID,
		"buyer_id":           tx.BuyerID,
		"seller_id":          tx.SellerID,
		"status":             string(tx.Status),
		"transaction_amount": tx.Amount,
		"platform_fee":       tx.PlatformFee,
		"seller_payout":      tx.SellerPayout,
	}
	if tx.VerificationDeadline != nil {
		fields["verification_deadline"] = tx.VerificationDeadline.Format(time.RFC3339)
	}
	if p != nil {
		fields["payment_id"] = p.ID
		fields["payment_status"] = string(p.Status)
		fields["invoice_url"] = p.InvoiceURL
	}
	return structpb.NewStruct(fields)
}
