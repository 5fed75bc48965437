package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is, read the specific reason from *Error.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrConflict           = errors.New("conflict")
	ErrRateLimited        = errors.New("rate limited")
	ErrExternalFailure    = errors.New("external failure")
)

// Reason codes surfaced to API callers.
const (
	CodeListingNotFound       = "LISTING_NOT_FOUND"
	CodeTransactionNotFound   = "TRANSACTION_NOT_FOUND"
	CodePaymentNotFound       = "PAYMENT_NOT_FOUND"
	CodeDisputeNotFound       = "DISPUTE_NOT_FOUND"
	CodeNotParticipant        = "NOT_PARTICIPANT"
	CodeBuyerOnly             = "BUYER_ONLY"
	CodeSellerOnly            = "SELLER_ONLY"
	CodeAdminOnly             = "ADMIN_ONLY"
	CodeListingUnavailable    = "LISTING_UNAVAILABLE"
	CodeListingReserved       = "LISTING_RESERVED"
	CodePendingPaymentExists  = "PENDING_PAYMENT_EXISTS"
	CodeListingSold           = "LISTING_SOLD"
	CodeListingHasActiveTx    = "LISTING_HAS_ACTIVE_TRANSACTION"
	CodeKYCRequired           = "KYC_REQUIRED"
	CodeSelfPurchase          = "SELF_PURCHASE"
	CodeNotBuyable            = "NOT_BUYABLE"
	CodeInvalidState          = "INVALID_STATE"
	CodeInvalidListing        = "INVALID_LISTING"
	CodeNotAuction            = "NOT_AUCTION"
	CodeSelfBid               = "SELF_BID"
	CodeAuctionEnded          = "AUCTION_ENDED"
	CodeBidTooLow             = "BID_TOO_LOW"
	CodeAuctionHasBids        = "AUCTION_HAS_BIDS"
	CodeDisputeExists         = "DISPUTE_EXISTS"
	CodeDisputeWindowClosed   = "DISPUTE_WINDOW_CLOSED"
	CodeDisputeActive         = "DISPUTE_ACTIVE"
	CodeDisputeResolved       = "DISPUTE_RESOLVED"
	CodeEvidenceLimit         = "EVIDENCE_LIMIT"
	CodeInvalidResolution     = "INVALID_RESOLUTION"
	CodeInvalidRefundAmount   = "INVALID_REFUND_AMOUNT"
	CodeReviewExists          = "REVIEW_EXISTS"
	CodeInvalidRating         = "INVALID_RATING"
	CodeInvoiceFailed         = "INVOICE_FAILED"
	CodePaymentExpired        = "PAYMENT_EXPIRED"
	CodeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"
	CodeProfileUnavailable    = "PROFILE_UNAVAILABLE"
	CodeGatewayUnavailable    = "GATEWAY_UNAVAILABLE"
)

// Error is a rejected mutation with a specific, actionable reason.
// ResourceID points at an existing resource the caller should use instead
// (e.g. the buyer's own pending transaction).
type Error struct {
	Kind       error
	Code       string
	Message    string
	ResourceID string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func NotFound(code, msg string) *Error {
	return &Error{Kind: ErrNotFound, Code: code, Message: msg}
}

func Forbidden(code, msg string) *Error {
	return &Error{Kind: ErrForbidden, Code: code, Message: msg}
}

func Precondition(code, msg string) *Error {
	return &Error{Kind: ErrPreconditionFailed, Code: code, Message: msg}
}

func Conflict(code, msg, resourceID string) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: msg, ResourceID: resourceID}
}

func RateLimited(code, msg string) *Error {
	return &Error{Kind: ErrRateLimited, Code: code, Message: msg}
}

func External(code, msg string, err error) *Error {
	return &Error{Kind: ErrExternalFailure, Code: code, Message: msg, Err: err}
}

// ErrRecordNotFound is returned by repositories when a lookup matches nothing.
var ErrRecordNotFound = errors.New("record not found")

// AsError extracts the structured error, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns a short label for metrics and logs.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrExternalFailure):
		return "external_failure"
	default:
		return "internal"
	}
}
