package disputedto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type OpenDisputeInput struct {
	TransactionID string
	BuyerID       string
	Category      domain.DisputeCategory
	Description   string
}

type AddEvidenceInput struct {
	DisputeID  string
	UploaderID string
	FileURL    string
	FileType   string
	Note       string
}

type ResolveDisputeInput struct {
	DisputeID    string
	AdminID      string
	Resolution   domain.DisputeResolution
	RefundAmount int64
	Note         string
	IsAdmin      bool
}
