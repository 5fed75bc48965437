package disputedto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type DisputeOutput struct {
	Dispute     *domain.Dispute
	Transaction *domain.Transaction
	Evidence    []*domain.Evidence
}
