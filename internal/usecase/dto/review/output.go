package reviewdto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type ReviewOutput struct {
	Review *domain.Review
	Rating *domain.UserRating
}
