package reviewdto

type CreateReviewInput struct {
	TransactionID string
	ReviewerID    string
	Rating        int
	Comment       string
}
