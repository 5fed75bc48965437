package memory

import (
	"context"
	"sort"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type listingRepo struct{ with access }

func (r *listingRepo) Create(_ context.Context, l *domain.Listing) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.listings[l.ID]; ok {
			return errDuplicate("listing", l.ID)
		}
		st.listings[l.ID] = *l
		return nil
	})
}

func (r *listingRepo) Get(_ context.Context, id string) (*domain.Listing, error) {
	var out *domain.Listing
	err := r.with(false, func(st *state) error {
		l, ok := st.listings[id]
		if !ok {
			return domain.ErrRecordNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *listingRepo) GetForUpdate(ctx context.Context, id string) (*domain.Listing, error) {
	return r.Get(ctx, id)
}

func (r *listingRepo) Update(_ context.Context, l *domain.Listing) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.listings[l.ID]; !ok {
			return domain.ErrRecordNotFound
		}
		st.listings[l.ID] = *l
		return nil
	})
}

func (r *listingRepo) FindEndedAuctions(_ context.Context, now time.Time, limit int) ([]*domain.Listing, error) {
	var out []*domain.Listing
	err := r.with(false, func(st *state) error {
		for _, l := range st.listings {
			if l.IsAuction() && l.Status == domain.ListingActive && l.AuctionEnded(now) {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AuctionEndsAt.Before(out[j].AuctionEndsAt) })
	return truncate(out, limit), err
}

type bidRepo struct{ with access }

func (r *bidRepo) Create(_ context.Context, b *domain.Bid) error {
	return r.with(true, func(st *state) error {
		st.bids = append(st.bids, *b)
		return nil
	})
}

func (r *bidRepo) Highest(_ context.Context, listingID string) (*domain.Bid, error) {
	var out *domain.Bid
	err := r.with(false, func(st *state) error {
		for _, b := range st.bids {
			if b.ListingID != listingID {
				continue
			}
			if out == nil || b.Amount > out.Amount {
				b := b
				out = &b
			}
		}
		if out == nil {
			return domain.ErrRecordNotFound
		}
		return nil
	})
	return out, err
}

func (r *bidRepo) ListByListing(_ context.Context, listingID string) ([]*domain.Bid, error) {
	var out []*domain.Bid
	err := r.with(false, func(st *state) error {
		for _, b := range st.bids {
			if b.ListingID == listingID {
				b := b
				out = append(out, &b)
			}
		}
		return nil
	})
	return out, err
}

func (r *bidRepo) CountByListing(ctx context.Context, listingID string) (int64, error) {
	bids, err := r.ListByListing(ctx, listingID)
	return int64(len(bids)), err
}

type transactionRepo struct{ with access }

func (r *transactionRepo) Create(_ context.Context, tx *domain.Transaction) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.transactions[tx.ID]; ok {
			return errDuplicate("transaction", tx.ID)
		}
		st.transactions[tx.ID] = *tx
		st.txOrder = append(st.txOrder, tx.ID)
		return nil
	})
}

func (r *transactionRepo) Get(_ context.Context, id string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.with(false, func(st *state) error {
		tx, ok := st.transactions[id]
		if !ok {
			return domain.ErrRecordNotFound
		}
		out = &tx
		return nil
	})
	return out, err
}

func (r *transactionRepo) GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.Get(ctx, id)
}

func (r *transactionRepo) Update(_ context.Context, tx *domain.Transaction) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.transactions[tx.ID]; !ok {
			return domain.ErrRecordNotFound
		}
		st.transactions[tx.ID] = *tx
		return nil
	})
}

func (r *transactionRepo) FindActiveByListing(_ context.Context, listingID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.with(false, func(st *state) error {
		for _, id := range st.txOrder {
			tx := st.transactions[id]
			if tx.ListingID == listingID && tx.Status.HoldsListing() {
				out = &tx
				return nil
			}
		}
		return domain.ErrRecordNotFound
	})
	return out, err
}

func (r *transactionRepo) FindOverdueVerification(_ context.Context, now time.Time, limit int) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	err := r.with(false, func(st *state) error {
		for _, id := range st.txOrder {
			tx := st.transactions[id]
			if tx.Status == domain.StatusItemTransferred && tx.IsVerificationExpired(now) {
				out = append(out, &tx)
			}
		}
		return nil
	})
	return truncate(out, limit), err
}

func (r *transactionRepo) List(_ context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int64, error) {
	var matched []*domain.Transaction
	err := r.with(false, func(st *state) error {
		for i := len(st.txOrder) - 1; i >= 0; i-- {
			tx := st.transactions[st.txOrder[i]]
			if filter.UserID != "" && !tx.IsParticipant(filter.UserID) {
				continue
			}
			if filter.Status != "" && tx.Status != filter.Status {
				continue
			}
			matched = append(matched, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start < 0 || start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type paymentRepo struct{ with access }

func (r *paymentRepo) Create(_ context.Context, p *domain.Payment) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.payments[p.ID]; ok {
			return errDuplicate("payment", p.ID)
		}
		st.payments[p.ID] = *p
		st.paymentOrder = append(st.paymentOrder, p.ID)
		return nil
	})
}

func (r *paymentRepo) Get(_ context.Context, id string) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.with(false, func(st *state) error {
		p, ok := st.payments[id]
		if !ok {
			return domain.ErrRecordNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *paymentRepo) GetByInvoiceID(_ context.Context, invoiceID string) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.with(false, func(st *state) error {
		for _, p := range st.payments {
			if p.ExternalInvoiceID == invoiceID {
				out = &p
				return nil
			}
		}
		return domain.ErrRecordNotFound
	})
	return out, err
}

func (r *paymentRepo) GetForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	return r.Get(ctx, id)
}

func (r *paymentRepo) Update(_ context.Context, p *domain.Payment) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.payments[p.ID]; !ok {
			return domain.ErrRecordNotFound
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r *paymentRepo) ListByTransaction(_ context.Context, transactionID string) ([]*domain.Payment, error) {
	return r.filter(0, func(p domain.Payment) bool { return p.TransactionID == transactionID })
}

func (r *paymentRepo) FindExpired(_ context.Context, now time.Time, limit int) ([]*domain.Payment, error) {
	return r.filter(limit, func(p domain.Payment) bool {
		return p.Status == domain.PaymentPending && !now.Before(p.ExpiresAt)
	})
}

func (r *paymentRepo) ListPending(_ context.Context, limit int) ([]*domain.Payment, error) {
	return r.filter(limit, func(p domain.Payment) bool { return p.Status == domain.PaymentPending })
}

func (r *paymentRepo) filter(limit int, match func(domain.Payment) bool) ([]*domain.Payment, error) {
	var out []*domain.Payment
	err := r.with(false, func(st *state) error {
		for _, id := range st.paymentOrder {
			p := st.payments[id]
			if match(p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	return truncate(out, limit), err
}

type payoutRepo struct{ with access }

func (r *payoutRepo) Create(_ context.Context, p *domain.Payout) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.payouts[p.TransactionID]; ok {
			return errDuplicate("payout for transaction", p.TransactionID)
		}
		st.payouts[p.TransactionID] = *p
		return nil
	})
}

func (r *payoutRepo) GetByTransaction(_ context.Context, transactionID string) (*domain.Payout, error) {
	var out *domain.Payout
	err := r.with(false, func(st *state) error {
		p, ok := st.payouts[transactionID]
		if !ok {
			return domain.ErrRecordNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

type disputeRepo struct{ with access }

func (r *disputeRepo) Create(_ context.Context, d *domain.Dispute) error {
	return r.with(true, func(st *state) error {
		for _, existing := range st.disputes {
			if existing.TransactionID == d.TransactionID {
				return errDuplicate("dispute for transaction", d.TransactionID)
			}
		}
		st.disputes[d.ID] = *d
		return nil
	})
}

func (r *disputeRepo) Get(_ context.Context, id string) (*domain.Dispute, error) {
	var out *domain.Dispute
	err := r.with(false, func(st *state) error {
		d, ok := st.disputes[id]
		if !ok {
			return domain.ErrRecordNotFound
		}
		out = &d
		return nil
	})
	return out, err
}

func (r *disputeRepo) GetForUpdate(ctx context.Context, id string) (*domain.Dispute, error) {
	return r.Get(ctx, id)
}

func (r *disputeRepo) GetByTransaction(_ context.Context, transactionID string) (*domain.Dispute, error) {
	var out *domain.Dispute
	err := r.with(false, func(st *state) error {
		for _, d := range st.disputes {
			if d.TransactionID == transactionID {
				out = &d
				return nil
			}
		}
		return domain.ErrRecordNotFound
	})
	return out, err
}

func (r *disputeRepo) Update(_ context.Context, d *domain.Dispute) error {
	return r.with(true, func(st *state) error {
		if _, ok := st.disputes[d.ID]; !ok {
			return domain.ErrRecordNotFound
		}
		st.disputes[d.ID] = *d
		return nil
	})
}

type evidenceRepo struct{ with access }

func (r *evidenceRepo) Create(_ context.Context, e *domain.Evidence) error {
	return r.with(true, func(st *state) error {
		st.evidence = append(st.evidence, *e)
		return nil
	})
}

func (r *evidenceRepo) CountByUploader(_ context.Context, disputeID, uploaderID string) (int64, error) {
	var n int64
	err := r.with(false, func(st *state) error {
		for _, e := range st.evidence {
			if e.DisputeID == disputeID && e.UploaderID == uploaderID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *evidenceRepo) ListByDispute(_ context.Context, disputeID string) ([]*domain.Evidence, error) {
	var out []*domain.Evidence
	err := r.with(false, func(st *state) error {
		for _, e := range st.evidence {
			if e.DisputeID == disputeID {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, err
}

type reviewRepo struct{ with access }

func (r *reviewRepo) Create(_ context.Context, rv *domain.Review) error {
	return r.with(true, func(st *state) error {
		st.reviews = append(st.reviews, *rv)
		return nil
	})
}

func (r *reviewRepo) Exists(_ context.Context, transactionID, reviewerID string) (bool, error) {
	var found bool
	err := r.with(false, func(st *state) error {
		for _, rv := range st.reviews {
			if rv.TransactionID == transactionID && rv.ReviewerID == reviewerID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *reviewRepo) ListByReviewee(_ context.Context, revieweeID string) ([]*domain.Review, error) {
	var out []*domain.Review
	err := r.with(false, func(st *state) error {
		for _, rv := range st.reviews {
			if rv.RevieweeID == revieweeID {
				rv := rv
				out = append(out, &rv)
			}
		}
		return nil
	})
	return out, err
}

type ratingRepo struct{ with access }

func (r *ratingRepo) Get(_ context.Context, userID string) (*domain.UserRating, error) {
	out := &domain.UserRating{UserID: userID}
	err := r.with(false, func(st *state) error {
		if rating, ok := st.ratings[userID]; ok {
			*out = rating
		}
		return nil
	})
	return out, err
}

func (r *ratingRepo) AddRating(_ context.Context, userID string, rating int, now time.Time) (*domain.UserRating, error) {
	var out domain.UserRating
	err := r.with(true, func(st *state) error {
		current, ok := st.ratings[userID]
		if !ok {
			current = domain.UserRating{UserID: userID}
		}
		current.Add(rating, now)
		st.ratings[userID] = current
		out = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type auditRepo struct{ with access }

func (r *auditRepo) Append(_ context.Context, entries ...domain.AuditEntry) error {
	return r.with(true, func(st *state) error {
		st.audit = append(st.audit, entries...)
		return nil
	})
}

func (r *auditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	err := r.with(false, func(st *state) error {
		for _, e := range st.audit {
			if e.EntityType == entityType && e.EntityID == entityID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
