package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	auctions     map[string]model.Auction   // key: auctionID -> value: auction without relations
	bids         map[string][]model.Bid     // key: auctionID -> value: bids in arrival order
	comments     map[string][]model.Comment // key: auctionID -> value: comments in arrival order
	categories   map[string]model.Category  // key: categoryID -> value: category
	userAuctions map[string][]string        // key: userID -> value: list of auctionIDs user has bid on
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:     make(map[string]model.Auction),
		bids:         make(map[string][]model.Bid),
		comments:     make(map[string][]model.Comment),
		categories:   make(map[string]model.Category),
		userAuctions: make(map[string][]string),
	}
}

// CreateAuction stores a new auction. The category must already exist.
func (r *MemoryRepo) CreateAuction(_ context.Context, auction *model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[auction.CategoryID]; !ok {
		return fmt.Errorf("create auction %s: %w", auction.ID, biddingerrors.ErrCategoryNotFound)
	}

	stored := *auction
	stored.Images = append([]model.AuctionImage(nil), auction.Images...)
	stored.Category, stored.Bids, stored.Comments = nil, nil, nil
	r.auctions[stored.ID] = stored
	return nil
}

// GetAuction returns an auction with its category, images, comments and full bid history
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	a = r.withCategory(a)
	a.Images = append([]model.AuctionImage(nil), a.Images...)
	a.Bids = append([]model.Bid(nil), r.bids[auctionID]...)
	sortBidsDesc(a.Bids)
	a.Comments = append([]model.Comment(nil), r.comments[auctionID]...)
	return a, nil
}

// ListAuctions returns auctions with their category and top bid, newest start first
func (r *MemoryRepo) ListAuctions(_ context.Context, filter AuctionFilter) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.summaries(func(a model.Auction) bool {
		return filter.CategoryID == "" || a.CategoryID == filter.CategoryID
	}), nil
}

// ListActiveAuctions returns auctions whose end time is after now
func (r *MemoryRepo) ListActiveAuctions(_ context.Context, now time.Time) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.summaries(func(a model.Auction) bool {
		return a.EndTime.After(now)
	}), nil
}

// DeleteAuction removes an auction together with its bids and comments
func (r *MemoryRepo) DeleteAuction(_ context.Context, auctionID string) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("delete auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	for _, b := range r.bids[auctionID] {
		r.userAuctions[b.UserID] = removeID(r.userAuctions[b.UserID], auctionID)
		if len(r.userAuctions[b.UserID]) == 0 {
			delete(r.userAuctions, b.UserID)
		}
	}
	delete(r.bids, auctionID)
	delete(r.comments, auctionID)
	delete(r.auctions, auctionID)

	return a, nil
}

// RecordBid decides on and appends a bid while holding the write lock
func (r *MemoryRepo) RecordBid(_ context.Context, auctionID string, decide BidDecision) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return model.Bid{}, fmt.Errorf("record bid for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	bid, err := decide(a, r.highest(auctionID))
	if err != nil {
		return model.Bid{}, err
	}
	bid.AuctionID = auctionID

	r.bids[auctionID] = append(r.bids[auctionID], bid)

	for _, id := range r.userAuctions[bid.UserID] {
		if id == auctionID {
			return bid, nil
		}
	}
	r.userAuctions[bid.UserID] = append(r.userAuctions[bid.UserID], auctionID)

	return bid, nil
}

// GetBidsByAuction returns all bids for an auction, highest first
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	bids := r.bids[auctionID]
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	out := append([]model.Bid(nil), bids...)
	sortBidsDesc(out)
	return out, nil
}

// GetWinningBid returns the highest bid for an auction
func (r *MemoryRepo) GetWinningBid(_ context.Context, auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	winning := r.highest(auctionID)
	if winning == nil {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return *winning, nil
}

// GetAuctionsByUser returns all auctions a user has bid on, newest start first
func (r *MemoryRepo) GetAuctionsByUser(_ context.Context, userID string) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctionIDs, ok := r.userAuctions[userID]
	if !ok || len(auctionIDs) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}

	auctions := make([]model.Auction, 0, len(auctionIDs))
	for _, id := range auctionIDs {
		if a, exists := r.auctions[id]; exists {
			auctions = append(auctions, r.summary(a))
		}
	}
	sortAuctionsByStartDesc(auctions)
	return auctions, nil
}

// AddComment appends a comment to an existing auction
func (r *MemoryRepo) AddComment(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[comment.AuctionID]; !ok {
		return fmt.Errorf("add comment to auction %s: %w", comment.AuctionID, biddingerrors.ErrAuctionNotFound)
	}
	r.comments[comment.AuctionID] = append(r.comments[comment.AuctionID], *comment)
	return nil
}

// CreateCategory stores a category
func (r *MemoryRepo) CreateCategory(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Name == category.Name {
			return fmt.Errorf("create category %q: %w - name already used", category.Name, biddingerrors.ErrValidation)
		}
	}
	r.categories[category.ID] = *category
	return nil
}

// GetCategory returns a single category
func (r *MemoryRepo) GetCategory(_ context.Context, categoryID string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[categoryID]
	if !ok {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, biddingerrors.ErrCategoryNotFound)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name
func (r *MemoryRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddAuction adds an auction without category checks. This method is intended for tests only.
func (r *MemoryRepo) AddAuction(auction model.Auction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	auction.Category, auction.Bids, auction.Comments = nil, nil, nil
	r.auctions[auction.ID] = auction
}

// highest returns the current top bid; callers hold r.mu
func (r *MemoryRepo) highest(auctionID string) *model.Bid {
	bids := r.bids[auctionID]
	if len(bids) == 0 {
		return nil
	}
	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) || (b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return &winning
}

func (r *MemoryRepo) withCategory(a model.Auction) model.Auction {
	if c, ok := r.categories[a.CategoryID]; ok {
		a.Category = &c
	}
	return a
}

// summary attaches the category and only the top bid
func (r *MemoryRepo) summary(a model.Auction) model.Auction {
	a = r.withCategory(a)
	a.Images = append([]model.AuctionImage(nil), a.Images...)
	a.Bids = nil
	if top := r.highest(a.ID); top != nil {
		a.Bids = []model.Bid{*top}
	}
	return a
}

func (r *MemoryRepo) summaries(keep func(model.Auction) bool) []model.Auction {
	out := make([]model.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		if keep(a) {
			out = append(out, r.summary(a))
		}
	}
	sortAuctionsByStartDesc(out)
	return out
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
