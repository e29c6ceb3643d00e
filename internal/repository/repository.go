package repository

import (
	"context"
	"sort"
	"time"

	model "auction-house/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionFilter narrows ListAuctions
type AuctionFilter struct {
	CategoryID string
}

// BidDecision inspects the auction and its current highest bid (nil when none)
// and returns the bid to append, or an error to reject it.
type BidDecision func(auction model.Auction, highest *model.Bid) (model.Bid, error)

// AuctionDB defines the auction and bid storage interface
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction *model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctions(ctx context.Context, filter AuctionFilter) ([]model.Auction, error)
	ListActiveAuctions(ctx context.Context, now time.Time) ([]model.Auction, error)
	DeleteAuction(ctx context.Context, auctionID string) (model.Auction, error)

	// RecordBid runs decide and appends its bid atomically with respect to
	// every other RecordBid call on the same auction.
	RecordBid(ctx context.Context, auctionID string, decide BidDecision) (model.Bid, error)
	GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (model.Bid, error)
	GetAuctionsByUser(ctx context.Context, userID string) ([]model.Auction, error)

	AddComment(ctx context.Context, comment *model.Comment) error

	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, categoryID string) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// sortBidsDesc orders bids by amount descending. Equal amounts keep the earlier bid first.
func sortBidsDesc(bids []model.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if c := bids[i].Amount.Cmp(bids[j].Amount); c != 0 {
			return c > 0
		}
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})
}

// sortAuctionsByStartDesc orders auctions newest start first
func sortAuctionsByStartDesc(auctions []model.Auction) {
	sort.SliceStable(auctions, func(i, j int) bool {
		return auctions[i].StartTime.After(auctions[j].StartTime)
	})
}
