package helpers

import (
	"time"

	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type BidResponse struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at"`
}

type ImageRequest struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type CreateAuctionRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Images      []ImageRequest   `json:"images"`
	StartingBid *decimal.Decimal `json:"starting_bid"`
	StartTime   *time.Time       `json:"start_time"`
	EndTime     *time.Time       `json:"end_time"`
	CategoryID  string           `json:"category_id"`
	Era         string           `json:"era"`
	Origin      string           `json:"origin"`
	Condition   string           `json:"condition"`
	Provenance  string           `json:"provenance"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type OwnerSummary struct {
	UserID string `json:"user_id"`
}

// AuctionResponse is an auction plus the fields derived at read time
type AuctionResponse struct {
	models.Auction
	Status     models.AuctionStatus `json:"status"`
	CurrentBid *decimal.Decimal     `json:"current_bid,omitempty"`
	Owner      OwnerSummary         `json:"owner"`
}

// NewBidResponse formats a bid for the API
func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewAuctionResponse derives status and current price at now
func NewAuctionResponse(a models.Auction, now time.Time) AuctionResponse {
	resp := AuctionResponse{
		Auction: a,
		Status:  a.Status(now),
		Owner:   OwnerSummary{UserID: a.OwnerID},
	}
	if top := a.TopBid(); top != nil {
		amount := top.Amount
		resp.CurrentBid = &amount
	}
	return resp
}

// NewAuctionResponses maps a list, never returning nil
func NewAuctionResponses(auctions []models.Auction, now time.Time) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, NewAuctionResponse(a, now))
	}
	return out
}
