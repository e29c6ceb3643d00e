package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is derived from the wall clock, never stored
type AuctionStatus string

const (
	StatusPending AuctionStatus = "pending"
	StatusOpen    AuctionStatus = "open"
	StatusClosed  AuctionStatus = "closed"
)

// Category groups auctions in the catalog
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Auction represents a time-bounded listing accepting competitive bids
type Auction struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	StartingBid decimal.Decimal `json:"starting_bid" gorm:"type:decimal(20,4);not null"`
	StartTime   time.Time       `json:"start_time" gorm:"index;not null"`
	EndTime     time.Time       `json:"end_time" gorm:"index;not null"`
	OwnerID     string          `json:"owner_id" gorm:"size:64;index;not null"`
	CategoryID  string          `json:"category_id" gorm:"size:36;index;not null"`

	// free-form provenance/condition metadata
	Era        string `json:"era,omitempty" gorm:"size:128"`
	Origin     string `json:"origin,omitempty" gorm:"size:128"`
	Condition  string `json:"condition,omitempty" gorm:"size:128"`
	Provenance string `json:"provenance,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []AuctionImage `json:"images,omitempty" gorm:"foreignKey:AuctionID"`
	Bids     []Bid          `json:"bids,omitempty" gorm:"foreignKey:AuctionID"`
	Comments []Comment      `json:"comments,omitempty" gorm:"foreignKey:AuctionID"`
}

// Status reports where now falls relative to the [StartTime, EndTime) window
func (a Auction) Status(now time.Time) AuctionStatus {
	switch {
	case now.Before(a.StartTime):
		return StatusPending
	case now.Before(a.EndTime):
		return StatusOpen
	default:
		return StatusClosed
	}
}

// IsActive reports whether the auction is open at now
func (a Auction) IsActive(now time.Time) bool {
	return a.Status(now) == StatusOpen
}

// TopBid returns the first bid attached to the auction, if any.
// Repositories attach bids ordered by amount descending.
func (a Auction) TopBid() *Bid {
	if len(a.Bids) == 0 {
		return nil
	}
	b := a.Bids[0]
	return &b
}

// AuctionImage references an object kept in the external image store
type AuctionImage struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	AuctionID string `json:"auction_id" gorm:"size:36;index;not null"`
	Key       string `json:"key" gorm:"size:512;not null"`
	URL       string `json:"url" gorm:"type:text"`
	Position  int    `json:"position"`
}

// Bid represents a user's offer on an auction. Bids are never edited.
type Bid struct {
	BidID     string          `json:"bid_id" gorm:"column:id;primaryKey;size:36"`
	AuctionID string          `json:"auction_id" gorm:"size:36;index;not null"`
	UserID    string          `json:"user_id" gorm:"size:64;index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// Comment is a public remark left on an auction page
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	AuctionID string    `json:"auction_id" gorm:"size:36;index;not null"`
	UserID    string    `json:"user_id" gorm:"size:64;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
