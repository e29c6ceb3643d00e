package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepo is the relational implementation of AuctionDB
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo wraps an opened and migrated gorm handle
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

func byAmountDesc(db *gorm.DB) *gorm.DB { return db.Order("amount DESC").Order("created_at ASC") }

func byCreatedAt(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

// CreateAuction stores the auction and its image references in one transaction
func (r *GormRepo) CreateAuction(ctx context.Context, auction *model.Auction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).Where("id = ?", auction.CategoryID).Count(&count).Error; err != nil {
			return fmt.Errorf("create auction %s: check category: %w", auction.ID, err)
		}
		if count == 0 {
			return fmt.Errorf("create auction %s: %w", auction.ID, biddingerrors.ErrCategoryNotFound)
		}

		if err := tx.Omit("Category", "Bids", "Comments").Create(auction).Error; err != nil {
			return fmt.Errorf("create auction %s: %w", auction.ID, err)
		}
		return nil
	})
}

// GetAuction returns an auction with its category, images, comments and full bid history
func (r *GormRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	var a model.Auction
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", byPosition).
		Preload("Bids", byAmountDesc).
		Preload("Comments", byCreatedAt).
		First(&a, "id = ?", auctionID).Error
	if err != nil {
		return model.Auction{}, notFound("get auction "+auctionID, err)
	}
	return a, nil
}

// ListAuctions returns auctions with their category and top bid, newest start first
func (r *GormRepo) ListAuctions(ctx context.Context, filter AuctionFilter) ([]model.Auction, error) {
	db := r.db.WithContext(ctx)
	q := db.Preload("Category").Preload("Images", byPosition)
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	var auctions []model.Auction
	if err := q.Order("start_time DESC").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	if err := attachTopBids(db, auctions); err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

// ListActiveAuctions returns auctions whose end time is after now
func (r *GormRepo) ListActiveAuctions(ctx context.Context, now time.Time) ([]model.Auction, error) {
	db := r.db.WithContext(ctx)

	var auctions []model.Auction
	err := db.Preload("Category").Preload("Images", byPosition).
		Where("end_time > ?", now).
		Order("start_time DESC").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("list active auctions: %w", err)
	}
	if err := attachTopBids(db, auctions); err != nil {
		return nil, fmt.Errorf("list active auctions: %w", err)
	}
	return auctions, nil
}

// DeleteAuction removes an auction and cascades its bids, comments and image rows
func (r *GormRepo) DeleteAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	var a model.Auction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Images", byPosition).First(&a, "id = ?", auctionID).Error; err != nil {
			return notFound("delete auction "+auctionID, err)
		}
		for _, child := range []any{&model.Bid{}, &model.Comment{}, &model.AuctionImage{}} {
			if err := tx.Where("auction_id = ?", auctionID).Delete(child).Error; err != nil {
				return fmt.Errorf("delete auction %s: cascade: %w", auctionID, err)
			}
		}
		if err := tx.Delete(&model.Auction{}, "id = ?", auctionID).Error; err != nil {
			return fmt.Errorf("delete auction %s: %w", auctionID, err)
		}
		return nil
	})
	if err != nil {
		return model.Auction{}, err
	}
	return a, nil
}

// RecordBid locks the auction row, reads the current top bid, decides and inserts
// inside one transaction. SQLite serializes writers itself and has no row locks.
func (r *GormRepo) RecordBid(ctx context.Context, auctionID string, decide BidDecision) (model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var a model.Auction
		if err := q.First(&a, "id = ?", auctionID).Error; err != nil {
			return notFound("record bid for auction "+auctionID, err)
		}

		highest, err := topBid(tx, auctionID)
		if err != nil {
			return fmt.Errorf("record bid for auction %s: %w", auctionID, err)
		}

		bid, err = decide(a, highest)
		if err != nil {
			return err
		}
		bid.AuctionID = auctionID

		if err := tx.Create(&bid).Error; err != nil {
			return fmt.Errorf("record bid for auction %s: %w", auctionID, err)
		}
		return nil
	})
	if err != nil {
		return model.Bid{}, err
	}
	return bid, nil
}

// GetBidsByAuction returns all bids for an auction, highest first
func (r *GormRepo) GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureAuction(db, auctionID); err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, err)
	}

	var bids []model.Bid
	if err := byAmountDesc(db.Where("auction_id = ?", auctionID)).Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an auction
func (r *GormRepo) GetWinningBid(ctx context.Context, auctionID string) (model.Bid, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureAuction(db, auctionID); err != nil {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, err)
	}

	top, err := topBid(db, auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, err)
	}
	if top == nil {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return *top, nil
}

// GetAuctionsByUser returns all auctions a user has bid on
func (r *GormRepo) GetAuctionsByUser(ctx context.Context, userID string) ([]model.Auction, error) {
	db := r.db.WithContext(ctx)

	bidOn := db.Model(&model.Bid{}).Select("auction_id").Where("user_id = ?", userID)

	var auctions []model.Auction
	err := db.Preload("Category").Preload("Images", byPosition).
		Where("id IN (?)", bidOn).
		Order("start_time DESC").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, err)
	}
	if len(auctions) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}
	if err := attachTopBids(db, auctions); err != nil {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, err)
	}
	return auctions, nil
}

// AddComment appends a comment to an existing auction
func (r *GormRepo) AddComment(ctx context.Context, comment *model.Comment) error {
	db := r.db.WithContext(ctx)
	if err := r.ensureAuction(db, comment.AuctionID); err != nil {
		return fmt.Errorf("add comment to auction %s: %w", comment.AuctionID, err)
	}
	if err := db.Create(comment).Error; err != nil {
		return fmt.Errorf("add comment to auction %s: %w", comment.AuctionID, err)
	}
	return nil
}

// CreateCategory stores a category with a unique name
func (r *GormRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return fmt.Errorf("create category %q: %w", category.Name, err)
	}
	if count > 0 {
		return fmt.Errorf("create category %q: %w - name already used", category.Name, biddingerrors.ErrValidation)
	}
	if err := db.Create(category).Error; err != nil {
		return fmt.Errorf("create category %q: %w", category.Name, err)
	}
	return nil
}

// GetCategory returns a single category
func (r *GormRepo) GetCategory(ctx context.Context, categoryID string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, biddingerrors.ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name
func (r *GormRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *GormRepo) ensureAuction(db *gorm.DB, auctionID string) error {
	var count int64
	if err := db.Model(&model.Auction{}).Where("id = ?", auctionID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return biddingerrors.ErrAuctionNotFound
	}
	return nil
}

// topBid returns nil when the auction has no bids yet
func topBid(db *gorm.DB, auctionID string) (*model.Bid, error) {
	var top model.Bid
	res := byAmountDesc(db.Where("auction_id = ?", auctionID)).Limit(1).Find(&top)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &top, nil
}

// attachTopBids sets Bids on each auction to a single element slice holding its top bid
func attachTopBids(db *gorm.DB, auctions []model.Auction) error {
	if len(auctions) == 0 {
		return nil
	}
	ids := make([]string, len(auctions))
	for i, a := range auctions {
		ids[i] = a.ID
	}

	var bids []model.Bid
	if err := byAmountDesc(db.Where("auction_id IN ?", ids)).Find(&bids).Error; err != nil {
		return err
	}

	top := make(map[string]model.Bid, len(auctions))
	for _, b := range bids {
		if _, seen := top[b.AuctionID]; !seen {
			top[b.AuctionID] = b
		}
	}
	for i := range auctions {
		auctions[i].Bids = nil
		if b, ok := top[auctions[i].ID]; ok {
			auctions[i].Bids = []model.Bid{b}
		}
	}
	return nil
}

func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, biddingerrors.ErrAuctionNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
