package bidding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-house/internal/biddingerrors"
	"auction-house/internal/imagestore"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"

	"github.com/shopspring/decimal"
)

// ActiveCache is the snapshot of open auctions that writers keep current
type ActiveCache interface {
	Rebuild(ctx context.Context) error
	Read(ctx context.Context) ([]models.Auction, error)
	Invalidate(ctx context.Context) error
}

// MaxAmountScale is the number of decimal places stored for money columns
const MaxAmountScale = 4

// exceedsScale reports whether d carries more decimal places than storage keeps
func exceedsScale(d decimal.Decimal) bool {
	return d.Exponent() < -MaxAmountScale && !d.Equal(d.Truncate(MaxAmountScale))
}

// NewImage references an already uploaded image
type NewImage struct {
	Key string
	URL string
}

// NewAuction carries the seller-submitted fields of an auction
type NewAuction struct {
	Title       string
	Description string
	StartingBid *decimal.Decimal
	StartTime   *time.Time
	EndTime     *time.Time
	CategoryID  string
	Images      []NewImage

	Era        string
	Origin     string
	Condition  string
	Provenance string
}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// WithActiveCache sets the snapshot rebuilt after every write
func WithActiveCache(c ActiveCache) Option {
	return func(s *BiddingService) { s.cache = c }
}

// WithImageStore sets the store images are removed from when an auction is deleted
func WithImageStore(store imagestore.ImageStore) Option {
	return func(s *BiddingService) { s.images = store }
}

// WithOwnerBidRule controls whether sellers may bid on their own auctions
func WithOwnerBidRule(enforce bool) Option {
	return func(s *BiddingService) { s.enforceOwnerRule = enforce }
}

// BiddingService defines the business logic for auctions and bidding
type BiddingService struct {
	repo             repository.AuctionDB
	cache            ActiveCache
	images           imagestore.ImageStore
	now              func() time.Time
	enforceOwnerRule bool
	locks            *keyedMutex
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:             repo,
		images:           imagestore.NopStore{},
		now:              func() time.Time { return time.Now().UTC() },
		enforceOwnerRule: true,
		locks:            newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates and records a user's bid on an auction.
// Bids on the same auction are accepted one at a time.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, userID string, amount *decimal.Decimal) (models.Bid, error) {
	if userID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - no user attached to bid", biddingerrors.ErrUnauthenticated)
	}
	if amount == nil {
		return models.Bid{}, fmt.Errorf("service: %w - missing bid amount", biddingerrors.ErrValidation)
	}
	if !amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrValidation)
	}
	if exceedsScale(*amount) {
		return models.Bid{}, fmt.Errorf("service: %w - bid amount has more than %d decimal places", biddingerrors.ErrValidation, MaxAmountScale)
	}
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing auction ID", biddingerrors.ErrValidation)
	}

	bid, err := s.recordBid(ctx, auctionID, userID, *amount)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid on auction %s by user %s: %w", auctionID, userID, err)
	}

	s.refreshActive(ctx, "bid placed", auctionID)
	return bid, nil
}

// recordBid validates and appends the bid while holding the auction's lock
func (s *BiddingService) recordBid(ctx context.Context, auctionID, userID string, amount decimal.Decimal) (models.Bid, error) {
	unlock := s.locks.Lock(auctionID)
	defer unlock()

	return s.repo.RecordBid(ctx, auctionID, func(auction models.Auction, highest *models.Bid) (models.Bid, error) {
		now := s.now()
		if err := ValidateBid(now, auction, highest, userID, amount, s.enforceOwnerRule); err != nil {
			return models.Bid{}, err
		}
		return models.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auction.ID,
			UserID:    userID,
			Amount:    amount,
			CreatedAt: now,
		}, nil
	})
}

// CreateAuction validates the submitted fields and stores a new auction owned by ownerID
func (s *BiddingService) CreateAuction(ctx context.Context, ownerID string, in NewAuction) (models.Auction, error) {
	if ownerID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - no user attached to request", biddingerrors.ErrUnauthenticated)
	}
	if err := validateNewAuction(in); err != nil {
		return models.Auction{}, err
	}

	now := s.now()
	auction := models.Auction{
		ID:          utils.GenerateID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartingBid: *in.StartingBid,
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		OwnerID:     ownerID,
		CategoryID:  in.CategoryID,
		Era:         in.Era,
		Origin:      in.Origin,
		Condition:   in.Condition,
		Provenance:  in.Provenance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, img := range in.Images {
		auction.Images = append(auction.Images, models.AuctionImage{
			ID:        utils.GenerateID(),
			AuctionID: auction.ID,
			Key:       img.Key,
			URL:       img.URL,
			Position:  i,
		})
	}

	if err := s.repo.CreateAuction(ctx, &auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction %q: %w", auction.Title, err)
	}

	s.refreshActive(ctx, "auction created", auction.ID)
	return auction, nil
}

func validateNewAuction(in NewAuction) error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if in.StartingBid == nil {
		missing = append(missing, "starting_bid")
	}
	if in.StartTime == nil {
		missing = append(missing, "start_time")
	}
	if in.EndTime == nil {
		missing = append(missing, "end_time")
	}
	if in.CategoryID == "" {
		missing = append(missing, "category_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("service: %w - missing required fields: %s", biddingerrors.ErrValidation, strings.Join(missing, ", "))
	}

	if in.StartingBid.IsNegative() {
		return fmt.Errorf("service: %w - starting bid must not be negative", biddingerrors.ErrValidation)
	}
	if exceedsScale(*in.StartingBid) {
		return fmt.Errorf("service: %w - starting bid has more than %d decimal places", biddingerrors.ErrValidation, MaxAmountScale)
	}
	if !in.StartTime.Before(*in.EndTime) {
		return fmt.Errorf("service: %w - start time must be before end time", biddingerrors.ErrValidation)
	}
	for i, img := range in.Images {
		if img.Key == "" {
			return fmt.Errorf("service: %w - image %d has no key", biddingerrors.ErrValidation, i)
		}
	}
	return nil
}

// DeleteAuction removes an auction owned by userID, its bids and comments, then
// its stored images. Image deletion is best effort.
func (s *BiddingService) DeleteAuction(ctx context.Context, userID, auctionID string) error {
	if userID == "" {
		return fmt.Errorf("service: %w - no user attached to request", biddingerrors.ErrUnauthenticated)
	}
	if auctionID == "" {
		return fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}

	existing, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to delete auction %s: %w", auctionID, err)
	}
	if existing.OwnerID != userID {
		return fmt.Errorf("service: %w - only the seller can delete auction %s", biddingerrors.ErrForbidden, auctionID)
	}

	deleted, err := s.repo.DeleteAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to delete auction %s: %w", auctionID, err)
	}

	for _, img := range deleted.Images {
		if err := s.images.Delete(ctx, img.Key); err != nil {
			utils.Warn("service: failed to delete auction image", map[string]any{
				"auction_id": auctionID,
				"key":        img.Key,
				"error":      err.Error(),
			})
		}
	}

	s.refreshActive(ctx, "auction deleted", auctionID)
	return nil
}

// GetAuction returns an auction with its full bid history, highest first
func (s *BiddingService) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns every auction with its top bid, optionally within one category
func (s *BiddingService) ListAuctions(ctx context.Context, categoryID string) ([]models.Auction, error) {
	auctions, err := s.repo.ListAuctions(ctx, repository.AuctionFilter{CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// GetActiveAuctions returns the open auctions, preferring the cached snapshot
func (s *BiddingService) GetActiveAuctions(ctx context.Context) ([]models.Auction, error) {
	if s.cache != nil {
		auctions, err := s.cache.Read(ctx)
		if err == nil {
			return auctions, nil
		}
		utils.Warn("service: active auctions cache read failed", map[string]any{"error": err.Error()})
	}

	auctions, err := s.repo.ListActiveAuctions(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("service: failed to list active auctions: %w", err)
	}
	return auctions, nil
}

// GetBidsForAuction returns all bids for a specific auction, highest first
func (s *BiddingService) GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}

	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}

	return bids, nil
}

// GetWinningBid returns the highest bid for a specific auction
func (s *BiddingService) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}

	return winningBid, nil
}

// GetAuctionsByUser returns all auctions a user has placed bids on
func (s *BiddingService) GetAuctionsByUser(ctx context.Context, userID string) ([]models.Auction, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrValidation)
	}

	auctions, err := s.repo.GetAuctionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", userID, err)
	}

	return auctions, nil
}

// AddComment posts a comment by userID on an auction
func (s *BiddingService) AddComment(ctx context.Context, userID, auctionID, body string) (models.Comment, error) {
	if userID == "" {
		return models.Comment{}, fmt.Errorf("service: %w - no user attached to request", biddingerrors.ErrUnauthenticated)
	}
	body = strings.TrimSpace(body)
	if auctionID == "" || body == "" {
		return models.Comment{}, fmt.Errorf("service: %w - missing auction ID or comment body", biddingerrors.ErrValidation)
	}

	comment := models.Comment{
		ID:        utils.GenerateID(),
		AuctionID: auctionID,
		UserID:    userID,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddComment(ctx, &comment); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to auction %s: %w", auctionID, err)
	}
	return comment, nil
}

// CreateCategory adds a catalog category
func (s *BiddingService) CreateCategory(ctx context.Context, userID, name string) (models.Category, error) {
	if userID == "" {
		return models.Category{}, fmt.Errorf("service: %w - no user attached to request", biddingerrors.ErrUnauthenticated)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("service: %w - empty category name", biddingerrors.ErrValidation)
	}

	category := models.Category{ID: utils.GenerateID(), Name: name, CreatedAt: s.now()}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return models.Category{}, fmt.Errorf("service: failed to create category %q: %w", name, err)
	}
	return category, nil
}

// ListCategories returns every catalog category
func (s *BiddingService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

// SeedCategories creates the named categories that do not exist yet
func (s *BiddingService) SeedCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := s.CreateCategory(ctx, "system", name)
		if err != nil && !errors.Is(err, biddingerrors.ErrValidation) {
			return err
		}
	}
	return nil
}

// refreshActive rebuilds the active-auction snapshot. When the rebuild fails the
// snapshot is dropped so the next read reloads from the repository. Failures are logged only.
func (s *BiddingService) refreshActive(ctx context.Context, reason, auctionID string) {
	if s.cache == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	err := s.cache.Rebuild(ctx)
	if err == nil {
		return
	}
	utils.Warn("service: active auctions cache rebuild failed", map[string]any{
		"reason":     reason,
		"auction_id": auctionID,
		"error":      err.Error(),
	})
	if err := s.cache.Invalidate(ctx); err != nil {
		utils.Error("service: stale active auctions snapshot could not be dropped", map[string]any{
			"reason":     reason,
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}
}
