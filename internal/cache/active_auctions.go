package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	model "auction-house/internal/models"
	"auction-house/utils"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// ActiveAuctionsKey is the well-known key of the open-auctions snapshot
const ActiveAuctionsKey = "auctions:active"

// ActiveSource loads the authoritative list of auctions ending after now
type ActiveSource interface {
	ListActiveAuctions(ctx context.Context, now time.Time) ([]model.Auction, error)
}

// ActiveAuctions is a derived, fully replaced snapshot of the open auctions.
// The snapshot has no TTL; writers must call Rebuild after every mutation.
type ActiveAuctions struct {
	store  Store
	source ActiveSource
	now    func() time.Time
	group  singleflight.Group

	// mu orders load-then-store cycles so a slower rebuild cannot overwrite a newer snapshot
	mu sync.Mutex
}

// NewActiveAuctions creates the snapshot cache. now defaults to time.Now in UTC.
func NewActiveAuctions(store Store, source ActiveSource, now func() time.Time) *ActiveAuctions {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ActiveAuctions{store: store, source: source, now: now}
}

// Rebuild recomputes the snapshot from the source and replaces the stored one
func (c *ActiveAuctions) Rebuild(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	auctions, err := c.source.ListActiveAuctions(ctx, c.now())
	if err != nil {
		return fmt.Errorf("cache: rebuild active auctions: %w", err)
	}
	if err := c.put(ctx, auctions); err != nil {
		return fmt.Errorf("cache: rebuild active auctions: %w", err)
	}
	utils.Debug("cache: active auctions rebuilt", map[string]any{"count": len(auctions)})
	return nil
}

// Read returns the cached snapshot. On a miss the source is queried and the
// snapshot populated; when the store itself fails the source is read directly.
func (c *ActiveAuctions) Read(ctx context.Context) ([]model.Auction, error) {
	blob, err := c.store.Get(ctx, ActiveAuctionsKey)
	switch {
	case err == nil:
		var auctions []model.Auction
		decodeErr := json.Unmarshal(blob, &auctions)
		if decodeErr == nil {
			return auctions, nil
		}
		utils.Warn("cache: discarding undecodable active auctions snapshot", map[string]any{"error": decodeErr.Error()})
	case errors.Is(err, ErrCacheMiss):
	default:
		utils.Warn("cache: store unavailable, reading active auctions from repository", map[string]any{"error": err.Error()})
		auctions, srcErr := c.source.ListActiveAuctions(ctx, c.now())
		if srcErr != nil {
			return nil, fmt.Errorf("cache: read active auctions: %w", srcErr)
		}
		return auctions, nil
	}

	v, err, _ := c.group.Do(ActiveAuctionsKey, func() (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		auctions, err := c.source.ListActiveAuctions(ctx, c.now())
		if err != nil {
			return nil, err
		}
		if err := c.put(ctx, auctions); err != nil {
			utils.Warn("cache: failed to populate active auctions snapshot", map[string]any{"error": err.Error()})
		}
		return auctions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache: read active auctions: %w", err)
	}
	return append([]model.Auction(nil), v.([]model.Auction)...), nil
}

// Invalidate drops the snapshot so the next Read repopulates it
func (c *ActiveAuctions) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, ActiveAuctionsKey); err != nil {
		return fmt.Errorf("cache: invalidate active auctions: %w", err)
	}
	return nil
}

func (c *ActiveAuctions) put(ctx context.Context, auctions []model.Auction) error {
	if auctions == nil {
		auctions = []model.Auction{}
	}
	blob, err := json.Marshal(auctions)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.store.Set(ctx, ActiveAuctionsKey, blob)
}
