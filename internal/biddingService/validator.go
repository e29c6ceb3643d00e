package bidding

import (
	"fmt"
	"time"

	"auction-house/internal/biddingerrors"
	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// ValidateBid applies the timing, owner and price rules to a bid proposed at now.
// highest is the auction's current top bid, nil when nobody has bid yet.
// Any amount strictly above the top bid is accepted; there is no minimum increment.
func ValidateBid(now time.Time, auction models.Auction, highest *models.Bid, userID string, amount decimal.Decimal, enforceOwnerRule bool) error {
	switch auction.Status(now) {
	case models.StatusPending:
		return fmt.Errorf("%w - opens at %s", biddingerrors.ErrAuctionNotStarted, auction.StartTime.UTC().Format(time.RFC3339))
	case models.StatusClosed:
		return fmt.Errorf("%w - closed at %s", biddingerrors.ErrAuctionEnded, auction.EndTime.UTC().Format(time.RFC3339))
	}

	if enforceOwnerRule && auction.OwnerID == userID {
		return biddingerrors.ErrOwnerBid
	}

	if highest != nil {
		if !amount.GreaterThan(highest.Amount) {
			return fmt.Errorf("%w - current highest bid is %s", biddingerrors.ErrBidTooLow, highest.Amount.StringFixed(2))
		}
		return nil
	}

	if amount.LessThan(auction.StartingBid) {
		return fmt.Errorf("%w - starting bid is %s", biddingerrors.ErrBidTooLow, auction.StartingBid.StringFixed(2))
	}
	return nil
}
