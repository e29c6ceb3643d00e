package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNoBids           = errors.New("no bids found for auction")
	ErrUserNoBids       = errors.New("user has not placed any bids")
)

// business logic errors
var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrValidation        = errors.New("validation error")
	ErrAuctionNotStarted = errors.New("auction has not started")
	ErrAuctionEnded      = errors.New("auction has ended")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrOwnerBid          = errors.New("owners cannot bid on their own auction")
	ErrForbidden         = errors.New("operation not permitted")
)
