package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a random v4 UUID used for auctions, bids, comments and categories
func GenerateID() string {
	return uuid.NewString()
}
