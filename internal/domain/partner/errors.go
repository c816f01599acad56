package partner

import "errors"

var (
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrPartnerBlocked      = errors.New("partner is blocked for this client")
	ErrInvalidAvailability = errors.New("invalid availability status")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)
