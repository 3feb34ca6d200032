package domain

import "github.com/ethereum/go-ethereum/common"

// ListingEvent is one pushed best-order change for a collection.
type ListingEvent struct {
	Collection common.Address
	Route      *TradeRoute
	Buying     bool // true when the update is for the ask side
}
