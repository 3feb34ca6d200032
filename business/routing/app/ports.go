// Package app contains the routing application service and its ports.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	pricing "github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/business/routing/domain"
)

// QuoteSource supplies the best pool quote for a trade. The pricing service
// satisfies this; tests plug in fakes.
type QuoteSource interface {
	// BestQuote returns nil with a nil error when no pool can serve the
	// trade.
	BestQuote(ctx context.Context, collection common.Address, count int, buying bool) (*pricing.Quote, error)
}

// ListingProvider supplies the best peer-to-peer listing or offer for a
// collection, already normalized to a TradeRoute in the same unit system.
type ListingProvider interface {
	// BestListing returns nil with a nil error when no listing exists.
	BestListing(ctx context.Context, collection common.Address, buying bool) (*domain.TradeRoute, error)
}

// ListingStream streams best-order changes pushed by the order book.
type ListingStream interface {
	Start(ctx context.Context) error
	Updates() <-chan domain.ListingEvent
	Close() error
}

// Reporter defines the interface for publishing routing results to a display.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportRoute publishes a route selection.
	ReportRoute(collection common.Address, count int, buying bool, result *domain.BestPriceResult)

	// ReportLadder publishes a freshly computed quote ladder for one side.
	ReportLadder(collection common.Address, buying bool, ladder []*pricing.Quote)

	// ReportLiquidity publishes aggregated collection liquidity.
	ReportLiquidity(collection common.Address, liquidity *pricing.CollectionLiquidity)

	// ReportListing publishes a pushed best-order change.
	ReportListing(event domain.ListingEvent)

	// ReportError publishes a non-fatal error.
	ReportError(err error)

	// UpdateConnectionStatus updates a connection status display.
	UpdateConnectionStatus(name string, connected bool)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
