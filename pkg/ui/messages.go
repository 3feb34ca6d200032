// Package ui provides the Bubble Tea TUI for the routing dashboard.
package ui

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nftswap/router/pkg/ui/components"
)

// Message types for TUI updates

// RouteMsg is sent when a route decision is made.
// All values are pre-formatted by the caller - the UI does not calculate anything.
type RouteMsg struct {
	Collection string
	Buying     bool
	Count      int
	Price      decimal.Decimal
	Source     string // "pool", "listing" or "none"
	Instant    bool
}

// LadderMsg carries the quote ladder for a collection.
type LadderMsg struct {
	Collection string
	Buying     bool
	Rows       []components.QuoteRow
}

// LiquidityMsg carries aggregated liquidity for a collection.
type LiquidityMsg struct {
	Collection string
	Stats      components.LiquidityStats
}

// ListingMsg is sent when the orderbook feed pushes a fresh listing.
type ListingMsg struct {
	Collection string
	Price      decimal.Decimal
	Side       string // "ask" or "bid"
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
