// Package domain contains the routing facade: merging a pool-sourced quote
// with a listing-sourced price into one ranked best-price result.
package domain

import (
	"math/big"
	"time"
)

// RouteSource identifies where a route's price comes from.
type RouteSource string

const (
	// SourcePool routes execute against an automated liquidity pool.
	SourcePool RouteSource = "pool"

	// SourceListing routes execute against a signed peer-to-peer listing or
	// offer and need a counterparty.
	SourceListing RouteSource = "listing"
)

// TradeRoute is one execution path, normalized so pool and listing prices
// compare directly. Price is in wei; a nil or zero price marks the route as
// not viable.
type TradeRoute struct {
	Source RouteSource
	Price  *big.Int

	// Instant routes settle without waiting for a counterparty signature or
	// order match. Pool trades are instant; most listings are not.
	Instant bool

	// PoolID is set for pool routes, OrderID for listing routes.
	PoolID  string
	OrderID string

	// Expiration is the zero time when the route does not expire.
	Expiration time.Time
}

// Viable reports whether the route can actually be executed: it exists, has
// a positive price, and has not expired.
func (r *TradeRoute) Viable(now time.Time) bool {
	if r == nil || r.Price == nil || r.Price.Sign() <= 0 {
		return false
	}
	if !r.Expiration.IsZero() && !now.Before(r.Expiration) {
		return false
	}
	return true
}

// NoLiquidityRoute is the explicit "nothing to execute" sentinel: price zero,
// never nil. Callers present it as "no liquidity available", not as a free
// trade.
func NoLiquidityRoute() *TradeRoute {
	return &TradeRoute{Price: big.NewInt(0)}
}

// IsNoLiquidity reports whether the route is the no-liquidity sentinel.
func (r *TradeRoute) IsNoLiquidity() bool {
	return r == nil || r.Price == nil || r.Price.Sign() == 0
}

// BestPriceResult ranks the viable routes for one requested trade. BestPrice
// is never nil; when nothing is viable it holds the no-liquidity sentinel and
// Alternatives is empty.
type BestPriceResult struct {
	BestPrice    *TradeRoute
	Alternatives []*TradeRoute
}

// SelectBestRoute merges a pool route and a listing route into a ranked
// result. Lower price wins when buying, higher when selling. At equal prices
// an instant route beats one that needs a counterparty; if that still ties,
// the pool route wins. The losing viable route lands in Alternatives.
func SelectBestRoute(poolRoute, listingRoute *TradeRoute, buying bool, now time.Time) *BestPriceResult {
	poolViable := poolRoute.Viable(now)
	listingViable := listingRoute.Viable(now)

	switch {
	case !poolViable && !listingViable:
		return &BestPriceResult{BestPrice: NoLiquidityRoute()}
	case poolViable && !listingViable:
		return &BestPriceResult{BestPrice: poolRoute}
	case !poolViable && listingViable:
		return &BestPriceResult{BestPrice: listingRoute}
	}

	winner, loser := poolRoute, listingRoute
	cmp := poolRoute.Price.Cmp(listingRoute.Price)
	switch {
	case cmp == 0:
		if listingRoute.Instant && !poolRoute.Instant {
			winner, loser = listingRoute, poolRoute
		}
	case buying && cmp > 0, !buying && cmp < 0:
		winner, loser = listingRoute, poolRoute
	}

	return &BestPriceResult{
		BestPrice:    winner,
		Alternatives: []*TradeRoute{loser},
	}
}
