// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftswap/router/business/pricing/domain"
)

// PoolProvider supplies pool snapshots for a collection. Implementations own
// freshness: a snapshot is authoritative at call time and the service never
// re-fetches mid-computation.
type PoolProvider interface {
	// PoolsByCollection returns every known pool for the collection,
	// including inactive ones; the service filters.
	PoolsByCollection(ctx context.Context, collection common.Address) ([]*domain.Pool, error)
}

// LiquiditySnapshot pairs the aggregate view with the pools it was computed
// from, so callers can render per-pool detail without a second fetch.
type LiquiditySnapshot struct {
	Collection common.Address
	Aggregate  *domain.CollectionLiquidity
	Pools      []*domain.Pool
}
