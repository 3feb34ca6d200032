package domain

import "math/big"

// CollectionLiquidity is the aggregate view of all pools for one collection.
// FloorPrice and BestOffer are raw spot figures for display; they are not
// simulated N-item quotes.
type CollectionLiquidity struct {
	PoolCount int

	// BuyablePools counts pools a user can buy from, SellablePools pools a
	// user can sell into.
	BuyablePools  int
	SellablePools int

	TotalNFTs   *big.Int
	TotalTokens *big.Int

	// FloorPrice is the lowest spot among buyable pools, nil when there are
	// none. BestOffer is the highest spot among sellable pools.
	FloorPrice *big.Int
	BestOffer  *big.Int
}

// HasBuyLiquidity reports whether any pool can sell items to users.
func (l *CollectionLiquidity) HasBuyLiquidity() bool {
	return l.BuyablePools > 0
}

// HasSellLiquidity reports whether any pool can buy items from users.
func (l *CollectionLiquidity) HasSellLiquidity() bool {
	return l.SellablePools > 0
}

// AggregateLiquidity folds a set of pool snapshots into collection-level
// liquidity stats. Sums use big integers; nothing truncates.
func AggregateLiquidity(pools []*Pool) *CollectionLiquidity {
	agg := &CollectionLiquidity{
		PoolCount:   len(pools),
		TotalNFTs:   new(big.Int),
		TotalTokens: new(big.Int),
	}

	for _, p := range pools {
		agg.TotalNFTs.Add(agg.TotalNFTs, new(big.Int).SetUint64(p.NFTBalance))
		if p.TokenBalance != nil {
			agg.TotalTokens.Add(agg.TotalTokens, p.TokenBalance)
		}

		if p.CanServeBuy() {
			agg.BuyablePools++
			if agg.FloorPrice == nil || p.SpotPrice.Cmp(agg.FloorPrice) < 0 {
				agg.FloorPrice = new(big.Int).Set(p.SpotPrice)
			}
		}
		if p.CanServeSell() {
			agg.SellablePools++
			if agg.BestOffer == nil || p.SpotPrice.Cmp(agg.BestOffer) > 0 {
				agg.BestOffer = new(big.Int).Set(p.SpotPrice)
			}
		}
	}

	return agg
}
