package domain

import "math/big"

// Infeasibility reasons carried on unavailable quotes. These are expected
// business outcomes, not errors; callers branch on Quote.Available.
const (
	ReasonInsufficientLiquidity    = "insufficient liquidity"
	ReasonCannotEmptyPool          = "cannot empty pool"
	ReasonInsufficientTokenBalance = "insufficient pool token balance"
)

// Quote is a priced, feasibility-checked answer to "what would count items
// cost against this pool right now". All amounts are wei-scale big integers.
type Quote struct {
	PoolID string
	Curve  CurveType
	Count  int

	// TotalPrice is the whole-trade price: fee-inclusive for buys (what the
	// buyer pays), net of fee for sells (what the seller receives).
	TotalPrice *big.Int

	// PricePerItem is TotalPrice / Count, floored.
	PricePerItem *big.Int

	// FeeAmount is the pool fee on the pre-fee notional.
	FeeAmount *big.Int

	SpotPriceBefore *big.Int
	SpotPriceAfter  *big.Int

	// Available is false when the pool cannot serve the trade; Reason then
	// explains why and all amounts are zero.
	Available bool
	Reason    string
}

// unavailableQuote builds the canonical infeasible quote: zero amounts, the
// pool's current spot echoed on both sides.
func unavailableQuote(p *Pool, count int, reason string) *Quote {
	return &Quote{
		PoolID:          p.ID,
		Curve:           p.Curve,
		Count:           count,
		TotalPrice:      big.NewInt(0),
		PricePerItem:    big.NewInt(0),
		FeeAmount:       big.NewInt(0),
		SpotPriceBefore: new(big.Int).Set(p.SpotPrice),
		SpotPriceAfter:  new(big.Int).Set(p.SpotPrice),
		Available:       false,
		Reason:          reason,
	}
}

// CompareQuotes returns the better of two quotes for the given direction:
// lower TotalPrice wins when buying, higher wins when selling. An unavailable
// (or nil) quote always loses to the other, even if the other is also
// unavailable; callers must still check Available on the result. Ties prefer
// the first argument.
func CompareQuotes(a, b *Quote, buying bool) *Quote {
	if a == nil || !a.Available {
		return b
	}
	if b == nil || !b.Available {
		return a
	}

	cmp := a.TotalPrice.Cmp(b.TotalPrice)
	if buying {
		if cmp <= 0 {
			return a
		}
		return b
	}
	if cmp >= 0 {
		return a
	}
	return b
}

// BestQuoteFromPools quotes every pool for the requested trade and returns
// the single best available quote, or nil when no pool can serve it. A nil
// result is the expected "no liquidity" outcome, not an error; errors are
// reserved for contract faults in the inputs.
func BestQuoteFromPools(pools []*Pool, count int, buying bool) (*Quote, error) {
	var best *Quote
	for _, p := range pools {
		var (
			q   *Quote
			err error
		)
		if buying {
			q, err = CalculateBuyPrice(p, count)
		} else {
			q, err = CalculateSellPrice(p, count)
		}
		if err != nil {
			return nil, err
		}
		if !q.Available {
			continue
		}
		best = CompareQuotes(best, q, buying)
	}
	return best, nil
}
