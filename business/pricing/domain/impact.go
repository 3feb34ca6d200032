package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PriceImpact returns the percentage the spot price would move if count items
// were traded against the pool: |spotAfter - spotBefore| / spotBefore * 100.
// When the quote is unavailable the impact is undefined; by convention this
// reports decimal zero rather than an error, so callers can render it
// unconditionally.
func PriceImpact(p *Pool, count int, buying bool) (decimal.Decimal, error) {
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
		return decimal.Zero, err
	}
	return QuoteImpact(q), nil
}

// QuoteImpact reports the spot move already carried by a computed quote.
func QuoteImpact(q *Quote) decimal.Decimal {
	if q == nil || !q.Available || q.SpotPriceBefore.Sign() == 0 {
		return decimal.Zero
	}

	diff := new(big.Int).Sub(q.SpotPriceAfter, q.SpotPriceBefore)
	diff.Abs(diff)

	return decimal.NewFromBigInt(diff, 0).
		Div(decimal.NewFromBigInt(q.SpotPriceBefore, 0)).
		Mul(decimal.NewFromInt(100))
}

// SlippageEstimate is the result of checking a trade's price impact against a
// caller-supplied tolerance.
type SlippageEstimate struct {
	Quote           *Quote
	ImpactPct       decimal.Decimal
	ImpactBps       decimal.Decimal
	MaxBps          int64
	WithinTolerance bool
}

// EstimateSlippage measures the price impact of the trade and reports whether
// it stays within maxBps. An unavailable quote yields zero impact and is
// considered within tolerance; callers must still check Quote.Available
// before acting on it.
func EstimateSlippage(p *Pool, count int, buying bool, maxBps int64) (*SlippageEstimate, error) {
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

	pct := QuoteImpact(q)
	bps := pct.Mul(decimal.NewFromInt(100))

	return &SlippageEstimate{
		Quote:           q,
		ImpactPct:       pct,
		ImpactBps:       bps,
		MaxBps:          maxBps,
		WithinTolerance: bps.LessThanOrEqual(decimal.NewFromInt(maxBps)),
	}, nil
}
