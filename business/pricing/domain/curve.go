package domain

import (
	"math/big"

	"github.com/nftswap/router/internal/apperror"
	"github.com/nftswap/router/internal/asset"
)

// The curve walk is a deliberate per-unit loop, not a closed-form sum: fee
// and rounding behavior must match unit-by-unit settlement exactly, flooring
// after every division. A closed form could round differently.

// CalculateBuyPrice simulates buying count items from the pool, stepping the
// price one unit at a time. Liquidity shortfalls come back as unavailable
// quotes; only malformed inputs produce an error.
func CalculateBuyPrice(p *Pool, count int) (*Quote, error) {
	if err := validateTrade(p, count); err != nil {
		return nil, err
	}
	if uint64(count) > p.NFTBalance {
		return unavailableQuote(p, count, ReasonInsufficientLiquidity), nil
	}

	var (
		total     = new(big.Int)
		spot      = new(big.Int).Set(p.SpotPrice)
		spotAfter *big.Int
	)

	switch p.Curve {
	case CurveLinear:
		for i := 0; i < count; i++ {
			total.Add(total, spot)
			spot = new(big.Int).Add(spot, p.Delta)
		}
		spotAfter = spot

	case CurveExponential:
		delta := p.Delta.Uint64()
		for i := 0; i < count; i++ {
			total.Add(total, spot)
			spot = asset.ScaleUpBps(spot, delta)
		}
		spotAfter = spot

	case CurveXYK:
		nft := p.NFTBalance
		token := new(big.Int).Set(p.TokenBalance)
		for i := 0; i < count; i++ {
			if nft <= 1 {
				// Buying the last item would divide by zero reserves.
				return unavailableQuote(p, count, ReasonCannotEmptyPool), nil
			}
			k := new(big.Int).Mul(new(big.Int).SetUint64(nft), token)
			nft--
			newToken := new(big.Int).Div(k, new(big.Int).SetUint64(nft))
			unit := new(big.Int).Sub(newToken, token)
			total.Add(total, unit)
			token = newToken
			// XYK has no persistent step; the spot is whatever the last
			// unit cost given the reserves.
			spotAfter = unit
		}

	default:
		return nil, apperror.Validation(apperror.CodeUnsupportedCurveType, string(p.Curve))
	}

	fee := asset.FeeOf(total, p.FeeBps)
	totalWithFee := new(big.Int).Add(total, fee)

	return &Quote{
		PoolID:          p.ID,
		Curve:           p.Curve,
		Count:           count,
		TotalPrice:      totalWithFee,
		PricePerItem:    new(big.Int).Div(totalWithFee, big.NewInt(int64(count))),
		FeeAmount:       fee,
		SpotPriceBefore: new(big.Int).Set(p.SpotPrice),
		SpotPriceAfter:  spotAfter,
		Available:       true,
	}, nil
}

// CalculateSellPrice simulates selling count items into the pool. The fee is
// subtracted from the seller's proceeds, so TotalPrice is what the seller
// actually receives. A pool is never asked to pay out more than it holds:
// the pre-fee total is checked against reserves after the walk.
func CalculateSellPrice(p *Pool, count int) (*Quote, error) {
	if err := validateTrade(p, count); err != nil {
		return nil, err
	}

	// Fast-path rejection on an obviously underfunded pool. The precise
	// check against the simulated total happens below.
	rough := new(big.Int).Mul(p.SpotPrice, big.NewInt(int64(count)))
	if p.TokenBalance.Cmp(rough) < 0 {
		return unavailableQuote(p, count, ReasonInsufficientTokenBalance), nil
	}

	var (
		total     = new(big.Int)
		spot      = new(big.Int).Set(p.SpotPrice)
		spotAfter *big.Int
	)

	switch p.Curve {
	case CurveLinear:
		// Price cannot go negative: the spot is clamped once per step and
		// the unit price reads the clamped value.
		for i := 0; i < count; i++ {
			total.Add(total, spot)
			spot = new(big.Int).Sub(spot, p.Delta)
			if spot.Sign() < 0 {
				spot.SetInt64(0)
			}
		}
		spotAfter = spot

	case CurveExponential:
		delta := p.Delta.Uint64()
		for i := 0; i < count; i++ {
			total.Add(total, spot)
			spot = asset.ScaleDownBps(spot, delta)
		}
		spotAfter = spot

	case CurveXYK:
		nft := p.NFTBalance
		token := new(big.Int).Set(p.TokenBalance)
		for i := 0; i < count; i++ {
			k := new(big.Int).Mul(new(big.Int).SetUint64(nft), token)
			nft++
			newToken := new(big.Int).Div(k, new(big.Int).SetUint64(nft))
			unit := new(big.Int).Sub(token, newToken)
			total.Add(total, unit)
			token = newToken
			spotAfter = unit
		}

	default:
		return nil, apperror.Validation(apperror.CodeUnsupportedCurveType, string(p.Curve))
	}

	if p.TokenBalance.Cmp(total) < 0 {
		return unavailableQuote(p, count, ReasonInsufficientTokenBalance), nil
	}

	fee := asset.FeeOf(total, p.FeeBps)
	net := new(big.Int).Sub(total, fee)

	return &Quote{
		PoolID:          p.ID,
		Curve:           p.Curve,
		Count:           count,
		TotalPrice:      net,
		PricePerItem:    new(big.Int).Div(net, big.NewInt(int64(count))),
		FeeAmount:       fee,
		SpotPriceBefore: new(big.Int).Set(p.SpotPrice),
		SpotPriceAfter:  spotAfter,
		Available:       true,
	}, nil
}

// validateTrade rejects contract faults common to both directions.
func validateTrade(p *Pool, count int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if count <= 0 {
		return apperror.Validation(apperror.CodeInvalidItemCount, "count must be > 0")
	}
	return nil
}
