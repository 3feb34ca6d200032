// Package domain contains the core domain types for the pricing context:
// pool snapshots, bonding curve quoting, and collection liquidity. Everything
// here is pure computation over immutable inputs; the package performs no I/O
// and holds no state between calls.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftswap/router/internal/apperror"
)

// CurveType identifies the bonding curve a pool prices trades with.
type CurveType string

const (
	// CurveLinear adds Delta to the spot price per unit traded.
	CurveLinear CurveType = "LINEAR"

	// CurveExponential scales the spot price by Delta basis points per unit.
	CurveExponential CurveType = "EXPONENTIAL"

	// CurveXYK derives prices from reserves, holding nft*token constant.
	// Delta is unused; the step is implicit in the reserve ratio.
	CurveXYK CurveType = "XYK"
)

// TradeType denotes which directions a pool accepts.
type TradeType string

const (
	// TradeTypeBuy pools buy items from users (users sell into them).
	TradeTypeBuy TradeType = "BUY"

	// TradeTypeSell pools sell items to users (users buy from them).
	TradeTypeSell TradeType = "SELL"

	// TradeTypeTrade pools accept both directions.
	TradeTypeTrade TradeType = "TRADE"
)

// Pool is an immutable snapshot of one liquidity pool's on-chain state, as
// supplied by the pool data collaborator. The engine trusts its integer
// fields as authoritative at call time and never mutates them.
type Pool struct {
	ID         string
	Collection common.Address
	Curve      CurveType
	TradeType  TradeType

	// SpotPrice is the wei price of the next single-item trade.
	SpotPrice *big.Int

	// Delta is the curve step: additive wei for LINEAR, basis points for
	// EXPONENTIAL, ignored for XYK.
	Delta *big.Int

	// FeeBps is the pool fee on trade notional, in basis points.
	FeeBps uint64

	// NFTBalance is the number of items the pool currently holds.
	NFTBalance uint64

	// TokenBalance is the pool's wei reserves.
	TokenBalance *big.Int

	// Active pools are tradeable. Inactive pools are expected to be filtered
	// out by the caller; the engine does not re-check beyond balances.
	Active bool
}

// CanServeBuy reports whether a user could buy items from this pool.
func (p *Pool) CanServeBuy() bool {
	return (p.TradeType == TradeTypeSell || p.TradeType == TradeTypeTrade) && p.NFTBalance > 0
}

// CanServeSell reports whether a user could sell items into this pool.
func (p *Pool) CanServeSell() bool {
	return (p.TradeType == TradeTypeBuy || p.TradeType == TradeTypeTrade) &&
		p.TokenBalance != nil && p.TokenBalance.Sign() > 0
}

// Validate checks the snapshot for contract faults: nil or negative integer
// fields and unknown enum values. A pool that fails validation indicates a
// data-source bug, not an illiquid market.
func (p *Pool) Validate() error {
	if p == nil {
		return apperror.Validation(apperror.CodeInvalidPoolState, "nil pool")
	}
	if p.SpotPrice == nil || p.SpotPrice.Sign() < 0 {
		return apperror.Validation(apperror.CodeNegativeBalance, "spotPrice")
	}
	if p.TokenBalance == nil || p.TokenBalance.Sign() < 0 {
		return apperror.Validation(apperror.CodeNegativeBalance, "tokenBalance")
	}
	switch p.Curve {
	case CurveLinear, CurveExponential:
		if p.Delta == nil || p.Delta.Sign() < 0 {
			return apperror.Validation(apperror.CodeNegativeBalance, "delta")
		}
	case CurveXYK:
		// Delta unused.
	default:
		return apperror.Validation(apperror.CodeUnsupportedCurveType, string(p.Curve))
	}
	switch p.TradeType {
	case TradeTypeBuy, TradeTypeSell, TradeTypeTrade:
	default:
		return apperror.Validation(apperror.CodeInvalidPoolState, "tradeType "+string(p.TradeType))
	}
	return nil
}
