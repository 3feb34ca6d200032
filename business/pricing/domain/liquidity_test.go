package domain

import (
	"math/big"
	"testing"
)

func TestAggregateLiquidity(t *testing.T) {
	sellSide := linearPool(500, 10, 0, 3, 1_000) // users buy from it
	sellSide.TradeType = TradeTypeSell
	buySide := linearPool(480, 10, 0, 0, 9_000) // users sell into it
	buySide.TradeType = TradeTypeBuy
	both := linearPool(450, 10, 0, 2, 5_000)
	both.TradeType = TradeTypeTrade

	agg := AggregateLiquidity([]*Pool{sellSide, buySide, both})

	if agg.PoolCount != 3 {
		t.Errorf("PoolCount = %d, want 3", agg.PoolCount)
	}
	if agg.BuyablePools != 2 {
		t.Errorf("BuyablePools = %d, want 2", agg.BuyablePools)
	}
	if agg.SellablePools != 2 {
		t.Errorf("SellablePools = %d, want 2", agg.SellablePools)
	}
	if got := agg.TotalNFTs.Int64(); got != 5 {
		t.Errorf("TotalNFTs = %d, want 5", got)
	}
	if got := agg.TotalTokens.Int64(); got != 15_000 {
		t.Errorf("TotalTokens = %d, want 15000", got)
	}
	if got := agg.FloorPrice.Int64(); got != 450 {
		t.Errorf("FloorPrice = %d, want 450", got)
	}
	if got := agg.BestOffer.Int64(); got != 480 {
		t.Errorf("BestOffer = %d, want 480", got)
	}
	if !agg.HasBuyLiquidity() || !agg.HasSellLiquidity() {
		t.Error("expected liquidity on both sides")
	}
}

func TestAggregateLiquidity_EmptyPoolsExcludedFromFloor(t *testing.T) {
	// A SELL pool with no items cannot serve buys; its spot must not set
	// the floor.
	empty := linearPool(100, 10, 0, 0, 0)
	empty.TradeType = TradeTypeSell
	stocked := linearPool(500, 10, 0, 1, 0)
	stocked.TradeType = TradeTypeSell

	agg := AggregateLiquidity([]*Pool{empty, stocked})

	if agg.BuyablePools != 1 {
		t.Errorf("BuyablePools = %d, want 1", agg.BuyablePools)
	}
	if got := agg.FloorPrice.Int64(); got != 500 {
		t.Errorf("FloorPrice = %d, want 500", got)
	}
	if agg.BestOffer != nil {
		t.Errorf("BestOffer = %s, want nil", agg.BestOffer)
	}
}

func TestAggregateLiquidity_NoPools(t *testing.T) {
	agg := AggregateLiquidity(nil)

	if agg.PoolCount != 0 {
		t.Errorf("PoolCount = %d, want 0", agg.PoolCount)
	}
	if agg.HasBuyLiquidity() || agg.HasSellLiquidity() {
		t.Error("empty aggregate must report no liquidity")
	}
	if agg.FloorPrice != nil || agg.BestOffer != nil {
		t.Error("floor and best offer must be nil with no pools")
	}
	if agg.TotalNFTs.Sign() != 0 || agg.TotalTokens.Sign() != 0 {
		t.Error("totals must be zero with no pools")
	}
}

func TestAggregateLiquidity_BigTotals(t *testing.T) {
	huge, ok := new(big.Int).SetString("340282366920938463463374607431768211456", 10)
	if !ok {
		t.Fatal("bad literal")
	}

	a := linearPool(500, 10, 0, 1, 0)
	a.TokenBalance = new(big.Int).Set(huge)
	b := linearPool(500, 10, 0, 1, 0)
	b.TokenBalance = new(big.Int).Set(huge)

	agg := AggregateLiquidity([]*Pool{a, b})

	want := new(big.Int).Add(huge, huge)
	if agg.TotalTokens.Cmp(want) != 0 {
		t.Errorf("TotalTokens = %s, want %s", agg.TotalTokens, want)
	}
}
