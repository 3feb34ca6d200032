package domain

import (
	"math/big"
	"testing"
)

func availableQuote(poolID string, total int64) *Quote {
	return &Quote{
		PoolID:          poolID,
		Curve:           CurveLinear,
		Count:           1,
		TotalPrice:      big.NewInt(total),
		PricePerItem:    big.NewInt(total),
		FeeAmount:       big.NewInt(0),
		SpotPriceBefore: big.NewInt(total),
		SpotPriceAfter:  big.NewInt(total),
		Available:       true,
	}
}

func TestCompareQuotes(t *testing.T) {
	cheap := availableQuote("cheap", 450)
	dear := availableQuote("dear", 500)
	dead := &Quote{PoolID: "dead", TotalPrice: big.NewInt(0), Available: false}

	tests := []struct {
		name   string
		a, b   *Quote
		buying bool
		want   string
	}{
		{name: "buying_lower_wins", a: dear, b: cheap, buying: true, want: "cheap"},
		{name: "buying_order_irrelevant", a: cheap, b: dear, buying: true, want: "cheap"},
		{name: "selling_higher_wins", a: cheap, b: dear, buying: false, want: "dear"},
		{name: "unavailable_loses", a: dead, b: dear, buying: true, want: "dear"},
		{name: "unavailable_loses_selling", a: cheap, b: dead, buying: false, want: "cheap"},
		{name: "nil_loses", a: nil, b: cheap, buying: true, want: "cheap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareQuotes(tt.a, tt.b, tt.buying)
			if got == nil || got.PoolID != tt.want {
				t.Errorf("CompareQuotes = %+v, want pool %q", got, tt.want)
			}
		})
	}
}

func TestCompareQuotes_TiePrefersFirst(t *testing.T) {
	a := availableQuote("first", 500)
	b := availableQuote("second", 500)

	for _, buying := range []bool{true, false} {
		if got := CompareQuotes(a, b, buying); got.PoolID != "first" {
			t.Errorf("buying=%v: tie broke to %q, want first", buying, got.PoolID)
		}
	}
}

func TestCompareQuotes_BothUnavailable(t *testing.T) {
	a := &Quote{PoolID: "a", Available: false}
	b := &Quote{PoolID: "b", Available: false}

	got := CompareQuotes(a, b, true)
	if got == nil {
		t.Fatal("CompareQuotes returned nil")
	}
	if got.Available {
		t.Error("result of two unavailable quotes must stay unavailable")
	}
}

func TestBestQuoteFromPools(t *testing.T) {
	// Two single-item buys at 500 and 450; the 450 pool must win.
	dear := linearPool(500, 10, 0, 5, 0)
	dear.ID = "dear"
	cheap := linearPool(450, 10, 0, 5, 0)
	cheap.ID = "cheap"

	best, err := BestQuoteFromPools([]*Pool{dear, cheap}, 1, true)
	if err != nil {
		t.Fatalf("BestQuoteFromPools: %v", err)
	}
	if best == nil {
		t.Fatal("no quote returned")
	}
	if best.PoolID != "cheap" {
		t.Errorf("best pool = %q, want cheap", best.PoolID)
	}
	if got := best.TotalPrice.Int64(); got != 450 {
		t.Errorf("TotalPrice = %d, want 450", got)
	}
}

func TestBestQuoteFromPools_SkipsUnavailable(t *testing.T) {
	// The cheaper pool is empty, so the pricier one must be chosen.
	empty := linearPool(450, 10, 0, 0, 0)
	empty.ID = "empty"
	stocked := linearPool(500, 10, 0, 5, 0)
	stocked.ID = "stocked"

	best, err := BestQuoteFromPools([]*Pool{empty, stocked}, 1, true)
	if err != nil {
		t.Fatalf("BestQuoteFromPools: %v", err)
	}
	if best == nil || best.PoolID != "stocked" {
		t.Fatalf("best = %+v, want stocked", best)
	}
}

func TestBestQuoteFromPools_NoLiquidity(t *testing.T) {
	pools := []*Pool{
		linearPool(450, 10, 0, 0, 0),
		linearPool(500, 10, 0, 1, 0),
	}

	best, err := BestQuoteFromPools(pools, 3, true)
	if err != nil {
		t.Fatalf("BestQuoteFromPools: %v", err)
	}
	if best != nil {
		t.Errorf("best = %+v, want nil when nothing can serve the trade", best)
	}
}

func TestBestQuoteFromPools_Selling(t *testing.T) {
	low := linearPool(400, 10, 0, 0, 10_000)
	low.ID = "low"
	high := linearPool(480, 10, 0, 0, 10_000)
	high.ID = "high"

	best, err := BestQuoteFromPools([]*Pool{low, high}, 1, false)
	if err != nil {
		t.Fatalf("BestQuoteFromPools: %v", err)
	}
	if best == nil || best.PoolID != "high" {
		t.Fatalf("best = %+v, want high", best)
	}
}

func TestBestQuoteFromPools_PropagatesContractFault(t *testing.T) {
	bad := linearPool(500, 10, 0, 5, 0)
	bad.SpotPrice = nil

	if _, err := BestQuoteFromPools([]*Pool{bad}, 1, true); err == nil {
		t.Fatal("expected error for malformed pool")
	}
}
