package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceImpact(t *testing.T) {
	// Linear buy of 2: spot moves 1,000,000 -> 1,200,000, a 20% impact.
	p := linearPool(1_000_000, 100_000, 0, 10, 0)

	pct, err := PriceImpact(p, 2, true)
	if err != nil {
		t.Fatalf("PriceImpact: %v", err)
	}
	if want := decimal.NewFromInt(20); !pct.Equal(want) {
		t.Errorf("impact = %s, want %s", pct, want)
	}
}

func TestPriceImpact_SellIsAbsolute(t *testing.T) {
	// Selling moves the spot down; impact is reported unsigned.
	p := linearPool(1_000_000, 100_000, 0, 0, 10_000_000)

	pct, err := PriceImpact(p, 2, false)
	if err != nil {
		t.Fatalf("PriceImpact: %v", err)
	}
	if want := decimal.NewFromInt(20); !pct.Equal(want) {
		t.Errorf("impact = %s, want %s", pct, want)
	}
}

func TestPriceImpact_UnavailableIsZero(t *testing.T) {
	p := linearPool(1_000_000, 100_000, 0, 1, 0)

	pct, err := PriceImpact(p, 5, true)
	if err != nil {
		t.Fatalf("PriceImpact: %v", err)
	}
	if !pct.IsZero() {
		t.Errorf("impact = %s, want 0 for unavailable quote", pct)
	}
}

func TestEstimateSlippage(t *testing.T) {
	p := linearPool(1_000_000, 100_000, 0, 10, 0)

	tests := []struct {
		name   string
		count  int
		maxBps int64
		within bool
	}{
		{name: "within", count: 2, maxBps: 2500, within: true},  // 20% = 2000 bps
		{name: "exact_boundary", count: 2, maxBps: 2000, within: true},
		{name: "exceeds", count: 2, maxBps: 1500, within: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := EstimateSlippage(p, tt.count, true, tt.maxBps)
			if err != nil {
				t.Fatalf("EstimateSlippage: %v", err)
			}
			if est.WithinTolerance != tt.within {
				t.Errorf("WithinTolerance = %v, want %v (impact %s bps, max %d)",
					est.WithinTolerance, tt.within, est.ImpactBps, tt.maxBps)
			}
			if est.Quote == nil || !est.Quote.Available {
				t.Error("expected an available quote on the estimate")
			}
		})
	}
}

func TestEstimateSlippage_ContractFault(t *testing.T) {
	p := linearPool(1_000_000, 100_000, 0, 10, 0)

	if _, err := EstimateSlippage(p, 0, true, 100); err == nil {
		t.Fatal("expected error for zero count")
	}
}
