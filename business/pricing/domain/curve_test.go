package domain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nftswap/router/internal/apperror"
)

func linearPool(spot, delta int64, feeBps uint64, nfts uint64, tokens int64) *Pool {
	return &Pool{
		ID:           "pool-linear",
		Curve:        CurveLinear,
		TradeType:    TradeTypeTrade,
		SpotPrice:    big.NewInt(spot),
		Delta:        big.NewInt(delta),
		FeeBps:       feeBps,
		NFTBalance:   nfts,
		TokenBalance: big.NewInt(tokens),
		Active:       true,
	}
}

func expPool(spot, deltaBps int64, feeBps uint64, nfts uint64, tokens int64) *Pool {
	p := linearPool(spot, deltaBps, feeBps, nfts, tokens)
	p.ID = "pool-exp"
	p.Curve = CurveExponential
	return p
}

func xykPool(spot int64, feeBps uint64, nfts uint64, tokens int64) *Pool {
	return &Pool{
		ID:           "pool-xyk",
		Curve:        CurveXYK,
		TradeType:    TradeTypeTrade,
		SpotPrice:    big.NewInt(spot),
		Delta:        nil, // implicit in reserves
		FeeBps:       feeBps,
		NFTBalance:   nfts,
		TokenBalance: big.NewInt(tokens),
		Active:       true,
	}
}

func TestCalculateBuyPrice_Linear(t *testing.T) {
	// spot 1,000,000, delta 100,000, 2% fee, buy 3:
	// units 1,000,000 / 1,100,000 / 1,200,000, pre-fee 3,300,000,
	// fee 66,000, total 3,366,000.
	p := linearPool(1_000_000, 100_000, 200, 10, 0)

	q, err := CalculateBuyPrice(p, 3)
	if err != nil {
		t.Fatalf("CalculateBuyPrice: %v", err)
	}
	if !q.Available {
		t.Fatalf("quote unavailable: %s", q.Reason)
	}
	if got := q.TotalPrice.Int64(); got != 3_366_000 {
		t.Errorf("TotalPrice = %d, want 3366000", got)
	}
	if got := q.FeeAmount.Int64(); got != 66_000 {
		t.Errorf("FeeAmount = %d, want 66000", got)
	}
	if got := q.PricePerItem.Int64(); got != 1_122_000 {
		t.Errorf("PricePerItem = %d, want 1122000", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 1_300_000 {
		t.Errorf("SpotPriceAfter = %d, want 1300000", got)
	}
	if got := q.SpotPriceBefore.Int64(); got != 1_000_000 {
		t.Errorf("SpotPriceBefore = %d, want 1000000", got)
	}
}

func TestCalculateBuyPrice_Exponential(t *testing.T) {
	// 10% per unit: 1,000,000 / 1,100,000 / 1,210,000.
	p := expPool(1_000_000, 1000, 0, 10, 0)

	q, err := CalculateBuyPrice(p, 3)
	if err != nil {
		t.Fatalf("CalculateBuyPrice: %v", err)
	}
	if got := q.TotalPrice.Int64(); got != 3_310_000 {
		t.Errorf("TotalPrice = %d, want 3310000", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 1_331_000 {
		t.Errorf("SpotPriceAfter = %d, want 1331000", got)
	}
}

func TestCalculateBuyPrice_XYK(t *testing.T) {
	// nft 10, token 100,000,000: k = 1e9, one buy moves reserves to
	// 9 / 111,111,111, unit price 11,111,111.
	p := xykPool(11_111_111, 0, 10, 100_000_000)

	q, err := CalculateBuyPrice(p, 1)
	if err != nil {
		t.Fatalf("CalculateBuyPrice: %v", err)
	}
	if got := q.TotalPrice.Int64(); got != 11_111_111 {
		t.Errorf("TotalPrice = %d, want 11111111", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 11_111_111 {
		t.Errorf("SpotPriceAfter = %d, want 11111111", got)
	}
}

func TestCalculateBuyPrice_XYK_TwoItems(t *testing.T) {
	// Second unit prices off the post-trade reserves:
	// k = 999,999,999 at 9/111,111,111, next unit 13,888,888.
	p := xykPool(11_111_111, 0, 10, 100_000_000)

	q, err := CalculateBuyPrice(p, 2)
	if err != nil {
		t.Fatalf("CalculateBuyPrice: %v", err)
	}
	if got := q.TotalPrice.Int64(); got != 24_999_999 {
		t.Errorf("TotalPrice = %d, want 24999999", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 13_888_888 {
		t.Errorf("SpotPriceAfter = %d, want 13888888", got)
	}
}

func TestCalculateBuyPrice_InsufficientLiquidity(t *testing.T) {
	p := linearPool(1_000_000, 100_000, 200, 2, 0)

	q, err := CalculateBuyPrice(p, 5)
	if err != nil {
		t.Fatalf("CalculateBuyPrice: %v", err)
	}
	if q.Available {
		t.Fatal("quote should be unavailable")
	}
	if q.Reason != ReasonInsufficientLiquidity {
		t.Errorf("Reason = %q, want %q", q.Reason, ReasonInsufficientLiquidity)
	}
	if q.TotalPrice.Sign() != 0 {
		t.Errorf("TotalPrice = %s, want 0", q.TotalPrice)
	}
}

func TestCalculateBuyPrice_XYK_CannotEmptyPool(t *testing.T) {
	tests := []struct {
		name  string
		nfts  uint64
		count int
	}{
		{name: "buy_everything", nfts: 3, count: 3},
		{name: "single_item_pool", nfts: 1, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := xykPool(1_000_000, 0, tt.nfts, 100_000_000)

			q, err := CalculateBuyPrice(p, tt.count)
			if err != nil {
				t.Fatalf("CalculateBuyPrice: %v", err)
			}
			if q.Available {
				t.Fatal("quote should be unavailable")
			}
			if q.Reason != ReasonCannotEmptyPool {
				t.Errorf("Reason = %q, want %q", q.Reason, ReasonCannotEmptyPool)
			}
		})
	}
}

func TestCalculateSellPrice_Linear(t *testing.T) {
	// units 1,000,000 / 900,000 / 800,000, pre-fee 2,700,000,
	// fee 54,000, seller receives 2,646,000.
	p := linearPool(1_000_000, 100_000, 200, 0, 10_000_000)

	q, err := CalculateSellPrice(p, 3)
	if err != nil {
		t.Fatalf("CalculateSellPrice: %v", err)
	}
	if !q.Available {
		t.Fatalf("quote unavailable: %s", q.Reason)
	}
	if got := q.TotalPrice.Int64(); got != 2_646_000 {
		t.Errorf("TotalPrice = %d, want 2646000", got)
	}
	if got := q.FeeAmount.Int64(); got != 54_000 {
		t.Errorf("FeeAmount = %d, want 54000", got)
	}
	if got := q.PricePerItem.Int64(); got != 882_000 {
		t.Errorf("PricePerItem = %d, want 882000", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 700_000 {
		t.Errorf("SpotPriceAfter = %d, want 700000", got)
	}
}

func TestCalculateSellPrice_LinearClampsAtZero(t *testing.T) {
	// spot 150,000 with delta 100,000: units 150,000 / 50,000 / 0.
	p := linearPool(150_000, 100_000, 0, 0, 500_000)

	q, err := CalculateSellPrice(p, 3)
	if err != nil {
		t.Fatalf("CalculateSellPrice: %v", err)
	}
	if !q.Available {
		t.Fatalf("quote unavailable: %s", q.Reason)
	}
	if got := q.TotalPrice.Int64(); got != 200_000 {
		t.Errorf("TotalPrice = %d, want 200000", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 0 {
		t.Errorf("SpotPriceAfter = %d, want 0", got)
	}
}

func TestCalculateSellPrice_Exponential(t *testing.T) {
	// 10% down per unit, floored: 1,000,000 / 909,090 / 826,445.
	p := expPool(1_000_000, 1000, 0, 0, 3_000_000)

	q, err := CalculateSellPrice(p, 3)
	if err != nil {
		t.Fatalf("CalculateSellPrice: %v", err)
	}
	if got := q.TotalPrice.Int64(); got != 2_735_535 {
		t.Errorf("TotalPrice = %d, want 2735535", got)
	}
	if got := q.SpotPriceAfter.Int64(); got != 751_313 {
		t.Errorf("SpotPriceAfter = %d, want 751313", got)
	}
}

func TestCalculateSellPrice_XYK(t *testing.T) {
	// nft 10, token 100,000,000: selling one moves reserves to
	// 11 / 90,909,090 (floored), proceeds 9,090,910.
	p := xykPool(9_090_909, 0, 10, 100_000_000)

	q, err := CalculateSellPrice(p, 1)
	if err != nil {
		t.Fatalf("CalculateSellPrice: %v", err)
	}
	if !q.Available {
		t.Fatalf("quote unavailable: %s", q.Reason)
	}
	if got := q.TotalPrice.Int64(); got != 9_090_910 {
		t.Errorf("TotalPrice = %d, want 9090910", got)
	}
}

func TestCalculateSellPrice_InsufficientTokenBalance(t *testing.T) {
	// Rough pre-check: reserves below spot*count never simulate.
	p := linearPool(1_000_000, 0, 0, 0, 1_500_000)

	q, err := CalculateSellPrice(p, 2)
	if err != nil {
		t.Fatalf("CalculateSellPrice: %v", err)
	}
	if q.Available {
		t.Fatal("quote should be unavailable")
	}
	if q.Reason != ReasonInsufficientTokenBalance {
		t.Errorf("Reason = %q, want %q", q.Reason, ReasonInsufficientTokenBalance)
	}
	if q.TotalPrice.Sign() != 0 {
		t.Errorf("TotalPrice = %s, want 0", q.TotalPrice)
	}
}

func TestCurveEngine_ContractFaults(t *testing.T) {
	valid := linearPool(1_000_000, 100_000, 0, 10, 10_000_000)

	malformedCurve := linearPool(1_000_000, 100_000, 0, 10, 10_000_000)
	malformedCurve.Curve = CurveType("SIGMOID")

	nilSpot := linearPool(0, 0, 0, 10, 0)
	nilSpot.SpotPrice = nil

	negativeBalance := linearPool(1_000_000, 100_000, 0, 10, 0)
	negativeBalance.TokenBalance = big.NewInt(-1)

	tests := []struct {
		name     string
		pool     *Pool
		count    int
		wantCode apperror.Code
	}{
		{name: "zero_count", pool: valid, count: 0, wantCode: apperror.CodeInvalidItemCount},
		{name: "negative_count", pool: valid, count: -3, wantCode: apperror.CodeInvalidItemCount},
		{name: "unknown_curve", pool: malformedCurve, count: 1, wantCode: apperror.CodeUnsupportedCurveType},
		{name: "nil_spot", pool: nilSpot, count: 1, wantCode: apperror.CodeNegativeBalance},
		{name: "negative_token_balance", pool: negativeBalance, count: 1, wantCode: apperror.CodeNegativeBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, buyErr := CalculateBuyPrice(tt.pool, tt.count)
			if buyErr == nil {
				t.Fatal("buy: expected error")
			}
			if code := apperror.GetCode(buyErr); code != tt.wantCode {
				t.Errorf("buy code = %s, want %s", code, tt.wantCode)
			}

			_, sellErr := CalculateSellPrice(tt.pool, tt.count)
			if sellErr == nil {
				t.Fatal("sell: expected error")
			}
			if code := apperror.GetCode(sellErr); code != tt.wantCode {
				t.Errorf("sell code = %s, want %s", code, tt.wantCode)
			}

			var appErr *apperror.AppError
			if !errors.As(buyErr, &appErr) {
				t.Error("contract fault is not an AppError")
			}
		})
	}
}

func TestBuyPrice_PerItemMonotonicity(t *testing.T) {
	pools := map[string]*Pool{
		"linear":      linearPool(1_000_000, 137_000, 150, 50, 0),
		"exponential": expPool(1_000_000, 777, 150, 50, 0),
	}

	for name, p := range pools {
		t.Run(name, func(t *testing.T) {
			prev := big.NewInt(0)
			for count := 1; count <= 10; count++ {
				q, err := CalculateBuyPrice(p, count)
				if err != nil {
					t.Fatalf("count %d: %v", count, err)
				}
				if q.PricePerItem.Cmp(prev) < 0 {
					t.Fatalf("count %d: per-item price decreased %s -> %s",
						count, prev, q.PricePerItem)
				}
				prev = q.PricePerItem
			}
		})
	}
}

func TestSellPrice_PerItemMonotonicity(t *testing.T) {
	pools := map[string]*Pool{
		"linear":      linearPool(1_000_000, 90_000, 150, 0, 100_000_000),
		"exponential": expPool(1_000_000, 777, 150, 0, 100_000_000),
	}

	for name, p := range pools {
		t.Run(name, func(t *testing.T) {
			prev := new(big.Int).Set(p.TokenBalance) // above any unit price
			for count := 1; count <= 10; count++ {
				q, err := CalculateSellPrice(p, count)
				if err != nil {
					t.Fatalf("count %d: %v", count, err)
				}
				if !q.Available {
					t.Fatalf("count %d: unavailable: %s", count, q.Reason)
				}
				if q.PricePerItem.Cmp(prev) > 0 {
					t.Fatalf("count %d: per-item price increased %s -> %s",
						count, prev, q.PricePerItem)
				}
				prev = q.PricePerItem
			}
		})
	}
}

func TestXYK_ConstantProductInvariant(t *testing.T) {
	const (
		nfts   = 20
		tokens = 500_000_000
	)

	for count := 1; count <= 10; count++ {
		p := xykPool(25_000_000, 300, nfts, tokens)
		before := new(big.Int).Mul(big.NewInt(nfts), big.NewInt(tokens))

		buy, err := CalculateBuyPrice(p, count)
		if err != nil {
			t.Fatalf("buy %d: %v", count, err)
		}
		if buy.Available {
			// Pool receives the pre-fee notional and gives up count items.
			preFee := new(big.Int).Sub(buy.TotalPrice, buy.FeeAmount)
			newTokens := new(big.Int).Add(big.NewInt(tokens), preFee)
			after := newTokens.Mul(newTokens, big.NewInt(int64(nfts-uint64(count))))
			if after.Cmp(before) > 0 {
				t.Errorf("buy %d: product grew %s -> %s", count, before, after)
			}
		}

		sell, err := CalculateSellPrice(p, count)
		if err != nil {
			t.Fatalf("sell %d: %v", count, err)
		}
		if sell.Available {
			// Pool pays out the pre-fee notional and takes in count items.
			preFee := new(big.Int).Add(sell.TotalPrice, sell.FeeAmount)
			newTokens := new(big.Int).Sub(big.NewInt(tokens), preFee)
			after := newTokens.Mul(newTokens, big.NewInt(int64(nfts+uint64(count))))
			if after.Cmp(before) > 0 {
				t.Errorf("sell %d: product grew %s -> %s", count, before, after)
			}
		}
	}
}

func TestTradePool_BuySellSpread(t *testing.T) {
	// With a non-zero fee the pool must quote buys at or above sells.
	for _, feeBps := range []uint64{1, 50, 200, 1000} {
		p := linearPool(1_000_000, 100_000, feeBps, 10, 100_000_000)

		buy, err := CalculateBuyPrice(p, 1)
		if err != nil {
			t.Fatal(err)
		}
		sell, err := CalculateSellPrice(p, 1)
		if err != nil {
			t.Fatal(err)
		}
		if buy.TotalPrice.Cmp(sell.TotalPrice) < 0 {
			t.Errorf("feeBps %d: buy %s < sell %s", feeBps, buy.TotalPrice, sell.TotalPrice)
		}
	}
}

func BenchmarkCalculateBuyPrice_Linear(b *testing.B) {
	p := linearPool(1_000_000_000_000_000, 10_000_000_000_000, 200, 500, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CalculateBuyPrice(p, 50); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCalculateBuyPrice_XYK(b *testing.B) {
	p := xykPool(0, 200, 500, 1_000_000_000)
	p.SpotPrice = big.NewInt(2_000_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CalculateBuyPrice(p, 50); err != nil {
			b.Fatal(err)
		}
	}
}
