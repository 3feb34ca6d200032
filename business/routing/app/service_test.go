package app

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	pricing "github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/internal/logger"
)

var testCollection = common.HexToAddress("0x2222222222222222222222222222222222222222")

type fakeQuoteSource struct {
	quote *pricing.Quote
	err   error
}

func (f *fakeQuoteSource) BestQuote(_ context.Context, _ common.Address, _ int, _ bool) (*pricing.Quote, error) {
	return f.quote, f.err
}

type fakeListingProvider struct {
	route *domain.TradeRoute
	err   error
	calls int
}

func (f *fakeListingProvider) BestListing(_ context.Context, _ common.Address, _ bool) (*domain.TradeRoute, error) {
	f.calls++
	return f.route, f.err
}

func poolQuote(poolID string, total int64) *pricing.Quote {
	return &pricing.Quote{
		PoolID:     poolID,
		Count:      1,
		TotalPrice: big.NewInt(total),
		Available:  true,
	}
}

func newTestRouter(t *testing.T, quotes QuoteSource, listings ListingProvider) *RouterService {
	t.Helper()
	svc, err := NewRouterService(quotes, listings, logger.New(io.Discard, logger.LevelDebug, "test", nil))
	if err != nil {
		t.Fatalf("NewRouterService: %v", err)
	}
	return svc
}

func TestBestPrice_PoolBeatsListing(t *testing.T) {
	quotes := &fakeQuoteSource{quote: poolQuote("0xp", 450)}
	listings := &fakeListingProvider{route: &domain.TradeRoute{
		Source: domain.SourceListing, Price: big.NewInt(500), OrderID: "o1",
	}}
	svc := newTestRouter(t, quotes, listings)

	res, err := svc.BestPrice(context.Background(), testCollection, 1, true)
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if res.BestPrice.Source != domain.SourcePool {
		t.Errorf("best source = %s, want pool", res.BestPrice.Source)
	}
	if got := res.BestPrice.Price.Int64(); got != 450 {
		t.Errorf("best price = %d, want 450", got)
	}
	if len(res.Alternatives) != 1 || res.Alternatives[0].Source != domain.SourceListing {
		t.Errorf("alternatives = %+v, want the listing", res.Alternatives)
	}
}

func TestBestPrice_ListingBeatsPool(t *testing.T) {
	quotes := &fakeQuoteSource{quote: poolQuote("0xp", 500)}
	listings := &fakeListingProvider{route: &domain.TradeRoute{
		Source: domain.SourceListing, Price: big.NewInt(450), OrderID: "o1",
	}}
	svc := newTestRouter(t, quotes, listings)

	res, err := svc.BestPrice(context.Background(), testCollection, 1, true)
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if res.BestPrice.Source != domain.SourceListing {
		t.Errorf("best source = %s, want listing", res.BestPrice.Source)
	}
}

func TestBestPrice_NoLiquidityAnywhere(t *testing.T) {
	svc := newTestRouter(t, &fakeQuoteSource{}, &fakeListingProvider{})

	res, err := svc.BestPrice(context.Background(), testCollection, 1, true)
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if res.BestPrice == nil {
		t.Fatal("BestPrice = nil, want sentinel")
	}
	if !res.BestPrice.IsNoLiquidity() {
		t.Errorf("BestPrice = %+v, want no-liquidity sentinel", res.BestPrice)
	}
}

func TestBestPrice_ListingFailureDegradesToPoolOnly(t *testing.T) {
	quotes := &fakeQuoteSource{quote: poolQuote("0xp", 450)}
	listings := &fakeListingProvider{err: errors.New("orderbook down")}
	svc := newTestRouter(t, quotes, listings)

	res, err := svc.BestPrice(context.Background(), testCollection, 1, true)
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if res.BestPrice.Source != domain.SourcePool {
		t.Errorf("best source = %s, want pool despite listing failure", res.BestPrice.Source)
	}
}

func TestBestPrice_MultiItemSkipsListings(t *testing.T) {
	quotes := &fakeQuoteSource{quote: poolQuote("0xp", 1350)}
	listings := &fakeListingProvider{route: &domain.TradeRoute{
		Source: domain.SourceListing, Price: big.NewInt(400),
	}}
	svc := newTestRouter(t, quotes, listings)

	res, err := svc.BestPrice(context.Background(), testCollection, 3, true)
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if listings.calls != 0 {
		t.Errorf("listing provider called %d times for a 3-item trade, want 0", listings.calls)
	}
	if res.BestPrice.Source != domain.SourcePool {
		t.Errorf("best source = %s, want pool", res.BestPrice.Source)
	}
}

func TestBestPrice_NilListingProvider(t *testing.T) {
	quotes := &fakeQuoteSource{quote: poolQuote("0xp", 450)}
	svc := newTestRouter(t, quotes, nil)

	res, err := svc.BestPrice(context.Background(), testCollection, 1, true)
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if res.BestPrice.Source != domain.SourcePool {
		t.Errorf("best source = %s, want pool", res.BestPrice.Source)
	}
}

func TestBestPrice_QuoteErrorPropagates(t *testing.T) {
	quotes := &fakeQuoteSource{err: errors.New("subgraph down")}
	svc := newTestRouter(t, quotes, &fakeListingProvider{})

	if _, err := svc.BestPrice(context.Background(), testCollection, 1, true); err == nil {
		t.Fatal("expected error")
	}
}
