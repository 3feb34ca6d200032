package report

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	pricing "github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/pkg/ui"
	"github.com/nftswap/router/pkg/ui/components"
)

// TUIReporter implements Reporter for the Bubble Tea dashboard. It translates
// domain values into display messages; all monetary conversion happens here so
// the UI never touches wei.
type TUIReporter struct {
	decimals uint8
}

// NewTUIReporter creates a TUIReporter. The Bubble Tea program itself is owned
// and started by main.
func NewTUIReporter(decimals uint8) *TUIReporter {
	return &TUIReporter{decimals: decimals}
}

func (r *TUIReporter) toDecimal(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(r.decimals))
}

func collectionKey(collection common.Address) string {
	return strings.ToLower(collection.Hex())
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	ui.Send(ui.StartupMsg{Step: "subgraph", Status: "connecting"})
	return nil
}

// ReportRoute sends a route selection to the dashboard.
func (r *TUIReporter) ReportRoute(collection common.Address, count int, buying bool, result *domain.BestPriceResult) {
	best := result.BestPrice
	source := string(best.Source)
	if best.IsNoLiquidity() {
		source = "none"
	}
	ui.Send(ui.RouteMsg{
		Collection: collectionKey(collection),
		Buying:     buying,
		Count:      count,
		Price:      r.toDecimal(best.Price),
		Source:     source,
		Instant:    best.Instant,
	})
}

// ReportLadder sends a quote ladder to the dashboard.
func (r *TUIReporter) ReportLadder(collection common.Address, buying bool, ladder []*pricing.Quote) {
	rows := make([]components.QuoteRow, 0, len(ladder))
	for i, q := range ladder {
		if q == nil {
			continue
		}
		row := components.QuoteRow{
			Count:     i + 1,
			Available: q.Available,
			Reason:    q.Reason,
		}
		if q.Available {
			row.Count = q.Count
			row.TotalPrice = r.toDecimal(q.TotalPrice)
			row.PerItem = r.toDecimal(q.PricePerItem)
			row.ImpactBps = pricing.QuoteImpact(q).Mul(decimal.NewFromInt(100))
		}
		rows = append(rows, row)
	}
	ui.Send(ui.LadderMsg{
		Collection: collectionKey(collection),
		Buying:     buying,
		Rows:       rows,
	})
}

// ReportLiquidity sends aggregated liquidity to the dashboard.
func (r *TUIReporter) ReportLiquidity(collection common.Address, liquidity *pricing.CollectionLiquidity) {
	stats := components.LiquidityStats{
		Pools:       liquidity.PoolCount,
		Buyable:     liquidity.BuyablePools,
		Sellable:    liquidity.SellablePools,
		TotalNFTs:   liquidity.TotalNFTs.String(),
		TotalTokens: r.toDecimal(liquidity.TotalTokens),
	}
	if liquidity.FloorPrice != nil {
		stats.FloorPrice = r.toDecimal(liquidity.FloorPrice)
		stats.HasFloor = true
	}
	if liquidity.BestOffer != nil {
		stats.BestOffer = r.toDecimal(liquidity.BestOffer)
		stats.HasOffer = true
	}
	ui.Send(ui.LiquidityMsg{
		Collection: collectionKey(collection),
		Stats:      stats,
	})
}

// ReportListing sends a pushed best-order change to the dashboard.
func (r *TUIReporter) ReportListing(event domain.ListingEvent) {
	side := "bid"
	if event.Buying {
		side = "ask"
	}
	ui.Send(ui.ListingMsg{
		Collection: collectionKey(event.Collection),
		Price:      r.toDecimal(event.Route.Price),
		Side:       side,
	})
}

// ReportError sends a non-fatal error to the dashboard.
func (r *TUIReporter) ReportError(err error) {
	ui.Send(ui.ErrorMsg{Error: err})
}

// UpdateConnectionStatus sends connection status to the dashboard.
func (r *TUIReporter) UpdateConnectionStatus(name string, connected bool) {
	ui.Send(ui.ConnectionStatusMsg{Name: name, Connected: connected})
	status := "connecting"
	if connected {
		status = "connected"
	}
	ui.Send(ui.StartupMsg{Step: name, Status: status})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
