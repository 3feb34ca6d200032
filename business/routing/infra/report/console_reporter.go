// Package report contains Reporter adapters for the routing context.
package report

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	pricing "github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/internal/asset"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out      io.Writer
	decimals uint8
	symbol   string
}

// NewConsoleReporter creates a ConsoleReporter writing to stdout.
func NewConsoleReporter(symbol string, decimals uint8) *ConsoleReporter {
	return &ConsoleReporter{
		out:      os.Stdout,
		decimals: decimals,
		symbol:   symbol,
	}
}

func (r *ConsoleReporter) stamp() string {
	return time.Now().Format("15:04:05")
}

func (r *ConsoleReporter) format(raw *big.Int) string {
	if raw == nil {
		return "0 " + r.symbol
	}
	amount, err := asset.ParseAmount(raw.String())
	if err != nil {
		return raw.String()
	}
	return amount.Format(r.decimals) + " " + r.symbol
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "NFT Swap Router Started")
	fmt.Fprintln(r.out, "=======================")
	return nil
}

// ReportRoute outputs a route selection.
func (r *ConsoleReporter) ReportRoute(collection common.Address, count int, buying bool, result *domain.BestPriceResult) {
	side := "BUY"
	if !buying {
		side = "SELL"
	}

	best := result.BestPrice
	if best.IsNoLiquidity() {
		fmt.Fprintf(r.out, "[%s] %s %s x%d: no liquidity\n", r.stamp(), collection.Hex(), side, count)
		return
	}

	instant := ""
	if best.Instant {
		instant = " (instant)"
	}
	fmt.Fprintf(r.out, "[%s] %s %s x%d: %s via %s%s\n",
		r.stamp(), collection.Hex(), side, count, r.format(best.Price), best.Source, instant)

	for _, alt := range result.Alternatives {
		fmt.Fprintf(r.out, "           alternative: %s via %s\n", r.format(alt.Price), alt.Source)
	}
}

// ReportLadder outputs the quote ladder for one side.
func (r *ConsoleReporter) ReportLadder(collection common.Address, buying bool, ladder []*pricing.Quote) {
	side := "BUY"
	if !buying {
		side = "SELL"
	}
	fmt.Fprintf(r.out, "[%s] %s %s ladder:\n", r.stamp(), collection.Hex(), side)
	for i, q := range ladder {
		if q == nil {
			continue
		}
		if !q.Available {
			fmt.Fprintf(r.out, "  %2d: %s\n", i+1, q.Reason)
			continue
		}
		impact := pricing.QuoteImpact(q)
		fmt.Fprintf(r.out, "  %2d: total %s  per item %s  impact %s%%\n",
			q.Count, r.format(q.TotalPrice), r.format(q.PricePerItem), impact.StringFixed(2))
	}
}

// ReportLiquidity outputs aggregated collection liquidity.
func (r *ConsoleReporter) ReportLiquidity(collection common.Address, liquidity *pricing.CollectionLiquidity) {
	floor := "none"
	if liquidity.FloorPrice != nil {
		floor = r.format(liquidity.FloorPrice)
	}
	offer := "none"
	if liquidity.BestOffer != nil {
		offer = r.format(liquidity.BestOffer)
	}
	fmt.Fprintf(r.out, "[%s] %s liquidity: %d pools (%d buyable, %d sellable), floor %s, best offer %s\n",
		r.stamp(), collection.Hex(), liquidity.PoolCount, liquidity.BuyablePools, liquidity.SellablePools,
		floor, offer)
}

// ReportListing outputs a pushed best-order change.
func (r *ConsoleReporter) ReportListing(event domain.ListingEvent) {
	side := "bid"
	if event.Buying {
		side = "ask"
	}
	fmt.Fprintf(r.out, "[%s] %s new best %s: %s\n",
		r.stamp(), event.Collection.Hex(), side, r.format(event.Route.Price))
}

// ReportError outputs a non-fatal error.
func (r *ConsoleReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "[%s] error: %v\n", r.stamp(), err)
}

// UpdateConnectionStatus outputs connection status changes.
func (r *ConsoleReporter) UpdateConnectionStatus(name string, connected bool) {
	status := "disconnected"
	if connected {
		status = "connected"
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", r.stamp(), name, status)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "NFT Swap Router Stopped")
	return nil
}
