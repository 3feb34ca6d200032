package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	pricingApp "github.com/nftswap/router/business/pricing/app"
	"github.com/nftswap/router/internal/logger"
)

// WatcherConfig holds configuration for the route watcher.
type WatcherConfig struct {
	Collections []common.Address
	MaxCount    int           // ladder depth quoted each pass
	Interval    time.Duration // refresh interval
}

// Watcher periodically refreshes quotes, liquidity and routes for the watched
// collections and publishes them through a Reporter. Pushed order-book events
// trigger an immediate refresh of the affected collection.
type Watcher struct {
	router   *RouterService
	pricing  *pricingApp.PricingService
	feed     ListingStream // may be nil
	reporter Reporter
	config   WatcherConfig
	logger   logger.LoggerInterface

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a route Watcher.
func NewWatcher(
	router *RouterService,
	pricing *pricingApp.PricingService,
	feed ListingStream,
	reporter Reporter,
	config WatcherConfig,
	log logger.LoggerInterface,
) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Second
	}
	if config.MaxCount <= 0 {
		config.MaxCount = 5
	}
	return &Watcher{
		router:   router,
		pricing:  pricing,
		feed:     feed,
		reporter: reporter,
		config:   config,
		logger:   log,
	}
}

// Start begins the watch loop.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	w.logger.Info(ctx, "starting route watcher",
		"collections", len(w.config.Collections),
		"interval", w.config.Interval.String(),
	)

	if err := w.reporter.Start(ctx); err != nil {
		return err
	}

	// The feed is best-effort: polling still refreshes listings through the
	// router when the socket is down.
	if w.feed != nil {
		if err := w.feed.Start(ctx); err != nil {
			w.logger.Warn(ctx, "listing feed unavailable, polling only", "error", err.Error())
			w.reporter.UpdateConnectionStatus("feed", false)
			w.feed = nil
		} else {
			w.reporter.UpdateConnectionStatus("feed", true)
		}
	}

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.refreshAll(ctx)

	for {
		if w.feed != nil {
			select {
			case <-ctx.Done():
				w.logger.Info(ctx, "route watcher stopping", "reason", ctx.Err())
				return
			case <-ticker.C:
				w.refreshAll(ctx)
			case event, ok := <-w.feed.Updates():
				if !ok {
					w.feed = nil
					continue
				}
				w.reporter.ReportListing(event)
				w.refreshCollection(ctx, event.Collection)
			}
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "route watcher stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}

func (w *Watcher) refreshAll(ctx context.Context) {
	for _, collection := range w.config.Collections {
		if ctx.Err() != nil {
			return
		}
		w.refreshCollection(ctx, collection)
	}
}

// refreshCollection recomputes both sides for one collection. Failures are
// reported and skipped; one bad collection must not starve the others.
func (w *Watcher) refreshCollection(ctx context.Context, collection common.Address) {
	liquidity, err := w.pricing.Liquidity(ctx, collection)
	if err != nil {
		w.logger.Warn(ctx, "liquidity refresh failed",
			"collection", collection.Hex(), "error", err.Error())
		w.reporter.ReportError(err)
		w.reporter.UpdateConnectionStatus("subgraph", false)
		return
	}
	w.reporter.UpdateConnectionStatus("subgraph", true)
	w.reporter.ReportLiquidity(collection, liquidity.Aggregate)

	for _, buying := range []bool{true, false} {
		ladder, err := w.pricing.QuoteLadder(ctx, collection, w.config.MaxCount, buying)
		if err != nil {
			w.logger.Warn(ctx, "ladder refresh failed",
				"collection", collection.Hex(), "buying", buying, "error", err.Error())
			w.reporter.ReportError(err)
			continue
		}
		w.reporter.ReportLadder(collection, buying, ladder)

		result, err := w.router.BestPrice(ctx, collection, 1, buying)
		if err != nil {
			w.logger.Warn(ctx, "route refresh failed",
				"collection", collection.Hex(), "buying", buying, "error", err.Error())
			w.reporter.ReportError(err)
			continue
		}
		w.reporter.ReportRoute(collection, 1, buying, result)
	}
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	w.logger.Info(context.Background(), "stopping route watcher")
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	if w.feed != nil {
		if err := w.feed.Close(); err != nil {
			w.logger.Warn(context.Background(), "error closing listing feed", "error", err.Error())
		}
	}
	return w.reporter.Stop()
}
