// Package routing implements the smart-routing bounded context.
package routing

import (
	"context"

	pricingDI "github.com/nftswap/router/business/pricing/di"
	"github.com/nftswap/router/business/routing/app"
	routingDI "github.com/nftswap/router/business/routing/di"
	"github.com/nftswap/router/business/routing/infra/orderbook"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/di"
	"github.com/nftswap/router/internal/logger"
	"github.com/nftswap/router/internal/monolith"
)

// Module implements the routing bounded context.
type Module struct{}

// RegisterServices registers all routing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register RouterService (public - exposed to other modules)
	di.RegisterToken(c, routingDI.RouterService, func(sr di.ServiceRegistry) *app.RouterService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		// The order book is optional; without it routing is pool-only.
		var listings app.ListingProvider
		if cfg.Orderbook.URL != "" {
			client, err := orderbook.NewClient(cfg.Orderbook, log)
			if err != nil {
				panic("failed to create orderbook client: " + err.Error())
			}
			listings = client
		}

		svc, err := app.NewRouterService(pricingDI.GetPricingService(sr), listings, log)
		if err != nil {
			panic("failed to create router service: " + err.Error())
		}
		return svc
	})

	// Register Watcher (public - drives watch mode)
	di.RegisterToken(c, routingDI.Watcher, func(sr di.ServiceRegistry) *app.Watcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var feed app.ListingStream
		if cfg.Orderbook.WebSocketURL != "" {
			f, err := orderbook.NewFeed(cfg.Orderbook, cfg.Router.CollectionAddresses(), log)
			if err != nil {
				panic("failed to create orderbook feed: " + err.Error())
			}
			feed = f
		}

		// Watch mode shows a short ladder; deep ladders stay on demand.
		ladderDepth := cfg.Router.MaxTradeSize
		if ladderDepth > 5 {
			ladderDepth = 5
		}

		return app.NewWatcher(
			routingDI.GetRouterService(sr),
			pricingDI.GetPricingService(sr),
			feed,
			routingDI.GetReporter(sr),
			app.WatcherConfig{
				Collections: cfg.Router.CollectionAddresses(),
				MaxCount:    ladderDepth,
				Interval:    cfg.Router.RefreshInterval,
			},
			log,
		)
	})

	return nil
}

// Startup initializes the routing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	routingDI.GetRouterService(mono.Services())

	log.Info(ctx, "routing module started")
	return nil
}
