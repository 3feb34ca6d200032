// Package pricing implements the pool pricing bounded context.
package pricing

import (
	"context"

	"github.com/nftswap/router/business/pricing/app"
	pricingDI "github.com/nftswap/router/business/pricing/di"
	"github.com/nftswap/router/business/pricing/infra/subgraph"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/di"
	"github.com/nftswap/router/internal/logger"
	"github.com/nftswap/router/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register PoolProvider (subgraph) - private dependency
	di.RegisterToken(c, pricingDI.PoolProvider, func(sr di.ServiceRegistry) app.PoolProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := subgraph.NewClient(cfg.Subgraph, log)
		if err != nil {
			panic("failed to create subgraph client: " + err.Error())
		}
		return subgraph.NewProvider(client)
	})

	// Register PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		pools := pricingDI.GetPoolProvider(sr)
		svc, err := app.NewPricingService(pools, cfg.Router.MaxTradeSize, log)
		if err != nil {
			panic("failed to create pricing service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Force construction so a bad subgraph config fails at startup rather
	// than on the first quote.
	pricingDI.GetPricingService(mono.Services())

	log.Info(ctx, "pricing module started")
	return nil
}
