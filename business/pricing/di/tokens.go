// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/nftswap/router/business/pricing/app"
	"github.com/nftswap/router/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	PoolProvider = di.NewToken[app.PoolProvider]("pricing:poolProvider")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetPoolProvider(c di.ServiceRegistry) app.PoolProvider {
	return di.GetToken(c, PoolProvider)
}
