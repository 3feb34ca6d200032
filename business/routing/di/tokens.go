// Package di contains dependency injection tokens for the routing context.
package di

import (
	"github.com/nftswap/router/business/routing/app"
	"github.com/nftswap/router/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RouterService = di.NewToken[*app.RouterService]("routing.RouterService")
	Watcher       = di.NewToken[*app.Watcher]("routing.Watcher")
)

// Reporter is registered by main: the display mode (TUI or console) is a
// process-level decision, not a module one.
var (
	Reporter = di.NewToken[app.Reporter]("routing:reporter")
)

// Helper functions for type-safe access
func GetRouterService(c di.ServiceRegistry) *app.RouterService {
	return di.GetToken(c, RouterService)
}

func GetWatcher(c di.ServiceRegistry) *app.Watcher {
	return di.GetToken(c, Watcher)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
