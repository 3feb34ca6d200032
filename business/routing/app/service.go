package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pricing "github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/internal/logger"
)

const (
	tracerName = "routing"
	meterName  = "routing"
)

// serviceMetrics holds OTEL metric instruments.
type serviceMetrics struct {
	routesTotal    metric.Int64Counter
	routeErrors    metric.Int64Counter
	listingsFailed metric.Int64Counter
}

// RouterService merges pool quotes with listing quotes into ranked routes.
type RouterService struct {
	quotes   QuoteSource
	listings ListingProvider

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *serviceMetrics

	// now is swapped in tests.
	now func() time.Time
}

// NewRouterService creates a RouterService. listings may be nil when no
// order-book collaborator is configured; routing then runs pool-only.
func NewRouterService(quotes QuoteSource, listings ListingProvider, log logger.LoggerInterface) (*RouterService, error) {
	s := &RouterService{
		quotes:   quotes,
		listings: listings,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return s, nil
}

func (s *RouterService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.routesTotal, err = meter.Int64Counter(
		"routing_routes_total",
		metric.WithDescription("Total route selections"),
	)
	if err != nil {
		return err
	}

	s.metrics.routeErrors, err = meter.Int64Counter(
		"routing_route_errors_total",
		metric.WithDescription("Total route selection errors"),
	)
	if err != nil {
		return err
	}

	s.metrics.listingsFailed, err = meter.Int64Counter(
		"routing_listing_fetch_failures_total",
		metric.WithDescription("Listing fetches that failed and were skipped"),
	)
	if err != nil {
		return err
	}

	return nil
}

// BestPrice returns the ranked execution paths for trading count items of the
// collection. The result always carries a non-nil BestPrice; a zero price
// means no liquidity anywhere.
func (s *RouterService) BestPrice(ctx context.Context, collection common.Address, count int, buying bool) (*domain.BestPriceResult, error) {
	ctx, span := s.tracer.Start(ctx, "routing.best_price",
		trace.WithAttributes(
			attribute.String("collection", collection.Hex()),
			attribute.Int("count", count),
			attribute.Bool("buying", buying),
		),
	)
	defer span.End()

	s.metrics.routesTotal.Add(ctx, 1)

	quote, err := s.quotes.BestQuote(ctx, collection, count, buying)
	if err != nil {
		s.metrics.routeErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "pool quote failed")
		return nil, err
	}

	poolRoute := poolRouteFromQuote(quote)
	listingRoute := s.fetchListing(ctx, span, collection, count, buying)

	result := domain.SelectBestRoute(poolRoute, listingRoute, buying, s.now())

	span.SetAttributes(
		attribute.String("best_source", string(result.BestPrice.Source)),
		attribute.String("best_price", result.BestPrice.Price.String()),
		attribute.Int("alternatives", len(result.Alternatives)),
	)
	span.SetStatus(codes.Ok, "route selected")

	s.logger.Debug(ctx, "route selected",
		"collection", collection.Hex(),
		"count", count,
		"buying", buying,
		"source", string(result.BestPrice.Source),
		"price", result.BestPrice.Price.String(),
	)

	return result, nil
}

// fetchListing asks the order-book collaborator for its best route. Listings
// price single items, so multi-item trades skip the lookup. A failing
// order-book must not take pool routing down with it: failures are counted,
// logged, and treated as "no listing".
func (s *RouterService) fetchListing(ctx context.Context, span trace.Span, collection common.Address, count int, buying bool) *domain.TradeRoute {
	if s.listings == nil || count != 1 {
		return nil
	}

	route, err := s.listings.BestListing(ctx, collection, buying)
	if err != nil {
		s.metrics.listingsFailed.Add(ctx, 1)
		span.AddEvent("listing_fetch_failed",
			trace.WithAttributes(attribute.String("error", err.Error())),
		)
		s.logger.Warn(ctx, "listing fetch failed, routing pool-only",
			"collection", collection.Hex(),
			"error", err.Error(),
		)
		return nil
	}
	return route
}

// poolRouteFromQuote normalizes a pool quote into a TradeRoute. Unavailable
// or missing quotes map to nil, which the selector treats as not viable.
func poolRouteFromQuote(q *pricing.Quote) *domain.TradeRoute {
	if q == nil || !q.Available {
		return nil
	}
	return &domain.TradeRoute{
		Source:  domain.SourcePool,
		Price:   new(big.Int).Set(q.TotalPrice),
		Instant: true,
		PoolID:  q.PoolID,
	}
}
