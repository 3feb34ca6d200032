package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/internal/apperror"
	"github.com/nftswap/router/internal/logger"
)

const (
	tracerName = "pricing"
	meterName  = "pricing"
)

// serviceMetrics holds OTEL metric instruments.
type serviceMetrics struct {
	quotesTotal       metric.Int64Counter
	quoteLatency      metric.Float64Histogram
	quoteErrors       metric.Int64Counter
	quotesUnavailable metric.Int64Counter
}

// PricingService answers quote and liquidity questions over the pools a
// PoolProvider knows about. It caps trade sizes and filters pools by
// direction and active flag before handing them to the curve engine.
type PricingService struct {
	pools        PoolProvider
	maxTradeSize int

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *serviceMetrics
}

// NewPricingService creates a PricingService backed by the given provider.
func NewPricingService(pools PoolProvider, maxTradeSize int, log logger.LoggerInterface) (*PricingService, error) {
	s := &PricingService{
		pools:        pools,
		maxTradeSize: maxTradeSize,
		logger:       log,
		tracer:       otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return s, nil
}

func (s *PricingService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.quotesTotal, err = meter.Int64Counter(
		"pricing_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	s.metrics.quoteLatency, err = meter.Float64Histogram(
		"pricing_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	s.metrics.quoteErrors, err = meter.Int64Counter(
		"pricing_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	if err != nil {
		return err
	}

	s.metrics.quotesUnavailable, err = meter.Int64Counter(
		"pricing_quotes_unavailable_total",
		metric.WithDescription("Quote requests no pool could serve"),
	)
	if err != nil {
		return err
	}

	return nil
}

// BestQuote returns the best available pool quote for trading count items of
// the collection, or nil when no pool can serve the trade. A nil quote with a
// nil error means no liquidity; errors are provider failures or malformed
// requests.
func (s *PricingService) BestQuote(ctx context.Context, collection common.Address, count int, buying bool) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.best_quote",
		trace.WithAttributes(
			attribute.String("collection", collection.Hex()),
			attribute.Int("count", count),
			attribute.Bool("buying", buying),
		),
	)
	defer span.End()

	start := time.Now()
	s.metrics.quotesTotal.Add(ctx, 1)

	if err := s.checkCount(count); err != nil {
		s.metrics.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "invalid count")
		return nil, err
	}

	pools, err := s.eligiblePools(ctx, collection, buying)
	if err != nil {
		s.metrics.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "pool fetch failed")
		return nil, err
	}

	best, err := domain.BestQuoteFromPools(pools, count, buying)

	latency := float64(time.Since(start).Milliseconds())
	s.metrics.quoteLatency.Record(ctx, latency)

	if err != nil {
		s.metrics.quoteErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "quote failed")
		return nil, err
	}

	if best == nil {
		s.metrics.quotesUnavailable.Add(ctx, 1)
		span.SetStatus(codes.Ok, "no liquidity")
		s.logger.Debug(ctx, "no pool can serve trade",
			"collection", collection.Hex(),
			"count", count,
			"buying", buying,
		)
		return nil, nil
	}

	span.SetAttributes(
		attribute.String("pool_id", best.PoolID),
		attribute.String("total_price", best.TotalPrice.String()),
	)
	span.SetStatus(codes.Ok, "quote found")

	s.logger.Debug(ctx, "best pool quote",
		"collection", collection.Hex(),
		"count", count,
		"buying", buying,
		"pool_id", best.PoolID,
		"total_price", best.TotalPrice.String(),
	)

	return best, nil
}

// QuoteLadder returns the best quote for every size from 1 to maxCount, so a
// caller can show how the price scales with quantity. Sizes no pool can serve
// appear as nil entries; the ladder index is size minus one.
func (s *PricingService) QuoteLadder(ctx context.Context, collection common.Address, maxCount int, buying bool) ([]*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.quote_ladder",
		trace.WithAttributes(
			attribute.String("collection", collection.Hex()),
			attribute.Int("max_count", maxCount),
			attribute.Bool("buying", buying),
		),
	)
	defer span.End()

	if err := s.checkCount(maxCount); err != nil {
		span.SetStatus(codes.Error, "invalid count")
		return nil, err
	}

	pools, err := s.eligiblePools(ctx, collection, buying)
	if err != nil {
		span.SetStatus(codes.Error, "pool fetch failed")
		return nil, err
	}

	ladder := make([]*domain.Quote, maxCount)
	for count := 1; count <= maxCount; count++ {
		best, err := domain.BestQuoteFromPools(pools, count, buying)
		if err != nil {
			span.SetStatus(codes.Error, "quote failed")
			return nil, err
		}
		ladder[count-1] = best
	}

	span.SetStatus(codes.Ok, "ladder built")
	return ladder, nil
}

// Liquidity aggregates all pools for the collection into a single view.
// Inactive pools are excluded; unlike quoting, no direction filter applies.
func (s *PricingService) Liquidity(ctx context.Context, collection common.Address) (*LiquiditySnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.liquidity",
		trace.WithAttributes(attribute.String("collection", collection.Hex())),
	)
	defer span.End()

	all, err := s.pools.PoolsByCollection(ctx, collection)
	if err != nil {
		span.SetStatus(codes.Error, "pool fetch failed")
		return nil, err
	}

	active := make([]*domain.Pool, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}

	agg := domain.AggregateLiquidity(active)

	span.SetAttributes(
		attribute.Int("pool_count", agg.PoolCount),
		attribute.Int("buyable_pools", agg.BuyablePools),
		attribute.Int("sellable_pools", agg.SellablePools),
	)
	span.SetStatus(codes.Ok, "aggregated")

	return &LiquiditySnapshot{
		Collection: collection,
		Aggregate:  agg,
		Pools:      active,
	}, nil
}

// EstimateSlippage quotes the best pool for the trade and measures its price
// impact against maxBps. Returns nil when no pool can serve the trade.
func (s *PricingService) EstimateSlippage(ctx context.Context, collection common.Address, count int, buying bool, maxBps int64) (*domain.SlippageEstimate, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.estimate_slippage",
		trace.WithAttributes(
			attribute.String("collection", collection.Hex()),
			attribute.Int("count", count),
			attribute.Bool("buying", buying),
			attribute.Int64("max_bps", maxBps),
		),
	)
	defer span.End()

	if err := s.checkCount(count); err != nil {
		span.SetStatus(codes.Error, "invalid count")
		return nil, err
	}

	pools, err := s.eligiblePools(ctx, collection, buying)
	if err != nil {
		span.SetStatus(codes.Error, "pool fetch failed")
		return nil, err
	}

	best, err := domain.BestQuoteFromPools(pools, count, buying)
	if err != nil {
		span.SetStatus(codes.Error, "quote failed")
		return nil, err
	}
	if best == nil {
		span.SetStatus(codes.Ok, "no liquidity")
		return nil, nil
	}

	for _, p := range pools {
		if p.ID != best.PoolID {
			continue
		}
		est, err := domain.EstimateSlippage(p, count, buying, maxBps)
		if err != nil {
			span.SetStatus(codes.Error, "slippage failed")
			return nil, err
		}
		span.SetAttributes(attribute.Bool("within_tolerance", est.WithinTolerance))
		span.SetStatus(codes.Ok, "estimated")
		return est, nil
	}

	// Unreachable unless the provider mutated the set under us.
	span.SetStatus(codes.Error, "best pool vanished")
	return nil, apperror.Internal(apperror.CodeInvalidPoolState,
		"best quote references unknown pool "+best.PoolID, nil)
}

func (s *PricingService) checkCount(count int) error {
	if count <= 0 {
		return apperror.Validation(apperror.CodeInvalidItemCount, "count must be > 0")
	}
	if s.maxTradeSize > 0 && count > s.maxTradeSize {
		return apperror.Validation(apperror.CodeInvalidItemCount,
			fmt.Sprintf("count %d exceeds max trade size %d", count, s.maxTradeSize))
	}
	return nil
}

// eligiblePools fetches the collection's pools and keeps the active ones that
// can serve the requested direction.
func (s *PricingService) eligiblePools(ctx context.Context, collection common.Address, buying bool) ([]*domain.Pool, error) {
	all, err := s.pools.PoolsByCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	eligible := make([]*domain.Pool, 0, len(all))
	for _, p := range all {
		if p == nil || !p.Active {
			continue
		}
		if buying && !p.CanServeBuy() {
			continue
		}
		if !buying && !p.CanServeSell() {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible, nil
}
