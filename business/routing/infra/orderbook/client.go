// Package orderbook implements the ListingProvider port against the
// marketplace order-book REST API.
package orderbook

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nftswap/router/business/routing/app"
	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/internal/apperror"
	"github.com/nftswap/router/internal/circuitbreaker"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/httpclient"
	"github.com/nftswap/router/internal/logger"
)

const (
	tracerName = "orderbook"

	bestOrderEndpoint = "/v1/orders/best"

	defaultTimeout = 10 * time.Second
)

// Ensure Client implements ListingProvider.
var _ app.ListingProvider = (*Client)(nil)

// bestOrderResponse is the REST payload for the best order on one side of
// the book. Price is a wei string; it never arrives as a float.
type bestOrderResponse struct {
	OrderID    string `json:"orderId"`
	Price      string `json:"price"`
	Side       string `json:"side"`
	Expiration int64  `json:"expiration,omitempty"` // unix seconds, 0 = never
}

// Client fetches best listing/offer prices over REST.
type Client struct {
	http   httpclient.Client
	cb     *circuitbreaker.CircuitBreaker[*bestOrderResponse]
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewClient creates an order-book client from config.
func NewClient(cfg config.OrderbookConfig, log logger.LoggerInterface) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	tracer := otel.Tracer(tracerName)

	headers := map[string]string{
		"Accept": "application/json",
	}
	if cfg.APIKey != "" {
		headers["X-Api-Key"] = cfg.APIKey
	}

	httpc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("orderbook"),
		httpclient.WithBaseURL(cfg.URL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceResponse),
		httpclient.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Client{
		http:   httpc,
		cb:     circuitbreaker.New[*bestOrderResponse](circuitbreaker.DefaultConfig("orderbook")),
		logger: log,
		tracer: tracer,
	}, nil
}

// BestListing returns the best listing (when the user is buying) or the best
// offer (when selling) for the collection, or nil when the book is empty on
// that side.
func (c *Client) BestListing(ctx context.Context, collection common.Address, buying bool) (*domain.TradeRoute, error) {
	side := "ask"
	if !buying {
		side = "bid"
	}

	ctx, span := c.tracer.Start(ctx, "orderbook.best_listing",
		trace.WithAttributes(
			attribute.String("collection", collection.Hex()),
			attribute.String("side", side),
		),
	)
	defer span.End()

	order, err := c.cb.Execute(func() (*bestOrderResponse, error) {
		return c.fetchBestOrder(ctx, collection, side)
	})
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.External(apperror.CodeOrderbookFetchFailed, "best order fetch", err)
	}
	if order == nil {
		span.SetStatus(codes.Ok, "empty book")
		return nil, nil
	}

	price, ok := new(big.Int).SetString(order.Price, 10)
	if !ok || price.Sign() < 0 {
		span.SetStatus(codes.Error, "bad price")
		return nil, apperror.External(apperror.CodeInvalidListing,
			fmt.Sprintf("order %s: bad price %q", order.OrderID, order.Price), nil)
	}

	route := &domain.TradeRoute{
		Source:  domain.SourceListing,
		Price:   price,
		OrderID: order.OrderID,
	}
	if order.Expiration > 0 {
		route.Expiration = time.Unix(order.Expiration, 0)
	}

	span.SetAttributes(
		attribute.String("order_id", order.OrderID),
		attribute.String("price", order.Price),
	)
	span.SetStatus(codes.Ok, "listing found")

	c.logger.Debug(ctx, "best listing",
		"collection", collection.Hex(),
		"side", side,
		"order_id", order.OrderID,
		"price", order.Price,
	)

	return route, nil
}

// fetchBestOrder performs the REST call. A 404 means the book is empty on
// that side and maps to a nil order, not an error.
func (c *Client) fetchBestOrder(ctx context.Context, collection common.Address, side string) (*bestOrderResponse, error) {
	var result bestOrderResponse
	resp, err := c.http.NewRequestWithOptions(
		httpclient.WithLabels(
			httpclient.NewLabel("endpoint", "best_order"),
			httpclient.NewLabel("side", side),
		),
	).
		SetQueryParam("collection", collection.Hex()).
		SetQueryParam("side", side).
		SetResult(&result).
		Get(ctx, bestOrderEndpoint)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.String())
	}
	if result.OrderID == "" {
		return nil, nil
	}
	return &result, nil
}
