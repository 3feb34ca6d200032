// Package subgraph implements the PoolProvider port against a GraphQL
// subgraph that indexes pool state.
package subgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nftswap/router/internal/apperror"
	"github.com/nftswap/router/internal/circuitbreaker"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/httpclient"
	"github.com/nftswap/router/internal/logger"
	"github.com/nftswap/router/internal/ratelimit"
)

const (
	tracerName = "subgraph"

	defaultTimeout           = 10 * time.Second
	defaultRequestsPerMinute = 120

	// pageSize is the subgraph's maximum page.
	pageSize = 1000
)

// Client is a rate-limited, circuit-broken GraphQL client for the pool
// subgraph.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[[]byte]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
}

// NewClient creates a subgraph client from config.
func NewClient(cfg config.SubgraphConfig, log logger.LoggerInterface) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRequestsPerMinute
	}

	tracer := otel.Tracer(tracerName)

	headers := map[string]string{
		"Accept": "application/json",
	}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	http, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("subgraph"),
		httpclient.WithBaseURL(cfg.URL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	c := &Client{
		http:    http,
		limiter: ratelimit.New(rpm),
		logger:  log,
		tracer:  tracer,
	}

	cbCfg := circuitbreaker.DefaultConfig("subgraph")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[[]byte](cbCfg)

	return c, nil
}

// query executes one GraphQL request and decodes data into out. The rate
// limiter runs before the breaker so rejected calls do not burn tokens the
// wrong way round: a tripped breaker should not also exhaust the limiter.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperror.External(apperror.CodeSubgraphQueryFailed, "rate limiter wait", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.http.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "graphql")),
		).
			SetBody(graphqlRequest{Query: query, Variables: variables}).
			SetHeader("Content-Type", "application/json").
			Post(ctx, "")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.String())
		}
		return resp.Body(), nil
	})
	if err != nil {
		if c.cb.IsOpen() {
			return apperror.External(apperror.CodeCircuitOpen, "subgraph circuit open", err)
		}
		return apperror.External(apperror.CodeSubgraphQueryFailed, "graphql request failed", err)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apperror.External(apperror.CodeSubgraphBadPayload, "malformed response envelope", err)
	}
	if err := envelope.err(); err != nil {
		return apperror.External(apperror.CodeSubgraphQueryFailed, "graphql errors in response", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return apperror.External(apperror.CodeSubgraphBadPayload, "malformed data payload", err)
	}
	return nil
}
