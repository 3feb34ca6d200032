package subgraph

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nftswap/router/business/pricing/app"
	"github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/internal/apperror"
)

// Ensure Provider implements PoolProvider.
var _ app.PoolProvider = (*Provider)(nil)

// Provider implements the PoolProvider port on top of the subgraph client.
type Provider struct {
	client *Client
}

// NewProvider creates a subgraph-backed pool provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// PoolsByCollection fetches every pool for the collection, paging until the
// subgraph returns a short page.
func (p *Provider) PoolsByCollection(ctx context.Context, collection common.Address) ([]*domain.Pool, error) {
	ctx, span := p.client.tracer.Start(ctx, "subgraph.pools_by_collection",
		trace.WithAttributes(attribute.String("collection", collection.Hex())),
	)
	defer span.End()

	var (
		pools  []*domain.Pool
		lastID string
	)
	for {
		var data poolsData
		err := p.client.query(ctx, poolsQuery, map[string]any{
			"collection": strings.ToLower(collection.Hex()),
			"first":      pageSize,
			"lastID":     lastID,
		}, &data)
		if err != nil {
			span.SetStatus(codes.Error, "query failed")
			return nil, err
		}

		for _, rec := range data.Pools {
			pool, err := mapPool(rec)
			if err != nil {
				span.SetStatus(codes.Error, "bad pool record")
				return nil, err
			}
			pools = append(pools, pool)
		}

		if len(data.Pools) < pageSize {
			break
		}
		lastID = data.Pools[len(data.Pools)-1].ID
	}

	span.SetAttributes(attribute.Int("pool_count", len(pools)))
	span.SetStatus(codes.Ok, "fetched")

	p.client.logger.Debug(ctx, "fetched pools",
		"collection", collection.Hex(),
		"count", len(pools),
	)

	return pools, nil
}

// mapPool converts one wire record into a domain pool. Numeric strings that
// do not parse are payload faults, not illiquidity.
func mapPool(rec poolRecord) (*domain.Pool, error) {
	spot, err := parseWei(rec.SpotPrice, "spotPrice", rec.ID)
	if err != nil {
		return nil, err
	}
	tokenBalance, err := parseWei(rec.TokenBalance, "tokenBalance", rec.ID)
	if err != nil {
		return nil, err
	}

	// XYK pools serve delta as "0"; the reserves carry the step.
	var delta *big.Int
	if rec.Delta != "" {
		delta, err = parseWei(rec.Delta, "delta", rec.ID)
		if err != nil {
			return nil, err
		}
	}

	feeBps, err := strconv.ParseUint(rec.FeeBps, 10, 64)
	if err != nil {
		return nil, badField("feeBps", rec.FeeBps, rec.ID, err)
	}
	nftBalance, err := strconv.ParseUint(rec.NFTBalance, 10, 64)
	if err != nil {
		return nil, badField("nftBalance", rec.NFTBalance, rec.ID, err)
	}

	curve, err := mapCurve(rec.CurveType, rec.ID)
	if err != nil {
		return nil, err
	}
	tradeType, err := mapTradeType(rec.PoolType, rec.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Pool{
		ID:           rec.ID,
		Collection:   common.HexToAddress(rec.Collection),
		Curve:        curve,
		TradeType:    tradeType,
		SpotPrice:    spot,
		Delta:        delta,
		FeeBps:       feeBps,
		NFTBalance:   nftBalance,
		TokenBalance: tokenBalance,
		Active:       rec.Active,
	}, nil
}

func mapCurve(s, poolID string) (domain.CurveType, error) {
	switch strings.ToUpper(s) {
	case "LINEAR":
		return domain.CurveLinear, nil
	case "EXPONENTIAL":
		return domain.CurveExponential, nil
	case "XYK":
		return domain.CurveXYK, nil
	default:
		return "", badField("curveType", s, poolID, nil)
	}
}

func mapTradeType(s, poolID string) (domain.TradeType, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return domain.TradeTypeBuy, nil
	case "SELL":
		return domain.TradeTypeSell, nil
	case "TRADE":
		return domain.TradeTypeTrade, nil
	default:
		return "", badField("poolType", s, poolID, nil)
	}
}

// parseWei decodes a base-10 integer string of arbitrary size.
func parseWei(s, field, poolID string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, badField(field, s, poolID, nil)
	}
	return v, nil
}

func badField(field, value, poolID string, cause error) error {
	return apperror.External(apperror.CodeSubgraphBadPayload,
		fmt.Sprintf("pool %s: bad %s %q", poolID, field, value), cause)
}
