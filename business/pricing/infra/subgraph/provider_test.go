package subgraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftswap/router/business/pricing/domain"
	"github.com/nftswap/router/internal/apperror"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/logger"
)

var testCollection = common.HexToAddress("0xAbCd000000000000000000000000000000000001")

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.SubgraphConfig{
		URL:               srv.URL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 6000,
	}, logger.New(io.Discard, logger.LevelDebug, "test", nil))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewProvider(client)
}

func TestPoolsByCollection(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Variables["collection"] != "0xabcd000000000000000000000000000000000001" {
			t.Errorf("collection variable = %v, want lowercased address", req.Variables["collection"])
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"pools":[
			{"id":"0xp1","collection":"0xabcd000000000000000000000000000000000001",
			 "curveType":"LINEAR","poolType":"SELL",
			 "spotPrice":"1000000","delta":"100000","feeBps":"200",
			 "nftBalance":"10","tokenBalance":"0","active":true},
			{"id":"0xp2","collection":"0xabcd000000000000000000000000000000000001",
			 "curveType":"XYK","poolType":"TRADE",
			 "spotPrice":"340282366920938463463374607431768211456","delta":"0","feeBps":"50",
			 "nftBalance":"4","tokenBalance":"340282366920938463463374607431768211456","active":false}
		]}}`)
	})

	pools, err := provider.PoolsByCollection(context.Background(), testCollection)
	if err != nil {
		t.Fatalf("PoolsByCollection: %v", err)
	}
	if len(pools) != 2 {
		t.Fatalf("len(pools) = %d, want 2", len(pools))
	}

	p1 := pools[0]
	if p1.Curve != domain.CurveLinear || p1.TradeType != domain.TradeTypeSell {
		t.Errorf("p1 = %s/%s, want LINEAR/SELL", p1.Curve, p1.TradeType)
	}
	if got := p1.SpotPrice.Int64(); got != 1_000_000 {
		t.Errorf("p1.SpotPrice = %d, want 1000000", got)
	}
	if p1.FeeBps != 200 || p1.NFTBalance != 10 || !p1.Active {
		t.Errorf("p1 fields wrong: %+v", p1)
	}

	// 128-bit amounts must survive decoding intact.
	p2 := pools[1]
	if p2.TokenBalance.String() != "340282366920938463463374607431768211456" {
		t.Errorf("p2.TokenBalance = %s, lost precision", p2.TokenBalance)
	}
	if p2.Active {
		t.Error("p2.Active = true, want false")
	}
}

func TestPoolsByCollection_GraphQLErrors(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[{"message":"indexing in progress"}]}`)
	})

	_, err := provider.PoolsByCollection(context.Background(), testCollection)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apperror.GetCode(err); code != apperror.CodeSubgraphQueryFailed {
		t.Errorf("code = %s, want %s", code, apperror.CodeSubgraphQueryFailed)
	}
}

func TestPoolsByCollection_BadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "non_numeric_spot",
			body: `{"data":{"pools":[{"id":"0xp1","collection":"0xabcd000000000000000000000000000000000001","curveType":"LINEAR","poolType":"SELL","spotPrice":"1.5e18","delta":"0","feeBps":"0","nftBalance":"1","tokenBalance":"0","active":true}]}}`,
		},
		{
			name: "negative_balance",
			body: `{"data":{"pools":[{"id":"0xp1","collection":"0xabcd000000000000000000000000000000000001","curveType":"LINEAR","poolType":"SELL","spotPrice":"100","delta":"0","feeBps":"0","nftBalance":"1","tokenBalance":"-5","active":true}]}}`,
		},
		{
			name: "unknown_curve",
			body: `{"data":{"pools":[{"id":"0xp1","collection":"0xabcd000000000000000000000000000000000001","curveType":"SIGMOID","poolType":"SELL","spotPrice":"100","delta":"0","feeBps":"0","nftBalance":"1","tokenBalance":"0","active":true}]}}`,
		},
		{
			name: "not_json",
			body: `<html>502 Bad Gateway</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})

			_, err := provider.PoolsByCollection(context.Background(), testCollection)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := apperror.GetCode(err); code != apperror.CodeSubgraphBadPayload {
				t.Errorf("code = %s, want %s", code, apperror.CodeSubgraphBadPayload)
			}
		})
	}
}

func TestPoolsByCollection_HTTPError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := provider.PoolsByCollection(context.Background(), testCollection)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apperror.GetCode(err); code != apperror.CodeSubgraphQueryFailed {
		t.Errorf("code = %s, want %s", code, apperror.CodeSubgraphQueryFailed)
	}
}
