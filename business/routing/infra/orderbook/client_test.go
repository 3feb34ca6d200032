package orderbook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/internal/apperror"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/logger"
)

var testCollection = common.HexToAddress("0x3333333333333333333333333333333333333333")

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.OrderbookConfig{
		URL:     srv.URL,
		Timeout: 2 * time.Second,
	}, logger.New(io.Discard, logger.LevelDebug, "test", nil))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestBestListing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("side"); got != "ask" {
			t.Errorf("side = %q, want ask", got)
		}
		if got := r.URL.Query().Get("collection"); got != testCollection.Hex() {
			t.Errorf("collection = %q, want %s", got, testCollection.Hex())
		}
		io.WriteString(w, `{"orderId":"o-77","price":"340282366920938463463374607431768211456","side":"ask","expiration":1790000000}`)
	})

	route, err := client.BestListing(context.Background(), testCollection, true)
	if err != nil {
		t.Fatalf("BestListing: %v", err)
	}
	if route.Source != domain.SourceListing {
		t.Errorf("Source = %s, want listing", route.Source)
	}
	if route.Instant {
		t.Error("listing routes are not instant")
	}
	if route.OrderID != "o-77" {
		t.Errorf("OrderID = %q, want o-77", route.OrderID)
	}
	if route.Price.String() != "340282366920938463463374607431768211456" {
		t.Errorf("Price = %s, lost precision", route.Price)
	}
	if route.Expiration.Unix() != 1790000000 {
		t.Errorf("Expiration = %v, want unix 1790000000", route.Expiration)
	}
}

func TestBestListing_SellSideQueriesBids(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("side"); got != "bid" {
			t.Errorf("side = %q, want bid", got)
		}
		io.WriteString(w, `{"orderId":"o-1","price":"900","side":"bid"}`)
	})

	route, err := client.BestListing(context.Background(), testCollection, false)
	if err != nil {
		t.Fatalf("BestListing: %v", err)
	}
	if got := route.Price.Int64(); got != 900 {
		t.Errorf("Price = %d, want 900", got)
	}
	if !route.Expiration.IsZero() {
		t.Errorf("Expiration = %v, want zero for non-expiring order", route.Expiration)
	}
}

func TestBestListing_EmptyBook(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not_found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "empty_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			route, err := client.BestListing(context.Background(), testCollection, true)
			if err != nil {
				t.Fatalf("BestListing: %v", err)
			}
			if route != nil {
				t.Errorf("route = %+v, want nil for empty book", route)
			}
		})
	}
}

func TestBestListing_BadPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"orderId":"o-1","price":"1.5e18","side":"ask"}`)
	})

	_, err := client.BestListing(context.Background(), testCollection, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apperror.GetCode(err); code != apperror.CodeInvalidListing {
		t.Errorf("code = %s, want %s", code, apperror.CodeInvalidListing)
	}
}

func TestBestListing_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})

	_, err := client.BestListing(context.Background(), testCollection, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apperror.GetCode(err); code != apperror.CodeOrderbookFetchFailed {
		t.Errorf("code = %s, want %s", code, apperror.CodeOrderbookFetchFailed)
	}
}
