package orderbook

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nftswap/router/business/routing/domain"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/logger"
	"github.com/nftswap/router/internal/wsconn"
)

// orderEvent is the wire format of a pushed best-order change.
type orderEvent struct {
	Collection string `json:"collection"`
	OrderID    string `json:"orderId"`
	Price      string `json:"price"`
	Side       string `json:"side"`
	Expiration int64  `json:"expiration,omitempty"`
}

// subscribeRequest subscribes to best-order updates for a set of collections.
type subscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int      `json:"id"`
}

// Feed streams best-order changes over the order-book WebSocket. Watch mode
// uses it to refresh listing routes without polling.
type Feed struct {
	ws      *wsconn.Client
	logger  logger.LoggerInterface
	updates chan domain.ListingEvent
	topics  []string
}

// NewFeed creates a feed subscribed to the given collections.
func NewFeed(cfg config.OrderbookConfig, collections []common.Address, log logger.LoggerInterface) (*Feed, error) {
	if cfg.WebSocketURL == "" {
		return nil, fmt.Errorf("orderbook feed: websocket_url is required")
	}

	wsCfg := wsconn.DefaultConfig(cfg.WebSocketURL, "orderbook")
	if cfg.APIKey != "" {
		wsCfg.Headers = map[string]string{"X-Api-Key": cfg.APIKey}
	}

	ws, err := wsconn.New(wsCfg)
	if err != nil {
		return nil, err
	}

	topics := make([]string, len(collections))
	for i, addr := range collections {
		topics[i] = "orders:" + strings.ToLower(addr.Hex())
	}

	f := &Feed{
		ws:      ws,
		logger:  log,
		updates: make(chan domain.ListingEvent, 64),
		topics:  topics,
	}

	ws.OnMessage(f.handleMessage)
	ws.OnStateChange(func(state wsconn.State, err error) {
		if err != nil {
			log.Warn(context.Background(), "orderbook feed state change",
				"state", string(state), "error", err.Error())
			return
		}
		log.Debug(context.Background(), "orderbook feed state change", "state", string(state))
	})

	return f, nil
}

// Start connects and subscribes. Updates begin flowing on Updates after this
// returns.
func (f *Feed) Start(ctx context.Context) error {
	if err := f.ws.Connect(ctx); err != nil {
		return err
	}
	return f.ws.SendJSON(ctx, subscribeRequest{
		Method: "SUBSCRIBE",
		Params: f.topics,
		ID:     1,
	})
}

// Updates returns the stream of best-order changes.
func (f *Feed) Updates() <-chan domain.ListingEvent {
	return f.updates
}

// Close tears the feed down and closes the updates channel.
func (f *Feed) Close() error {
	err := f.ws.Close()
	close(f.updates)
	return err
}

func (f *Feed) handleMessage(ctx context.Context, msg []byte) {
	var event orderEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		f.logger.Warn(ctx, "orderbook feed: dropping malformed event", "error", err.Error())
		return
	}
	// Subscription acks and heartbeats have no order payload.
	if event.OrderID == "" || event.Price == "" {
		return
	}

	price, ok := new(big.Int).SetString(event.Price, 10)
	if !ok || price.Sign() < 0 {
		f.logger.Warn(ctx, "orderbook feed: dropping event with bad price",
			"order_id", event.OrderID, "price", event.Price)
		return
	}

	route := &domain.TradeRoute{
		Source:  domain.SourceListing,
		Price:   price,
		OrderID: event.OrderID,
	}
	if event.Expiration > 0 {
		route.Expiration = time.Unix(event.Expiration, 0)
	}

	update := domain.ListingEvent{
		Collection: common.HexToAddress(event.Collection),
		Route:      route,
		Buying:     event.Side == "ask",
	}

	select {
	case f.updates <- update:
	default:
		// Consumer is behind; drop the oldest by draining one slot.
		select {
		case <-f.updates:
		default:
		}
		select {
		case f.updates <- update:
		default:
		}
	}
}
