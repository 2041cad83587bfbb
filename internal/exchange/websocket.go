package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	bybitLinearStreamURL = "wss://stream.bybit.com/v5/public/linear"
	wsPingInterval       = 20 * time.Second
	wsReconnectDelay     = 5 * time.Second
)

// PriceStream maintains a public ticker subscription and invokes the
// callback with last-price updates. The bot runs fine without it; REST
// polling covers the gaps.
type PriceStream struct {
	url     string
	symbols []string
	onPrice func(symbol string, price float64)
}

// NewPriceStream creates a stream for the given symbols.
func NewPriceStream(symbols []string, onPrice func(symbol string, price float64)) *PriceStream {
	return &PriceStream{
		url:     bybitLinearStreamURL,
		symbols: symbols,
		onPrice: onPrice,
	}
}

// Run connects and reads until the context is cancelled, reconnecting on
// read failures.
func (ps *PriceStream) Run(ctx context.Context) {
	for {
		if err := ps.connectAndRead(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Price stream error: %v, reconnecting in %s", err, wsReconnectDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wsReconnectDelay):
		}
	}
}

func (ps *PriceStream) connectAndRead(ctx context.Context) error {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(ps.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to price stream: %w", err)
	}
	defer conn.Close()

	args := make([]string, 0, len(ps.symbols))
	for _, symbol := range ps.symbols {
		args = append(args, "tickers."+symbol)
	}
	subscribe := map[string]interface{}{
		"op":   "subscribe",
		"args": args,
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go ps.keepAlive(ctx, conn, done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		ps.handleMessage(message)
	}
}

func (ps *PriceStream) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			ping := map[string]string{"op": "ping"}
			if err := conn.WriteJSON(ping); err != nil {
				return
			}
		}
	}
}

func (ps *PriceStream) handleMessage(message []byte) {
	var update struct {
		Topic string `json:"topic"`
		Data  struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"data"`
	}
	if err := json.Unmarshal(message, &update); err != nil {
		return
	}
	if update.Data.Symbol == "" || update.Data.LastPrice == "" {
		return
	}

	var price float64
	if _, err := fmt.Sscanf(update.Data.LastPrice, "%f", &price); err != nil {
		return
	}
	ps.onPrice(update.Data.Symbol, price)
}
