package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/levanduc/crypto-signal-bot/internal/exchange"
)

// PlaceMarketOrder submits a market order, with optional stop-loss and
// take-profit attached at placement time.
func (c *Client) PlaceMarketOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Side != "Buy" && req.Side != "Sell" {
		return nil, fmt.Errorf("invalid order side %q", req.Side)
	}
	if req.Qty == "" {
		return nil, fmt.Errorf("qty is required")
	}
	category := req.Category
	if category == "" {
		category = "linear"
	}

	apiParams := map[string]interface{}{
		"category":  category,
		"symbol":    req.Symbol,
		"side":      req.Side,
		"orderType": "Market",
		"qty":       req.Qty,
	}
	if req.TakeProfit != "" {
		apiParams["takeProfit"] = req.TakeProfit
	}
	if req.StopLoss != "" {
		apiParams["stopLoss"] = req.StopLoss
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(apiParams).PlaceOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return parseOrderResponse(result)
}

func parseOrderResponse(response interface{}) (*exchange.OrderResult, error) {
	serverResp, err := checkResponse(response)
	if err != nil {
		return nil, err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var orderResult struct {
		OrderID     string `json:"orderId"`
		OrderLinkID string `json:"orderLinkId"`
	}
	if err := json.Unmarshal(resultBytes, &orderResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order result: %w", err)
	}
	if orderResult.OrderID == "" {
		return nil, fmt.Errorf("order response missing orderId")
	}

	return &exchange.OrderResult{
		OrderID:     orderResult.OrderID,
		OrderLinkID: orderResult.OrderLinkID,
	}, nil
}

// SetLeverage sets symmetric buy/sell leverage for a derivatives symbol.
// Spot orders skip this call.
func (c *Client) SetLeverage(ctx context.Context, category, symbol string, leverage int) error {
	if category == "" {
		category = "linear"
	}
	lev := strconv.Itoa(leverage)

	params := map[string]interface{}{
		"category":     category,
		"symbol":       symbol,
		"buyLeverage":  lev,
		"sellLeverage": lev,
	}

	if _, err := c.httpClient.NewUtaBybitServiceWithParams(params).SetPositionLeverage(ctx); err != nil {
		return fmt.Errorf("failed to set leverage: %w", err)
	}
	return nil
}
