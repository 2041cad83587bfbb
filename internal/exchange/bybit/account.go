package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/levanduc/crypto-signal-bot/pkg/types"
)

// AccountSnapshot fetches the unified account wallet and maps it to a
// point-in-time snapshot. Total initial margin is treated as used margin.
func (c *Client) AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error) {
	params := map[string]interface{}{
		"accountType": "UNIFIED",
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetAccountWallet(ctx)
	if err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("failed to get account wallet: %w", err)
	}

	serverResp, err := checkResponse(result)
	if err != nil {
		return types.AccountSnapshot{}, err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("failed to marshal result: %w", err)
	}

	var walletResult struct {
		List []struct {
			TotalEquity           string `json:"totalEquity"`
			TotalAvailableBalance string `json:"totalAvailableBalance"`
			TotalInitialMargin    string `json:"totalInitialMargin"`
		} `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &walletResult); err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("failed to unmarshal wallet result: %w", err)
	}

	if len(walletResult.List) == 0 {
		return types.AccountSnapshot{}, fmt.Errorf("no account data found")
	}

	account := walletResult.List[0]
	snapshot := types.AccountSnapshot{
		Equity:           parseFloat64(account.TotalEquity),
		AvailableBalance: parseFloat64(account.TotalAvailableBalance),
		UsedMargin:       parseFloat64(account.TotalInitialMargin),
		Timestamp:        time.Now(),
	}
	if snapshot.Equity > 0 {
		snapshot.MarginUtilizationPct = snapshot.UsedMargin / snapshot.Equity * 100
	}

	return snapshot, nil
}
