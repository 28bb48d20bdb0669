package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

type Balance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Frozen string `json:"frozen"`
	Total  string `json:"total"`
}

type Position struct {
	Symbol        string `json:"symbol"`
	PositionAmt   string `json:"positionAmt"`
	EntryPrice    string `json:"entryPrice"`
	UnrealizedPnl string `json:"unrealizedPnl"`
	MarginType    string `json:"marginType"`
	Leverage      int    `json:"leverage"`
}

// GetBalances — GET /api/v1/account/balances (signed).
func (c *Client) GetBalances(ctx context.Context) ([]Balance, error) {
	data, err := c.Request(ctx, http.MethodGet, "/api/v1/account/balances", nil, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			Balances []Balance `json:"balances"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode balances")
	}
	return payload.Data.Balances, nil
}

// USDTBalance достаёт общий баланс USDT из ответа balances.
func (c *Client) USDTBalance(ctx context.Context) (float64, error) {
	balances, err := c.GetBalances(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range balances {
		if b.Asset == "USDT" {
			total, err := strconv.ParseFloat(b.Total, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "parse USDT total %q", b.Total)
			}
			return total, nil
		}
	}
	return 0, nil
}

// GetPositions — GET /api/v1/account/positions (signed).
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	data, err := c.Request(ctx, http.MethodGet, "/api/v1/account/positions", nil, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []Position `json:"data"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode positions")
	}
	return payload.Data, nil
}

// SetLeverage выставляет плечо для символа.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	params := map[string]string{
		"symbol":   symbol,
		"leverage": strconv.Itoa(leverage),
	}
	_, err := c.Request(ctx, http.MethodPost, "/api/v1/account/leverage", params, true)
	return err
}

// SetMarginType переключает ISOLATED/CROSS для символа.
func (c *Client) SetMarginType(ctx context.Context, symbol, marginType string) error {
	params := map[string]string{
		"symbol":     symbol,
		"marginType": marginType,
	}
	_, err := c.Request(ctx, http.MethodPost, "/api/v1/account/marginType", params, true)
	return err
}

// GetMarkPrice — маркировочная цена фьючерса.
func (c *Client) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	params := map[string]string{"symbol": symbol}
	data, err := c.Request(ctx, http.MethodGet, "/api/v1/market/markPrice", params, false)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Data struct {
			MarkPrice string `json:"markPrice"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return 0, errors.Wrap(err, "decode mark price")
	}
	price, err := strconv.ParseFloat(payload.Data.MarkPrice, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse mark price %q", payload.Data.MarkPrice)
	}
	return price, nil
}

// TestConnection проверяет ключи простым подписанным запросом.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.GetBalances(ctx); err != nil {
		return errors.Wrap(err, "authentication check")
	}
	return nil
}
