package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const maxKlineLimit = 500

// GetKlines — GET /api/v1/market/klines (public). interval уже в формате биржи
// (1M/5M/.../1D); сырой ответ отдаём нормализатору как есть.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]byte, error) {
	if limit > maxKlineLimit {
		limit = maxKlineLimit
	}
	params := map[string]string{
		"symbol":   symbol,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/market/klines", params, false)
}

// GetTickers — GET /api/v1/market/tickers (public).
func (c *Client) GetTickers(ctx context.Context, symbol string) ([]byte, error) {
	params := map[string]string{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/market/tickers", params, false)
}

// GetTickerPrice достаёт последнюю цену символа из списка тикеров.
// Символ не найден — ошибка, не ноль: ноль у нас значит "цены нет".
func (c *Client) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	data, err := c.GetTickers(ctx, symbol)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Data struct {
			Tickers []struct {
				Symbol string `json:"symbol"`
				Close  string `json:"close"`
			} `json:"tickers"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return 0, errors.Wrap(err, "decode tickers")
	}

	for _, t := range payload.Data.Tickers {
		if t.Symbol == symbol {
			price, err := strconv.ParseFloat(t.Close, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "parse ticker close %q", t.Close)
			}
			return price, nil
		}
	}
	return 0, errors.Errorf("symbol %s not found in ticker data", symbol)
}

// GetDepth — стакан.
func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) ([]byte, error) {
	params := map[string]string{
		"symbol": symbol,
		"limit":  strconv.Itoa(limit),
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/market/depth", params, false)
}

// GetTrades — последние сделки по символу.
func (c *Client) GetTrades(ctx context.Context, symbol string, limit int) ([]byte, error) {
	params := map[string]string{
		"symbol": symbol,
		"limit":  strconv.Itoa(limit),
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/market/trades", params, false)
}

// GetSymbols — список торговых пар.
func (c *Client) GetSymbols(ctx context.Context) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, "/api/v1/common/symbols", nil, false)
}
