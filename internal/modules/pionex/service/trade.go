package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

type OrderRequest struct {
	Symbol        string
	Side          string // BUY/SELL
	Type          string // LIMIT/MARKET
	Quantity      float64
	Price         float64 // 0 для MARKET
	ClientOrderID string
	Leverage      int
	MarginType    string
}

type OrderResult struct {
	OrderID string `json:"orderId"`
}

// PlaceOrder — POST /api/v1/trade/order (signed).
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	params := map[string]string{
		"symbol":   req.Symbol,
		"side":     strings.ToUpper(req.Side),
		"type":     strings.ToUpper(req.Type),
		"quantity": strconv.FormatFloat(req.Quantity, 'f', -1, 64),
	}
	if req.Price > 0 {
		params["price"] = strconv.FormatFloat(req.Price, 'f', -1, 64)
	}
	if req.ClientOrderID != "" {
		params["clientOrderId"] = req.ClientOrderID
	}
	if req.Leverage > 0 {
		params["leverage"] = strconv.Itoa(req.Leverage)
	}
	if req.MarginType != "" {
		params["marginType"] = req.MarginType
	}

	data, err := c.Request(ctx, http.MethodPost, "/api/v1/trade/order", params, true)
	if err != nil {
		return OrderResult{}, err
	}

	var payload struct {
		Data OrderResult `json:"data"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return OrderResult{}, errors.Wrap(err, "decode order result")
	}
	return payload.Data, nil
}

// CancelOrder — DELETE /api/v1/trade/order (signed).
func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) error {
	params := map[string]string{
		"symbol":  symbol,
		"orderId": orderID,
	}
	_, err := c.Request(ctx, http.MethodDelete, "/api/v1/trade/order", params, true)
	return err
}

// GetOrder — GET /api/v1/trade/order (signed): статус одного ордера.
func (c *Client) GetOrder(ctx context.Context, symbol, orderID string) ([]byte, error) {
	params := map[string]string{
		"symbol":  symbol,
		"orderId": orderID,
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/trade/order", params, true)
}

// GetOpenOrders — GET /api/v1/trade/openOrders (signed).
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]byte, error) {
	params := map[string]string{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/trade/openOrders", params, true)
}

// GetFills — история сделок. orderID опционален.
func (c *Client) GetFills(ctx context.Context, symbol, orderID string) ([]byte, error) {
	params := map[string]string{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if orderID != "" {
		params["orderId"] = orderID
	}
	return c.Request(ctx, http.MethodGet, "/api/v1/trade/fills", params, true)
}
