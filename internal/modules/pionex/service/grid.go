package service

import (
	"context"
	"net/http"
)

// CreateGridBot — POST /api/v1/grid/order (signed). params — параметры сетки
// (диапазон, число уровней, инвестиция) в формате биржи.
func (c *Client) CreateGridBot(ctx context.Context, symbol string, params map[string]string) ([]byte, error) {
	if params == nil {
		params = map[string]string{}
	}
	params["symbol"] = symbol
	return c.Request(ctx, http.MethodPost, "/api/v1/grid/order", params, true)
}

// GetGridBot — состояние серверной сетки.
func (c *Client) GetGridBot(ctx context.Context, gridID string) ([]byte, error) {
	params := map[string]string{"gridId": gridID}
	return c.Request(ctx, http.MethodGet, "/api/v1/grid/order", params, true)
}

// StopGridBot останавливает серверную сетку.
func (c *Client) StopGridBot(ctx context.Context, gridID string) ([]byte, error) {
	params := map[string]string{"gridId": gridID}
	return c.Request(ctx, http.MethodPost, "/api/v1/grid/order/stop", params, true)
}

// ListGridBots — список активных серверных сеток.
func (c *Client) ListGridBots(ctx context.Context) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, "/api/v1/grid/order/list", nil, true)
}
