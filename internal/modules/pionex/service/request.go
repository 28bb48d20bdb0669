package service

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	otext "github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultRetryAfter = 60 * time.Second

// Request выполняет вызов API с пэйсингом, подписью и ретраями.
//
// Политика ретраев:
//   - 429 — спим Retry-After (по умолчанию 60s) и пробуем снова;
//   - >=500, таймаут, обрыв соединения — backoff^attempt секунд, пока есть попытки;
//   - остальные 4xx — сразу ошибка, без ретраев;
//   - HTTP 200 с ненулевым кодом приложения — *APIError, без ретраев.
//
// За границу функции никогда не уходит паника: все отказы — значения ошибок.
func (c *Client) Request(ctx context.Context, method, path string, params map[string]string, signed bool) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pionex.request")
	otext.HTTPMethod.Set(span, method)
	span.SetTag("path", path)
	defer span.Finish()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	if params == nil {
		params = map[string]string{}
	}

	var query, body string
	if signed {
		params["timestamp"] = timestampMillis(time.Now())
		query = canonicalQuery(params)
		if method == http.MethodPost || method == http.MethodDelete {
			b, err := sonic.Marshal(params)
			if err != nil {
				return nil, errors.Wrap(err, "marshal body")
			}
			body = string(b)
		}
	} else {
		query = canonicalQuery(params)
	}

	url := c.baseURL + path
	if query != "" {
		url += "?" + query
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		data, retryAfter, err := c.doAttempt(ctx, method, path, url, query, body, signed)
		if err == nil {
			return data, nil
		}

		var httpErr *HTTPError
		switch {
		case errors.As(err, &httpErr) && httpErr.Status == http.StatusTooManyRequests:
			c.log.Warn("rate limited", zap.Duration("retry_after", retryAfter))
			lastErr = err
			c.sleep(retryAfter)
			continue

		case errors.As(err, &httpErr) && !httpErr.Retryable:
			// прочие 4xx и ошибки приложения не ретраим
			otext.Error.Set(span, true)
			return nil, err

		case errors.As(err, new(*APIError)):
			otext.Error.Set(span, true)
			return nil, err

		default:
			// транспорт или 5xx
			lastErr = err
			c.log.Warn("request failed",
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Int("attempts", c.retryAttempts),
				zap.Error(err),
			)
			if attempt < c.retryAttempts-1 {
				c.sleep(c.backoffDelay(attempt))
			}
		}
	}

	otext.Error.Set(span, true)
	return nil, errors.Wrapf(lastErr, "all %d retry attempts failed", c.retryAttempts)
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	secs := math.Pow(c.retryBackoff, float64(attempt))
	return time.Duration(secs * float64(time.Second))
}

func (c *Client) doAttempt(ctx context.Context, method, path, url, query, body string, signed bool) ([]byte, time.Duration, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PionexTradingBot/1.0")
	if signed {
		sig := c.signPayload(method, path, query, body)
		req.Header.Set(headerKey, c.apiKey)
		req.Header.Set(headerSignature, sig)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read body")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var envelope struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		// тело без кода — тоже валидный ответ
		if err := sonic.Unmarshal(data, &envelope); err == nil && envelope.Code != 0 {
			return nil, 0, &APIError{Code: envelope.Code, Msg: envelope.Msg}
		}
		return data, 0, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, retryAfter, &HTTPError{Status: resp.StatusCode, Body: string(data), Retryable: true}

	case resp.StatusCode >= 500:
		return nil, 0, &HTTPError{Status: resp.StatusCode, Body: string(data), Retryable: true}

	default:
		return nil, 0, &HTTPError{Status: resp.StatusCode, Body: string(data), Retryable: false}
	}
}
