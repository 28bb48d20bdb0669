package service

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pionex_bot/internal/modules/config"
)

// Client — подписанный REST-клиент Pionex. Один limiter на весь клиент:
// пэйсинг глобальный, не по-эндпоинтный.
type Client struct {
	cfg *config.Config
	log *zap.Logger

	http    *http.Client
	limiter *rate.Limiter

	baseURL   string
	apiKey    string
	secretKey string

	retryAttempts int
	retryBackoff  float64

	// подменяется в тестах, чтобы не спать реальные секунды
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	delay := cfg.API.RateLimitDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	attempts := cfg.API.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.API.RetryBackoff
	if backoff <= 1 {
		backoff = 1.5
	}

	return &Client{
		cfg: cfg,
		log: log.With(zap.String("component", "pionex_client")),
		http: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		limiter:       rate.NewLimiter(rate.Every(delay), 1),
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		secretKey:     cfg.SecretKey,
		retryAttempts: attempts,
		retryBackoff:  backoff,
		sleep:         time.Sleep,
	}
}
