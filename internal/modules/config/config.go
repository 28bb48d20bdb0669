package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	apiKeyENV         = "PIONEX_API_KEY"
	secretKeyENV      = "PIONEX_SECRET_KEY"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config — read-only мешок параметров; собирается один раз на старте.
type Config struct {
	APIKey    string
	SecretKey string

	BaseURL string `yaml:"base_url"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB string `yaml:"db_dsn"`

	API struct {
		RetryAttempts  int           `yaml:"retry_attempts"`
		RetryBackoff   float64       `yaml:"retry_backoff"` // основание экспоненты, сек
		Timeout        time.Duration `yaml:"timeout"`
		RateLimitDelay time.Duration `yaml:"rate_limit_delay"` // мин. пауза между запросами
	} `yaml:"api"`

	RSI struct {
		Period     int     `yaml:"period"`
		Oversold   float64 `yaml:"oversold"`
		Overbought float64 `yaml:"overbought"`
	} `yaml:"rsi"`

	MACD struct {
		Fast   int `yaml:"fast"`
		Slow   int `yaml:"slow"`
		Signal int `yaml:"signal"`
	} `yaml:"macd"`

	Bollinger struct {
		Window int     `yaml:"window"`
		StdDev float64 `yaml:"n_std"`
	} `yaml:"bollinger_bands"`

	VolumeFilter struct {
		EMAPeriod  int     `yaml:"ema_period"`
		Multiplier float64 `yaml:"multiplier"`
	} `yaml:"volume_filter"`

	SupportResistance struct {
		Window int `yaml:"window"`
	} `yaml:"support_resistance"`

	PositionSize    float64 `yaml:"position_size"`   // доля баланса на сделку
	StopLossPct     float64 `yaml:"stop_loss_pct"`   // напр. 1.5 => 1.5%
	TakeProfitPct   float64 `yaml:"take_profit_pct"` // напр. 2.5 => 2.5%
	TrailingPct     float64 `yaml:"trailing_pct"`
	KlineLimit      int     `yaml:"kline_limit"`
	DefaultInterval string  `yaml:"default_interval"`

	Grid struct {
		Levels        int     `yaml:"levels"`
		Spacing       float64 `yaml:"spacing"` // доля цены между уровнями
		PositionSize  float64 `yaml:"position_size"`
		MaxGrids      int     `yaml:"max_grids"`
		MinInvestment float64 `yaml:"min_investment"`
		MaxInvestment float64 `yaml:"max_investment"`
	} `yaml:"grid_trading"`

	DCA struct {
		Amount float64 `yaml:"amount"`
	} `yaml:"dca_strategy"`

	Hedging struct {
		Enabled      bool `yaml:"enabled"`
		MaxPositions int  `yaml:"max_positions"`
	} `yaml:"hedging"`

	Stream struct {
		URL          string        `yaml:"url"`
		PingInterval time.Duration `yaml:"ping_interval"`
	} `yaml:"stream"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Defaults()

	err = decoder.Decode(config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	config.APIKey = os.Getenv(apiKeyENV)
	config.SecretKey = os.Getenv(secretKeyENV)

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	return config, nil
}

// Defaults возвращает конфиг с документированными дефолтами и env-переопределениями.
// Файл из configs/ накладывается поверх.
func Defaults() *Config {
	config := &Config{
		BaseURL:         "https://api.pionex.com",
		PositionSize:    floatFromEnv("POSITION_SIZE", 0.1),
		StopLossPct:     floatFromEnv("STOP_LOSS_PCT", 1.5),
		TakeProfitPct:   floatFromEnv("TAKE_PROFIT_PCT", 2.5),
		TrailingPct:     floatFromEnv("TRAILING_PCT", 1.0),
		KlineLimit:      intFromEnv("KLINE_LIMIT", 100),
		DefaultInterval: getenvDefault("DEFAULT_INTERVAL", "1h"),
	}

	config.API.RetryAttempts = intFromEnv("API_RETRY_ATTEMPTS", 3)
	config.API.RetryBackoff = floatFromEnv("API_RETRY_BACKOFF", 1.5)
	config.API.Timeout = durationFromEnv("API_TIMEOUT", "30s")
	config.API.RateLimitDelay = durationFromEnv("API_RATE_LIMIT_DELAY", "100ms")

	config.RSI.Period = intFromEnv("RSI_PERIOD", 14)
	config.RSI.Oversold = floatFromEnv("RSI_OVERSOLD", 30)
	config.RSI.Overbought = floatFromEnv("RSI_OVERBOUGHT", 70)

	config.MACD.Fast = intFromEnv("MACD_FAST", 12)
	config.MACD.Slow = intFromEnv("MACD_SLOW", 26)
	config.MACD.Signal = intFromEnv("MACD_SIGNAL", 9)

	config.Bollinger.Window = intFromEnv("BB_WINDOW", 20)
	config.Bollinger.StdDev = floatFromEnv("BB_STD_DEV", 2.0)

	config.VolumeFilter.EMAPeriod = intFromEnv("VOLUME_EMA_PERIOD", 20)
	config.VolumeFilter.Multiplier = floatFromEnv("VOLUME_MULTIPLIER", 1.5)

	config.SupportResistance.Window = intFromEnv("SR_WINDOW", 20)

	config.Grid.Levels = intFromEnv("GRID_LEVELS", 5)
	config.Grid.Spacing = floatFromEnv("GRID_SPACING", 0.01)
	config.Grid.PositionSize = floatFromEnv("GRID_POSITION_SIZE", 0.05)
	config.Grid.MaxGrids = intFromEnv("GRID_MAX_GRIDS", 100)
	config.Grid.MinInvestment = floatFromEnv("GRID_MIN_INVESTMENT", 10)
	config.Grid.MaxInvestment = floatFromEnv("GRID_MAX_INVESTMENT", 10000)

	config.DCA.Amount = floatFromEnv("DCA_AMOUNT", 50)

	config.Hedging.Enabled = boolFromEnv("HEDGING_ENABLED", false)
	config.Hedging.MaxPositions = intFromEnv("HEDGING_MAX_POSITIONS", 5)

	config.Stream.URL = getenvDefault("STREAM_URL", "wss://ws.pionex.com/wsPub")
	config.Stream.PingInterval = durationFromEnv("STREAM_PING_INTERVAL", "15s")

	return config
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
