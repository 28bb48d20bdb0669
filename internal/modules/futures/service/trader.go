package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pionex_bot/internal/models"
	"pionex_bot/internal/modules/config"
	pionexsvc "pionex_bot/internal/modules/pionex/service"
	"pionex_bot/internal/notify"
)

// StrategyStore — две операции персистенции; схему хранилища ядро не знает.
type StrategyStore interface {
	AddActiveStrategy(ctx context.Context, userID, symbol string, kind models.StrategyKind, record any) (int64, error)
	DeactivateStrategy(ctx context.Context, id int64) error
}

// Exchange — что трейдеру нужно от биржи.
type Exchange interface {
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
	GetMarkPrice(ctx context.Context, symbol string) (float64, error)
	GetPositions(ctx context.Context) ([]pionexsvc.Position, error)
	USDTBalance(ctx context.Context) (float64, error)
	PlaceOrder(ctx context.Context, req pionexsvc.OrderRequest) (pionexsvc.OrderResult, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	SetMarginType(ctx context.Context, symbol, marginType string) error
}

// Trader — состояние одного пользователя: активные сетки и хеджи.
// Доступ не реентерабельный, вызывающая сторона сериализует вызовы.
type Trader struct {
	userID   string
	api      Exchange
	cfg      *config.Config
	store    StrategyStore
	notifier notify.Notifier
	log      *zap.Logger

	activeGrids  map[string]*models.GridStrategy // ключ symbol_gridtype
	activeHedges map[string]*models.HedgeStrategy
	recordIDs    map[string]int64 // ключ стратегии -> id записи в store

	lastRiskCheck *models.LiquidationWarning
}

func NewTrader(userID string, api Exchange, cfg *config.Config, store StrategyStore, notifier notify.Notifier, log *zap.Logger) *Trader {
	return &Trader{
		userID:       userID,
		api:          api,
		cfg:          cfg,
		store:        store,
		notifier:     notifier,
		log:          log.With(zap.String("user_id", userID)),
		activeGrids:  make(map[string]*models.GridStrategy),
		activeHedges: make(map[string]*models.HedgeStrategy),
		recordIDs:    make(map[string]int64),
	}
}

// Manager выдаёт трейдеров по userID, один на пользователя.
type Manager struct {
	api      Exchange
	cfg      *config.Config
	store    StrategyStore
	notifier notify.Notifier
	log      *zap.Logger

	mu      sync.Mutex
	traders map[string]*Trader
}

func NewManager(api Exchange, cfg *config.Config, store StrategyStore, notifier notify.Notifier, log *zap.Logger) *Manager {
	return &Manager{
		api:      api,
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		log:      log,
		traders:  make(map[string]*Trader),
	}
}

func (m *Manager) Trader(userID string) *Trader {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.traders[userID]; ok {
		return t
	}
	t := NewTrader(userID, m.api, m.cfg, m.store, m.notifier, m.log)
	m.traders[userID] = t
	return t
}

// Drop убирает трейдера из менеджера, его стратегии при этом не закрываются.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.traders, userID)
}
