package service

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
)

// Frame — сырой кадр пуш-канала вместе с ключом подписки.
type Frame struct {
	Topic  string
	Symbol string
	Data   []byte
}

type subscription struct {
	topic  string
	symbol string
	ch     chan Frame
}

// Client — один WebSocket на процесс, единый диспетчер-цикл и канал на
// подписку. Порядок сообщений гарантируется внутри одной подписки.
type Client struct {
	cfg *config.Config
	log *zap.Logger

	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
	subs map[string]*subscription // ключ topic@symbol

	cancel context.CancelFunc
	done   chan struct{}

	// подменяется в тестах, чтобы не ждать реальный backoff
	newBackOff func() backoff.BackOff
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		log:    log.With(zap.String("component", "stream")),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		subs:   make(map[string]*subscription),
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

func subKey(topic, symbol string) string {
	return topic + "@" + symbol
}

// Connect открывает соединение и запускает диспетчер. Повторный вызов —
// ошибка, жизненный цикл явный.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return errors.New("stream already connected")
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.Stream.URL, nil)
	if err != nil {
		return errors.Wrap(err, "dial stream")
	}
	c.conn = conn

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.dispatchLoop(runCtx)
	go c.pingLoop(runCtx)
	return nil
}

// Close рвёт соединение и закрывает все каналы подписок.
func (c *Client) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	conn := c.conn
	c.conn = nil
	done := c.done
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if done != nil {
		<-done
	}

	c.closeAllSubs()
}

// closeAllSubs закрывает каналы всех подписок и очищает реестр.
func (c *Client) closeAllSubs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, sub := range c.subs {
		close(sub.ch)
		delete(c.subs, key)
	}
}

// Subscribe регистрирует подписку и возвращает её канал. Канал закрывается
// при Unsubscribe или Close.
func (c *Client) Subscribe(topic, symbol string) (<-chan Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, errors.New("stream not connected")
	}

	key := subKey(topic, symbol)
	if _, exists := c.subs[key]; exists {
		return nil, errors.Errorf("already subscribed to %s", key)
	}

	if err := c.writeOp("SUBSCRIBE", topic, symbol); err != nil {
		return nil, errors.Wrapf(err, "subscribe %s", key)
	}

	sub := &subscription{topic: topic, symbol: symbol, ch: make(chan Frame, 64)}
	c.subs[key] = sub
	return sub.ch, nil
}

func (c *Client) Unsubscribe(topic, symbol string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := subKey(topic, symbol)
	sub, ok := c.subs[key]
	if !ok {
		return errors.Errorf("not subscribed to %s", key)
	}
	delete(c.subs, key)
	close(sub.ch)

	if c.conn == nil {
		return nil
	}
	return c.writeOp("UNSUBSCRIBE", topic, symbol)
}

// под мьютексом
func (c *Client) writeOp(op, topic, symbol string) error {
	msg, err := sonic.Marshal(map[string]string{
		"op":     op,
		"topic":  topic,
		"symbol": symbol,
	})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// dispatchLoop — единственный читатель соединения: разбирает кадры и
// раскладывает их по каналам подписок. При обрыве переподключается с
// экспоненциальной задержкой и восстанавливает подписки.
func (c *Client) dispatchLoop(ctx context.Context) {
	defer close(c.done)

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("stream read failed, reconnecting", zap.Error(err))
			if err := c.reconnect(ctx); err != nil {
				c.log.Error("stream reconnect failed", zap.Error(err))
				// поток мёртв: подписчики должны увидеть закрытие, а не висеть
				c.closeAllSubs()
				return
			}
			continue
		}

		var frame struct {
			Topic  string `json:"topic"`
			Symbol string `json:"symbol"`
			Op     string `json:"op"`
		}
		if err := sonic.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.Op == "PING" {
			c.writeControl("PONG")
			continue
		}
		if frame.Topic == "" {
			continue
		}

		// отправка под тем же мьютексом, что и close в Unsubscribe:
		// иначе канал может закрыться между lookup и send
		c.mu.Lock()
		if sub, ok := c.subs[subKey(frame.Topic, frame.Symbol)]; ok {
			select {
			case sub.ch <- Frame{Topic: frame.Topic, Symbol: frame.Symbol, Data: msg}:
			default:
				// медленный потребитель: кадр выбрасываем, порядок сохраняем
				c.log.Warn("subscriber buffer full, dropping frame",
					zap.String("topic", frame.Topic), zap.String("symbol", frame.Symbol))
			}
		}
		c.mu.Unlock()
	}
}

func (c *Client) reconnect(ctx context.Context) error {
	bo := backoff.WithContext(c.newBackOff(), ctx)

	return backoff.Retry(func() error {
		conn, _, err := c.dialer.DialContext(ctx, c.cfg.Stream.URL, nil)
		if err != nil {
			return err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.conn = conn

		// восстанавливаем подписки на новом соединении
		for _, sub := range c.subs {
			if err := c.writeOp("SUBSCRIBE", sub.topic, sub.symbol); err != nil {
				return err
			}
		}
		return nil
	}, bo)
}

func (c *Client) pingLoop(ctx context.Context) {
	interval := c.cfg.Stream.PingInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.writeControl("PING")
		}
	}
}

func (c *Client) writeControl(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	msg, err := sonic.Marshal(map[string]string{"op": op})
	if err != nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		c.log.Warn("stream write failed", zap.String("op", op), zap.Error(err))
	}
}
