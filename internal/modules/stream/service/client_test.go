package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pionex_bot/internal/modules/config"
	"pionex_bot/pkg/logger"
)

var upgrader = websocket.Upgrader{}

type opMsg struct {
	Op     string `json:"op"`
	Topic  string `json:"topic"`
	Symbol string `json:"symbol"`
}

// testServer апгрейдит соединение и по подписке шлёт count кадров подряд.
func testServer(t *testing.T, frames int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var op opMsg
			if err := sonic.Unmarshal(msg, &op); err != nil || op.Op != "SUBSCRIBE" {
				continue
			}
			for i := 0; i < frames; i++ {
				frame := map[string]any{
					"topic":  op.Topic,
					"symbol": op.Symbol,
					"seq":    i,
				}
				data, _ := sonic.Marshal(frame)
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))
}

func testStreamClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	cfg := config.Defaults()
	cfg.Stream.URL = "ws" + strings.TrimPrefix(serverURL, "http")
	cfg.Stream.PingInterval = time.Minute // пинги в тестах не нужны

	return NewClient(cfg, logger.NewNop())
}

func TestSubscribeRequiresConnect(t *testing.T) {
	c := testStreamClient(t, "http://unused")
	_, err := c.Subscribe("TRADE", "BTC_USDT")
	require.Error(t, err)
}

func TestSubscribeDeliversFramesInOrder(t *testing.T) {
	srv := testServer(t, 5)
	defer srv.Close()

	c := testStreamClient(t, srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	ch, err := c.Subscribe("TRADE", "BTC_USDT")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		select {
		case frame := <-ch:
			assert.Equal(t, "TRADE", frame.Topic)
			assert.Equal(t, "BTC_USDT", frame.Symbol)

			var payload struct {
				Seq int `json:"seq"`
			}
			require.NoError(t, sonic.Unmarshal(frame.Data, &payload))
			assert.Equal(t, i, payload.Seq, "frames arrive in receipt order")
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}
}

func TestDuplicateSubscribeRejected(t *testing.T) {
	srv := testServer(t, 0)
	defer srv.Close()

	c := testStreamClient(t, srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	_, err := c.Subscribe("TRADE", "BTC_USDT")
	require.NoError(t, err)

	_, err = c.Subscribe("TRADE", "BTC_USDT")
	require.Error(t, err)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	srv := testServer(t, 0)
	defer srv.Close()

	c := testStreamClient(t, srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	ch, err := c.Subscribe("DEPTH", "ETH_USDT")
	require.NoError(t, err)
	require.NoError(t, c.Unsubscribe("DEPTH", "ETH_USDT"))

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel must be closed after unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	// повторная отписка — ошибка
	require.Error(t, c.Unsubscribe("DEPTH", "ETH_USDT"))
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	// сервер заваливает подписку кадрами, пока мы отписываемся:
	// отправка и close должны быть сериализованы, иначе паника
	srv := testServer(t, 500)
	defer srv.Close()

	c := testStreamClient(t, srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	for i := 0; i < 100; i++ {
		ch, err := c.Subscribe("TRADE", "BTC_USDT")
		require.NoError(t, err)

		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("no frame before unsubscribe")
		}

		require.NoError(t, c.Unsubscribe("TRADE", "BTC_USDT"))
	}
}

func TestDispatchFailureClosesSubscriptions(t *testing.T) {
	// httptest.Server перестаёт отслеживать hijacked-соединения, поэтому
	// Close/CloseClientConnections не рвут вебсокет — закрываем его сами.
	var (
		connMu sync.Mutex
		conns  []*websocket.Conn
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connMu.Lock()
		conns = append(conns, conn)
		connMu.Unlock()
		defer conn.Close()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))

	c := testStreamClient(t, srv.URL)
	c.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 2)
	}
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	ch, err := c.Subscribe("TRADE", "BTC_USDT")
	require.NoError(t, err)

	// рвём соединение и гасим сервер: переподключение обречено
	srv.Close()
	connMu.Lock()
	for _, conn := range conns {
		_ = conn.Close()
	}
	connMu.Unlock()

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel must be closed when the stream dies")
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber left hanging after reconnect failure")
	}
}

func TestFramesRoutedBySubscriptionKey(t *testing.T) {
	srv := testServer(t, 1)
	defer srv.Close()

	c := testStreamClient(t, srv.URL)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	trade, err := c.Subscribe("TRADE", "BTC_USDT")
	require.NoError(t, err)
	depth, err := c.Subscribe("DEPTH", "BTC_USDT")
	require.NoError(t, err)

	select {
	case frame := <-trade:
		assert.Equal(t, "TRADE", frame.Topic)
	case <-time.After(2 * time.Second):
		t.Fatal("no trade frame")
	}
	select {
	case frame := <-depth:
		assert.Equal(t, "DEPTH", frame.Topic)
	case <-time.After(2 * time.Second):
		t.Fatal("no depth frame")
	}
}
