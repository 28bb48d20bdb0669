package notify

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"pionex_bot/internal/modules/config"
)

// Notifier — односторонний канал оповещений. Команды не принимаем.
type Notifier interface {
	Notify(ctx context.Context, text string) error
	NotifyF(ctx context.Context, format string, args ...any) error
}

// Telegram шлёт сообщения в настроенный чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegram(cfg *config.Config, log *zap.Logger) (Notifier, error) {
	if cfg.Telegram.Token == "" {
		// без токена молча пишем в лог
		return &logOnly{log: log}, nil
	}
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: cfg.Telegram.ChatID, log: log}, nil
}

func (t *Telegram) Notify(_ context.Context, text string) error {
	_, err := t.bot.Send(tgbot.NewMessage(t.chatID, text))
	if err != nil {
		t.log.Warn("telegram send failed", zap.Error(err))
	}
	return err
}

func (t *Telegram) NotifyF(ctx context.Context, format string, args ...any) error {
	return t.Notify(ctx, fmt.Sprintf(format, args...))
}

type logOnly struct {
	log *zap.Logger
}

func (l *logOnly) Notify(_ context.Context, text string) error {
	l.log.Info("notification", zap.String("text", text))
	return nil
}

func (l *logOnly) NotifyF(ctx context.Context, format string, args ...any) error {
	return l.Notify(ctx, fmt.Sprintf(format, args...))
}

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(NewTelegram),
	)
}
