package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/logger"
)

// maxAttempts предел попыток отправки одного сообщения
const maxAttempts = 3

// Telegram отправляет уведомления в Telegram-канал с ограниченными
// повторами и уважением к retry-after при rate limit
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
}

// NewTelegram создает нового отправителя. Токен и chat id берутся
// из конфигурации; chat id может быть числом или @каналом.
func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Telegram-бота: %w", err)
	}

	t := &Telegram{bot: bot}
	if id, err := strconv.ParseInt(cfg.ChatID, 10, 64); err == nil {
		t.chatID = id
	} else {
		t.channel = cfg.ChatID
	}

	return t, nil
}

// Send отправляет HTML-сообщение. До трех попыток с экспоненциальной
// паузой; при 429 ждет retry-after от Telegram.
func (t *Telegram) Send(ctx context.Context, text string) error {
	b := &backoff.Backoff{Min: 2 * time.Second, Max: 10 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		msg := t.newMessage(text)
		_, err := t.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		wait := b.Duration()
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			wait = time.Duration(apiErr.RetryAfter) * time.Second
			logger.Warn("Telegram rate limit", zap.Duration("retry_after", wait))
		} else {
			logger.Warn("Ошибка отправки в Telegram",
				zap.Int("attempt", attempt), zap.Error(err))
		}

		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("сообщение не отправлено после %d попыток: %w", maxAttempts, lastErr)
}

func (t *Telegram) newMessage(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}
