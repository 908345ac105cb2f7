package bot

import (
	"fmt"
	"time"

	"cbbi-status-bot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// StatusReader exposes the last published status.
type StatusReader interface {
	Current() (domain.DisplayStatus, bool)
}

const noStatusReply = "No Bitcoin confidence data published yet, try again later."

// StartTelegramBot answers status queries from the last published status.
// Returns nil when no token is configured.
func StartTelegramBot(token string, reader StatusReader, logger *zap.Logger) *tele.Bot {
	if token == "" {
		logger.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		logger.Fatal("failed to create Telegram bot", zap.Error(err))
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/status", func(c tele.Context) error {
		return c.Send(statusReply(reader))
	})
	b.Handle("/ci", func(c tele.Context) error {
		return c.Send(confidenceReply(reader))
	})
	b.Handle("/price", func(c tele.Context) error {
		return c.Send(priceReply(reader))
	})

	logger.Info("Telegram bot started")
	go b.Start()
	return b
}

func statusReply(reader StatusReader) string {
	status, ok := reader.Current()
	if !ok {
		return noStatusReply
	}
	return fmt.Sprintf(
		"%s\nWatching: %s\nUpdated: %s",
		status.Nickname, status.ActivityText, status.UpdatedAt.UTC().Format(time.RFC1123),
	)
}

func confidenceReply(reader StatusReader) string {
	status, ok := reader.Current()
	if !ok {
		return noStatusReply
	}
	return fmt.Sprintf("Bitcoin confidence index: %s/100", status.ConfidenceIndex)
}

func priceReply(reader StatusReader) string {
	status, ok := reader.Current()
	if !ok {
		return noStatusReply
	}
	return fmt.Sprintf("Bitcoin price: $%s", status.Price)
}
