package notification

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/wb-go/wbf/logger"
)

const dateLayout = "02.01.2006 15:04"

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts organizer alerts to a single chat.
type TelegramNotifier struct {
	bot    sender
	chatID int64
	logger logger.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger logger.Logger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		logger.Warn("telegram bot token or chat id is empty, notifications disabled")
		return &TelegramNotifier{bot: nil, logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (n *TelegramNotifier) NotifyEventFull(ctx context.Context, event *domain.Event) {
	text := fmt.Sprintf(
		"*Event is full*\n\n"+"Event: %s\n"+"Date (UTC): %s\n"+"Capacity: %d",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, event.Title),
		event.Date.UTC().Format(dateLayout),
		event.Capacity,
	)
	n.send(ctx, text)
}

func (n *TelegramNotifier) NotifyEventCancelled(ctx context.Context, event *domain.Event, registrations int) {
	text := fmt.Sprintf(
		"*Event cancelled*\n\n"+"Event: %s\n"+"Date (UTC): %s\n"+"Affected registrations: %d",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, event.Title),
		event.Date.UTC().Format(dateLayout),
		registrations,
	)
	n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n.bot == nil {
		n.logger.Debug("notification skipped (bot disabled)", logger.String("text", text))
		return
	}

	if err := ctx.Err(); err != nil {
		n.logger.Debug("notification skipped (context cancelled)",
			logger.Int64("chat_id", n.chatID),
		)
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("failed to send telegram notification",
			logger.Int64("chat_id", n.chatID),
			logger.String("error", err.Error()),
		)
	}
}
