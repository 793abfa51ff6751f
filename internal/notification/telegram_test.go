package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/logger"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.InitLogger("slog", "test", "test", logger.WithLevel(logger.ErrorLevel))
	require.NoError(t, err)
	return log
}

func testEvent() *domain.Event {
	return &domain.Event{
		ID:       "e1",
		Title:    "Go_meetup",
		Date:     time.Date(2031, 5, 10, 18, 0, 0, 0, time.UTC),
		Capacity: 30,
	}
}

func TestNewTelegramNotifier_DisabledWithoutToken(t *testing.T) {
	n, err := NewTelegramNotifier("", 42, newTestLogger(t))

	require.NoError(t, err)
	assert.Nil(t, n.bot)

	n.NotifyEventFull(context.Background(), testEvent())
}

func TestTelegramNotifier_NotifyEventFull(t *testing.T) {
	s := &fakeSender{}
	n := &TelegramNotifier{bot: s, chatID: 42, logger: newTestLogger(t)}

	n.NotifyEventFull(context.Background(), testEvent())

	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(42), s.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, s.sent[0].ParseMode)
	assert.Contains(t, s.sent[0].Text, `Go\_meetup`)
	assert.Contains(t, s.sent[0].Text, "10.05.2031 18:00")
}

func TestTelegramNotifier_NotifyEventCancelled(t *testing.T) {
	s := &fakeSender{}
	n := &TelegramNotifier{bot: s, chatID: 42, logger: newTestLogger(t)}

	n.NotifyEventCancelled(context.Background(), testEvent(), 7)

	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].Text, "Affected registrations: 7")
}

func TestTelegramNotifier_SkipsCancelledContext(t *testing.T) {
	s := &fakeSender{}
	n := &TelegramNotifier{bot: s, chatID: 42, logger: newTestLogger(t)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.NotifyEventFull(ctx, testEvent())

	assert.Empty(t, s.sent)
}

func TestTelegramNotifier_SendErrorIsSwallowed(t *testing.T) {
	s := &fakeSender{err: errors.New("telegram down")}
	n := &TelegramNotifier{bot: s, chatID: 42, logger: newTestLogger(t)}

	assert.NotPanics(t, func() {
		n.NotifyEventFull(context.Background(), testEvent())
	})
	assert.Len(t, s.sent, 1)
}
