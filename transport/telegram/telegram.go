// telegram implements the Messenger interface over the Telegram Bot API
// using long polling.
package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wfunc/minesbot/logger"
	"github.com/wfunc/minesbot/transport"
)

type Transport struct {
	bot    *tgbotapi.BotAPI
	events chan transport.Event
}

func New(token string) (*Transport, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Transport{
		bot:    bot,
		events: make(chan transport.Event, 64),
	}, nil
}

// Run polls for updates and converts them into events. It returns once
// polling has been stopped via Close, closing the event channel.
func (t *Transport) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	logger.Log.Infof("Telegram transport polling as @%s", t.bot.Self.UserName)

	for update := range updates {
		switch {
		case update.Message != nil && update.Message.IsCommand():
			t.events <- commandEvent(update.Message)
		case update.CallbackQuery != nil:
			// Acknowledge first so the client stops its spinner even if
			// handling takes a moment.
			if _, err := t.bot.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
				logger.Log.Warnf("Callback ack failed: %v", err)
			}
			t.events <- actionEvent(update.CallbackQuery)
		}
	}
	close(t.events)
}

func commandEvent(msg *tgbotapi.Message) transport.Event {
	ev := transport.Event{
		Kind:    transport.EventCommand,
		From:    transport.User{ID: msg.From.ID, Name: displayName(msg.From)},
		ChatID:  msg.Chat.ID,
		Command: msg.Command(),
	}
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		ev.Args = strings.Fields(args)
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		from := msg.ReplyToMessage.From
		ev.ReplyTo = &transport.User{ID: from.ID, Name: displayName(from)}
	}
	return ev
}

func actionEvent(q *tgbotapi.CallbackQuery) transport.Event {
	ev := transport.Event{
		Kind: transport.EventAction,
		From: transport.User{ID: q.From.ID, Name: displayName(q.From)},
		Data: q.Data,
	}
	if q.Message != nil {
		ev.ChatID = q.Message.Chat.ID
		ev.MessageID = q.Message.MessageID
	}
	return ev
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

func (t *Transport) Events() <-chan transport.Event {
	return t.events
}

func (t *Transport) Send(chatID int64, text string, kb *transport.Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = markup(kb)
	}
	_, err := t.bot.Send(msg)
	return err
}

func (t *Transport) EditText(chatID int64, messageID int, text string, kb *transport.Keyboard) error {
	if kb != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup(kb))
		_, err := t.bot.Send(edit)
		return err
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := t.bot.Send(edit)
	return err
}

func (t *Transport) EditKeyboard(chatID int64, messageID int, kb *transport.Keyboard) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup(kb))
	_, err := t.bot.Send(edit)
	return err
}

func markup(kb *transport.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (t *Transport) Close() error {
	t.bot.StopReceivingUpdates()
	return nil
}
