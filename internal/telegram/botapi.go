package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI implements Transport against the Telegram Bot API.
type BotAPI struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewBotAPI connects to the Bot API with the given token.
func NewBotAPI(token string, logger *slog.Logger) (*BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	logger.Info("connected to telegram", "bot", api.Self.UserName)
	return &BotAPI{api: api, logger: logger}, nil
}

// Updates starts long polling and converts wire updates to the flattened
// Update shape. The channel closes when ctx is canceled.
func (b *BotAPI) Updates(ctx context.Context) <-chan Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	raw := b.api.GetUpdatesChan(cfg)

	out := make(chan Update)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return
			case u, ok := <-raw:
				if !ok {
					return
				}
				converted, ok := convert(u)
				if !ok {
					continue
				}
				select {
				case out <- converted:
				case <-ctx.Done():
					b.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

func convert(u tgbotapi.Update) (Update, bool) {
	switch {
	case u.Message != nil && u.Message.Text != "":
		msg := u.Message
		out := Update{
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		}
		if msg.From != nil {
			out.UserID = msg.From.ID
			out.FirstName = msg.From.FirstName
		}
		return out, true

	case u.CallbackQuery != nil:
		cb := u.CallbackQuery
		out := Update{Callback: &Callback{ID: cb.ID, Data: cb.Data}}
		if cb.From != nil {
			out.UserID = cb.From.ID
			out.Callback.UserID = cb.From.ID
			out.FirstName = cb.From.FirstName
		}
		if cb.Message != nil {
			out.ChatID = cb.Message.Chat.ID
			out.Callback.ChatID = cb.Message.Chat.ID
			out.Callback.MessageID = cb.Message.MessageID
		}
		return out, true
	}
	return Update{}, false
}

// SendMessage sends an HTML message.
func (b *BotAPI) SendMessage(_ context.Context, chatID int64, html string, opts *SendOptions) (Message, error) {
	msg := tgbotapi.NewMessage(chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = buildMarkup(opts)

	sent, err := b.api.Send(msg)
	if err != nil {
		return Message{}, fmt.Errorf("send message: %w", err)
	}
	return Message{ID: sent.MessageID, ChatID: chatID}, nil
}

// SendPhoto sends a photo by URL with an HTML caption.
func (b *BotAPI) SendPhoto(_ context.Context, chatID int64, photoURL, captionHTML string, opts *SendOptions) (Message, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = captionHTML
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyMarkup = buildMarkup(opts)

	sent, err := b.api.Send(photo)
	if err != nil {
		return Message{}, fmt.Errorf("send photo: %w", err)
	}
	return Message{ID: sent.MessageID, ChatID: chatID}, nil
}

// EditMessageText replaces the text of a delivered message.
func (b *BotAPI) EditMessageText(_ context.Context, chatID int64, messageID int, html string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, html)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// DeleteMessage removes a delivered message.
func (b *BotAPI) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
// A non-empty text shows as a toast notification.
func (b *BotAPI) AnswerCallback(_ context.Context, callbackID, text string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// buildMarkup converts SendOptions into the Bot API markup types. Returns nil
// when no keyboard is requested.
func buildMarkup(opts *SendOptions) interface{} {
	if opts == nil {
		return nil
	}
	switch {
	case len(opts.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts.Inline))
		for _, row := range opts.Inline {
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
			rows = append(rows, btns)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)

	case len(opts.Menu) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(opts.Menu))
		for _, row := range opts.Menu {
			btns := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				btns = append(btns, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, btns)
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.ResizeKeyboard = true
		kb.OneTimeKeyboard = false
		return kb

	case opts.RemoveMenu:
		return tgbotapi.NewRemoveKeyboard(false)
	}
	return nil
}
