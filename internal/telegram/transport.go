// Package telegram defines the chat-transport contract and its Bot API
// implementation. The rest of the bot depends only on the Transport
// interface, so tests run against an in-memory fake.
package telegram

import "context"

// Update is one incoming event, already flattened from the wire shape: either
// Text is set (a typed message) or Callback is set (a button press).
type Update struct {
	ChatID    int64
	UserID    int64
	MessageID int
	FirstName string
	Text      string
	Callback  *Callback
}

// Callback is an interactive-control press. MessageID identifies the message
// the pressed keyboard was attached to.
type Callback struct {
	ID        string
	Data      string
	ChatID    int64
	UserID    int64
	MessageID int
}

// Message identifies a delivered message.
type Message struct {
	ID     int
	ChatID int64
}

// InlineButton is one button of an inline keyboard.
type InlineButton struct {
	Text string
	Data string
}

// SendOptions carries the optional keyboard for a send. At most one of Menu,
// Inline, RemoveMenu is meaningful per send.
type SendOptions struct {
	Menu       [][]string       // persistent reply keyboard
	Inline     [][]InlineButton // inline keyboard attached to the message
	RemoveMenu bool
}

// Transport is the chat delivery contract. Every send may fail transiently or
// permanently; send operations return the delivered message identity for
// later correlation.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, html string, opts *SendOptions) (Message, error)
	SendPhoto(ctx context.Context, chatID int64, photoURL, captionHTML string, opts *SendOptions) (Message, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, html string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
