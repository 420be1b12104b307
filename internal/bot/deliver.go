package bot

import (
	"context"
	"log/slog"

	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/markup"
	"github.com/sancris/concierge/internal/telegram"
)

// send is the fire-and-log wrapper for short service messages.
func (b *Bot) send(ctx context.Context, logger *slog.Logger, chatID int64, lang, html string, opts *telegram.SendOptions) telegram.Message {
	msg, err := b.sendChecked(ctx, logger, chatID, lang, html, opts)
	if err != nil {
		logger.Error("message delivery failed", "error", err)
	}
	return msg
}

// sendChecked sends one message with the recovery ladder: the original text
// first, a re-sanitized copy on rejection, and a localized fallback notice if
// that is rejected too. Only a failure of the notice itself surfaces as an
// error.
func (b *Bot) sendChecked(ctx context.Context, logger *slog.Logger, chatID int64, lang, html string, opts *telegram.SendOptions) (telegram.Message, error) {
	msg, err := b.transport.SendMessage(ctx, chatID, html, opts)
	if err == nil {
		return msg, nil
	}
	logger.Warn("message rejected, retrying re-sanitized", "error", err)
	msg, err = b.transport.SendMessage(ctx, chatID, markup.Sanitize(html), opts)
	if err == nil {
		return msg, nil
	}
	logger.Error("message rejected after re-sanitize, sending fallback notice", "error", err)
	return b.transport.SendMessage(ctx, chatID, i18n.T(lang, "generic_error"), opts)
}

// deliverLong splits html into size-safe segments and sends them in order.
// Only the final segment carries finalOpts, so interactive controls appear
// exactly once, at the end. The returned message is the final segment.
func (b *Bot) deliverLong(ctx context.Context, logger *slog.Logger, chatID int64, lang, html string, finalOpts *telegram.SendOptions) (telegram.Message, error) {
	parts := markup.SplitMessage(html, markup.MessageLimit)
	var last telegram.Message
	for i, part := range parts {
		var opts *telegram.SendOptions
		if i == len(parts)-1 {
			opts = finalOpts
		}
		msg, err := b.sendChecked(ctx, logger, chatID, lang, part, opts)
		if err != nil {
			return telegram.Message{}, err
		}
		last = msg
	}
	return last, nil
}

// deliverPhoto sends a photo whose caption may exceed the caption limit. The
// overflow continues as an ordinary message carrying the persistent menu; the
// photo itself keeps opts (typically an inline selection keyboard). A photo
// rejection degrades to delivering the full caption as text.
func (b *Bot) deliverPhoto(ctx context.Context, logger *slog.Logger, chatID int64, lang, photoURL, captionHTML string, opts *telegram.SendOptions) {
	caption, overflow := markup.SplitCaption(captionHTML, markup.CaptionLimit)
	_, err := b.transport.SendPhoto(ctx, chatID, photoURL, caption, opts)
	if err != nil {
		logger.Warn("photo delivery failed, falling back to text", "error", err)
		if _, err := b.deliverLong(ctx, logger, chatID, lang, captionHTML, opts); err != nil {
			logger.Error("text fallback delivery failed", "error", err)
		}
		return
	}
	if overflow != "" {
		menu := &telegram.SendOptions{Menu: menuKeyboard(lang)}
		if _, err := b.deliverLong(ctx, logger, chatID, lang, overflow, menu); err != nil {
			logger.Error("caption overflow delivery failed", "error", err)
		}
	}
}
