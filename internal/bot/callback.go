package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/session"
	"github.com/sancris/concierge/internal/telegram"
)

type callbackKind int

const (
	callbackUnrecognized callbackKind = iota
	callbackLanguage
	callbackTour
	callbackLodging
	callbackAttraction
	callbackRestaurant
	callbackRate
)

type callbackData struct {
	kind   callbackKind
	lang   string
	id     int64
	rating int
}

var venueCallbacks = map[string]callbackKind{
	"tour":  callbackTour,
	"accom": callbackLodging,
	"attr":  callbackAttraction,
	"rest":  callbackRestaurant,
}

// parseCallback maps a raw payload to a closed set of recognized actions.
// Anything malformed, including payloads from keyboards of older versions,
// parses as unrecognized rather than erroring.
func parseCallback(data string) callbackData {
	tag, rest, ok := strings.Cut(data, ":")
	if !ok {
		return callbackData{}
	}
	switch tag {
	case "lang":
		if rest == i18n.LangEN || rest == i18n.LangES {
			return callbackData{kind: callbackLanguage, lang: rest}
		}
	case "rate":
		switch rest {
		case "up":
			return callbackData{kind: callbackRate, rating: 1}
		case "down":
			return callbackData{kind: callbackRate, rating: -1}
		}
	case "tour", "accom", "attr", "rest":
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return callbackData{}
		}
		return callbackData{kind: venueCallbacks[tag], id: id}
	}
	return callbackData{}
}

func (b *Bot) handleCallback(ctx context.Context, logger *slog.Logger, sess *session.Session, u telegram.Update) {
	cb := u.Callback
	parsed := parseCallback(cb.Data)

	switch parsed.kind {
	case callbackLanguage:
		b.ackCallback(ctx, logger, cb.ID, i18n.T(parsed.lang, "language_set"))
		b.applyLanguage(ctx, logger, sess, u, parsed.lang)
	case callbackTour, callbackLodging, callbackAttraction, callbackRestaurant:
		b.ackCallback(ctx, logger, cb.ID, "")
		b.sendVenueDetails(ctx, logger, sess, cb, parsed)
	case callbackRate:
		toast := ""
		if b.recordFeedback(ctx, logger, sess, cb, parsed.rating) {
			toast = i18n.T(i18n.Normalize(sess.Lang), "rating_thanks")
		}
		b.ackCallback(ctx, logger, cb.ID, toast)
	case callbackUnrecognized:
		b.ackCallback(ctx, logger, cb.ID, "")
		logger.Warn("unrecognized callback payload", "data", cb.Data)
		lang := i18n.Normalize(sess.Lang)
		b.send(ctx, logger, cb.ChatID, lang, i18n.T(lang, "invalid_selection"), nil)
	}
}

// ackCallback dismisses the client spinner, optionally with a toast. A
// failure is not fatal.
func (b *Bot) ackCallback(ctx context.Context, logger *slog.Logger, callbackID, text string) {
	if err := b.transport.AnswerCallback(ctx, callbackID, text); err != nil {
		logger.Warn("callback ack failed", "error", err)
	}
}

// applyLanguage commits the chooser pick, removes the chooser message, and
// greets the user in the selected language with the menu attached.
func (b *Bot) applyLanguage(ctx context.Context, logger *slog.Logger, sess *session.Session, u telegram.Update, lang string) {
	sess.Lang = lang
	if err := b.transport.DeleteMessage(ctx, u.ChatID, u.Callback.MessageID); err != nil {
		logger.Warn("failed to remove language chooser", "error", err)
	}
	b.sendGreeting(ctx, logger, sess, u.ChatID, u.FirstName)
}

// recordFeedback stores a rating press, but only for the chat's current last
// answer. Ratings on older messages are ignored: the correlated text would be
// wrong. Reports whether the rating was recorded.
func (b *Bot) recordFeedback(ctx context.Context, logger *slog.Logger, sess *session.Session, cb *telegram.Callback, rating int) bool {
	id, text := sess.LastAnswer()
	if id == 0 || cb.MessageID != id {
		logger.Info("ignoring rating for a non-current message",
			"message", cb.MessageID, "tracked", id)
		return false
	}
	if err := b.conv.SaveFeedback(ctx, cb.ChatID, cb.UserID, cb.MessageID, text, rating); err != nil {
		logger.Error("failed to save feedback", "error", err)
		return false
	}
	return true
}
