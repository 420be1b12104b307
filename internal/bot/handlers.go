package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/intent"
	"github.com/sancris/concierge/internal/markup"
	"github.com/sancris/concierge/internal/session"
	"github.com/sancris/concierge/internal/store"
	"github.com/sancris/concierge/internal/telegram"
)

func (b *Bot) handleMessage(ctx context.Context, logger *slog.Logger, sess *session.Session, u telegram.Update) {
	text := strings.TrimSpace(u.Text)
	lang := i18n.Normalize(sess.Lang)

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, logger, sess, u, text)
		return
	}

	// Every typed message lands in the durable history and the transient
	// window before any routing happens.
	if _, err := b.conv.EnsureChat(ctx, u.ChatID); err != nil {
		logger.Error("failed to ensure chat row", "error", err)
	}
	if err := b.conv.SaveMessage(ctx, u.ChatID, u.UserID, "user", text); err != nil {
		logger.Error("failed to persist user message", "error", err)
	}
	sess.AddTurn(text)
	b.maybeSummarize(ctx, logger, sess)

	in := b.classifier.Classify(ctx, text, lang, sess.SearchActive())
	switch in.Kind {
	case intent.MenuCommand:
		b.handleSection(ctx, logger, sess, in.Command)
	case intent.WeatherQuery:
		b.handleWeather(ctx, logger, sess, in.City)
	case intent.Reset:
		b.handleReset(ctx, logger, sess)
	case intent.Pagination:
		b.sendPlacesPage(ctx, logger, sess)
	case intent.TranslateLast:
		b.handleTranslateLast(ctx, logger, sess, in.TargetLang)
	case intent.PlacesSearch:
		b.handlePlacesSearch(ctx, logger, sess, in.Query)
	default:
		b.answerGeneral(ctx, logger, sess, in.Query)
	}
}

func (b *Bot) handleCommand(ctx context.Context, logger *slog.Logger, sess *session.Session, u telegram.Update, text string) {
	cmd := strings.ToLower(strings.TrimPrefix(strings.Fields(text)[0], "/"))
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	switch cmd {
	case "start":
		b.handleStart(ctx, logger, sess, u)
	case "reset":
		b.handleReset(ctx, logger, sess)
	case "setlanguage", "language":
		b.sendLanguageChooser(ctx, logger, sess)
	case "tours", "accommodation", "attractions", "restaurants", "advices", "faq", "events":
		b.handleSection(ctx, logger, sess, cmd)
	default:
		logger.Info("unknown command", "command", cmd)
		lang := i18n.Normalize(sess.Lang)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "invalid_selection"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
	}
}

func (b *Bot) handleStart(ctx context.Context, logger *slog.Logger, sess *session.Session, u telegram.Update) {
	isNew, err := b.conv.EnsureChat(ctx, u.ChatID)
	if err != nil {
		logger.Error("failed to ensure chat row", "error", err)
	} else if isNew {
		logger.Info("new chat registered")
	}
	if sess.Lang == "" {
		b.sendLanguageChooser(ctx, logger, sess)
		return
	}
	b.sendGreeting(ctx, logger, sess, u.ChatID, u.FirstName)
}

func (b *Bot) sendLanguageChooser(ctx context.Context, logger *slog.Logger, sess *session.Session) {
	lang := i18n.Normalize(sess.Lang)
	b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "choose_language"),
		&telegram.SendOptions{Inline: languageKeyboard()})
}

func (b *Bot) sendGreeting(ctx context.Context, logger *slog.Logger, sess *session.Session, chatID int64, firstName string) {
	lang := i18n.Normalize(sess.Lang)
	name := html.EscapeString(strings.TrimSpace(firstName))
	if name == "" {
		name = "traveler"
		if lang == i18n.LangES {
			name = "viajero"
		}
	}
	greetings := i18n.Greetings(lang)
	text := fmt.Sprintf(greetings[rand.IntN(len(greetings))], name) +
		"\n\n" + i18n.Welcome(lang)
	b.send(ctx, logger, chatID, lang, text, &telegram.SendOptions{Menu: menuKeyboard(lang)})
}

// handleReset wipes the transient session and removes the menu. The durable
// history and summary stay.
func (b *Bot) handleReset(ctx context.Context, logger *slog.Logger, sess *session.Session) {
	lang := i18n.Normalize(sess.Lang)
	sess.Reset()
	b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "session_cleared"),
		&telegram.SendOptions{RemoveMenu: true})
}

func (b *Bot) handleSection(ctx context.Context, logger *slog.Logger, sess *session.Session, section string) {
	lang := i18n.Normalize(sess.Lang)
	switch section {
	case "tours":
		b.listSection(ctx, logger, sess, section, "tour", "select_tour", "no_tours", b.venues.ListTours)
	case "accommodation":
		b.listSection(ctx, logger, sess, section, "accom", "select_accom", "no_accommodation", b.venues.ListLodgings)
	case "attractions":
		b.listSection(ctx, logger, sess, section, "attr", "select_attraction", "no_attractions", b.venues.ListAttractions)
	case "restaurants":
		b.listSection(ctx, logger, sess, section, "rest", "select_restaurant", "no_restaurants", b.venues.ListRestaurants)
	case "advices":
		b.handleAdvices(ctx, logger, sess)
	case "faq":
		b.handleFAQ(ctx, logger, sess)
	case "events":
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "events"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
	}
}

// listSection shows one venue section: the section banner with a short
// caption and an inline keyboard of the venues, first three starred.
func (b *Bot) listSection(ctx context.Context, logger *slog.Logger, sess *session.Session,
	section, prefix, captionKey, emptyKey string,
	list func(context.Context, string) ([]store.Ref, error)) {

	lang := i18n.Normalize(sess.Lang)
	refs, err := list(ctx, lang)
	if err != nil {
		logger.Error("failed to list venues", "section", section, "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "generic_error"), nil)
		return
	}
	if len(refs) == 0 {
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, emptyKey),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	caption := i18n.T(lang, captionKey)
	opts := &telegram.SendOptions{Inline: venueKeyboard(prefix, refs)}
	if banner := b.venues.Banner(ctx, section); banner != "" {
		b.deliverPhoto(ctx, logger, sess.ChatID, lang, banner, caption, opts)
		return
	}
	b.send(ctx, logger, sess.ChatID, lang, caption, opts)
}

// sendVenueDetails answers an inline selection with the venue card, as a
// photo when the venue has an image.
func (b *Bot) sendVenueDetails(ctx context.Context, logger *slog.Logger, sess *session.Session, cb *telegram.Callback, parsed callbackData) {
	lang := i18n.Normalize(sess.Lang)

	var card, image string
	var err error
	switch parsed.kind {
	case callbackTour:
		var t store.Tour
		if t, err = b.venues.Tour(ctx, lang, parsed.id); err == nil {
			card, image = formatTour(lang, t), t.Image
		}
	case callbackLodging:
		var l store.Lodging
		if l, err = b.venues.Lodging(ctx, lang, parsed.id); err == nil {
			card, image = formatLodging(lang, l), l.Image
		}
	case callbackAttraction:
		var a store.Attraction
		if a, err = b.venues.Attraction(ctx, lang, parsed.id); err == nil {
			card, image = formatAttraction(lang, a), a.Image
		}
	case callbackRestaurant:
		var r store.Restaurant
		if r, err = b.venues.Restaurant(ctx, lang, parsed.id); err == nil {
			card, image = formatRestaurant(lang, r), r.Image
		}
	}

	if errors.Is(err, store.ErrNotFound) {
		if e := b.transport.EditMessageText(ctx, cb.ChatID, cb.MessageID,
			i18n.T(lang, "details_not_found")); e != nil {
			logger.Warn("failed to edit selection message", "error", e)
		}
		return
	}
	if err != nil {
		logger.Error("failed to load venue details", "error", err)
		b.send(ctx, logger, cb.ChatID, lang, i18n.T(lang, "generic_error"), nil)
		return
	}

	if image == "" {
		// Venues without their own image fall back to the section banner.
		image = b.venues.Banner(ctx, sectionFor(parsed.kind))
	}
	opts := &telegram.SendOptions{Menu: menuKeyboard(lang)}
	if image != "" {
		b.deliverPhoto(ctx, logger, cb.ChatID, lang, image, card, opts)
		return
	}
	if _, err := b.deliverLong(ctx, logger, cb.ChatID, lang, card, opts); err != nil {
		logger.Error("venue card delivery failed", "error", err)
	}
}

func sectionFor(kind callbackKind) string {
	switch kind {
	case callbackTour:
		return "tours"
	case callbackLodging:
		return "accommodation"
	case callbackAttraction:
		return "attractions"
	case callbackRestaurant:
		return "restaurants"
	}
	return ""
}

func (b *Bot) handleAdvices(ctx context.Context, logger *slog.Logger, sess *session.Session) {
	lang := i18n.Normalize(sess.Lang)
	items, err := b.venues.Advices(ctx, lang)
	if err != nil {
		logger.Error("failed to load advices", "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "generic_error"), nil)
		return
	}
	if len(items) == 0 {
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_advices"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "<b>%s</b>\n%s\n\n",
			html.EscapeString(item.Category), html.EscapeString(item.Text))
	}
	text := strings.TrimRight(sb.String(), "\n")
	if _, err := b.deliverLong(ctx, logger, sess.ChatID, lang, text,
		&telegram.SendOptions{Menu: menuKeyboard(lang)}); err != nil {
		logger.Error("advices delivery failed", "error", err)
	}
}

func (b *Bot) handleFAQ(ctx context.Context, logger *slog.Logger, sess *session.Session) {
	lang := i18n.Normalize(sess.Lang)
	entries, err := b.venues.FAQ(ctx, lang)
	if err != nil {
		logger.Error("failed to load faq", "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "generic_error"), nil)
		return
	}
	if len(entries) == 0 {
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_faq"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "<b>%s</b>\n%s\n\n",
			html.EscapeString(e.Question), html.EscapeString(e.Answer))
	}
	text := strings.TrimRight(sb.String(), "\n")
	if _, err := b.deliverLong(ctx, logger, sess.ChatID, lang, text,
		&telegram.SendOptions{Menu: menuKeyboard(lang)}); err != nil {
		logger.Error("faq delivery failed", "error", err)
	}
}

func (b *Bot) handleWeather(ctx context.Context, logger *slog.Logger, sess *session.Session, city string) {
	lang := i18n.Normalize(sess.Lang)
	if b.weatherAPI == nil {
		logger.Warn("weather requested but no forecast service is configured")
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "weather_failed"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	fc, err := b.weatherAPI.Forecast(ctx, city)
	if err != nil {
		logger.Warn("forecast fetch failed", "city", city, "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "weather_failed"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	b.send(ctx, logger, sess.ChatID, lang, formatForecast(lang, fc),
		&telegram.SendOptions{Menu: menuKeyboard(lang)})
}

func (b *Bot) handlePlacesSearch(ctx context.Context, logger *slog.Logger, sess *session.Session, query string) {
	lang := i18n.Normalize(sess.Lang)
	if b.placesAPI == nil {
		logger.Warn("places search unavailable, answering generally")
		b.answerGeneral(ctx, logger, sess, query)
		return
	}
	results, err := b.placesAPI.Search(ctx, query)
	if err != nil {
		logger.Error("places search failed", "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_places_found"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	if len(results) == 0 {
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_places_found"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	sess.StartSearch(query, results)
	b.sendPlacesPage(ctx, logger, sess)
}

// sendPlacesPage pages the cached search forward: the first call after
// StartSearch shows page one, later "more" messages continue it.
func (b *Bot) sendPlacesPage(ctx context.Context, logger *slog.Logger, sess *session.Session) {
	lang := i18n.Normalize(sess.Lang)
	page, ok := sess.NextPage()
	if !ok {
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_more_results"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	start := sess.Shown() - len(page)
	text := formatPlacesPage(lang, sess.SearchQuery(), page, start)
	if sess.HasMore() {
		text += "\n\n" + i18n.T(lang, "places_more_hint")
	}
	b.send(ctx, logger, sess.ChatID, lang, text,
		&telegram.SendOptions{Menu: menuKeyboard(lang)})
}

// handleTranslateLast re-renders the last delivered answer in the requested
// language. Tags, links, and proper names are shielded from the translator
// and restored afterwards.
func (b *Bot) handleTranslateLast(ctx context.Context, logger *slog.Logger, sess *session.Session, target string) {
	lang := i18n.Normalize(sess.Lang)
	_, last := sess.LastAnswer()
	if last == "" {
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "nothing_to_translate"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	protected, spans := markup.Protect(last)
	translated, err := b.gen.Translate(ctx, protected, target)
	if err != nil {
		logger.Error("translation failed", "target", target, "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_answer"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}
	answer := markup.Sanitize(markup.Restore(translated, spans))
	msg, err := b.deliverLong(ctx, logger, sess.ChatID, lang, answer,
		&telegram.SendOptions{Inline: ratingKeyboard()})
	if err != nil {
		logger.Error("translated answer delivery failed", "error", err)
		return
	}
	sess.SetLastAnswer(msg.ID, answer)
}
