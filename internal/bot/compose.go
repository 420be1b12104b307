package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/markup"
	"github.com/sancris/concierge/internal/session"
	"github.com/sancris/concierge/internal/telegram"
)

// answerGeneral runs the full composition pipeline for a free-text query:
// history-bearing prompt, generation, language check with a guarded
// re-translation, sanitization, chunked delivery, and last-answer tracking.
func (b *Bot) answerGeneral(ctx context.Context, logger *slog.Logger, sess *session.Session, query string) {
	lang := i18n.Normalize(sess.Lang)
	prompt := b.buildPrompt(ctx, logger, sess, query)

	answer, err := b.gen.Answer(ctx, prompt, lang)
	if err != nil {
		logger.Error("answer generation failed", "error", err)
		b.send(ctx, logger, sess.ChatID, lang, i18n.T(lang, "no_answer"),
			&telegram.SendOptions{Menu: menuKeyboard(lang)})
		return
	}

	if b.detect != nil {
		if detected := b.detect.Detect(answer, lang); detected != lang {
			protected, spans := markup.Protect(answer)
			translated, terr := b.gen.Translate(ctx, protected, lang)
			if terr != nil {
				logger.Warn("answer translation failed, keeping original", "error", terr)
			} else {
				answer = markup.Restore(translated, spans)
			}
		}
	}
	answer = markup.Sanitize(answer)

	msg, err := b.deliverLong(ctx, logger, sess.ChatID, lang, answer,
		&telegram.SendOptions{Inline: ratingKeyboard()})
	if err != nil {
		logger.Error("answer delivery failed", "error", err)
		return
	}
	if err := b.conv.SaveMessage(ctx, sess.ChatID, 0, "assistant", answer); err != nil {
		logger.Error("failed to persist assistant message", "error", err)
	}
	sess.SetLastAnswer(msg.ID, answer)
}

// buildPrompt frames the query with the stored summary and the recent-turn
// window. The current query is already the newest recent turn; it is repeated
// at the end so the model knows which line to answer.
func (b *Bot) buildPrompt(ctx context.Context, logger *slog.Logger, sess *session.Session, query string) string {
	summary, err := b.conv.Summary(ctx, sess.ChatID)
	if err != nil {
		logger.Error("failed to load summary, composing without it", "error", err)
		summary = ""
	}

	var sb strings.Builder
	sb.WriteString("Conversation history:\n")
	if summary != "" {
		sb.WriteString("Summary: " + summary + "\n")
	}
	for _, turn := range sess.Recent() {
		sb.WriteString(turn + "\n")
	}
	sb.WriteString("\nNow answer the following query: " + query)
	return sb.String()
}

// maybeSummarize folds pending turns into the stored summary once the
// threshold is reached. The pending buffer is consumed up front and never
// re-added: a failed fold loses those turns from the summary rather than
// growing the buffer without bound.
func (b *Bot) maybeSummarize(ctx context.Context, logger *slog.Logger, sess *session.Session) {
	if sess.PendingCount() < b.cfg.SummaryThreshold {
		return
	}
	turns := sess.TakePending()

	prev, err := b.conv.Summary(ctx, sess.ChatID)
	if err != nil {
		logger.Error("failed to load summary, folding into an empty one", "error", err)
		prev = ""
	}
	updated, err := b.gen.UpdateSummary(ctx, prev, turns)
	if err != nil {
		logger.Warn("summary update failed, dropping pending turns", "error", err)
		return
	}

	// Summaries generate in English; Spanish sessions store them translated
	// so the next prompt stays in one language.
	if i18n.Normalize(sess.Lang) == i18n.LangES {
		if translated, terr := b.gen.Translate(ctx, updated, i18n.LangES); terr != nil {
			logger.Warn("summary translation failed, storing the original", "error", terr)
		} else {
			updated = translated
		}
	}

	if err := b.conv.UpsertSummary(ctx, sess.ChatID, updated); err != nil {
		logger.Error("failed to persist summary", "error", err)
	}
}
