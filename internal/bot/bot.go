// Package bot implements the conversation pipeline: update dispatch, intent
// handling, response composition, size-safe delivery, and feedback tracking.
package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/sancris/concierge/internal/config"
	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/intent"
	"github.com/sancris/concierge/internal/places"
	"github.com/sancris/concierge/internal/session"
	"github.com/sancris/concierge/internal/store"
	"github.com/sancris/concierge/internal/telegram"
	"github.com/sancris/concierge/internal/weather"
)

// ConversationStore is the durable conversation surface the composer needs.
// *store.Store satisfies it.
type ConversationStore interface {
	EnsureChat(ctx context.Context, chatID int64) (bool, error)
	SaveMessage(ctx context.Context, chatID, userID int64, role, text string) error
	Summary(ctx context.Context, chatID int64) (string, error)
	UpsertSummary(ctx context.Context, chatID int64, summary string) error
	SaveFeedback(ctx context.Context, chatID, userID int64, messageID int, messageText string, rating int) error
}

// VenueStore is the curated-content surface the menu handlers need.
// *store.Store satisfies it.
type VenueStore interface {
	ListTours(ctx context.Context, lang string) ([]store.Ref, error)
	ListLodgings(ctx context.Context, lang string) ([]store.Ref, error)
	ListAttractions(ctx context.Context, lang string) ([]store.Ref, error)
	ListRestaurants(ctx context.Context, lang string) ([]store.Ref, error)
	Tour(ctx context.Context, lang string, id int64) (store.Tour, error)
	Lodging(ctx context.Context, lang string, id int64) (store.Lodging, error)
	Attraction(ctx context.Context, lang string, id int64) (store.Attraction, error)
	Restaurant(ctx context.Context, lang string, id int64) (store.Restaurant, error)
	Advices(ctx context.Context, lang string) ([]store.Advice, error)
	FAQ(ctx context.Context, lang string) ([]store.FAQEntry, error)
	Banner(ctx context.Context, section string) string
}

// Generator is the answer-generation collaborator.
type Generator interface {
	Answer(ctx context.Context, prompt, targetLanguage string) (string, error)
	UpdateSummary(ctx context.Context, prevSummary string, turns []string) (string, error)
	Translate(ctx context.Context, text, targetLang string) (string, error)
	IsPlacesQuery(ctx context.Context, text string) (bool, error)
}

// PlacesDirectory is the external places-search collaborator.
type PlacesDirectory interface {
	Search(ctx context.Context, query string) ([]places.Venue, error)
}

// WeatherService is the external forecast collaborator.
type WeatherService interface {
	Forecast(ctx context.Context, city string) (weather.Forecast, error)
}

// LanguageDetector guesses the language of generated text.
type LanguageDetector interface {
	Detect(text, fallback string) string
}

// UpdateSource feeds incoming updates; the Bot API adapter implements it.
type UpdateSource interface {
	Updates(ctx context.Context) <-chan telegram.Update
}

// Deps are the collaborators a Bot needs. Places and Weather may be nil when
// the corresponding API key is not configured; their paths then degrade to
// the general-question flow or a localized fallback.
type Deps struct {
	Transport telegram.Transport
	Conv      ConversationStore
	Venues    VenueStore
	Gen       Generator
	Places    PlacesDirectory
	Weather   WeatherService
	Detector  LanguageDetector
	Logger    *slog.Logger
}

// Bot routes updates through the conversation pipeline.
type Bot struct {
	cfg        config.Config
	transport  telegram.Transport
	conv       ConversationStore
	venues     VenueStore
	gen        Generator
	placesAPI  PlacesDirectory
	weatherAPI WeatherService
	detect     LanguageDetector
	classifier *intent.Classifier
	sessions   *session.Manager
	logger     *slog.Logger
}

// New wires a Bot from its collaborators.
func New(cfg config.Config, d Deps) *Bot {
	return &Bot{
		cfg:        cfg,
		transport:  d.Transport,
		conv:       d.Conv,
		venues:     d.Venues,
		gen:        d.Gen,
		placesAPI:  d.Places,
		weatherAPI: d.Weather,
		detect:     d.Detector,
		classifier: intent.NewClassifier(d.Gen, cfg.WeatherCity, d.Logger),
		sessions:   session.NewManager(cfg.RecentWindow),
		logger:     d.Logger,
	}
}

// chatQueueSize bounds how many updates one chat can have waiting. A full
// queue applies backpressure to the update source.
const chatQueueSize = 64

// Run consumes updates until ctx is canceled. Updates are routed to one
// worker goroutine per chat, so updates for the same chat are handled in
// arrival order while distinct chats proceed concurrently. Run returns after
// the source closes and all workers drain.
func (b *Bot) Run(ctx context.Context, src UpdateSource) {
	queues := make(map[int64]chan telegram.Update)
	var wg sync.WaitGroup

	for update := range src.Updates(ctx) {
		q, ok := queues[update.ChatID]
		if !ok {
			q = make(chan telegram.Update, chatQueueSize)
			queues[update.ChatID] = q
			wg.Add(1)
			go func() {
				defer wg.Done()
				for u := range q {
					b.handleUpdate(ctx, u)
				}
			}()
		}
		select {
		case q <- update:
		case <-ctx.Done():
		}
	}

	for _, q := range queues {
		close(q)
	}
	wg.Wait()
}

// handleUpdate is the top-level handler: nothing escapes it. Unexpected
// panics are logged with full context and answered with a localized apology.
func (b *Bot) handleUpdate(ctx context.Context, u telegram.Update) {
	logger := b.logger.With("update", uuid.NewString(), "chat", u.ChatID)
	sess := b.sessions.Get(u.ChatID)
	sess.Lock()
	defer sess.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling update",
				"panic", r, "stack", string(debug.Stack()))
			lang := i18n.Normalize(sess.Lang)
			if _, err := b.transport.SendMessage(ctx, u.ChatID,
				i18n.T(lang, "generic_error"), nil); err != nil {
				logger.Error("failed to send apology", "error", err)
			}
		}
	}()

	if u.Callback != nil {
		b.handleCallback(ctx, logger, sess, u)
		return
	}
	if u.Text != "" {
		b.handleMessage(ctx, logger, sess, u)
	}
}
