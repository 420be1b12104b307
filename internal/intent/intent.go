// Package intent classifies incoming free text into exactly one intent.
//
// The decision order is a deliberate priority policy: cheap exact matches
// first, session-dependent heuristics next, the paid LLM judgment last, and a
// general question as the fail-open floor.
package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sancris/concierge/internal/i18n"
)

// Kind discriminates the intent variants.
type Kind int

const (
	GeneralQuestion Kind = iota
	MenuCommand
	WeatherQuery
	Reset
	Pagination
	TranslateLast
	PlacesSearch
)

// Intent is the classification result. Only the fields relevant to the Kind
// are set.
type Intent struct {
	Kind       Kind
	Command    string // MenuCommand: canonical section name
	City       string // WeatherQuery
	TargetLang string // TranslateLast
	Query      string // PlacesSearch / GeneralQuestion: the raw text
}

// menuCommands maps lowercased menu labels to canonical section names, per
// language.
var menuCommands = map[string]map[string]string{
	i18n.LangEN: {
		"tours":         "tours",
		"accommodation": "accommodation",
		"attractions":   "attractions",
		"restaurants":   "restaurants",
		"advices":       "advices",
		"faq":           "faq",
		"events":        "events",
	},
	i18n.LangES: {
		"tours":        "tours",
		"alojamiento":  "accommodation",
		"atracciones":  "attractions",
		"restaurantes": "restaurants",
		"consejos":     "advices",
		"faq":          "faq",
		"eventos":      "events",
	},
}

var weatherKeywords = []string{
	"weather", "погода", "tiempo", "météo", "meteo", "wetter", "forecast", "прогноз",
}

var moreVocabulary = []string{
	"more", "еще", "ещё", "дальше", "next", "siguiente", "más", "mas",
}

var resetKeywords = []string{"reset", "🔴 reset"}

// PlacesJudge is the external yes/no classification collaborator.
type PlacesJudge interface {
	IsPlacesQuery(ctx context.Context, text string) (bool, error)
}

// Classifier decides what an incoming message means.
type Classifier struct {
	judge       PlacesJudge
	defaultCity string
	logger      *slog.Logger
}

// NewClassifier creates a classifier. defaultCity is used for bare weather
// keywords with no trailing city.
func NewClassifier(judge PlacesJudge, defaultCity string, logger *slog.Logger) *Classifier {
	return &Classifier{judge: judge, defaultCity: defaultCity, logger: logger}
}

// Classify maps trimmed input text to exactly one intent. searchActive tells
// the classifier whether a places pagination session exists; without one,
// "more" vocabulary never classifies as pagination.
func (c *Classifier) Classify(ctx context.Context, text, lang string, searchActive bool) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))

	// 1. Exact menu-label match for the active language.
	if cmd, ok := menuCommands[i18n.Normalize(lang)][lower]; ok {
		return Intent{Kind: MenuCommand, Command: cmd}
	}

	// 2. Weather keyword, with an optional trailing city.
	for _, kw := range weatherKeywords {
		if lower == kw {
			return Intent{Kind: WeatherQuery, City: c.defaultCity}
		}
		if strings.HasPrefix(lower, kw+" ") {
			city := strings.TrimSpace(text[len(kw):])
			for _, conn := range []string{"in ", "en ", "в "} {
				if len(city) >= len(conn) && strings.EqualFold(city[:len(conn)], conn) {
					city = strings.TrimSpace(city[len(conn):])
					break
				}
			}
			if city == "" {
				city = c.defaultCity
			}
			return Intent{Kind: WeatherQuery, City: city}
		}
	}

	// 3. Reset.
	for _, kw := range resetKeywords {
		if lower == kw {
			return Intent{Kind: Reset}
		}
	}

	// 4. Pagination continuation, only while a search is active.
	if searchActive {
		for _, kw := range moreVocabulary {
			if strings.Contains(lower, kw) {
				return Intent{Kind: Pagination}
			}
		}
	}

	// 5. Translate the last answer.
	if strings.Contains(lower, "переведи") || strings.Contains(lower, "translate") {
		return Intent{Kind: TranslateLast, TargetLang: translateTarget(lower)}
	}

	// 6. Paid judgment: venue-search intent? Fail open to the general path.
	if c.judge != nil {
		isPlaces, err := c.judge.IsPlacesQuery(ctx, text)
		if err != nil {
			c.logger.Warn("places intent judgment failed, treating as general question",
				"error", err)
		} else if isPlaces {
			return Intent{Kind: PlacesSearch, Query: text}
		}
	}

	// 7. Fallback.
	return Intent{Kind: GeneralQuestion, Query: text}
}

func translateTarget(lower string) string {
	switch {
	case strings.Contains(lower, "испанский"), strings.Contains(lower, "spanish"),
		strings.Contains(lower, "español"), strings.Contains(lower, "espanol"):
		return "es"
	case strings.Contains(lower, "русский"), strings.Contains(lower, "russian"):
		return "ru"
	default:
		return "en"
	}
}
