// Package lang provides best-effort language detection for generated answers.
package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the language of free text. Detection is restricted to the
// languages the bot can actually encounter, which keeps lingua's confidence
// usable on short answers.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector over the bot's language set.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Spanish,
				lingua.Russian,
				lingua.French,
				lingua.German,
			).
			Build(),
	}
}

// Detect returns the ISO 639-1 code of the text's language, or fallback when
// detection is not confident.
func (d *Detector) Detect(text, fallback string) string {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return fallback
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
