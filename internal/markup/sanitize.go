// Package markup normalizes and splits the HTML-flavored rich text the bot
// sends to Telegram.
//
// Telegram's HTML parse mode accepts only a handful of tags and rejects the
// whole message when anything else appears, so every piece of generated text
// passes through Sanitize before it goes anywhere near the transport.
package markup

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	brRe     = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	strongRe = regexp.MustCompile(`(?i)<\s*(/?)\s*strong\s*>`)
	emRe     = regexp.MustCompile(`(?i)<\s*(/?)\s*em\s*>`)
)

// policy allows exactly the tag set Telegram's HTML mode supports and this
// bot uses: bold, italic, and anchors that actually carry a destination.
// Everything else is unwrapped: content kept, tag dropped.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}()

// Sanitize reduces arbitrary generated rich text to the allow-listed tag set.
// Line-break tags become literal newlines so paragraph structure survives.
// Anchors without an href are unwrapped like any other disallowed tag.
//
// Sanitize is idempotent and never fails: malformed input degrades to plain
// text rather than producing an error.
func Sanitize(text string) string {
	text = brRe.ReplaceAllString(text, "\n")
	text = strongRe.ReplaceAllString(text, "<${1}b>")
	text = emRe.ReplaceAllString(text, "<${1}i>")
	return policy.Sanitize(text)
}

// StripTags removes all markup, leaving plain text. Used as the last-resort
// form when the transport rejects even sanitized markup.
func StripTags(text string) string {
	return bluemonday.StrictPolicy().Sanitize(text)
}
