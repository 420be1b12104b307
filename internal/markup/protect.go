package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Translation mangles anything it doesn't recognize as prose: HTML tags get
// reordered or dropped, URLs and proper names get "translated". Protect
// extracts those spans into numbered placeholders before the text is handed
// to the translator; Restore injects them back afterwards. The pair is a
// reversible transform: Restore(Protect(t)) == t.

var (
	// Tags, URLs, and runs of two or more capitalized words (likely proper
	// names such as "San Cristóbal de las Casas"; lowercase connectives
	// between capitalized words are included).
	protectedSpanRe = regexp.MustCompile(
		`</?[a-zA-Z][^<>]*>` +
			`|https?://[^\s<>]+` +
			`|\p{Lu}[\p{L}\d'’-]*(?:\s+(?:de|del|la|las|los|el|of|the)\s+\p{Lu}[\p{L}\d'’-]*|\s+\p{Lu}[\p{L}\d'’-]*)+`)

	placeholderRe = regexp.MustCompile(`⟦(\d+)⟧`)
)

// Protect replaces tags, URLs, and proper-noun spans with ⟦n⟧ placeholders
// and returns the protected text together with the extracted spans.
func Protect(text string) (string, []string) {
	var spans []string
	protected := protectedSpanRe.ReplaceAllStringFunc(text, func(span string) string {
		spans = append(spans, span)
		return fmt.Sprintf("⟦%d⟧", len(spans)-1)
	})
	return protected, spans
}

// Restore substitutes the extracted spans back into the translated text.
// Placeholders the translator lost stay lost; ones it kept come back exactly
// as extracted. Out-of-range indices are left untouched.
func Restore(text string, spans []string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(ph string) string {
		idx, err := strconv.Atoi(strings.Trim(ph, "⟦⟧"))
		if err != nil || idx < 0 || idx >= len(spans) {
			return ph
		}
		return spans[idx]
	})
}
