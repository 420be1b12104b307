package markup

import (
	"strings"
	"unicode/utf8"
)

// Telegram hard limits. Lengths are enforced in bytes, which is never more
// permissive than Telegram's character count.
const (
	MessageLimit = 4096
	CaptionLimit = 1024
)

// SplitMessage splits sanitized rich text into ordered parts, each at most
// limit bytes, without breaking a tag across parts: tags still open at a cut
// are closed at the end of the part and reopened at the start of the next.
//
// Cut points prefer paragraph breaks (double newline), then line breaks, then
// word boundaries, over slightly fuller parts. A hard mid-word cut happens
// only when a single unbroken run exceeds the limit; a single tag longer than
// the limit is cut mid-tag rather than emitted over-long.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var parts []string
	rest := text
	for len(rest) > limit {
		part, remainder := splitOnce(rest, limit)
		if part != "" {
			parts = append(parts, part)
		}
		if len(remainder) >= len(rest) {
			// No progress possible (pathological input); hard-append the rest.
			rest = remainder
			break
		}
		rest = remainder
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// SplitCaption splits an over-long photo caption into at most two parts: the
// first fits the caption limit and stays attached to the photo, the remainder
// is sent as a trailing plain message. The cut lands on the last line break
// before the limit when one exists.
func SplitCaption(caption string, limit int) (string, string) {
	if len(caption) <= limit {
		return caption, ""
	}
	part, remainder := splitOnce(caption, limit)
	return part, remainder
}

// splitOnce cuts one limit-sized part off the front of s, balancing tags on
// both sides of the cut. Appending closing tags can push the part back over
// the limit, so the cut retreats until the closed part fits.
func splitOnce(s string, limit int) (part, remainder string) {
	max := limit
	for {
		cut := boundary(s, max)
		if cut == 0 {
			// A single tag longer than the limit: no tag-safe cut exists.
			// The size bound still holds; delivery re-sanitizes if the
			// wire rejects the broken markup.
			cut = hardCut(s, limit)
			return s[:cut], s[cut:]
		}
		open := openTagsAt(s[:cut])
		part = strings.TrimRight(s[:cut], " \n") + closers(open)
		if len(part) <= limit || cut <= 1 {
			remainder = reopeners(open) + strings.TrimLeft(s[cut:], " \n")
			return part, remainder
		}
		max = cut - 1
	}
}

// boundary picks the best cut index in s[:max]: after the last paragraph
// break, else the last line break, else the last space, else a hard cut
// adjusted off any tag or multi-byte rune it would land inside.
func boundary(s string, max int) int {
	if max >= len(s) {
		return len(s)
	}
	window := s[:max]
	if idx := strings.LastIndex(window, "\n\n"); idx > 0 {
		return idx
	}
	if idx := strings.LastIndexByte(window, '\n'); idx > 0 {
		return idx
	}
	if idx := strings.LastIndexByte(window, ' '); idx > 0 {
		return avoidTag(s, idx)
	}
	return avoidTag(s, hardCut(s, max))
}

// hardCut is a plain byte cut at max, backed up off a multi-byte rune.
func hardCut(s string, max int) int {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}

// avoidTag moves a cut that lands inside a tag back to the tag's opening '<'.
// Newline-based cuts never need this: sanitized tags contain no newlines.
func avoidTag(s string, cut int) int {
	lt := strings.LastIndexByte(s[:cut], '<')
	if lt >= 0 && strings.IndexByte(s[lt:cut], '>') < 0 {
		return lt
	}
	return cut
}

// openTagsAt scans sanitized text and returns the raw open tags (attributes
// included) not yet closed at the end, outermost first.
func openTagsAt(s string) []string {
	var stack []string
	for i := 0; i < len(s); {
		if s[i] != '<' {
			i++
			continue
		}
		end := strings.IndexByte(s[i:], '>')
		if end < 0 {
			break
		}
		tag := s[i : i+end+1]
		if strings.HasPrefix(tag, "</") {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		} else {
			stack = append(stack, tag)
		}
		i += end + 1
	}
	return stack
}

// closers returns the closing tags for an open-tag stack, innermost first.
func closers(stack []string) string {
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString("</")
		b.WriteString(tagName(stack[i]))
		b.WriteString(">")
	}
	return b.String()
}

// reopeners re-emits the open tags in original order for the next part.
func reopeners(stack []string) string {
	return strings.Join(stack, "")
}

func tagName(tag string) string {
	name := strings.TrimPrefix(tag, "<")
	name = strings.TrimSuffix(name, ">")
	if idx := strings.IndexAny(name, " \t"); idx >= 0 {
		name = name[:idx]
	}
	return name
}
