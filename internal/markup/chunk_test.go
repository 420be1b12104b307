package markup

import (
	"strings"
	"testing"
)

// stripAndNormalize drops all tags and collapses whitespace, for comparing
// chunked output against its source regardless of inserted boundary
// whitespace and close/reopen tags.
func stripAndNormalize(s string) string {
	return strings.Join(strings.Fields(StripTags(s)), " ")
}

func TestSplitMessage_ShortTextSinglePart(t *testing.T) {
	parts := SplitMessage("hello", MessageLimit)
	if len(parts) != 1 || parts[0] != "hello" {
		t.Fatalf("got %v, want [hello]", parts)
	}
}

func TestSplitMessage_SizeBound(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
	}{
		{"paragraphs", strings.Repeat("A paragraph of reasonable length about the city.\n\n", 200), 500},
		{"lines", strings.Repeat("a single line about tours\n", 300), 256},
		{"no breaks at all", strings.Repeat("x", 5000), 4096},
		{"tagged", strings.Repeat("<b>Price:</b> <i>250 pesos</i>\n\n", 150), 300},
		{"unicode", strings.Repeat("café niño señal ", 400), 333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := SplitMessage(tt.text, tt.limit)
			for i, p := range parts {
				if len(p) > tt.limit {
					t.Errorf("part %d has %d bytes, limit %d", i, len(p), tt.limit)
				}
				if p == "" {
					t.Errorf("part %d is empty", i)
				}
			}
		})
	}
}

func TestSplitMessage_OrderPreserved(t *testing.T) {
	text := strings.Repeat("The <b>Na Bolom</b> museum keeps the archive of the city.\n\n", 120)
	parts := SplitMessage(text, 700)

	joined := stripAndNormalize(strings.Join(parts, " "))
	want := stripAndNormalize(text)
	if joined != want {
		t.Errorf("concatenated parts lost content:\n got %d bytes\nwant %d bytes", len(joined), len(want))
	}
}

func TestSplitMessage_NoTagSplitAcrossParts(t *testing.T) {
	// One long bold run forces cuts inside the tagged span.
	text := "<b>" + strings.Repeat("important venue details ", 200) + "</b>"
	parts := SplitMessage(text, 512)

	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	for i, p := range parts {
		if len(p) > 512 {
			t.Errorf("part %d over limit: %d", i, len(p))
		}
		if !balanced(p) {
			t.Errorf("part %d has unbalanced tags: %q", i, p)
		}
	}
}

func TestSplitMessage_OverlongSingleTag(t *testing.T) {
	// A lone link tag bigger than the limit cannot be cut tag-safely. The
	// size bound still wins: the tag is cut mid-tag instead of emitted whole.
	text := `<a href="https://example.com/` + strings.Repeat("a", 300) + `">map</a>`
	parts := SplitMessage(text, 64)

	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	for i, p := range parts {
		if len(p) > 64 {
			t.Errorf("part %d has %d bytes, limit 64", i, len(p))
		}
	}
	if joined := strings.Join(parts, ""); joined != text {
		t.Errorf("concatenated parts differ from source:\n got %q\nwant %q", joined, text)
	}
}

func TestSplitMessage_ReopensNestedTags(t *testing.T) {
	text := "<b>bold <i>" + strings.Repeat("both styles ", 100) + "</i></b>"
	parts := SplitMessage(text, 300)

	for i, p := range parts {
		if !balanced(p) {
			t.Errorf("part %d unbalanced: %q", i, p)
		}
	}
	if len(parts) >= 2 && !strings.HasPrefix(parts[1], "<b><i>") {
		t.Errorf("second part should reopen both tags, got %q", parts[1][:20])
	}
}

// balanced reports whether every tag opened in s is closed in s.
func balanced(s string) bool {
	return len(openTagsAt(s)) == 0
}

func TestSplitMessage_FiveThousandCharsNoBreaks(t *testing.T) {
	// 5000 chars, no paragraph breaks: exactly 2 parts, first within limit,
	// second non-empty.
	text := strings.Repeat("abcde fghij ", 417)[:5000]
	parts := SplitMessage(text, 4096)

	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	if len(parts[0]) > 4096 {
		t.Errorf("first part %d bytes, limit 4096", len(parts[0]))
	}
	if parts[1] == "" {
		t.Error("second part is empty")
	}
}

func TestSplitMessage_PrefersParagraphBreak(t *testing.T) {
	para := strings.Repeat("w", 300)
	text := para + "\n\n" + para + "\n\n" + para
	parts := SplitMessage(text, 650)

	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	// First part should end at a paragraph boundary, not mid-word.
	if parts[0] != para+"\n\n"+para && parts[0] != para {
		if strings.HasSuffix(parts[0], "w") && len(parts[0]) != 300 && len(parts[0]) != 602 {
			t.Errorf("first part did not cut at paragraph boundary: %d bytes", len(parts[0]))
		}
	}
}

func TestSplitCaption(t *testing.T) {
	t.Run("short caption untouched", func(t *testing.T) {
		first, rest := SplitCaption("a short caption", CaptionLimit)
		if first != "a short caption" || rest != "" {
			t.Errorf("got (%q, %q)", first, rest)
		}
	})

	t.Run("long caption splits at line break", func(t *testing.T) {
		caption := strings.Repeat("<b>Hotel Posada</b>\n<i>calle Real de Guadalupe</i>\n", 40)
		first, rest := SplitCaption(caption, CaptionLimit)
		if len(first) > CaptionLimit {
			t.Errorf("first part %d bytes over caption limit", len(first))
		}
		if rest == "" {
			t.Error("expected a remainder")
		}
		if !balanced(first) {
			t.Errorf("first part unbalanced: %q", first)
		}
	})
}
