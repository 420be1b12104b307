package markup

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "allowed tags pass through",
			in:   `<b>Price:</b> <i>250 pesos</i>`,
			want: `<b>Price:</b> <i>250 pesos</i>`,
		},
		{
			name: "disallowed tags unwrapped",
			in:   `<h1>Tours</h1><ul><li>walking tour</li></ul>`,
			want: `Tourswalking tour`,
		},
		{
			name: "br becomes newline",
			in:   `line one<br>line two<br/>line three<BR />done`,
			want: "line one\nline two\nline three\ndone",
		},
		{
			name: "strong and em normalized",
			in:   `<strong>bold</strong> and <em>italic</em>`,
			want: `<b>bold</b> and <i>italic</i>`,
		},
		{
			name: "anchor with href kept",
			in:   `<a href="https://example.com/guide">guide</a>`,
			want: `<a href="https://example.com/guide">guide</a>`,
		},
		{
			name: "anchor without href unwrapped",
			in:   `<a>bare link</a>`,
			want: `bare link`,
		},
		{
			name: "nested junk keeps content",
			in:   `<div><span>plaza <b>31 de Marzo</b></span></div>`,
			want: `plaza <b>31 de Marzo</b>`,
		},
		{
			name: "plain text untouched",
			in:   "just words, no markup",
			want: "just words, no markup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		`<b>bold</b> <i>italic</i> <a href="https://x.mx/a?b=1&c=2">link</a>`,
		`<h2>Heading</h2><br><script>alert(1)</script>plain & text`,
		`unterminated <b>bold`,
		`<<<weird>>> input & entities &amp; more`,
		"multi\n\nparagraph\ntext with <em>emphasis</em>",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("not idempotent:\n in: %q\n 1x: %q\n 2x: %q", in, once, twice)
		}
	}
}

func TestSanitize_MalformedNeverPanics(t *testing.T) {
	inputs := []string{
		"<b><i></b></i>",
		"<a href=>broken</a>",
		"<",
		"<b",
		strings.Repeat("<div>", 500),
	}
	for _, in := range inputs {
		_ = Sanitize(in) // must not panic
	}
}

func TestStripTags(t *testing.T) {
	got := StripTags(`<b>1. Museo</b>\n<i>open daily</i>`)
	if strings.Contains(got, "<") {
		t.Errorf("StripTags left markup: %q", got)
	}
}
