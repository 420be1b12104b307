package markup

import (
	"strings"
	"testing"
)

func TestProtectRestore_RoundTrip(t *testing.T) {
	inputs := []string{
		"Visit <b>Na Bolom</b> in San Cristóbal de las Casas today.",
		"Check https://example.com/guide?x=1 for the full list.",
		"The Museo del Ámbar and the Templo de Santo Domingo are close.",
		"no protected spans here at all",
		"",
		"<a href=\"https://maps.example.com/p/1\">El Cerrillo</a>\n\n<i>open daily</i>",
	}

	for _, in := range inputs {
		protected, spans := Protect(in)
		if got := Restore(protected, spans); got != in {
			t.Errorf("round trip failed:\n  in: %q\n out: %q\nspans: %v", in, got, spans)
		}
	}
}

func TestProtect_ShieldsTagsAndNames(t *testing.T) {
	in := "Try <b>tacos</b> near the Mercado de Dulces y Artesanías."
	protected, spans := Protect(in)

	if strings.Contains(protected, "<b>") {
		t.Errorf("tag leaked into protected text: %q", protected)
	}
	if strings.Contains(protected, "Mercado de Dulces") {
		t.Errorf("proper noun leaked into protected text: %q", protected)
	}
	if len(spans) == 0 {
		t.Fatal("no spans extracted")
	}
}

func TestRestore_IgnoresUnknownPlaceholders(t *testing.T) {
	got := Restore("text with ⟦7⟧ stray placeholder", []string{"only one"})
	if got != "text with ⟦7⟧ stray placeholder" {
		t.Errorf("out-of-range placeholder rewritten: %q", got)
	}
}

func TestProtect_SingleCapitalizedWordUnprotected(t *testing.T) {
	// A lone sentence-initial capital is prose, not a name; it must survive
	// translation normally.
	protected, _ := Protect("Where can I eat?")
	if !strings.Contains(protected, "Where") {
		t.Errorf("sentence-initial word was protected: %q", protected)
	}
}
