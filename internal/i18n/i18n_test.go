package i18n

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"es", LangES},
		{"ES", LangES},
		{"Español", LangES},
		{"spanish", LangES},
		{"en", LangEN},
		{"", LangEN},
		{"ru", LangEN},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupFallback(t *testing.T) {
	if got := T("es", "generic_error"); !strings.Contains(got, "error inesperado") {
		t.Errorf("spanish lookup = %q", got)
	}
	// Unknown languages fall back to English, unknown keys to themselves.
	if got := T("fr", "generic_error"); got != T("en", "generic_error") {
		t.Errorf("fallback lookup = %q", got)
	}
	if got := T("en", "no_such_key"); got != "no_such_key" {
		t.Errorf("missing key lookup = %q", got)
	}
}

func TestCatalogsMirror(t *testing.T) {
	for key := range messages[LangEN] {
		if _, ok := messages[LangES][key]; !ok {
			t.Errorf("key %q missing from the Spanish catalog", key)
		}
	}
	for key := range messages[LangES] {
		if _, ok := messages[LangEN][key]; !ok {
			t.Errorf("key %q missing from the English catalog", key)
		}
	}
}

func TestMenuLabels(t *testing.T) {
	for _, lang := range []string{LangEN, LangES} {
		if got := len(MenuLabels(lang)); got != 8 {
			t.Errorf("MenuLabels(%q) has %d labels, want 8", lang, got)
		}
	}
}
