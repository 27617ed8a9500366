package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("discriminator_unknown", nil); msg != "no discriminator matched" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("union_ambiguous", nil); msg == "more than one discriminator matched" || msg == "" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// unknown languages fall back to en
	SetLanguage("fr")
	if msg := T("union_ambiguous", nil); msg != "more than one discriminator matched" {
		t.Fatalf("expected english fallback, got %q", msg)
	}
}

type shout struct{}

func (shout) Message(code string, _ map[string]string) string { return "!" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(shout{})
	defer SetTranslator(nil)
	if msg := T("overflow", nil); msg != "!overflow" {
		t.Fatalf("expected custom translator, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("unknown_code", nil); msg != "unknown_code" {
		t.Fatalf("expected code passthrough, got %q", msg)
	}
}
