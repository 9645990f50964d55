package token

import "testing"

func TestLookupKeywordBare(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
		ok       bool
	}{
		{"enum", ENUM, true},
		{"class", CLASS, true},
		{"function", FUNCTION, true},
		{"method", METHOD, true},
		{"prompt", PROMPT, true},
		{"input", INPUT, true},
		{"output", OUTPUT, true},
		{"depends_on", DEPENDS_ON, true},
		{"test_group", TEST_GROUP, true},
		{"case", CASE, true},
		{"provider", PROVIDER, true},
		{"retry", RETRY, true},
		{"rename", RENAME, true},
		{"describe", DESCRIBE, true},
		{"skip", SKIP, true},
		{"stringify", STRINGIFY, true},
		{"client", CLIENT_LIST, true},
		{"fallback", FALLBACK, true},
		{"Color", "", false},
		{"unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		kind, ok := LookupKeyword(tt.input)
		if ok != tt.ok || (ok && kind != tt.expected) {
			t.Errorf("LookupKeyword(%q) = (%v, %v), want (%v, %v)", tt.input, kind, ok, tt.expected, tt.ok)
		}
	}
}

func TestLookupKeywordParametric(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"variant[llm]", VARIANT},
		{"variant[code]", VARIANT},
		{"lang[py]", LANG},
		{"client[llm]", CLIENT},
		{"fallback[503]", FALLBACK},
	}
	for _, tt := range tests {
		kind, ok := LookupKeyword(tt.input)
		if !ok || kind != tt.expected {
			t.Errorf("LookupKeyword(%q) = (%v, %v), want (%v, true)", tt.input, kind, ok, tt.expected)
		}
	}
}

func TestLookupKeywordBareClientVsParametricClient(t *testing.T) {
	bare, ok := LookupKeyword("client")
	if !ok || bare != CLIENT_LIST {
		t.Errorf("LookupKeyword(client) = (%v, %v), want (%v, true)", bare, ok, CLIENT_LIST)
	}
	param, ok := LookupKeyword("client[llm]")
	if !ok || param != CLIENT {
		t.Errorf("LookupKeyword(client[llm]) = (%v, %v), want (%v, true)", param, ok, CLIENT)
	}
}

func TestLookupKeywordBareVsParametricFallback(t *testing.T) {
	bare, ok := LookupKeyword("fallback")
	if !ok || bare != FALLBACK {
		t.Errorf("LookupKeyword(fallback) = (%v, %v), want (%v, true)", bare, ok, FALLBACK)
	}
	coded, ok := LookupKeyword("fallback[503]")
	if !ok || coded != FALLBACK {
		t.Errorf("LookupKeyword(fallback[503]) = (%v, %v), want (%v, true)", coded, ok, FALLBACK)
	}
	if got := BracketPayload("fallback"); got != "" {
		t.Errorf("BracketPayload(fallback) = %q, want empty", got)
	}
	if got := BracketPayload("fallback[503]"); got != "503" {
		t.Errorf("BracketPayload(fallback[503]) = %q, want 503", got)
	}
}

func TestLookupKeywordUnknownParametricPrefix(t *testing.T) {
	if _, ok := LookupKeyword("widget[foo]"); ok {
		t.Errorf("expected unknown parametric prefix to miss")
	}
}

func TestSplitBracket(t *testing.T) {
	tests := []struct {
		input      string
		prefix     string
		payload    string
		ok         bool
	}{
		{"variant[llm]", "variant", "llm", true},
		{"fallback[503]", "fallback", "503", true},
		{"variant[]", "variant", "", true},
		{"plain", "", "", false},
		{"missing[close", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		prefix, payload, ok := SplitBracket(tt.input)
		if prefix != tt.prefix || payload != tt.payload || ok != tt.ok {
			t.Errorf("SplitBracket(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.input, prefix, payload, ok, tt.prefix, tt.payload, tt.ok)
		}
	}
}

func TestBracketPayload(t *testing.T) {
	if got := BracketPayload("variant[llm]"); got != "llm" {
		t.Errorf("BracketPayload(variant[llm]) = %q, want llm", got)
	}
	if got := BracketPayload("plain"); got != "" {
		t.Errorf("BracketPayload(plain) = %q, want empty", got)
	}
}

func TestPositionString(t *testing.T) {
	p := Position{File: "f.kiln", Line: 3, Column: 7}
	if got, want := p.String(), "f.kiln:3:7"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	p2 := Position{Line: 3, Column: 7}
	if got, want := p2.String(), "3:7"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
