package textutil

import (
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Hello World  ", "hello world"},
		{"HELLO", "hello"},
		{"", ""},
		{"   ", ""},
		{"already canonical", "already canonical"},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.input); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTokensSplitsOnPunctuation(t *testing.T) {
	got := Tokens("What's the weather, today?")
	want := []string{"what", "s", "the", "weather", "today"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestSignificantTokensDropsShortWords(t *testing.T) {
	got := SignificantTokens("is it a good plan")
	want := []string{"good", "plan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SignificantTokens = %v, want %v", got, want)
	}
}

func TestSharesSignificantToken(t *testing.T) {
	if !SharesSignificantToken("quantum computing basics", "explain quantum physics") {
		t.Error("expected shared token 'quantum'")
	}
	if SharesSignificantToken("it is a", "the of an") {
		t.Error("short function words must not count as shared content")
	}
	if SharesSignificantToken("weather today", "stock prices") {
		t.Error("expected no shared token")
	}
}

func TestContainsWordWholeWordOnly(t *testing.T) {
	if !ContainsWord("change my password now", "password") {
		t.Error("expected whole-word match")
	}
	if ContainsWord("I like passwords", "password") {
		t.Error("substring of a longer token must not match")
	}
	if !ContainsWord("Check my PASSWORD", "Password") {
		t.Error("expected case-insensitive match")
	}
}

func TestContainsWordMultiWordKeyword(t *testing.T) {
	if !ContainsWord("please write code for me", "write code") {
		t.Error("expected multi-word keyword match")
	}
	if ContainsWord("write some code", "write code") {
		t.Error("non-adjacent words must not match a multi-word keyword")
	}
}
