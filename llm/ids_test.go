package llm

import "testing"

func TestParseProviderIDRoundTrip(t *testing.T) {
	for _, id := range AllProviderIDs() {
		parsed, err := ParseProviderID(id.String())
		if err != nil {
			t.Fatalf("ParseProviderID(%q) failed: %v", id.String(), err)
		}
		if parsed != id {
			t.Errorf("round trip %v -> %q -> %v", id, id.String(), parsed)
		}
	}
}

func TestParseProviderIDVendorAliases(t *testing.T) {
	tests := []struct {
		input string
		want  ProviderID
	}{
		{"anthropic", ProviderPrimaryCloud},
		{"Claude", ProviderPrimaryCloud},
		{"openai", ProviderSecondaryCloud},
		{"gemini", ProviderResearchCloud},
		{"OLLAMA", ProviderLocal},
	}
	for _, tt := range tests {
		got, err := ParseProviderID(tt.input)
		if err != nil {
			t.Errorf("ParseProviderID(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProviderID(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseProviderIDUnknown(t *testing.T) {
	if _, err := ParseProviderID("mainframe"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestDefaultFallbackOrderEndsWithLocal(t *testing.T) {
	order := DefaultFallbackOrder()
	if len(order) != 4 {
		t.Fatalf("expected 4 provider slots, got %d", len(order))
	}
	if order[0] != ProviderPrimaryCloud {
		t.Errorf("primary_cloud must be tried first, got %v", order[0])
	}
	if order[len(order)-1] != ProviderLocal {
		t.Errorf("local must be the last resort, got %v", order[len(order)-1])
	}
}

func TestProviderEnvVars(t *testing.T) {
	if ProviderPrimaryCloud.EnvVar() != "ANTHROPIC_API_KEY" {
		t.Errorf("got %q", ProviderPrimaryCloud.EnvVar())
	}
	if ProviderLocal.EnvVar() != "" {
		t.Errorf("local provider needs no key, got %q", ProviderLocal.EnvVar())
	}
}

func TestParseQueryKindRoundTrip(t *testing.T) {
	for _, kind := range AllQueryKinds() {
		parsed, err := ParseQueryKind(kind.String())
		if err != nil {
			t.Fatalf("ParseQueryKind(%q) failed: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("round trip %v -> %q -> %v", kind, kind.String(), parsed)
		}
	}
	if _, err := ParseQueryKind("telepathy"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
