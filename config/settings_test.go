package config

import "testing"

func TestNewDefaults(t *testing.T) {
	settings, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if settings.Cache.ExactCapacity != 1000 {
		t.Errorf("ExactCapacity = %d, want 1000", settings.Cache.ExactCapacity)
	}
	if settings.Cache.TTLSeconds != 3600 {
		t.Errorf("TTLSeconds = %d, want 3600", settings.Cache.TTLSeconds)
	}
	if settings.Cache.SemanticCapacity != 100 {
		t.Errorf("SemanticCapacity = %d, want 100", settings.Cache.SemanticCapacity)
	}
	if settings.FanOut.MaxWorkers != 3 {
		t.Errorf("MaxWorkers = %d, want 3", settings.FanOut.MaxWorkers)
	}
	if settings.FanOut.AgentTimeoutMs != 15000 {
		t.Errorf("AgentTimeoutMs = %d, want 15000", settings.FanOut.AgentTimeoutMs)
	}
	if settings.FanOut.SynthesisTimeoutMs != 30000 {
		t.Errorf("SynthesisTimeoutMs = %d, want 30000", settings.FanOut.SynthesisTimeoutMs)
	}
	if settings.Selector.FallbackRetries != 2 {
		t.Errorf("FallbackRetries = %d, want 2", settings.Selector.FallbackRetries)
	}
}

func TestNewEnvOverrides(t *testing.T) {
	t.Setenv("JARVIS_CACHE_CAPACITY", "50")
	t.Setenv("JARVIS_FANOUT_MAX_WORKERS", "8")

	settings, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if settings.Cache.ExactCapacity != 50 {
		t.Errorf("ExactCapacity = %d, want 50", settings.Cache.ExactCapacity)
	}
	if settings.FanOut.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", settings.FanOut.MaxWorkers)
	}
}

func TestNewInvalidEnvValue(t *testing.T) {
	t.Setenv("JARVIS_CACHE_TTL_SECONDS", "an hour")

	if _, err := New(); err == nil {
		t.Error("expected error for unparseable env value")
	}
}
