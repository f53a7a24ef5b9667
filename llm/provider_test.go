// Security tests for LLM adapters to ensure error messages don't leak API keys.
package llm

import (
	"context"
	"strings"
	"testing"
	"time"
)

// TestAnthropicErrorNoAPIKeyLeak verifies Anthropic errors don't contain API keys
func TestAnthropicErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-ant-REDACTED"
	provider := NewAnthropicProvider(testKey, "claude-sonnet-4-20250514", 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.Chat(ctx, []ChatMessage{
		{Role: "user", Content: "test"},
	})

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("Anthropic error message leaked API key: %v", errStr)
	}
	if strings.Contains(errStr, "x-api-key:") || strings.Contains(errStr, "X-API-Key:") {
		t.Errorf("Anthropic error exposed API key header: %v", errStr)
	}
}

// TestOpenAIErrorNoAPIKeyLeak verifies OpenAI errors don't contain API keys
func TestOpenAIErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewOpenAIProvider(testKey, "gpt-4o", 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.Chat(ctx, []ChatMessage{
		{Role: "user", Content: "test"},
	})

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("OpenAI error message leaked API key: %v", errStr)
	}
	if strings.Contains(errStr, "Authorization:") {
		t.Errorf("OpenAI error exposed Authorization header: %v", errStr)
	}
}

func TestMessageHelpers(t *testing.T) {
	sys := SystemMessage("be brief")
	if sys.Role != "system" || sys.Content != "be brief" {
		t.Errorf("SystemMessage = %+v", sys)
	}
	if UserMessage("hi").Role != "user" {
		t.Error("UserMessage role mismatch")
	}
	if AssistantMessage("ok").Role != "assistant" {
		t.Error("AssistantMessage role mismatch")
	}
}

func TestConvertToAnthropicMessagesExtractsSystem(t *testing.T) {
	msgs, system := convertToAnthropicMessages([]ChatMessage{
		SystemMessage("be brief"),
		UserMessage("hello"),
		AssistantMessage("hi"),
	})
	if system != "be brief" {
		t.Errorf("system = %q", system)
	}
	if len(msgs) != 2 {
		t.Errorf("got %d messages, want 2 (system extracted)", len(msgs))
	}
}
