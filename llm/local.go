// Local adapter for an OpenAI-compatible inference server (Ollama,
// LocalAI, llama.cpp server) using the go-openai library with a custom
// base URL.
//
// Information Hiding:
// - Uses the OpenAI-compatible API with a different base URL
// - Availability is a real network probe against the local server

package llm

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultLocalBaseURL is the Ollama OpenAI-compatible endpoint.
const DefaultLocalBaseURL = "http://localhost:11434/v1"

// LocalProvider implements the Provider interface for a local
// OpenAI-compatible inference server.
type LocalProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	avail       *availability
}

// NewLocalProvider creates a new local provider. An empty baseURL uses
// DefaultLocalBaseURL. Local servers typically ignore the API key; a
// placeholder is sent to satisfy the client.
func NewLocalProvider(baseURL, model string, maxTokens uint32, temperature float32) *LocalProvider {
	if baseURL == "" {
		baseURL = DefaultLocalBaseURL
	}
	config := openai.DefaultConfig("local")
	config.BaseURL = baseURL

	p := &LocalProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
	// Unlike the cloud adapters, local availability genuinely varies with
	// whether the server process is running, so the probe hits the wire.
	p.avail = newAvailability(func(ctx context.Context) error {
		_, err := p.client.ListModels(ctx)
		return err
	})
	return p
}

// ID returns the provider slot identifier.
func (p *LocalProvider) ID() ProviderID { return ProviderLocal }

// Name returns the provider name.
func (p *LocalProvider) Name() string { return "local" }

// Model returns the current model.
func (p *LocalProvider) Model() string { return p.model }

// Available probes the local server, memoized per probe TTL.
func (p *LocalProvider) Available(ctx context.Context) bool {
	return p.avail.check(ctx)
}

// Supports reports query-kind capability. Local text models handle
// neither image generation nor vision.
func (p *LocalProvider) Supports(kind QueryKind) bool {
	return kind != KindImageGen && kind != KindVision
}

// Chat sends a chat completion request.
func (p *LocalProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, classifyError(p.Name(), err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, Usage: usage}, nil
}

// StreamChat streams a chat completion.
func (p *LocalProvider) StreamChat(ctx context.Context, messages []ChatMessage, chunks chan<- string) (*TokenUsage, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Stream:      true,
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, classifyError(p.Name(), err)
	}
	defer stream.Close()

	var usage *TokenUsage
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return usage, nil
		}
		if err != nil {
			return usage, classifyError(p.Name(), err)
		}

		if response.Usage != nil {
			usage = &TokenUsage{
				PromptTokens:     uint32(response.Usage.PromptTokens),
				CompletionTokens: uint32(response.Usage.CompletionTokens),
				TotalTokens:      uint32(response.Usage.TotalTokens),
			}
		}

		if len(response.Choices) > 0 {
			content := response.Choices[0].Delta.Content
			if content != "" {
				select {
				case chunks <- content:
				case <-ctx.Done():
					return usage, ctx.Err()
				}
			}
		}
	}
}

// Verify LocalProvider implements Provider
var _ Provider = (*LocalProvider)(nil)
