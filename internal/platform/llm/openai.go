package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openAIBackend serves OpenAI and OpenAI-compatible endpoints such as Groq.
type openAIBackend struct {
	name   string
	client *openai.Client
	cfg    Config
}

func newOpenAIBackend(cfg Config) *openAIBackend {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &openAIBackend{name: cfg.Provider, client: openai.NewClientWithConfig(oc), cfg: cfg}
}

func (b *openAIBackend) provider() string { return b.name }

func (b *openAIBackend) chat(ctx context.Context, system string, history []Message, opts []CallOption) (string, error) {
	temp, maxTokens := resolve(b.cfg, opts)
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.cfg.Model,
		Messages:    msgs,
		Temperature: temp,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", b.wrap(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *openAIBackend) wrap(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: b.name, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{Provider: b.name, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
