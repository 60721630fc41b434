// Package llm adapts hosted chat-completion providers to the small surface
// the schema engine needs: a single-prompt completion and a multi-turn chat.
package llm

import (
	"context"
	"errors"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends one prompt and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error)
}

// Chatter runs a conversation under a system instruction.
type Chatter interface {
	Chat(ctx context.Context, system string, history []Message, opts ...CallOption) (string, error)
}

type Client interface {
	Completer
	Chatter
	Provider() string
}

var (
	ErrDisabled      = errors.New("llm: generative service disabled")
	ErrEmptyResponse = errors.New("llm: empty response")
	ErrMissingAPIKey = errors.New("llm: missing api key")
)

// Params are the per-call overrides. Nil fields use the client defaults.
type Params struct {
	Temperature *float32
	MaxTokens   *int
}

type CallOption func(*Params)

func WithTemperature(t float32) CallOption {
	return func(p *Params) { p.Temperature = &t }
}

func WithMaxTokens(n int) CallOption {
	return func(p *Params) {
		if n > 0 {
			p.MaxTokens = &n
		}
	}
}

func resolve(cfg Config, opts []CallOption) (float32, int) {
	var p Params
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	temp := cfg.Temperature
	if p.Temperature != nil {
		temp = *p.Temperature
	}
	maxTokens := cfg.MaxTokens
	if p.MaxTokens != nil {
		maxTokens = *p.MaxTokens
	}
	return temp, maxTokens
}

// StatusError carries the HTTP status of a failed provider call.
type StatusError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	if e == nil || e.Err == nil {
		return "llm: provider error"
	}
	return e.Provider + ": " + e.Err.Error()
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}
