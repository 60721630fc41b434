package llm

import (
	"context"
	"errors"
	"sync"
)

var ErrScriptExhausted = errors.New("llm: scripted replies exhausted")

// Reply is one canned answer. Err wins over Text.
type Reply struct {
	Text string
	Err  error
}

// Scripted replays canned replies in order and records every prompt. It is
// the offline stand-in for a provider.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	prompts []string
	systems []string
}

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

// Texts is shorthand for replies that all succeed.
func Texts(texts ...string) *Scripted {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return NewScripted(replies...)
}

func (s *Scripted) Provider() string { return "scripted" }

func (s *Scripted) Complete(ctx context.Context, prompt string, _ ...CallOption) (string, error) {
	return s.next(ctx, "", prompt)
}

func (s *Scripted) Chat(ctx context.Context, system string, history []Message, _ ...CallOption) (string, error) {
	last := ""
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return s.next(ctx, system, last)
}

func (s *Scripted) next(ctx context.Context, system, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	s.systems = append(s.systems, system)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.replies) == 0 {
		return "", ErrScriptExhausted
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Calls reports how many prompts were received.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

func (s *Scripted) Systems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.systems...)
}
