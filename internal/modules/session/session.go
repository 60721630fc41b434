// Package session keeps the per-owner design conversation between agent turns.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

// MaxMessages bounds the history replayed to the model.
const MaxMessages = 40

type Session struct {
	Key       string        `json:"key"`
	Messages  []llm.Message `json:"messages"`
	SchemaID  string        `json:"schemaId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func New(key string) *Session {
	now := time.Now().UTC()
	return &Session{Key: key, Messages: []llm.Message{}, CreatedAt: now, UpdatedAt: now}
}

func (s *Session) Add(role, content string) {
	s.Messages = append(s.Messages, llm.Message{Role: role, Content: content})
	if len(s.Messages) > MaxMessages {
		s.Messages = append([]llm.Message(nil), s.Messages[len(s.Messages)-MaxMessages:]...)
	}
	s.UpdatedAt = time.Now().UTC()
}

func (s *Session) History() []llm.Message {
	return append([]llm.Message(nil), s.Messages...)
}

func (s *Session) clone() *Session {
	out := *s
	out.Messages = s.History()
	return &out
}

// Store persists sessions by key. Get returns pkg/errors.ErrNotFound for an
// unknown key.
type Store interface {
	Get(ctx context.Context, key string) (*Session, error)
	Create(ctx context.Context, key string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, key string) error
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "anonymous"
	}
	return key
}
