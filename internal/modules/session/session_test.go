package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	perrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

func exerciseStore(t *testing.T, store Store, key string) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, key); !errors.Is(err, perrors.ErrNotFound) {
		t.Fatalf("Get(%q) on empty store: err=%v, want ErrNotFound", key, err)
	}

	s, err := store.Create(ctx, key)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(s.Messages) != 0 {
		t.Fatalf("Create: messages=%d want 0", len(s.Messages))
	}
	s.Add(llm.RoleUser, "blog with posts")
	s.Add(llm.RoleAssistant, "generated")
	s.SchemaID = "abc"
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// mutating the caller's copy after Save must not leak into the store
	s.Add(llm.RoleUser, "unsaved")

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[0].Content != "blog with posts" || got.SchemaID != "abc" {
		t.Fatalf("Get(%q)=%+v", key, got)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, perrors.ErrNotFound) {
		t.Fatalf("Get after Delete: err=%v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store, "owner-1")
	if store.Len() != 0 {
		t.Fatalf("Len=%d want 0", store.Len())
	}
}

func TestMemoryStoreBlankKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Create(ctx, "  "); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Get(ctx, "anonymous"); err != nil {
		t.Fatalf("Get(anonymous): %v", err)
	}
}

func TestSessionAddKeepsRecentMessages(t *testing.T) {
	s := New("k")
	for i := 0; i < MaxMessages+5; i++ {
		s.Add(llm.RoleUser, fmt.Sprintf("m%d", i))
	}
	if len(s.Messages) != MaxMessages {
		t.Fatalf("len=%d want %d", len(s.Messages), MaxMessages)
	}
	if s.Messages[0].Content != "m5" {
		t.Fatalf("first=%q want m5", s.Messages[0].Content)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := NewRedisClient(addr)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	store, err := NewRedisStore(rdb, time.Minute, nil)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store, "test-"+uuid.NewString())
}
