package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/mongoarchitect-backend/internal/data/repos/testutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/session"
	perrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/apierr"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

const generateTurn = "```json\n" + `{
  "reasoning": "enough detail",
  "action": "GENERATE_SCHEMA",
  "user_message": "Here is a first design.",
  "tool_input": {"text": "` + schoolText + `", "workload_type": "read-heavy"}
}` + "\n```"

const refineTurn = `{
  "reasoning": "user wants reviews",
  "action": "REFINE_SCHEMA",
  "user_message": "Added a reviews collection.",
  "tool_input": {"refinement": "Add collection named Reviews"}
}`

func newAgent(t *testing.T, chatter llm.Chatter) (AgentService, *session.MemoryStore) {
	t.Helper()
	schemas, _ := newSchemaService(t)
	store := session.NewMemoryStore()
	return NewAgentService(testutil.Logger(t), chatter, schemas, store), store
}

func TestAgentGenerateThenRefine(t *testing.T) {
	chatter := llm.Texts(generateTurn, refineTurn)
	agent, store := newAgent(t, chatter)
	ctx := context.Background()
	owner := newOwner()

	first, err := agent.Chat(ctx, owner, "I need a school app", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if first.Action != ActionGenerate || first.Reply != "Here is a first design." || first.Reasoning != "enough detail" {
		t.Fatalf("first=%+v", first)
	}
	if first.SchemaID == nil || first.Schema == nil || first.Error != "" {
		t.Fatalf("first schema id=%v schema=%v error=%q", first.SchemaID, first.Schema, first.Error)
	}
	if _, ok := first.Schema.Schema["students"]; !ok {
		t.Fatalf("generated schema=%v", first.Schema.Schema)
	}

	second, err := agent.Chat(ctx, owner, "please add reviews", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if second.Action != ActionRefine || second.Schema == nil {
		t.Fatalf("second=%+v", second)
	}
	if _, ok := second.Schema.Schema["reviews"]; !ok {
		t.Fatalf("refined schema=%v", second.Schema.Schema)
	}
	if second.Schema.SchemaVersion != 2 {
		t.Fatalf("refined version=%d, want 2", second.Schema.SchemaVersion)
	}

	systems := chatter.Systems()
	if strings.Contains(systems[0], "CURRENT SCHEMA") {
		t.Fatalf("first system prompt carries schema context")
	}
	if !strings.Contains(systems[1], "CURRENT SCHEMA") || !strings.Contains(systems[1], `"students"`) {
		t.Fatalf("second system prompt lacks schema context")
	}
	if got := chatter.Prompts(); got[1] != "please add reviews" {
		t.Fatalf("prompts=%v", got)
	}

	sess, err := store.Get(ctx, owner)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if len(sess.Messages) != 4 || sess.SchemaID != *second.SchemaID {
		t.Fatalf("session messages=%d schema=%q", len(sess.Messages), sess.SchemaID)
	}
	if sess.Messages[1].Role != llm.RoleAssistant || sess.Messages[1].Content != generateTurn {
		t.Fatalf("assistant turn=%+v", sess.Messages[1])
	}
}

func TestAgentProseReply(t *testing.T) {
	agent, _ := newAgent(t, llm.Texts("What scale do you expect?"))
	got, err := agent.Chat(context.Background(), newOwner(), "hello", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.Action != ActionNone || got.Reply != "What scale do you expect?" || got.Schema != nil || got.SchemaID != nil {
		t.Fatalf("reply=%+v", got)
	}
}

func TestAgentFallsBackToClassifier(t *testing.T) {
	chatter := llm.NewScripted(llm.Reply{Err: errors.New("rate limited")})
	agent, _ := newAgent(t, chatter)
	got, err := agent.Chat(context.Background(), newOwner(), schoolText, "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.Action != ActionGenerate || got.Schema == nil {
		t.Fatalf("reply=%+v", got)
	}
	if !strings.Contains(got.Reasoning, "LLM error: rate limited") {
		t.Fatalf("reasoning=%q", got.Reasoning)
	}
}

func TestAgentRefineWithoutSchemaAsks(t *testing.T) {
	agent, _ := newAgent(t, llm.Texts(refineTurn))
	got, err := agent.Chat(context.Background(), newOwner(), "add reviews", "")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.Action != ActionAsk || got.Schema != nil {
		t.Fatalf("reply=%+v", got)
	}
	if !strings.Contains(got.Reply, "no schema to refine") {
		t.Fatalf("reply text=%q", got.Reply)
	}
}

func TestAgentUnknownSchemaIDIsIgnored(t *testing.T) {
	agent, _ := newAgent(t, nil)
	got, err := agent.Chat(context.Background(), newOwner(), "hello there", "not-a-uuid")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.Action != ActionAsk || got.Reply != askMessage {
		t.Fatalf("reply=%+v", got)
	}
}

func TestAgentEmptyMessage(t *testing.T) {
	agent, _ := newAgent(t, nil)
	_, err := agent.Chat(context.Background(), newOwner(), "  ", "")
	if ae, ok := apierr.From(err); !ok || ae.Status != 400 {
		t.Fatalf("err=%v, want 400", err)
	}
}

func TestAgentReset(t *testing.T) {
	agent, store := newAgent(t, nil)
	ctx := context.Background()
	owner := newOwner()
	if _, err := agent.Chat(ctx, owner, "hello", ""); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if err := agent.Reset(ctx, owner); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := store.Get(ctx, owner); !errors.Is(err, perrors.ErrNotFound) {
		t.Fatalf("session after reset: err=%v", err)
	}
}

func TestClassifyTurn(t *testing.T) {
	cases := []struct {
		msg       string
		hasSchema bool
		want      AgentAction
	}{
		{"rename collection orders to purchases", true, ActionRefine},
		{"embed products in orders", true, ActionRefine},
		{schoolText, false, ActionGenerate},
		{schoolText, true, ActionGenerate},
		{"hello there", false, ActionAsk},
		{"what do you think?", true, ActionAsk},
	}
	for _, tc := range cases {
		if got := classifyTurn(tc.msg, tc.hasSchema, nil); got.Action != tc.want {
			t.Fatalf("classifyTurn(%q, %v)=%v, want %v", tc.msg, tc.hasSchema, got.Action, tc.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]AgentAction{
		"GENERATE_SCHEMA":  ActionGenerate,
		" refine_schema ": ActionRefine,
		"ASK_QUESTIONS":    ActionAsk,
		"NONE":             ActionNone,
		"delete_everything": ActionNone,
	}
	for in, want := range cases {
		if got := parseAction(in); got != want {
			t.Fatalf("parseAction(%q)=%v, want %v", in, got, want)
		}
	}
}
