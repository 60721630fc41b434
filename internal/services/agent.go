package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/domain/schema"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/prompts"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/session"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
	perrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/jsonx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/apierr"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type AgentAction string

const (
	ActionGenerate AgentAction = "GENERATE_SCHEMA"
	ActionRefine   AgentAction = "REFINE_SCHEMA"
	ActionAsk      AgentAction = "ASK_QUESTIONS"
	ActionNone     AgentAction = "NONE"
)

const agentMaxTokens = 2000

func parseAction(v string) AgentAction {
	switch a := AgentAction(strings.ToUpper(strings.TrimSpace(v))); a {
	case ActionGenerate, ActionRefine, ActionAsk:
		return a
	default:
		return ActionNone
	}
}

// AgentReply is one agent turn as returned to the caller.
type AgentReply struct {
	UserMessage string         `json:"userMsg"`
	Reply       string         `json:"reply"`
	Reasoning   string         `json:"reasoning"`
	Action      AgentAction    `json:"action"`
	Schema      *schema.Result `json:"schemaDef"`
	SchemaID    *string        `json:"schemaId"`
	Error       string         `json:"error,omitempty"`
}

type AgentService interface {
	Chat(ctx context.Context, ownerID, message, schemaID string) (*AgentReply, error)
	Reset(ctx context.Context, ownerID string) error
}

type agentService struct {
	log      *logger.Logger
	chatter  llm.Chatter
	schemas  SchemaService
	sessions session.Store
}

// NewAgentService wires the design agent. A nil chatter leaves every turn to
// the keyword classifier.
func NewAgentService(log *logger.Logger, chatter llm.Chatter, schemas SchemaService, sessions session.Store) AgentService {
	return &agentService{
		log:      log.With("service", "AgentService"),
		chatter:  chatter,
		schemas:  schemas,
		sessions: sessions,
	}
}

var errEmptyMessage = apierr.New(http.StatusBadRequest, "invalid_input", errors.New("message is required"))

// agentTurn is the decoded model decision.
type agentTurn struct {
	Reasoning   string
	Action      AgentAction
	UserMessage string
	Text        string
	Workload    string
	Refinement  string
}

func (s *agentService) Chat(ctx context.Context, ownerID, message, schemaID string) (*AgentReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errEmptyMessage
	}
	dbc := dbctx.Context{Ctx: ctx}

	sess, err := s.sessions.Get(ctx, ownerID)
	if errors.Is(err, perrors.ErrNotFound) {
		sess, err = s.sessions.Create(ctx, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("load agent session: %w", err)
	}

	current := s.currentSchema(dbc, ownerID, schemaID, sess)
	sess.Add(llm.RoleUser, message)

	turn, raw := s.decide(ctx, sess, message, current)
	sess.Add(llm.RoleAssistant, raw)

	reply := &AgentReply{
		UserMessage: message,
		Reply:       turn.UserMessage,
		Reasoning:   turn.Reasoning,
		Action:      turn.Action,
	}

	var rec *schema.Record
	switch turn.Action {
	case ActionGenerate:
		text := firstNonEmpty(turn.Text, message)
		rec, err = s.schemas.Generate(dbc, ownerID, text, turn.Workload)
	case ActionRefine:
		if current == nil {
			reply.Action = ActionAsk
			reply.Reply = strings.TrimSpace(reply.Reply + "\n\nThere is no schema to refine yet. Describe the application first or pick a schema from your history.")
			break
		}
		rec, err = s.schemas.Refine(dbc, ownerID, current.ID, firstNonEmpty(turn.Refinement, message), turn.Workload)
	}
	if err != nil {
		s.log.Warn("agent action failed", "owner_id", ownerID, "action", turn.Action, "error", err)
		reply.Error = err.Error()
	}
	if rec != nil {
		res, derr := rec.Decode()
		if derr != nil {
			reply.Error = derr.Error()
		} else {
			reply.Schema = res
		}
		id := rec.ID.String()
		reply.SchemaID = &id
		sess.SchemaID = id
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save agent session: %w", err)
	}
	s.log.Info("agent turn", "owner_id", ownerID, "action", reply.Action, "schema_id", sess.SchemaID)
	return reply, nil
}

func (s *agentService) Reset(ctx context.Context, ownerID string) error {
	if err := s.sessions.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("reset agent session: %w", err)
	}
	return nil
}

// currentSchema resolves the schema under discussion: the requested id, or
// the last one this session produced. Lookup failures only drop the context.
func (s *agentService) currentSchema(dbc dbctx.Context, ownerID, schemaID string, sess *session.Session) *schema.Record {
	raw := strings.TrimSpace(schemaID)
	if raw == "" {
		raw = sess.SchemaID
	}
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.log.Debug("ignoring malformed schema id", "schema_id", raw)
		return nil
	}
	rec, err := s.schemas.Get(dbc, ownerID, id)
	if err != nil {
		s.log.Debug("schema context unavailable", "schema_id", raw, "error", err)
		return nil
	}
	return rec
}

// decide asks the model for the next action. Without a usable reply the
// keyword classifier decides instead. raw is what gets recorded as the
// assistant turn.
func (s *agentService) decide(ctx context.Context, sess *session.Session, message string, current *schema.Record) (agentTurn, string) {
	if s.chatter == nil {
		turn := classifyTurn(message, current != nil, llm.ErrDisabled)
		return turn, turn.UserMessage
	}

	schemaJSON := ""
	if current != nil {
		if res, err := current.Decode(); err == nil {
			schemaJSON = jsonx.Pretty(res)
		}
	}
	p, err := prompts.AgentSystemPrompt(schemaJSON)
	if err != nil {
		s.log.Error("render agent prompt failed", "error", err)
		turn := classifyTurn(message, current != nil, err)
		return turn, turn.UserMessage
	}

	raw, err := s.chatter.Chat(ctx, p.Text, sess.History(), llm.WithMaxTokens(agentMaxTokens))
	if err != nil {
		s.log.Warn("agent model call failed", "error", err)
		turn := classifyTurn(message, current != nil, err)
		return turn, turn.UserMessage
	}
	obj, err := jsonx.ExtractObject(raw)
	if err != nil {
		// plain prose is a conversational reply
		return agentTurn{
			Reasoning:   "Parsed response as natural language",
			Action:      ActionNone,
			UserMessage: strings.TrimSpace(raw),
		}, raw
	}
	return turnFromObject(obj), raw
}

func turnFromObject(obj map[string]any) agentTurn {
	turn := agentTurn{
		Reasoning:   str(obj["reasoning"]),
		Action:      parseAction(str(obj["action"])),
		UserMessage: str(obj["user_message"]),
	}
	if in, ok := obj["tool_input"].(map[string]any); ok {
		turn.Text = str(in["text"])
		turn.Workload = str(in["workload_type"])
		turn.Refinement = str(in["refinement"])
	}
	return turn
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
