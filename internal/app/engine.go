package app

import (
	"errors"
	"sync"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
	"github.com/yungbote/mongoarchitect-backend/internal/services"
)

// NewLLM builds the provider client. A missing api key degrades to the
// disabled client so every request takes the rule-based path.
func NewLLM(cfg llm.Config, log *logger.Logger) (llm.Client, error) {
	client, err := llm.New(cfg, log)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		log.Warn("llm api key missing; generative features disabled", "provider", cfg.Provider)
		return llm.Disabled{}, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("llm client ready", "provider", client.Provider(), "model", cfg.Model)
	return client, nil
}

// NewEngine wires the schema engine the same way for the server and the CLI.
func NewEngine(cfg Config, log *logger.Logger, metrics *observability.Metrics) (*schemaengine.Engine, llm.Client, error) {
	client, err := NewLLM(cfg.LLM, log)
	if err != nil {
		return nil, nil, err
	}
	return schemaengine.New(client, log, metrics), client, nil
}

// NewProviderClients serves model comparison: primary answers for its own
// provider, other providers get a client built from cfg.Keys on first use.
func NewProviderClients(cfg llm.Config, primary llm.Client, log *logger.Logger) services.ProviderClients {
	var mu sync.Mutex
	cache := map[string]llm.Client{}
	if primary != nil {
		cache[cfg.Provider] = primary
	}
	return func(provider string) (llm.Completer, error) {
		mu.Lock()
		defer mu.Unlock()
		if c, ok := cache[provider]; ok {
			return c, nil
		}
		c, err := llm.New(cfg.ForProvider(provider), log)
		if err != nil {
			return nil, err
		}
		log.Info("comparison client ready", "provider", provider)
		cache[provider] = c
		return c, nil
	}
}
