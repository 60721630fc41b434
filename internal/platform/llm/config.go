package llm

import (
	"strings"
	"time"

	"github.com/yungbote/mongoarchitect-backend/internal/platform/envutil"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

var providerKeyEnv = map[string]string{
	ProviderGroq:      "GROQ_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

type Config struct {
	Provider      string
	APIKey        string
	Model         string
	BaseURL       string
	Temperature   float32
	MaxTokens     int
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
	Burst         int

	// Keys holds the api key of every provider with one configured, so
	// clients for other providers can be derived with ForProvider.
	Keys map[string]string
}

// LoadConfig reads LLM_* variables. The api key falls back to the
// provider specific variable.
func LoadConfig() Config {
	cfg := Config{
		Provider:      strings.ToLower(envutil.String("LLM_PROVIDER", ProviderGroq)),
		APIKey:        envutil.String("LLM_API_KEY", ""),
		Model:         envutil.String("LLM_MODEL", ""),
		BaseURL:       envutil.String("LLM_BASE_URL", ""),
		Temperature:   float32(envutil.Float("LLM_TEMPERATURE", 0.2)),
		MaxTokens:     envutil.Int("LLM_MAX_TOKENS", 2000),
		Timeout:       envutil.Seconds("LLM_TIMEOUT_SECONDS", 60*time.Second),
		MaxRetries:    envutil.Int("LLM_MAX_RETRIES", 2),
		RatePerSecond: envutil.Float("LLM_RATE_PER_SECOND", 0),
		Burst:         envutil.Int("LLM_BURST", 1),
	}
	cfg.Keys = map[string]string{}
	for provider, name := range providerKeyEnv {
		if key := envutil.String(name, ""); key != "" {
			cfg.Keys[provider] = key
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = cfg.Keys[cfg.Provider]
	} else {
		cfg.Keys[cfg.Provider] = cfg.APIKey
	}
	return cfg.withDefaults()
}

// ForProvider derives the config for another provider: its key from Keys,
// its default model and base url, with the transport settings kept.
func (c Config) ForProvider(provider string) Config {
	if provider == c.Provider {
		return c
	}
	out := c
	out.Provider = provider
	out.APIKey = c.Keys[provider]
	out.Model = ""
	out.BaseURL = ""
	return out.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderGroq
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGroq:
			c.Model = "llama-3.3-70b-versatile"
		case ProviderOpenAI:
			c.Model = "gpt-4o-mini"
		case ProviderAnthropic:
			c.Model = "claude-3-5-sonnet-20241022"
		}
	}
	if c.BaseURL == "" && c.Provider == ProviderGroq {
		c.BaseURL = groqBaseURL
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 2000
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}
