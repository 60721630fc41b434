package llm

import (
	"testing"
)

func TestLoadConfigCollectsProviderKeys(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gk")
	t.Setenv("OPENAI_API_KEY", "ok")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := LoadConfig()
	if cfg.APIKey != "gk" {
		t.Fatalf("APIKey=%q, want gk", cfg.APIKey)
	}
	if cfg.Keys[ProviderOpenAI] != "ok" || cfg.Keys[ProviderGroq] != "gk" {
		t.Fatalf("Keys=%v", cfg.Keys)
	}
	if _, ok := cfg.Keys[ProviderAnthropic]; ok {
		t.Fatalf("Keys has an empty anthropic key: %v", cfg.Keys)
	}
}

func TestForProvider(t *testing.T) {
	base := Config{
		Provider:   ProviderGroq,
		APIKey:     "gk",
		Model:      "custom-model",
		MaxRetries: 3,
		Keys:       map[string]string{ProviderGroq: "gk", ProviderAnthropic: "ak"},
	}.withDefaults()

	cases := []struct {
		provider string
		key      string
		model    string
		baseURL  string
	}{
		{ProviderGroq, "gk", "custom-model", groqBaseURL},
		{ProviderAnthropic, "ak", "claude-3-5-sonnet-20241022", ""},
		{ProviderOpenAI, "", "gpt-4o-mini", ""},
	}
	for _, tc := range cases {
		got := base.ForProvider(tc.provider)
		if got.Provider != tc.provider || got.APIKey != tc.key || got.Model != tc.model || got.BaseURL != tc.baseURL {
			t.Fatalf("ForProvider(%s)=%+v, want key=%q model=%q baseURL=%q", tc.provider, got, tc.key, tc.model, tc.baseURL)
		}
		if got.MaxRetries != 3 {
			t.Fatalf("ForProvider(%s) MaxRetries=%d, want 3", tc.provider, got.MaxRetries)
		}
	}
}
