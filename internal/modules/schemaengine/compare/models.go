// Package compare pits design personas against each other: a catalog of
// models, each served by a provider, and a structural comparison of the two
// schemas they produce.
package compare

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

//go:embed models.yaml
var modelsYAML []byte

// Model is one comparison persona.
type Model struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Provider   string `yaml:"provider" json:"provider"`
	Philosophy string `yaml:"philosophy" json:"philosophy"`
	Persona    string `yaml:"persona" json:"-"`
}

type catalog struct {
	Version int     `yaml:"version"`
	Models  []Model `yaml:"models"`
}

var (
	catalogOnce sync.Once
	models      []Model
)

// Models returns the catalog in declaration order.
func Models() []Model {
	catalogOnce.Do(func() {
		m, err := ParseModels(modelsYAML)
		if err != nil {
			panic(fmt.Sprintf("compare: embedded catalog invalid: %v", err))
		}
		models = m
	})
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// Lookup finds a model by id, ignoring case and surrounding space.
func Lookup(id string) (Model, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range Models() {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// ParseModels decodes and checks a catalog document.
func ParseModels(data []byte) ([]Model, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Models) == 0 {
		return nil, fmt.Errorf("no models")
	}
	seen := map[string]bool{}
	for i := range c.Models {
		m := &c.Models[i]
		m.ID = strings.ToLower(strings.TrimSpace(m.ID))
		if m.ID == "" {
			return nil, fmt.Errorf("model %d: missing id", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("model %q: duplicate id", m.ID)
		}
		seen[m.ID] = true
		switch m.Provider {
		case llm.ProviderGroq, llm.ProviderOpenAI, llm.ProviderAnthropic:
		default:
			return nil, fmt.Errorf("model %q: unknown provider %q", m.ID, m.Provider)
		}
		m.Persona = strings.TrimSpace(m.Persona)
	}
	return c.Models, nil
}
