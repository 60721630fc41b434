package prompts

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	registryOnce sync.Once
	registryErr  error
	registry     = map[PromptName]Template{}
)

var builtin = []struct {
	name    PromptName
	version int
	file    string
}{
	{PromptGenerate, 1, "templates/generate.tmpl"},
	{PromptRefine, 1, "templates/refine.tmpl"},
	{PromptRefineStrict, 1, "templates/refine_strict.tmpl"},
	{PromptAgentSystem, 1, "templates/agent_system.tmpl"},
	{PromptCompare, 1, "templates/compare.tmpl"},
}

func registerAll() {
	for _, b := range builtin {
		body, err := templateFS.ReadFile(b.file)
		if err != nil {
			registryErr = fmt.Errorf("read %s: %w", b.file, err)
			return
		}
		t, err := MakeTemplate(Spec{Name: b.name, Version: b.version, Body: string(body)})
		if err != nil {
			registryErr = err
			return
		}
		registry[t.Name] = t
	}
}

// Build renders a registered prompt.
func Build(name PromptName, in Input) (Prompt, error) {
	registryOnce.Do(registerAll)
	if registryErr != nil {
		return Prompt{}, registryErr
	}
	t, ok := registry[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	text, err := t.Render(in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Name: string(t.Name), Version: t.Version, Text: text}, nil
}

func GenerationPrompt(text, workload string) (Prompt, error) {
	return Build(PromptGenerate, Input{Text: text, Workload: workload, Junction: NeedsJunctionGuidance(text)})
}

func RefinementPrompt(schemaJSON, text, workload string) (Prompt, error) {
	return Build(PromptRefine, Input{Text: text, Workload: workload, SchemaJSON: schemaJSON})
}

func StrictRefinementPrompt(schemaJSON, text, workload string) (Prompt, error) {
	return Build(PromptRefineStrict, Input{Text: text, Workload: workload, SchemaJSON: schemaJSON})
}

// AgentSystemPrompt renders the design-agent instructions, with the current
// schema appended when schemaJSON is non-empty.
func AgentSystemPrompt(schemaJSON string) (Prompt, error) {
	return Build(PromptAgentSystem, Input{SchemaJSON: schemaJSON})
}

// ComparisonPrompt renders a generation request in the voice of a design
// persona.
func ComparisonPrompt(persona, text, workload string) (Prompt, error) {
	return Build(PromptCompare, Input{Persona: persona, Text: text, Workload: workload, Junction: NeedsJunctionGuidance(text)})
}
