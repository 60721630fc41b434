package prompts

type PromptName string

const (
	PromptGenerate     PromptName = "schema_generate"
	PromptRefine       PromptName = "schema_refine"
	PromptRefineStrict PromptName = "schema_refine_strict"
	PromptAgentSystem  PromptName = "agent_system"
	PromptCompare      PromptName = "schema_compare"
)
