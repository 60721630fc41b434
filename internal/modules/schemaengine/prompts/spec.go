package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Spec declares a prompt. Body is a text/template rendered against Input.
type Spec struct {
	Name    PromptName
	Version int
	Body    string
}

type Template struct {
	Name    PromptName
	Version int
	Render  func(Input) (string, error)
}

func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if strings.TrimSpace(s.Body) == "" {
		return Template{}, fmt.Errorf("empty body for %s", s.Name)
	}
	t, err := template.New(string(s.Name)).Option("missingkey=zero").Parse(s.Body)
	if err != nil {
		return Template{}, fmt.Errorf("%s template parse: %w", s.Name, err)
	}
	return Template{
		Name:    s.Name,
		Version: s.Version,
		Render: func(in Input) (string, error) {
			var b bytes.Buffer
			if err := t.Execute(&b, in); err != nil {
				return "", fmt.Errorf("%s render: %w", s.Name, err)
			}
			return strings.TrimSpace(b.String()), nil
		},
	}, nil
}
