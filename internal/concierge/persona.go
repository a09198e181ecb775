package concierge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persona is the assistant's identity, loaded once at startup. The system
// prompt tells the model who it is; the business summary gives it the facts
// it may answer from without a tool call.
type Persona struct {
	Name            string `yaml:"name"`
	SystemPrompt    string `yaml:"system_prompt"`
	BusinessSummary string `yaml:"business_summary"`
}

// LoadPersona reads the persona file. A missing or empty system prompt is
// startup-fatal; an unprompted assistant answers as a generic model.
func LoadPersona(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("read persona: %w", err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Persona{}, fmt.Errorf("parse persona %s: %w", path, err)
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		return Persona{}, fmt.Errorf("persona %s has no system_prompt", path)
	}
	return p, nil
}

// Instruction assembles the full system instruction sent on every
// reasoning call.
func (p Persona) Instruction() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.SystemPrompt))
	if summary := strings.TrimSpace(p.BusinessSummary); summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}
	return b.String()
}
