package analyzer

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/codelens/webaudit/inspector/graph"
)

// EmitYAML renders the project report as YAML.
func EmitYAML(project *graph.Project) ([]byte, error) {
	data, err := yaml.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to emit yaml report: %w", err)
	}
	return data, nil
}

// EmitJSON renders the project report as indented JSON.
func EmitJSON(project *graph.Project) ([]byte, error) {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to emit json report: %w", err)
	}
	return data, nil
}
