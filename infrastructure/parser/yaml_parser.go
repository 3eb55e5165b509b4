// Package parser decodes extension configurations.
package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
)

// YamlConfigParser implements ConfigParser for YAML. JSON documents are
// valid YAML, so it accepts both.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse unmarshals a YAML or JSON mapping.
func (p *YamlConfigParser) Parse(data []byte) (map[string]any, error) {
	config := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if config == nil {
		config = map[string]any{}
	}
	return config, nil
}
