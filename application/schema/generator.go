// Package schema generates JSON schemas for extension configurations and
// the documents written by the SDK tools.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

type options struct {
	id          string
	title       string
	description string
}

// Option configures the generated schema.
type Option func(*options)

// WithID sets the $id of the schema.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithTitle sets the title of the schema.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithDescription sets the description of the schema.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// GenerateSchema creates a JSON schema (Draft 2020-12) from a Go struct.
// Fields are named after their json tags; unknown properties are rejected,
// matching how ParseConfig decodes configurations.
func GenerateSchema(v any, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand the top-level struct inline
	}
	s := reflector.Reflect(v)
	if o.id != "" {
		s.ID = jsonschema.ID(o.id)
	}
	if o.title != "" {
		s.Title = o.title
	}
	if o.description != "" {
		s.Description = o.description
	}

	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}
