package envoy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/reglet-dev/envoy-sdk-go/application/schema"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/infrastructure/parser"
)

// Config is a decoded extension configuration.
type Config map[string]any

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

var configParser = parser.NewYamlConfigParser()

// ParseConfig decodes a YAML or JSON configuration into target and runs
// the `validate` struct tags on it.
func ParseConfig(data []byte, target any) error {
	config, err := configParser.Parse(data)
	if err != nil {
		return &errors.ConfigError{Err: err}
	}
	return ValidateConfig(config, target)
}

// ValidateConfig copies config into target through its JSON representation
// and validates the result.
func ValidateConfig(config Config, target any) error {
	jsonBytes, err := json.Marshal(config)
	if err != nil {
		return &errors.ConfigError{Err: fmt.Errorf("failed to marshal config map: %w", err)}
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return &errors.ConfigError{Err: fmt.Errorf("failed to unmarshal config into struct: %w", err)}
	}

	if err := validate.Struct(target); err != nil {
		return &errors.ConfigError{Err: err}
	}

	return nil
}

// ConfigSchema returns the JSON schema of a configuration struct.
func ConfigSchema(v any) ([]byte, error) {
	data, err := schema.GenerateSchema(v)
	if err != nil {
		return nil, &errors.SchemaError{Type: fmt.Sprintf("%T", v), Err: err}
	}
	return data, nil
}

// GetString returns the string at key.
func (c Config) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// GetInt returns the integer at key. JSON numbers decode as float64 and
// YAML numbers as int, so both are accepted.
func (c Config) GetInt(key string) (int, bool) {
	switch n := c[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true //nolint:gosec // G115: configuration values are small
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// GetFloat returns the number at key.
func (c Config) GetFloat(key string) (float64, bool) {
	switch n := c[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// GetBool returns the bool at key.
func (c Config) GetBool(key string) (bool, bool) {
	b, ok := c[key].(bool)
	return b, ok
}

// GetStringSlice returns the list of strings at key.
func (c Config) GetStringSlice(key string) ([]string, bool) {
	arr, ok := c[key].([]any)
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}

// GetDuration returns the duration at key, written either as a Go duration
// string ("250ms") or as a number of milliseconds.
func (c Config) GetDuration(key string) (time.Duration, bool) {
	if s, ok := c.GetString(key); ok {
		d, err := time.ParseDuration(s)
		return d, err == nil
	}
	if ms, ok := c.GetInt(key); ok {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}

// GetConfig returns the nested mapping at key.
func (c Config) GetConfig(key string) (Config, bool) {
	m, ok := c[key].(map[string]any)
	return Config(m), ok
}

// MustGetString returns the string at key or a ConfigError.
func (c Config) MustGetString(key string) (string, error) {
	s, ok := c.GetString(key)
	if !ok {
		return "", missing(key, "string")
	}
	return s, nil
}

// MustGetInt returns the integer at key or a ConfigError.
func (c Config) MustGetInt(key string) (int, error) {
	i, ok := c.GetInt(key)
	if !ok {
		return 0, missing(key, "number")
	}
	return i, nil
}

// MustGetBool returns the bool at key or a ConfigError.
func (c Config) MustGetBool(key string) (bool, error) {
	b, ok := c.GetBool(key)
	if !ok {
		return false, missing(key, "boolean")
	}
	return b, nil
}

// MustGetDuration returns the duration at key or a ConfigError.
func (c Config) MustGetDuration(key string) (time.Duration, error) {
	d, ok := c.GetDuration(key)
	if !ok {
		return 0, missing(key, "duration")
	}
	return d, nil
}

func (c Config) GetStringDefault(key, defaultValue string) string {
	if s, ok := c.GetString(key); ok {
		return s
	}
	return defaultValue
}

func (c Config) GetIntDefault(key string, defaultValue int) int {
	if i, ok := c.GetInt(key); ok {
		return i
	}
	return defaultValue
}

func (c Config) GetBoolDefault(key string, defaultValue bool) bool {
	if b, ok := c.GetBool(key); ok {
		return b
	}
	return defaultValue
}

func (c Config) GetDurationDefault(key string, defaultValue time.Duration) time.Duration {
	if d, ok := c.GetDuration(key); ok {
		return d
	}
	return defaultValue
}

func missing(key, kind string) error {
	return &errors.ConfigError{
		Field: key,
		Err:   fmt.Errorf("required %s field '%s' is missing or has the wrong type", kind, key),
	}
}
