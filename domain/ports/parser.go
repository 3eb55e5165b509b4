package ports

// ConfigParser decodes an extension configuration into a generic map.
type ConfigParser interface {
	// Parse decodes YAML or JSON bytes. Empty input yields an empty map.
	Parse(data []byte) (map[string]any, error)
}
