package ports

// PropertyStore reads and writes stream properties by path.
type PropertyStore interface {
	// Property returns ok=false when the host has no value at path.
	Property(path []string) (value []byte, ok bool, err error)
	SetProperty(path []string, value []byte) error
}
