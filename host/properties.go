package host

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// PropertyStore reads and writes properties of the current stream.
type PropertyStore struct{}

var _ ports.PropertyStore = PropertyStore{}

// DefaultPropertyStore returns the host property store.
func DefaultPropertyStore() PropertyStore {
	return PropertyStore{}
}

// Property returns the raw value at path.
func (PropertyStore) Property(path []string) ([]byte, bool, error) {
	return abi.GetProperty(path)
}

// SetProperty writes the raw value at path.
func (PropertyStore) SetProperty(path []string, value []byte) error {
	return abi.SetProperty(path, value)
}
