package extension

import (
	"math"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// ConfigureOps gives access to the configuration of an extension.
type ConfigureOps interface {
	Configuration() ([]byte, error)
}

// DrainOps is passed to OnDrain. It has no operations yet.
type DrainOps interface{}

// Configurable is implemented by factories and loggers.
type Configurable interface {
	// OnConfigure is called when Envoy loads a new configuration of the
	// extension. Returning ConfigRejected fails the configuration update.
	OnConfigure(config []byte, ops ConfigureOps) (entities.ConfigStatus, error)
}

// Drainable is implemented by factories and loggers.
type Drainable interface {
	// OnDrain is called when the configuration is being replaced or removed.
	// Returning DrainOngoing keeps the extension alive until it completes.
	OnDrain() (entities.DrainStatus, error)
}

// BaseFactory provides default lifecycle callbacks. Embed it to accept every
// configuration and drain immediately.
type BaseFactory struct{}

// OnConfigure accepts the configuration.
func (BaseFactory) OnConfigure([]byte, ConfigureOps) (entities.ConfigStatus, error) {
	return entities.ConfigAccepted, nil
}

// OnDrain completes immediately.
func (BaseFactory) OnDrain() (entities.DrainStatus, error) {
	return entities.DrainComplete, nil
}

// HostConfigureOps reads the plugin configuration from the host.
type HostConfigureOps struct{}

var _ ConfigureOps = HostConfigureOps{}

// Configuration returns the plugin configuration, or nil if there is none.
func (HostConfigureOps) Configuration() ([]byte, error) {
	return abi.GetBuffer(abi.PluginConfiguration, 0, math.MaxInt32)
}

// HttpCallHandler is implemented by factories that send HTTP requests from
// OnConfigure or OnDrain and want their responses.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpCallHandler interface {
	OnHttpCallResponse(
		handle entities.HttpClientRequestHandle,
		numHeaders, bodySize, numTrailers int,
		ops ports.HttpClientResponseOps,
	) error
}
