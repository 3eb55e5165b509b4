// Package envoy is the entry point of extensions built with the SDK.
//
// Extensions register themselves from init functions and main hands control
// to the SDK:
//
//	func init() {
//		envoy.Register(func(m *envoy.Module) error {
//			return m.AddHTTPFilter("my_filter", newFactory)
//		})
//	}
//
//	func main() {
//		envoy.Main()
//	}
package envoy

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/internal/version"
	// Routes slog records to the proxy log.
	_ "github.com/reglet-dev/envoy-sdk-go/log"
)

const (
	// Version of the SDK.
	Version = version.Version
	// ABIVersion is the proxy-wasm ABI the SDK targets.
	ABIVersion = version.ABIVersion
)

// ErrorDetail is re-exported for extensions reporting structured errors.
type ErrorDetail = entities.ErrorDetail

var defaultRegistrar = NewRegistrar()

// Register registers extensions with the default registrar.
func Register(fn RegisterFunc) error {
	return defaultRegistrar.Register(fn)
}

// Start drains the registrations queued on the default registrar.
func Start() error {
	return defaultRegistrar.Start()
}

// DefaultModule returns the module of the default registrar.
func DefaultModule() *Module {
	return defaultRegistrar.Module()
}

// Main starts the default registrar and installs the dispatcher.
func Main(opts ...Option) {
	proxywasm.SetVMContext(NewVMContext(defaultRegistrar, opts...))
}
