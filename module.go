package envoy

import (
	stdErrors "errors"
	"slices"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/extension"
	"github.com/reglet-dev/envoy-sdk-go/extension/accesslog"
	"github.com/reglet-dev/envoy-sdk-go/extension/httpfilter"
	"github.com/reglet-dev/envoy-sdk-go/extension/netfilter"
)

// NewHTTPFilterFunc creates the factory of an HTTP filter for one
// configuration of the extension.
type NewHTTPFilterFunc func(id entities.InstanceID) (httpfilter.Factory, error)

// NewNetworkFilterFunc creates the factory of a network filter.
type NewNetworkFilterFunc func(id entities.InstanceID) (netfilter.Factory, error)

// NewAccessLoggerFunc creates an access logger.
type NewAccessLoggerFunc func(id entities.InstanceID) (accesslog.Logger, error)

type newContextFunc func(name string, id entities.InstanceID, opts ...extension.Option) (types.PluginContext, error)

type registration struct {
	kind       entities.ExtensionKind
	newContext newContextFunc
}

// Module is the set of extensions compiled into one WebAssembly module.
// Each extension is addressed by Envoy through its root id.
type Module struct {
	extensions map[string]registration
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{extensions: map[string]registration{}}
}

// AddHTTPFilter registers an HTTP filter under name.
func (m *Module) AddHTTPFilter(name string, newFactory NewHTTPFilterFunc) error {
	return m.add(name, registration{
		kind: entities.KindHTTPFilter,
		newContext: func(name string, id entities.InstanceID, opts ...extension.Option) (types.PluginContext, error) {
			factory, err := newFactory(id)
			if err != nil {
				return nil, err
			}
			return httpfilter.NewFactoryContext(name, id, factory, opts...), nil
		},
	})
}

// AddNetworkFilter registers a network filter under name.
func (m *Module) AddNetworkFilter(name string, newFactory NewNetworkFilterFunc) error {
	return m.add(name, registration{
		kind: entities.KindNetworkFilter,
		newContext: func(name string, id entities.InstanceID, opts ...extension.Option) (types.PluginContext, error) {
			factory, err := newFactory(id)
			if err != nil {
				return nil, err
			}
			return netfilter.NewFactoryContext(name, id, factory, opts...), nil
		},
	})
}

// AddAccessLogger registers an access logger under name.
func (m *Module) AddAccessLogger(name string, newLogger NewAccessLoggerFunc) error {
	return m.add(name, registration{
		kind: entities.KindAccessLogger,
		newContext: func(name string, id entities.InstanceID, opts ...extension.Option) (types.PluginContext, error) {
			logger, err := newLogger(id)
			if err != nil {
				return nil, err
			}
			return accesslog.NewLoggerContext(name, id, logger, opts...), nil
		},
	})
}

func (m *Module) add(name string, r registration) error {
	if _, exists := m.extensions[name]; exists {
		return &errors.DuplicateExtensionError{Name: name}
	}
	m.extensions[name] = r
	return nil
}

// Merge adds the extensions of other to m. Names already present in m are
// kept and reported as DuplicateExtensionError.
func (m *Module) Merge(other *Module) error {
	var errs []error
	for _, name := range other.Names() {
		if err := m.add(name, other.extensions[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return stdErrors.Join(errs...)
}

// Names returns the registered root ids in sorted order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.extensions))
	for name := range m.extensions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered extensions.
func (m *Module) Len() int {
	return len(m.extensions)
}

// Extensions returns the registered names grouped by extension kind.
func (m *Module) Extensions() entities.Implementors {
	implementors := entities.Implementors{}
	for _, name := range m.Names() {
		kind := m.extensions[name].kind
		implementors[kind] = append(implementors[kind], name)
	}
	return implementors
}

// Select resolves the root id Envoy asked for to a registered name.
// An empty root id selects the only extension of a single-extension module.
func (m *Module) Select(rootID string) (string, error) {
	if _, ok := m.extensions[rootID]; ok {
		return rootID, nil
	}
	if rootID == "" && len(m.extensions) == 1 {
		return m.Names()[0], nil
	}
	return "", &errors.UnknownExtensionError{Requested: rootID, Available: m.Names()}
}

func (m *Module) newPluginContext(name string, id entities.InstanceID, opts ...extension.Option) (types.PluginContext, error) {
	r, ok := m.extensions[name]
	if !ok {
		return nil, &errors.UnknownExtensionError{Requested: name, Available: m.Names()}
	}
	return r.newContext(name, id, opts...)
}
