package envoy

import (
	"math"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/extension"
	"github.com/reglet-dev/envoy-sdk-go/host"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// VMStartHook receives the VM configuration when the VM starts.
// Returning an error fails the VM start.
type VMStartHook func(vmConfig []byte) error

// Option configures the dispatcher.
type Option func(*options)

type options struct {
	vmStart   VMStartHook
	sink      ports.ErrorSink
	props     ports.PropertyStore
	extension []extension.Option
}

// WithVMStartHook sets a hook called from OnVMStart.
func WithVMStartHook(hook VMStartHook) Option {
	return func(o *options) {
		o.vmStart = hook
	}
}

// WithErrorSink sets where the dispatcher and every extension report errors.
func WithErrorSink(sink ports.ErrorSink) Option {
	return func(o *options) {
		o.sink = sink
		o.extension = append(o.extension, extension.WithErrorSink(sink))
	}
}

// WithPropertyStore overrides where the root id of a plugin is read from.
func WithPropertyStore(props ports.PropertyStore) Option {
	return func(o *options) {
		o.props = props
	}
}

// WithExtensionOptions passes opts to every extension context.
func WithExtensionOptions(opts ...extension.Option) Option {
	return func(o *options) {
		o.extension = append(o.extension, opts...)
	}
}

// NewVMContext starts r and returns the proxy-wasm VM context dispatching
// to its module. If any registration failed, the returned context fails
// the VM start.
func NewVMContext(r *Registrar, opts ...Option) types.VMContext {
	o := options{
		sink:  extension.DefaultErrorSink(),
		props: host.DefaultPropertyStore(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := r.Start(); err != nil {
		return &voidVMContext{err: err, sink: o.sink}
	}
	return &vmContext{module: r.Module(), opts: o}
}

type vmContext struct {
	types.DefaultVMContext

	module *Module
	opts   options
}

func (c *vmContext) OnVMStart(int) types.OnVMStartStatus {
	if c.opts.vmStart == nil {
		return types.OnVMStartStatusOK
	}
	config, err := abi.GetBuffer(abi.VMConfiguration, 0, math.MaxInt32)
	if err != nil {
		c.opts.sink.Observe("failed to read VM configuration", err)
		return types.OnVMStartStatusFailed
	}
	if err := c.opts.vmStart(config); err != nil {
		c.opts.sink.Observe("failed to start VM", err)
		return types.OnVMStartStatusFailed
	}
	return types.OnVMStartStatusOK
}

func (c *vmContext) NewPluginContext(contextID uint32) types.PluginContext {
	id := entities.InstanceID(contextID)
	defer wasmcontext.Enter(wasmcontext.Instance{ID: id})()

	rootID, _, err := host.NewStreamInfo(c.opts.props).Plugin().RootID()
	if err != nil {
		return &voidRootContext{err: err, sink: c.opts.sink}
	}
	name, err := c.module.Select(rootID)
	if err != nil {
		return &voidRootContext{err: err, sink: c.opts.sink}
	}
	pc, err := c.module.newPluginContext(name, id, c.opts.extension...)
	if err != nil {
		return &voidRootContext{err: err, sink: c.opts.sink}
	}
	return pc
}

// voidVMContext fails the VM start when the module could not be assembled.
type voidVMContext struct {
	types.DefaultVMContext

	err  error
	sink ports.ErrorSink
}

func (c *voidVMContext) OnVMStart(int) types.OnVMStartStatus {
	c.sink.Observe("failed to register extensions", c.err)
	return types.OnVMStartStatusFailed
}

func (c *voidVMContext) NewPluginContext(uint32) types.PluginContext {
	return &voidRootContext{err: c.err, sink: c.sink}
}

// voidRootContext stands in for an extension that could not be created.
// Envoy does not expect a failure at context creation, so the error is
// reported when the configuration is applied.
type voidRootContext struct {
	types.DefaultPluginContext

	err  error
	sink ports.ErrorSink
}

func (c *voidRootContext) OnPluginStart(int) types.OnPluginStartStatus {
	c.sink.Observe("failed to create Proxy Wasm Root Context", c.err)
	return types.OnPluginStartStatusFailed
}
