package netfilter

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/extension"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// FactoryContext binds a Factory to a proxy-wasm plugin context.
type FactoryContext struct {
	types.DefaultPluginContext

	factory Factory
	opts    extension.Options
	inst    wasmcontext.Instance
}

var _ types.PluginContext = (*FactoryContext)(nil)

// NewFactoryContext creates the plugin context of the network filter
// registered as name.
func NewFactoryContext(name string, id entities.InstanceID, factory Factory, opts ...extension.Option) *FactoryContext {
	c := &FactoryContext{
		factory: factory,
		opts:    extension.NewOptions(opts...),
	}
	c.inst = wasmcontext.Instance{
		Receiver:  extension.CalloutReceiver{Target: factory, Ops: c.opts.ResponseOps, Sink: c.opts.Sink},
		Extension: name,
		ID:        id,
	}
	return c
}

// Factory returns the factory bound to the context.
func (c *FactoryContext) Factory() Factory {
	return c.factory
}

func (c *FactoryContext) OnPluginStart(int) types.OnPluginStartStatus {
	defer wasmcontext.Enter(c.inst)()
	if !extension.Configure(c.factory, c.opts.ConfigureOps, c.opts.Sink) {
		return types.OnPluginStartStatusFailed
	}
	return types.OnPluginStartStatusOK
}

func (c *FactoryContext) OnPluginDone() bool {
	defer wasmcontext.Enter(c.inst)()
	return extension.Drain(c.factory, c.opts.Sink)
}

func (c *FactoryContext) NewTcpContext(contextID uint32) types.TcpContext {
	defer wasmcontext.Enter(c.inst)()
	id := entities.InstanceID(contextID)
	ops := DefaultOps()
	filter, err := c.factory.NewFilter(id)
	if err != nil {
		return NewVoidFilterContext(err, ops, c.opts.Sink)
	}
	return NewFilterContext(c.inst.Extension, id, filter, ops, c.opts.ResponseOps, c.opts.Sink)
}
