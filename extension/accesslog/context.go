package accesslog

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/extension"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// LoggerContext binds a Logger to a proxy-wasm plugin context.
//
// proxy-wasm delivers the log event to the stream rather than to the plugin,
// so every stream gets a small context that forwards its completion to
// the logger.
type LoggerContext struct {
	types.DefaultPluginContext

	logger Logger
	opts   extension.Options
	inst   wasmcontext.Instance
	newOps func() LogOps
}

var _ types.PluginContext = (*LoggerContext)(nil)

// NewLoggerContext creates the plugin context of the access logger
// registered as name.
func NewLoggerContext(name string, id entities.InstanceID, logger Logger, opts ...extension.Option) *LoggerContext {
	c := &LoggerContext{
		logger: logger,
		opts:   extension.NewOptions(opts...),
		newOps: func() LogOps { return DefaultLogOps() },
	}
	c.inst = wasmcontext.Instance{
		Receiver:  extension.CalloutReceiver{Target: logger, Ops: c.opts.ResponseOps, Sink: c.opts.Sink},
		Extension: name,
		ID:        id,
	}
	return c
}

// Logger returns the logger bound to the context.
func (c *LoggerContext) Logger() Logger {
	return c.logger
}

func (c *LoggerContext) OnPluginStart(int) types.OnPluginStartStatus {
	defer wasmcontext.Enter(c.inst)()
	if !extension.Configure(c.logger, c.opts.ConfigureOps, c.opts.Sink) {
		return types.OnPluginStartStatusFailed
	}
	return types.OnPluginStartStatusOK
}

func (c *LoggerContext) OnPluginDone() bool {
	defer wasmcontext.Enter(c.inst)()
	return extension.Drain(c.logger, c.opts.Sink)
}

func (c *LoggerContext) NewHttpContext(uint32) types.HttpContext {
	return &httpLogContext{parent: c}
}

func (c *LoggerContext) NewTcpContext(uint32) types.TcpContext {
	return &tcpLogContext{parent: c}
}

func (c *LoggerContext) log() {
	defer wasmcontext.Enter(c.inst)()
	if err := c.logger.OnLog(c.newOps()); err != nil {
		c.opts.Sink.Observe("failed to log a request", err)
	}
}

type httpLogContext struct {
	types.DefaultHttpContext
	parent *LoggerContext
}

func (c *httpLogContext) OnHttpStreamDone() {
	c.parent.log()
}

type tcpLogContext struct {
	types.DefaultTcpContext
	parent *LoggerContext
}

func (c *tcpLogContext) OnStreamDone() {
	c.parent.log()
}
