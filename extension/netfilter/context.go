package netfilter

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// FilterContext binds a Filter to the proxy-wasm TCP callbacks of one
// connection.
//
// When a data callback fails, the error is reported to the error sink,
// the downstream connection is closed and iteration stops.
type FilterContext struct {
	types.DefaultTcpContext

	filter Filter
	ops    Ops
	resp   ports.HttpClientResponseOps
	sink   ports.ErrorSink
	inst   wasmcontext.Instance
}

var _ types.TcpContext = (*FilterContext)(nil)

// NewFilterContext creates the context of one connection.
func NewFilterContext(
	extension string,
	id entities.InstanceID,
	filter Filter,
	ops Ops,
	resp ports.HttpClientResponseOps,
	sink ports.ErrorSink,
) *FilterContext {
	c := &FilterContext{
		filter: filter,
		ops:    ops,
		resp:   resp,
		sink:   sink,
	}
	c.inst = wasmcontext.Instance{Receiver: c, Extension: extension, ID: id}
	return c
}

// Filter returns the filter bound to the context.
func (c *FilterContext) Filter() Filter {
	return c.filter
}

func (c *FilterContext) OnNewConnection() types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnNewConnection()
	if err != nil {
		return c.fail("failed to handle a new TCP connection", err)
	}
	return action(status)
}

func (c *FilterContext) OnDownstreamData(dataSize int, endOfStream bool) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnDownstreamData(dataSize, endOfStream, c.ops)
	if err != nil {
		return c.fail("failed to handle data received from the downstream", err)
	}
	return action(status)
}

func (c *FilterContext) OnDownstreamClose(peer types.PeerType) {
	defer wasmcontext.Enter(c.inst)()
	if err := c.filter.OnDownstreamClose(peerType(peer), c.ops); err != nil {
		c.sink.Observe("failed to handle close of the downstream connection", err)
	}
}

func (c *FilterContext) OnUpstreamData(dataSize int, endOfStream bool) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnUpstreamData(dataSize, endOfStream, c.ops)
	if err != nil {
		return c.fail("failed to handle data received from the upstream", err)
	}
	return action(status)
}

func (c *FilterContext) OnUpstreamClose(peer types.PeerType) {
	defer wasmcontext.Enter(c.inst)()
	if err := c.filter.OnUpstreamClose(peerType(peer), c.ops); err != nil {
		c.sink.Observe("failed to handle close of the upstream connection", err)
	}
}

func (c *FilterContext) OnStreamDone() {
	defer wasmcontext.Enter(c.inst)()
	if err := c.filter.OnConnectionComplete(c.ops); err != nil {
		c.sink.Observe("failed to handle completion of a TCP connection", err)
	}
}

// OnHttpCallResponse implements wasmcontext.CalloutReceiver.
func (c *FilterContext) OnHttpCallResponse(handle entities.HttpClientRequestHandle, numHeaders, bodySize, numTrailers int) {
	if err := c.filter.OnHttpCallResponse(handle, numHeaders, bodySize, numTrailers, c.ops, c.resp); err != nil {
		c.fail("failed to process a response to an HTTP request made by the extension", err)
	}
}

func (c *FilterContext) fail(context string, err error) types.Action {
	c.sink.Observe(context, err)
	closeDownstream(c.ops, c.sink)
	return types.ActionPause
}

func closeDownstream(ops ConnectionFlowOps, sink ports.ErrorSink) {
	if err := ops.CloseDownstream(); err != nil {
		sink.Observe("failed to terminate processing of the TCP connection: failed to close the downstream", err)
	}
}

// VoidFilterContext stands in for a filter that could not be created.
// It reports the error and closes the connection on its first event.
type VoidFilterContext struct {
	types.DefaultTcpContext

	err  error
	ops  ConnectionFlowOps
	sink ports.ErrorSink
}

var _ types.TcpContext = (*VoidFilterContext)(nil)

// NewVoidFilterContext creates a context that fails the connection with err.
func NewVoidFilterContext(err error, ops ConnectionFlowOps, sink ports.ErrorSink) *VoidFilterContext {
	return &VoidFilterContext{err: err, ops: ops, sink: sink}
}

func (c *VoidFilterContext) OnNewConnection() types.Action {
	c.sink.Observe("failed to create Proxy Wasm Tcp Context", c.err)
	closeDownstream(c.ops, c.sink)
	return types.ActionPause
}
