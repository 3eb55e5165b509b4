package httpfilter

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// FilterContext binds a Filter to the proxy-wasm HTTP callbacks of one stream.
//
// When a filter callback fails, the error is reported to the error sink,
// the stream is terminated with a 500 local reply and iteration stops.
type FilterContext struct {
	types.DefaultHttpContext

	filter Filter
	ops    Ops
	resp   ports.HttpClientResponseOps
	sink   ports.ErrorSink
	inst   wasmcontext.Instance
}

var _ types.HttpContext = (*FilterContext)(nil)

// NewFilterContext creates the context of one HTTP stream.
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

func (c *FilterContext) OnHttpRequestHeaders(numHeaders int, endOfStream bool) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnRequestHeaders(numHeaders, endOfStream, c.ops)
	if err != nil {
		return c.fail("failed to handle HTTP request headers", err)
	}
	return headersAction(status)
}

func (c *FilterContext) OnHttpRequestBody(bodySize int, endOfStream bool) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnRequestBody(bodySize, endOfStream, c.ops)
	if err != nil {
		return c.fail("failed to handle HTTP request body", err)
	}
	return dataAction(status)
}

func (c *FilterContext) OnHttpRequestTrailers(numTrailers int) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnRequestTrailers(numTrailers, c.ops)
	if err != nil {
		return c.fail("failed to handle HTTP request trailers", err)
	}
	return trailersAction(status)
}

func (c *FilterContext) OnHttpResponseHeaders(numHeaders int, endOfStream bool) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnResponseHeaders(numHeaders, endOfStream, c.ops)
	if err != nil {
		return c.fail("failed to handle HTTP response headers", err)
	}
	return headersAction(status)
}

func (c *FilterContext) OnHttpResponseBody(bodySize int, endOfStream bool) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnResponseBody(bodySize, endOfStream, c.ops)
	if err != nil {
		return c.fail("failed to handle HTTP response body", err)
	}
	return dataAction(status)
}

func (c *FilterContext) OnHttpResponseTrailers(numTrailers int) types.Action {
	defer wasmcontext.Enter(c.inst)()
	status, err := c.filter.OnResponseTrailers(numTrailers, c.ops)
	if err != nil {
		return c.fail("failed to handle HTTP response trailers", err)
	}
	return trailersAction(status)
}

// OnHttpStreamDone runs OnExchangeComplete. The stream is already being
// torn down, so errors are only reported.
func (c *FilterContext) OnHttpStreamDone() {
	defer wasmcontext.Enter(c.inst)()
	if err := c.filter.OnExchangeComplete(c.ops); err != nil {
		c.sink.Observe("failed to handle completion of an HTTP stream", err)
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
	terminate(c.ops, c.sink)
	return types.ActionPause
}

func terminate(ops RequestFlowOps, sink ports.ErrorSink) {
	if err := ops.SendResponse(500, nil, nil); err != nil {
		sink.Observe("failed to terminate processing of the HTTP request: failed to send a direct reply", err)
	}
}

// VoidFilterContext stands in for a filter that could not be created.
// Envoy does not allow replying from context creation, so the error is
// reported and the stream terminated on the request headers instead.
type VoidFilterContext struct {
	types.DefaultHttpContext

	err  error
	ops  RequestFlowOps
	sink ports.ErrorSink
}

var _ types.HttpContext = (*VoidFilterContext)(nil)

// NewVoidFilterContext creates a context that fails the stream with err.
func NewVoidFilterContext(err error, ops RequestFlowOps, sink ports.ErrorSink) *VoidFilterContext {
	return &VoidFilterContext{err: err, ops: ops, sink: sink}
}

func (c *VoidFilterContext) OnHttpRequestHeaders(int, bool) types.Action {
	c.sink.Observe("failed to create Proxy Wasm Http Context", c.err)
	terminate(c.ops, c.sink)
	return types.ActionPause
}
