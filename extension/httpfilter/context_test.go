package httpfilter

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// recordingOps implements the flow operations; any other call panics.
type recordingOps struct {
	Ops
	replies  []uint32
	resumed  int
	replyErr error
}

func (o *recordingOps) SendResponse(statusCode uint32, _ entities.HeaderMap, _ []byte) error {
	o.replies = append(o.replies, statusCode)
	return o.replyErr
}

func (o *recordingOps) ResumeRequest() error {
	o.resumed++
	return nil
}

type recordingSink struct {
	contexts []string
}

func (s *recordingSink) Observe(context string, _ error) {
	s.contexts = append(s.contexts, context)
}

type scriptedFilter struct {
	BaseFilter
	headers  entities.FilterHeadersStatus
	data     entities.FilterDataStatus
	err      error
	current  wasmcontext.Instance
	complete int
	callouts []entities.HttpClientRequestHandle
}

func (f *scriptedFilter) OnRequestHeaders(int, bool, RequestHeadersOps) (entities.FilterHeadersStatus, error) {
	f.current = wasmcontext.Current()
	return f.headers, f.err
}

func (f *scriptedFilter) OnRequestBody(int, bool, RequestBodyOps) (entities.FilterDataStatus, error) {
	return f.data, f.err
}

func (f *scriptedFilter) OnResponseBody(int, bool, ResponseBodyOps) (entities.FilterDataStatus, error) {
	return f.data, f.err
}

func (f *scriptedFilter) OnExchangeComplete(ExchangeCompleteOps) error {
	f.complete++
	return f.err
}

func (f *scriptedFilter) OnHttpCallResponse(
	handle entities.HttpClientRequestHandle,
	_, _, _ int,
	ops Ops,
	_ ports.HttpClientResponseOps,
) error {
	f.callouts = append(f.callouts, handle)
	if f.err != nil {
		return f.err
	}
	return ops.ResumeRequest()
}

func newTestContext(f Filter) (*FilterContext, *recordingOps, *recordingSink) {
	ops := &recordingOps{}
	sink := &recordingSink{}
	return NewFilterContext("test", 42, f, ops, nil, sink), ops, sink
}

func TestFilterContext_Actions(t *testing.T) {
	tests := []struct {
		name string
		call func(c *FilterContext) types.Action
		f    *scriptedFilter
		want types.Action
	}{
		{
			name: "headers continue",
			f:    &scriptedFilter{headers: entities.HeadersContinue},
			call: func(c *FilterContext) types.Action { return c.OnHttpRequestHeaders(1, false) },
			want: types.ActionContinue,
		},
		{
			name: "headers stop",
			f:    &scriptedFilter{headers: entities.HeadersStopIteration},
			call: func(c *FilterContext) types.Action { return c.OnHttpRequestHeaders(1, false) },
			want: types.ActionPause,
		},
		{
			name: "request body buffer",
			f:    &scriptedFilter{data: entities.DataStopIterationAndBuffer},
			call: func(c *FilterContext) types.Action { return c.OnHttpRequestBody(10, false) },
			want: types.ActionPause,
		},
		{
			name: "response body watermark",
			f:    &scriptedFilter{data: entities.DataStopIterationAndWatermark},
			call: func(c *FilterContext) types.Action { return c.OnHttpResponseBody(10, false) },
			want: types.ActionPause,
		},
		{
			name: "response body continue",
			f:    &scriptedFilter{data: entities.DataContinue},
			call: func(c *FilterContext) types.Action { return c.OnHttpResponseBody(10, true) },
			want: types.ActionContinue,
		},
		{
			name: "trailers default",
			f:    &scriptedFilter{},
			call: func(c *FilterContext) types.Action { return c.OnHttpRequestTrailers(1) },
			want: types.ActionContinue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ops, sink := newTestContext(tt.f)
			assert.Equal(t, tt.want, tt.call(c))
			assert.Empty(t, ops.replies)
			assert.Empty(t, sink.contexts)
		})
	}
}

func TestFilterContext_ErrorRepliesWith500(t *testing.T) {
	c, ops, sink := newTestContext(&scriptedFilter{headers: entities.HeadersContinue, err: stdErrors.New("boom")})

	assert.Equal(t, types.ActionPause, c.OnHttpRequestHeaders(1, true))
	assert.Equal(t, []uint32{500}, ops.replies)
	assert.Equal(t, []string{"failed to handle HTTP request headers"}, sink.contexts)
}

func TestFilterContext_ReplyFailureIsReported(t *testing.T) {
	c, ops, sink := newTestContext(&scriptedFilter{err: stdErrors.New("boom")})
	ops.replyErr = stdErrors.New("no reply")

	assert.Equal(t, types.ActionPause, c.OnHttpRequestBody(1, true))
	require.Len(t, sink.contexts, 2)
	assert.Contains(t, sink.contexts[1], "failed to send a direct reply")
}

func TestFilterContext_BindsInstance(t *testing.T) {
	f := &scriptedFilter{}
	c, _, _ := newTestContext(f)

	c.OnHttpRequestHeaders(0, true)

	assert.Equal(t, "test", f.current.Extension)
	assert.Equal(t, entities.InstanceID(42), f.current.ID)
	assert.Same(t, c, f.current.Receiver)
	assert.Equal(t, wasmcontext.Instance{}, wasmcontext.Current())
}

func TestFilterContext_StreamDone(t *testing.T) {
	f := &scriptedFilter{err: stdErrors.New("boom")}
	c, ops, sink := newTestContext(f)

	c.OnHttpStreamDone()

	assert.Equal(t, 1, f.complete)
	assert.Empty(t, ops.replies, "a finished stream is not terminated")
	assert.Len(t, sink.contexts, 1)
}

func TestFilterContext_HttpCallResponse(t *testing.T) {
	f := &scriptedFilter{}
	c, ops, sink := newTestContext(f)

	c.OnHttpCallResponse(5, 1, 0, 0)

	assert.Equal(t, []entities.HttpClientRequestHandle{5}, f.callouts)
	assert.Equal(t, 1, ops.resumed)
	assert.Empty(t, sink.contexts)

	f.err = stdErrors.New("boom")
	c.OnHttpCallResponse(6, 1, 0, 0)
	assert.Equal(t, []uint32{500}, ops.replies)
}

func TestVoidFilterContext(t *testing.T) {
	ops := &recordingOps{}
	sink := &recordingSink{}
	c := NewVoidFilterContext(stdErrors.New("no filter"), ops, sink)

	assert.Equal(t, types.ActionPause, c.OnHttpRequestHeaders(3, false))
	assert.Equal(t, []uint32{500}, ops.replies)
	assert.Equal(t, []string{"failed to create Proxy Wasm Http Context"}, sink.contexts)
}
