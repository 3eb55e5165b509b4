// Package httpfilter binds HTTP filters to the proxy-wasm HTTP stream
// callbacks.
//
// A Factory is created once per filter configuration and creates a Filter
// for every HTTP stream. Each filter callback receives the operations that
// are valid at that point of the stream.
package httpfilter

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/extension"
)

// Factory creates HTTP filters for one filter configuration.
type Factory interface {
	extension.Configurable
	extension.Drainable

	// NewFilter is called for every new HTTP stream.
	NewFilter(id entities.InstanceID) (Filter, error)
}

// Filter processes a single HTTP stream.
type Filter interface {
	OnRequestHeaders(numHeaders int, endOfStream bool, ops RequestHeadersOps) (entities.FilterHeadersStatus, error)
	OnRequestBody(bodySize int, endOfStream bool, ops RequestBodyOps) (entities.FilterDataStatus, error)
	OnRequestTrailers(numTrailers int, ops RequestTrailersOps) (entities.FilterTrailersStatus, error)

	OnResponseHeaders(numHeaders int, endOfStream bool, ops ResponseHeadersOps) (entities.FilterHeadersStatus, error)
	OnResponseBody(bodySize int, endOfStream bool, ops ResponseBodyOps) (entities.FilterDataStatus, error)
	OnResponseTrailers(numTrailers int, ops ResponseTrailersOps) (entities.FilterTrailersStatus, error)

	// OnExchangeComplete is called once the stream is done and logged.
	OnExchangeComplete(ops ExchangeCompleteOps) error

	// OnHttpCallResponse receives the response of a request sent by the filter.
	OnHttpCallResponse(
		handle entities.HttpClientRequestHandle,
		numHeaders, bodySize, numTrailers int,
		ops Ops,
		resp ports.HttpClientResponseOps,
	) error
}

// BaseFilter continues on every callback. Embed it and override the
// callbacks a filter needs.
type BaseFilter struct{}

var _ Filter = BaseFilter{}

func (BaseFilter) OnRequestHeaders(int, bool, RequestHeadersOps) (entities.FilterHeadersStatus, error) {
	return entities.HeadersContinue, nil
}

func (BaseFilter) OnRequestBody(int, bool, RequestBodyOps) (entities.FilterDataStatus, error) {
	return entities.DataContinue, nil
}

func (BaseFilter) OnRequestTrailers(int, RequestTrailersOps) (entities.FilterTrailersStatus, error) {
	return entities.TrailersContinue, nil
}

func (BaseFilter) OnResponseHeaders(int, bool, ResponseHeadersOps) (entities.FilterHeadersStatus, error) {
	return entities.HeadersContinue, nil
}

func (BaseFilter) OnResponseBody(int, bool, ResponseBodyOps) (entities.FilterDataStatus, error) {
	return entities.DataContinue, nil
}

func (BaseFilter) OnResponseTrailers(int, ResponseTrailersOps) (entities.FilterTrailersStatus, error) {
	return entities.TrailersContinue, nil
}

func (BaseFilter) OnExchangeComplete(ExchangeCompleteOps) error {
	return nil
}

func (BaseFilter) OnHttpCallResponse(entities.HttpClientRequestHandle, int, int, int, Ops, ports.HttpClientResponseOps) error {
	return nil
}

func headersAction(s entities.FilterHeadersStatus) types.Action {
	if s == entities.HeadersContinue {
		return types.ActionContinue
	}
	return types.ActionPause
}

func dataAction(s entities.FilterDataStatus) types.Action {
	if s == entities.DataContinue {
		return types.ActionContinue
	}
	return types.ActionPause
}

func trailersAction(s entities.FilterTrailersStatus) types.Action {
	if s == entities.TrailersContinue {
		return types.ActionContinue
	}
	return types.ActionPause
}
