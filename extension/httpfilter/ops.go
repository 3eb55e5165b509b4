package httpfilter

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/host"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// RequestFlowOps controls the request side of the stream.
type RequestFlowOps interface {
	// ResumeRequest resumes a request paused by StopIteration.
	ResumeRequest() error
	// SendResponse replies to the downstream directly and stops the stream.
	SendResponse(statusCode uint32, headers entities.HeaderMap, body []byte) error
}

// ResponseFlowOps controls the response side of the stream.
type ResponseFlowOps interface {
	ResumeResponse() error
}

// RequestHeadersOps is passed to OnRequestHeaders.
type RequestHeadersOps interface {
	RequestFlowOps
	RequestHeaders() (entities.HeaderMap, error)
	RequestHeader(name string) (string, bool, error)
	SetRequestHeaders(headers entities.HeaderMap) error
	SetRequestHeader(name, value string) error
	AddRequestHeader(name, value string) error
	RemoveRequestHeader(name string) error
}

// RequestBodyOps is passed to OnRequestBody.
type RequestBodyOps interface {
	RequestFlowOps
	RequestBody(start, maxSize int) ([]byte, error)
	MutateRequestBody(action entities.BufferAction) error
}

// RequestTrailersOps is passed to OnRequestTrailers.
type RequestTrailersOps interface {
	RequestFlowOps
	RequestTrailers() (entities.HeaderMap, error)
	RequestTrailer(name string) (string, bool, error)
	SetRequestTrailers(trailers entities.HeaderMap) error
	SetRequestTrailer(name, value string) error
	AddRequestTrailer(name, value string) error
	RemoveRequestTrailer(name string) error
}

// ResponseHeadersOps is passed to OnResponseHeaders.
type ResponseHeadersOps interface {
	ResponseFlowOps
	ResponseHeaders() (entities.HeaderMap, error)
	ResponseHeader(name string) (string, bool, error)
	SetResponseHeaders(headers entities.HeaderMap) error
	SetResponseHeader(name, value string) error
	AddResponseHeader(name, value string) error
	RemoveResponseHeader(name string) error
}

// ResponseBodyOps is passed to OnResponseBody.
type ResponseBodyOps interface {
	ResponseFlowOps
	ResponseBody(start, maxSize int) ([]byte, error)
	MutateResponseBody(action entities.BufferAction) error
}

// ResponseTrailersOps is passed to OnResponseTrailers.
type ResponseTrailersOps interface {
	ResponseFlowOps
	ResponseTrailers() (entities.HeaderMap, error)
	ResponseTrailer(name string) (string, bool, error)
	SetResponseTrailers(trailers entities.HeaderMap) error
	SetResponseTrailer(name, value string) error
	AddResponseTrailer(name, value string) error
	RemoveResponseTrailer(name string) error
}

// ExchangeCompleteOps is passed to OnExchangeComplete.
type ExchangeCompleteOps interface {
	RequestHeaders() (entities.HeaderMap, error)
	ResponseHeaders() (entities.HeaderMap, error)
	ResponseTrailers() (entities.HeaderMap, error)
	StreamInfo() *host.StreamInfo
}

// Ops is the union of all operations on an HTTP stream.
type Ops interface {
	RequestHeadersOps
	RequestBodyOps
	RequestTrailersOps
	ResponseHeadersOps
	ResponseBodyOps
	ResponseTrailersOps
	StreamInfo() *host.StreamInfo
}

// HostOps implements Ops on top of the proxy-wasm ABI.
type HostOps struct {
	info *host.StreamInfo
}

var _ Ops = (*HostOps)(nil)

// DefaultOps returns the host implementation of Ops.
func DefaultOps() *HostOps {
	return &HostOps{info: host.DefaultStreamInfo()}
}

func (o *HostOps) StreamInfo() *host.StreamInfo { return o.info }

func (o *HostOps) ResumeRequest() error  { return abi.ResumeHttpRequest() }
func (o *HostOps) ResumeResponse() error { return abi.ResumeHttpResponse() }

func (o *HostOps) SendResponse(statusCode uint32, headers entities.HeaderMap, body []byte) error {
	return abi.SendHttpResponse(statusCode, headers, body)
}

func (o *HostOps) RequestHeaders() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.RequestHeaders)
}

func (o *HostOps) RequestHeader(name string) (string, bool, error) {
	return abi.GetHeaderMapValue(abi.RequestHeaders, name)
}

func (o *HostOps) SetRequestHeaders(headers entities.HeaderMap) error {
	return abi.SetHeaderMap(abi.RequestHeaders, headers)
}

func (o *HostOps) SetRequestHeader(name, value string) error {
	return abi.ReplaceHeaderMapValue(abi.RequestHeaders, name, value)
}

func (o *HostOps) AddRequestHeader(name, value string) error {
	return abi.AddHeaderMapValue(abi.RequestHeaders, name, value)
}

func (o *HostOps) RemoveRequestHeader(name string) error {
	return abi.RemoveHeaderMapValue(abi.RequestHeaders, name)
}

func (o *HostOps) RequestBody(start, maxSize int) ([]byte, error) {
	return abi.GetBuffer(abi.RequestBody, start, maxSize)
}

func (o *HostOps) MutateRequestBody(action entities.BufferAction) error {
	return abi.MutateBuffer(abi.RequestBody, action)
}

func (o *HostOps) RequestTrailers() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.RequestTrailers)
}

func (o *HostOps) RequestTrailer(name string) (string, bool, error) {
	return abi.GetHeaderMapValue(abi.RequestTrailers, name)
}

func (o *HostOps) SetRequestTrailers(trailers entities.HeaderMap) error {
	return abi.SetHeaderMap(abi.RequestTrailers, trailers)
}

func (o *HostOps) SetRequestTrailer(name, value string) error {
	return abi.ReplaceHeaderMapValue(abi.RequestTrailers, name, value)
}

func (o *HostOps) AddRequestTrailer(name, value string) error {
	return abi.AddHeaderMapValue(abi.RequestTrailers, name, value)
}

func (o *HostOps) RemoveRequestTrailer(name string) error {
	return abi.RemoveHeaderMapValue(abi.RequestTrailers, name)
}

func (o *HostOps) ResponseHeaders() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.ResponseHeaders)
}

func (o *HostOps) ResponseHeader(name string) (string, bool, error) {
	return abi.GetHeaderMapValue(abi.ResponseHeaders, name)
}

func (o *HostOps) SetResponseHeaders(headers entities.HeaderMap) error {
	return abi.SetHeaderMap(abi.ResponseHeaders, headers)
}

func (o *HostOps) SetResponseHeader(name, value string) error {
	return abi.ReplaceHeaderMapValue(abi.ResponseHeaders, name, value)
}

func (o *HostOps) AddResponseHeader(name, value string) error {
	return abi.AddHeaderMapValue(abi.ResponseHeaders, name, value)
}

func (o *HostOps) RemoveResponseHeader(name string) error {
	return abi.RemoveHeaderMapValue(abi.ResponseHeaders, name)
}

func (o *HostOps) ResponseBody(start, maxSize int) ([]byte, error) {
	return abi.GetBuffer(abi.ResponseBody, start, maxSize)
}

func (o *HostOps) MutateResponseBody(action entities.BufferAction) error {
	return abi.MutateBuffer(abi.ResponseBody, action)
}

func (o *HostOps) ResponseTrailers() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.ResponseTrailers)
}

func (o *HostOps) ResponseTrailer(name string) (string, bool, error) {
	return abi.GetHeaderMapValue(abi.ResponseTrailers, name)
}

func (o *HostOps) SetResponseTrailers(trailers entities.HeaderMap) error {
	return abi.SetHeaderMap(abi.ResponseTrailers, trailers)
}

func (o *HostOps) SetResponseTrailer(name, value string) error {
	return abi.ReplaceHeaderMapValue(abi.ResponseTrailers, name, value)
}

func (o *HostOps) AddResponseTrailer(name, value string) error {
	return abi.AddHeaderMapValue(abi.ResponseTrailers, name, value)
}

func (o *HostOps) RemoveResponseTrailer(name string) error {
	return abi.RemoveHeaderMapValue(abi.ResponseTrailers, name)
}
