package host

import (
	"log/slog"
	"time"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// HttpClient dispatches requests through proxy_http_call.
//
// The response is delivered to the instance that was current when the
// request was sent, which lets a single client be shared by a factory and
// all the filters it creates.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpClient struct{}

var _ ports.HttpClient = HttpClient{}

// DefaultHttpClient returns the host HTTP client.
func DefaultHttpClient() HttpClient {
	return HttpClient{}
}

// SendRequest dispatches a request to the upstream cluster.
func (HttpClient) SendRequest(
	upstream string,
	headers entities.HeaderMap,
	body []byte,
	trailers entities.HeaderMap,
	timeout time.Duration,
) (entities.HttpClientRequestHandle, error) {
	inst := wasmcontext.Current()

	var handle entities.HttpClientRequestHandle
	handle, err := abi.DispatchHttpCall(upstream, headers, body, trailers, timeout,
		func(numHeaders, bodySize, numTrailers int) {
			if inst.Receiver == nil {
				slog.Warn("dropping response of http call sent outside of an extension callback",
					"upstream", upstream, "request", handle)
				return
			}
			defer wasmcontext.Enter(inst)()
			inst.Receiver.OnHttpCallResponse(handle, numHeaders, bodySize, numTrailers)
		})
	if err != nil {
		return 0, err
	}
	return handle, nil
}

// HttpClientResponseOps reads the response of the call being delivered.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpClientResponseOps struct{}

var _ ports.HttpClientResponseOps = HttpClientResponseOps{}

// HttpCallResponseHeaders returns the response headers.
func (HttpClientResponseOps) HttpCallResponseHeaders() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.HttpCallResponseHeaders)
}

// HttpCallResponseBody returns up to maxSize bytes of the body starting at start.
func (HttpClientResponseOps) HttpCallResponseBody(start, maxSize int) ([]byte, error) {
	return abi.GetBuffer(abi.HttpCallResponseBody, start, maxSize)
}

// HttpCallResponseTrailers returns the response trailers.
func (HttpClientResponseOps) HttpCallResponseTrailers() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.HttpCallResponseTrailers)
}
