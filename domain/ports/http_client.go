package ports

import (
	"time"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// HttpClient dispatches HTTP requests to an upstream cluster through the host.
// The response is delivered asynchronously to the OnHttpCallResponse callback
// of the extension instance that sent the request.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpClient interface {
	SendRequest(
		upstream string,
		headers entities.HeaderMap,
		body []byte,
		trailers entities.HeaderMap,
		timeout time.Duration,
	) (entities.HttpClientRequestHandle, error)
}

// HttpClientResponseOps reads the response of a dispatched request.
// It is only valid inside the OnHttpCallResponse callback.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpClientResponseOps interface {
	HttpCallResponseHeaders() (entities.HeaderMap, error)
	HttpCallResponseBody(start, maxSize int) ([]byte, error)
	HttpCallResponseTrailers() (entities.HeaderMap, error)
}
