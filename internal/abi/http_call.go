package abi

import (
	"time"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// HttpCallCallback receives the sizes of a dispatched call's response.
type HttpCallCallback func(numHeaders, bodySize, numTrailers int)

// DispatchHttpCall sends a request to an upstream cluster.
func DispatchHttpCall(
	upstream string,
	headers entities.HeaderMap,
	body []byte,
	trailers entities.HeaderMap,
	timeout time.Duration,
	callback HttpCallCallback,
) (entities.HttpClientRequestHandle, error) {
	id, err := proxywasm.DispatchHttpCall(
		upstream,
		headers.Pairs(),
		body,
		trailers.Pairs(),
		uint32(timeout.Milliseconds()), //nolint:gosec // G115: timeouts are far below 49 days
		callback,
	)
	if err != nil {
		return 0, Wrap(FnHTTPCall, err)
	}
	return entities.HttpClientRequestHandle(id), nil
}
