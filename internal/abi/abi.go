// Package abi wraps the proxy-wasm hostcalls used by the SDK.
// Every wrapper reports failures as *errors.HostError naming the ABI
// function that failed, so callers never see bare binding sentinels.
package abi

import (
	stdErrors "errors"
	"fmt"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
)

// Names of the ABI functions wrapped by this package.
const (
	FnGetHeaderMapPairs  = "proxy_get_header_map_pairs"
	FnSetHeaderMapPairs  = "proxy_set_header_map_pairs"
	FnGetHeaderMapValue  = "proxy_get_header_map_value"
	FnReplaceHeaderValue = "proxy_replace_header_map_value"
	FnAddHeaderValue     = "proxy_add_header_map_value"
	FnRemoveHeaderValue  = "proxy_remove_header_map_value"
	FnGetBufferBytes     = "proxy_get_buffer_bytes"
	FnSetBufferBytes     = "proxy_set_buffer_bytes"
	FnGetProperty        = "proxy_get_property"
	FnSetProperty        = "proxy_set_property"
	FnContinueStream     = "proxy_continue_stream"
	FnCloseStream        = "proxy_close_stream"
	FnSendLocalResponse  = "proxy_send_local_response"
	FnHTTPCall           = "proxy_http_call"
	FnGetSharedData      = "proxy_get_shared_data"
	FnSetSharedData      = "proxy_set_shared_data"
	FnRegisterQueue      = "proxy_register_shared_queue"
	FnResolveQueue       = "proxy_resolve_shared_queue"
	FnEnqueue            = "proxy_enqueue_shared_queue"
	FnDequeue            = "proxy_dequeue_shared_queue"
	FnDefineMetric       = "proxy_define_metric"
	FnIncrementMetric    = "proxy_increment_metric"
	FnRecordMetric       = "proxy_record_metric"
	FnGetMetric          = "proxy_get_metric"
)

var statuses = []struct {
	err    error
	status errors.Status
}{
	{types.ErrorStatusNotFound, errors.StatusNotFound},
	{types.ErrorStatusBadArgument, errors.StatusBadArgument},
	{types.ErrorStatusEmpty, errors.StatusEmpty},
	{types.ErrorStatusCasMismatch, errors.StatusCasMismatch},
	{types.ErrorInternalFailure, errors.StatusInternalFailure},
	{types.ErrorUnimplemented, errors.StatusUnimplemented},
}

// StatusOf maps an error returned by the proxy-wasm bindings to its ABI status.
func StatusOf(err error) errors.Status {
	if err == nil {
		return errors.StatusOK
	}
	for _, s := range statuses {
		if stdErrors.Is(err, s.err) {
			return s.status
		}
	}
	return errors.StatusUnknown
}

// Wrap converts a binding error into a HostError for the named function.
// It returns nil when err is nil.
func Wrap(function string, err error) error {
	if err == nil {
		return nil
	}
	return errors.HostFunction(function).Call(StatusOf(err), err)
}

// IsNotFound reports whether err carries the not found status.
func IsNotFound(err error) bool {
	return StatusOf(err) == errors.StatusNotFound
}

// guard runs fn and converts a panic raised by the bindings into a HostError.
// The metric API of the bindings panics instead of returning errors.
func guard(function string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = errors.HostFunction(function).Call(StatusOf(cause), cause)
		}
	}()
	fn()
	return nil
}
