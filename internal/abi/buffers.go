package abi

import (
	"fmt"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
)

// BufferType selects a buffer held by the host.
type BufferType int

const (
	RequestBody BufferType = iota
	ResponseBody
	DownstreamData
	UpstreamData
	HttpCallResponseBody
	PluginConfiguration
	VMConfiguration
)

func (t BufferType) String() string {
	switch t {
	case RequestBody:
		return "request body"
	case ResponseBody:
		return "response body"
	case DownstreamData:
		return "downstream data"
	case UpstreamData:
		return "upstream data"
	case HttpCallResponseBody:
		return "http call response body"
	case PluginConfiguration:
		return "plugin configuration"
	case VMConfiguration:
		return "vm configuration"
	default:
		return "unknown"
	}
}

// GetBuffer returns up to maxSize bytes of the buffer starting at start.
// An absent or empty buffer is returned as nil without error.
func GetBuffer(t BufferType, start, maxSize int) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch t {
	case RequestBody:
		data, err = proxywasm.GetHttpRequestBody(start, maxSize)
	case ResponseBody:
		data, err = proxywasm.GetHttpResponseBody(start, maxSize)
	case DownstreamData:
		data, err = proxywasm.GetDownstreamData(start, maxSize)
	case UpstreamData:
		data, err = proxywasm.GetUpstreamData(start, maxSize)
	case HttpCallResponseBody:
		data, err = proxywasm.GetHttpCallResponseBody(start, maxSize)
	case PluginConfiguration:
		data, err = proxywasm.GetPluginConfiguration()
	case VMConfiguration:
		data, err = proxywasm.GetVMConfiguration()
	default:
		err = fmt.Errorf("unknown buffer type %d", t)
	}
	switch StatusOf(err) {
	case errors.StatusOK:
		return data, nil
	case errors.StatusNotFound, errors.StatusEmpty:
		return nil, nil
	default:
		return nil, Wrap(FnGetBufferBytes, err)
	}
}

// MutateBuffer applies a BufferAction to a writable buffer.
func MutateBuffer(t BufferType, action entities.BufferAction) error {
	var err error
	switch t {
	case RequestBody:
		err = mutate(action, proxywasm.PrependHttpRequestBody, proxywasm.AppendHttpRequestBody, proxywasm.ReplaceHttpRequestBody)
	case ResponseBody:
		err = mutate(action, proxywasm.PrependHttpResponseBody, proxywasm.AppendHttpResponseBody, proxywasm.ReplaceHttpResponseBody)
	case DownstreamData:
		err = mutate(action, proxywasm.PrependDownstreamData, proxywasm.AppendDownstreamData, proxywasm.ReplaceDownstreamData)
	case UpstreamData:
		err = mutate(action, proxywasm.PrependUpstreamData, proxywasm.AppendUpstreamData, proxywasm.ReplaceUpstreamData)
	default:
		err = fmt.Errorf("%s is read-only", t)
	}
	return Wrap(FnSetBufferBytes, err)
}

// mutate picks the SDK binding whose proxy_set_buffer_bytes range matches
// the action.
func mutate(action entities.BufferAction, prepend, appendFn, replace func([]byte) error) error {
	if action.Kind < entities.BufferPrepend || action.Kind > entities.BufferReplace {
		return fmt.Errorf("unknown buffer action %d", action.Kind)
	}
	switch start, length := action.Range(); {
	case start == 0 && length == 0:
		return prepend(action.Data)
	case start == 0:
		return replace(action.Data)
	default:
		return appendFn(action.Data)
	}
}
