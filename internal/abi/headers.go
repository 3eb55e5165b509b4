package abi

import (
	"fmt"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// MapType selects a header map of the current stream.
type MapType int

const (
	RequestHeaders MapType = iota
	RequestTrailers
	ResponseHeaders
	ResponseTrailers
	HttpCallResponseHeaders
	HttpCallResponseTrailers
)

func (t MapType) String() string {
	switch t {
	case RequestHeaders:
		return "request headers"
	case RequestTrailers:
		return "request trailers"
	case ResponseHeaders:
		return "response headers"
	case ResponseTrailers:
		return "response trailers"
	case HttpCallResponseHeaders:
		return "http call response headers"
	case HttpCallResponseTrailers:
		return "http call response trailers"
	default:
		return "unknown"
	}
}

var errReadOnlyMap = fmt.Errorf("header map is read-only")

// GetHeaderMap returns every entry of the map.
// A map the host does not hold (yet) is reported as empty.
func GetHeaderMap(t MapType) (entities.HeaderMap, error) {
	var (
		pairs [][2]string
		err   error
	)
	switch t {
	case RequestHeaders:
		pairs, err = proxywasm.GetHttpRequestHeaders()
	case RequestTrailers:
		pairs, err = proxywasm.GetHttpRequestTrailers()
	case ResponseHeaders:
		pairs, err = proxywasm.GetHttpResponseHeaders()
	case ResponseTrailers:
		pairs, err = proxywasm.GetHttpResponseTrailers()
	case HttpCallResponseHeaders:
		pairs, err = proxywasm.GetHttpCallResponseHeaders()
	case HttpCallResponseTrailers:
		pairs, err = proxywasm.GetHttpCallResponseTrailers()
	}
	if IsNotFound(err) {
		return entities.HeaderMap{}, nil
	}
	if err != nil {
		return nil, Wrap(FnGetHeaderMapPairs, err)
	}
	return entities.HeaderMapFromPairs(pairs), nil
}

// SetHeaderMap replaces the whole map.
func SetHeaderMap(t MapType, headers entities.HeaderMap) error {
	pairs := headers.Pairs()
	var err error
	switch t {
	case RequestHeaders:
		err = proxywasm.ReplaceHttpRequestHeaders(pairs)
	case RequestTrailers:
		err = proxywasm.ReplaceHttpRequestTrailers(pairs)
	case ResponseHeaders:
		err = proxywasm.ReplaceHttpResponseHeaders(pairs)
	case ResponseTrailers:
		err = proxywasm.ReplaceHttpResponseTrailers(pairs)
	default:
		err = errReadOnlyMap
	}
	return Wrap(FnSetHeaderMapPairs, err)
}

// GetHeaderMapValue returns the value of a single entry.
func GetHeaderMapValue(t MapType, name string) (string, bool, error) {
	var (
		value string
		err   error
	)
	switch t {
	case RequestHeaders:
		value, err = proxywasm.GetHttpRequestHeader(name)
	case RequestTrailers:
		value, err = proxywasm.GetHttpRequestTrailer(name)
	case ResponseHeaders:
		value, err = proxywasm.GetHttpResponseHeader(name)
	case ResponseTrailers:
		value, err = proxywasm.GetHttpResponseTrailer(name)
	default:
		// The bindings expose the http call response maps only as a whole.
		m, mapErr := GetHeaderMap(t)
		if mapErr != nil {
			return "", false, mapErr
		}
		v, ok := m.Get(name)
		return v, ok, nil
	}
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, Wrap(FnGetHeaderMapValue, err)
	}
	return value, true, nil
}

// ReplaceHeaderMapValue sets an entry, replacing any existing value.
func ReplaceHeaderMapValue(t MapType, name, value string) error {
	var err error
	switch t {
	case RequestHeaders:
		err = proxywasm.ReplaceHttpRequestHeader(name, value)
	case RequestTrailers:
		err = proxywasm.ReplaceHttpRequestTrailer(name, value)
	case ResponseHeaders:
		err = proxywasm.ReplaceHttpResponseHeader(name, value)
	case ResponseTrailers:
		err = proxywasm.ReplaceHttpResponseTrailer(name, value)
	default:
		err = errReadOnlyMap
	}
	return Wrap(FnReplaceHeaderValue, err)
}

// AddHeaderMapValue appends an entry, keeping existing values.
func AddHeaderMapValue(t MapType, name, value string) error {
	var err error
	switch t {
	case RequestHeaders:
		err = proxywasm.AddHttpRequestHeader(name, value)
	case RequestTrailers:
		err = proxywasm.AddHttpRequestTrailer(name, value)
	case ResponseHeaders:
		err = proxywasm.AddHttpResponseHeader(name, value)
	case ResponseTrailers:
		err = proxywasm.AddHttpResponseTrailer(name, value)
	default:
		err = errReadOnlyMap
	}
	return Wrap(FnAddHeaderValue, err)
}

// RemoveHeaderMapValue drops every entry with the given name.
func RemoveHeaderMapValue(t MapType, name string) error {
	var err error
	switch t {
	case RequestHeaders:
		err = proxywasm.RemoveHttpRequestHeader(name)
	case RequestTrailers:
		err = proxywasm.RemoveHttpRequestTrailer(name)
	case ResponseHeaders:
		err = proxywasm.RemoveHttpResponseHeader(name)
	case ResponseTrailers:
		err = proxywasm.RemoveHttpResponseTrailer(name)
	default:
		err = errReadOnlyMap
	}
	return Wrap(FnRemoveHeaderValue, err)
}
