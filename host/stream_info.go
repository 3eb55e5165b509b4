package host

import (
	"fmt"
	"math"
	"time"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// StreamInfo gives typed access to the properties of the current stream.
//
// Every typed accessor returns ok=false when the host has no value for the
// property, and a *errors.ParseError when the value has an unexpected encoding.
type StreamInfo struct {
	props ports.PropertyStore
}

// NewStreamInfo creates a StreamInfo reading from props.
func NewStreamInfo(props ports.PropertyStore) *StreamInfo {
	return &StreamInfo{props: props}
}

// DefaultStreamInfo returns a StreamInfo backed by the host.
func DefaultStreamInfo() *StreamInfo {
	return NewStreamInfo(DefaultPropertyStore())
}

// Property returns the raw value of an arbitrary property.
func (s *StreamInfo) Property(path ...string) ([]byte, bool, error) {
	return s.props.Property(path)
}

// SetProperty writes the raw value of an arbitrary property.
func (s *StreamInfo) SetProperty(path []string, value []byte) error {
	return s.props.SetProperty(path, value)
}

func (s *StreamInfo) Request() RequestInfo       { return RequestInfo{s} }
func (s *StreamInfo) Response() ResponseInfo     { return ResponseInfo{s} }
func (s *StreamInfo) Connection() ConnectionInfo { return ConnectionInfo{s} }
func (s *StreamInfo) Upstream() UpstreamInfo     { return UpstreamInfo{s} }
func (s *StreamInfo) Source() PeerInfo           { return PeerInfo{s, "source"} }
func (s *StreamInfo) Destination() PeerInfo      { return PeerInfo{s, "destination"} }
func (s *StreamInfo) Listener() ListenerInfo     { return ListenerInfo{s} }
func (s *StreamInfo) Cluster() ClusterInfo       { return ClusterInfo{s} }
func (s *StreamInfo) Route() RouteInfo           { return RouteInfo{s} }
func (s *StreamInfo) Plugin() PluginInfo         { return PluginInfo{s} }

func (s *StreamInfo) str(path ...string) (string, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return "", false, err
	}
	v, err := abi.DecodeString(path, raw)
	return v, err == nil, err
}

// bytes reads a property as a Go string without UTF-8 validation.
func (s *StreamInfo) bytes(path ...string) (string, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}

func (s *StreamInfo) headerMap(path ...string) (entities.HeaderMap, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return entities.HeaderMap{}, nil
	}
	return abi.DecodeMap(path, raw)
}

func (s *StreamInfo) int64(path ...string) (int64, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := abi.DecodeInt64(path, raw)
	return v, err == nil, err
}

func (s *StreamInfo) uint64(path ...string) (uint64, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := abi.DecodeUint64(path, raw)
	return v, err == nil, err
}

func (s *StreamInfo) bool(path ...string) (bool, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return false, false, err
	}
	v, err := abi.DecodeBool(path, raw)
	return v, err == nil, err
}

func (s *StreamInfo) timestamp(path ...string) (time.Time, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	v, err := abi.DecodeTimestamp(path, raw)
	return v, err == nil, err
}

func (s *StreamInfo) duration(path ...string) (time.Duration, bool, error) {
	raw, ok, err := s.props.Property(path)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := abi.DecodeDuration(path, raw)
	return v, err == nil, err
}

// nonNegative decodes an int64 property that must not be negative.
func (s *StreamInfo) nonNegative(path ...string) (uint64, bool, error) {
	v, ok, err := s.int64(path...)
	if err != nil || !ok {
		return 0, ok, err
	}
	if v < 0 {
		return 0, false, rangeError(path, v)
	}
	return uint64(v), true, nil
}

// bounded decodes an int64 property that must fit in [0, limit].
func (s *StreamInfo) bounded(limit int64, path ...string) (int64, bool, error) {
	v, ok, err := s.int64(path...)
	if err != nil || !ok {
		return 0, ok, err
	}
	if v < 0 || v > limit {
		return 0, false, rangeError(path, v)
	}
	return v, true, nil
}

func rangeError(path []string, v int64) error {
	return errors.HostFunction(abi.FnGetProperty).Parse(path, abi.EncodeInt64(v), fmt.Errorf("value %d is out of range", v))
}

// RequestInfo covers properties of the downstream request.
type RequestInfo struct{ s *StreamInfo }

// Headers returns all request headers. Header values are raw bytes and
// need not be valid UTF-8.
func (r RequestInfo) Headers() (entities.HeaderMap, error) {
	return r.s.headerMap("request", "headers")
}

// Header returns the raw value of a request header.
func (r RequestInfo) Header(name string) (string, bool, error) {
	return r.s.bytes("request", "headers", name)
}

// ID returns the request id (x-request-id).
func (r RequestInfo) ID() (string, bool, error) { return r.s.str("request", "id") }

// Time returns the time the first byte of the request was received.
func (r RequestInfo) Time() (time.Time, bool, error) { return r.s.timestamp("request", "time") }

// Duration returns the total duration of the request.
func (r RequestInfo) Duration() (time.Duration, bool, error) { return r.s.duration("request", "duration") }

// Size returns the size of the request body.
func (r RequestInfo) Size() (uint64, bool, error) { return r.s.nonNegative("request", "size") }

// TotalSize returns the size of the request including headers.
func (r RequestInfo) TotalSize() (uint64, bool, error) {
	return r.s.nonNegative("request", "total_size")
}

// Protocol returns the request protocol, e.g. "HTTP/2".
func (r RequestInfo) Protocol() (string, bool, error) { return r.s.str("request", "protocol") }

// Path returns the path including the query string.
func (r RequestInfo) Path() (string, bool, error) { return r.s.str("request", "path") }

// URLPath returns the path without the query string.
func (r RequestInfo) URLPath() (string, bool, error) { return r.s.str("request", "url_path") }

func (r RequestInfo) Host() (string, bool, error)      { return r.s.str("request", "host") }
func (r RequestInfo) Method() (string, bool, error)    { return r.s.str("request", "method") }
func (r RequestInfo) Scheme() (string, bool, error)    { return r.s.str("request", "scheme") }
func (r RequestInfo) Referer() (string, bool, error)   { return r.s.str("request", "referer") }
func (r RequestInfo) UserAgent() (string, bool, error) { return r.s.str("request", "user_agent") }

// ResponseInfo covers properties of the response sent downstream.
type ResponseInfo struct{ s *StreamInfo }

// Header returns the value of a response header.
func (r ResponseInfo) Header(name string) (string, bool, error) {
	return r.s.bytes("response", "headers", name)
}

// Headers returns all response headers.
func (r ResponseInfo) Headers() (entities.HeaderMap, error) {
	return r.s.headerMap("response", "headers")
}

// Trailer returns the value of a response trailer.
func (r ResponseInfo) Trailer(name string) (string, bool, error) {
	return r.s.bytes("response", "trailers", name)
}

// Trailers returns all response trailers.
func (r ResponseInfo) Trailers() (entities.HeaderMap, error) {
	return r.s.headerMap("response", "trailers")
}

// Code returns the HTTP status code.
func (r ResponseInfo) Code() (uint16, bool, error) {
	v, ok, err := r.s.bounded(math.MaxUint16, "response", "code")
	return uint16(v), ok, err //nolint:gosec // G115: bounded above
}

// Size returns the size of the response body.
func (r ResponseInfo) Size() (uint64, bool, error) { return r.s.nonNegative("response", "size") }

// TotalSize returns the size of the response including headers.
func (r ResponseInfo) TotalSize() (uint64, bool, error) {
	return r.s.nonNegative("response", "total_size")
}

// Flags returns the Envoy response flags.
func (r ResponseInfo) Flags() (entities.ResponseFlags, bool, error) {
	v, ok, err := r.s.nonNegative("response", "flags")
	return entities.ResponseFlags(v), ok, err
}

// GrpcStatus returns the gRPC status code of the response.
func (r ResponseInfo) GrpcStatus() (int32, bool, error) {
	v, ok, err := r.s.int64("response", "grpc_status")
	if err != nil || !ok {
		return 0, ok, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false, rangeError([]string{"response", "grpc_status"}, v)
	}
	return int32(v), true, nil
}

// ConnectionInfo covers properties of the downstream connection.
type ConnectionInfo struct{ s *StreamInfo }

// ID returns the connection id.
func (c ConnectionInfo) ID() (uint64, bool, error) { return c.s.uint64("connection_id") }

// MTLS reports whether the connection uses mutual TLS.
func (c ConnectionInfo) MTLS() (bool, bool, error) { return c.s.bool("connection", "mtls") }

// RequestedServerName returns the SNI of the connection.
func (c ConnectionInfo) RequestedServerName() (string, bool, error) {
	return c.s.str("connection", "requested_server_name")
}

func (c ConnectionInfo) TLSVersion() (string, bool, error) {
	return c.s.str("connection", "tls_version")
}

func (c ConnectionInfo) SubjectLocalCertificate() (string, bool, error) {
	return c.s.str("connection", "subject_local_certificate")
}

func (c ConnectionInfo) SubjectPeerCertificate() (string, bool, error) {
	return c.s.str("connection", "subject_peer_certificate")
}

func (c ConnectionInfo) URISanLocalCertificate() (string, bool, error) {
	return c.s.str("connection", "uri_san_local_certificate")
}

func (c ConnectionInfo) URISanPeerCertificate() (string, bool, error) {
	return c.s.str("connection", "uri_san_peer_certificate")
}

func (c ConnectionInfo) DNSSanLocalCertificate() (string, bool, error) {
	return c.s.str("connection", "dns_san_local_certificate")
}

func (c ConnectionInfo) DNSSanPeerCertificate() (string, bool, error) {
	return c.s.str("connection", "dns_san_peer_certificate")
}

// UpstreamInfo covers properties of the upstream connection.
type UpstreamInfo struct{ s *StreamInfo }

func (u UpstreamInfo) Address() (string, bool, error) { return u.s.str("upstream", "address") }

func (u UpstreamInfo) Port() (uint32, bool, error) {
	v, ok, err := u.s.bounded(math.MaxUint32, "upstream", "port")
	return uint32(v), ok, err //nolint:gosec // G115: bounded above
}

func (u UpstreamInfo) LocalAddress() (string, bool, error) {
	return u.s.str("upstream", "local_address")
}

// TransportFailureReason describes why the upstream connection failed.
func (u UpstreamInfo) TransportFailureReason() (string, bool, error) {
	return u.s.str("upstream", "transport_failure_reason")
}

func (u UpstreamInfo) TLSVersion() (string, bool, error) {
	return u.s.str("upstream", "tls_version")
}

func (u UpstreamInfo) SubjectLocalCertificate() (string, bool, error) {
	return u.s.str("upstream", "subject_local_certificate")
}

func (u UpstreamInfo) SubjectPeerCertificate() (string, bool, error) {
	return u.s.str("upstream", "subject_peer_certificate")
}

func (u UpstreamInfo) URISanLocalCertificate() (string, bool, error) {
	return u.s.str("upstream", "uri_san_local_certificate")
}

func (u UpstreamInfo) URISanPeerCertificate() (string, bool, error) {
	return u.s.str("upstream", "uri_san_peer_certificate")
}

func (u UpstreamInfo) DNSSanLocalCertificate() (string, bool, error) {
	return u.s.str("upstream", "dns_san_local_certificate")
}

func (u UpstreamInfo) DNSSanPeerCertificate() (string, bool, error) {
	return u.s.str("upstream", "dns_san_peer_certificate")
}

// PeerInfo covers the source or destination address of a connection.
type PeerInfo struct {
	s    *StreamInfo
	root string
}

func (p PeerInfo) Address() (string, bool, error) { return p.s.str(p.root, "address") }

func (p PeerInfo) Port() (uint32, bool, error) {
	v, ok, err := p.s.bounded(math.MaxUint32, p.root, "port")
	return uint32(v), ok, err //nolint:gosec // G115: bounded above
}

// ListenerInfo covers properties of the listener.
type ListenerInfo struct{ s *StreamInfo }

// TrafficDirection returns the direction of the listener.
func (l ListenerInfo) TrafficDirection() (entities.TrafficDirection, bool, error) {
	v, ok, err := l.s.int64("listener_direction")
	return entities.TrafficDirection(v), ok, err
}

// ClusterInfo covers properties of the upstream cluster.
type ClusterInfo struct{ s *StreamInfo }

func (c ClusterInfo) Name() (string, bool, error) { return c.s.str("cluster_name") }

// RouteInfo covers properties of the selected route.
type RouteInfo struct{ s *StreamInfo }

func (r RouteInfo) Name() (string, bool, error) { return r.s.str("route_name") }

// PluginInfo covers properties of the extension configuration.
type PluginInfo struct{ s *StreamInfo }

func (p PluginInfo) Name() (string, bool, error)   { return p.s.str("plugin_name") }
func (p PluginInfo) RootID() (string, bool, error) { return p.s.str("plugin_root_id") }
func (p PluginInfo) VMID() (string, bool, error)   { return p.s.str("plugin_vm_id") }
