// Package accesslog binds access loggers to proxy-wasm.
//
// An access logger is a single long-lived instance per configuration that
// is called once for every finished HTTP stream or TCP connection.
//
// proxy-wasm delivers proxy_on_log only to stream contexts, so the logger
// runs behind a per-stream context. Attach it where Envoy creates streams:
// as an HTTP filter or network filter of the listener, or as the
// access_log of an HTTP connection manager. A logger configured where no
// streams are created is never called.
package accesslog

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/extension"
	"github.com/reglet-dev/envoy-sdk-go/host"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// Logger receives log entries of finished streams.
type Logger interface {
	extension.Configurable
	extension.Drainable
	extension.HttpCallHandler

	// OnLog is called once the stream has been logged.
	OnLog(ops LogOps) error
}

// BaseLogger accepts every configuration and ignores log entries.
type BaseLogger struct {
	extension.BaseFactory
}

func (BaseLogger) OnLog(LogOps) error { return nil }

func (BaseLogger) OnHttpCallResponse(entities.HttpClientRequestHandle, int, int, int, ports.HttpClientResponseOps) error {
	return nil
}

// LogOps reads the entry being logged.
type LogOps interface {
	RequestHeaders() (entities.HeaderMap, error)
	ResponseHeaders() (entities.HeaderMap, error)
	ResponseTrailers() (entities.HeaderMap, error)
	Property(path ...string) ([]byte, bool, error)
	StreamInfo() *host.StreamInfo
}

// HostLogOps implements LogOps on top of the proxy-wasm ABI.
type HostLogOps struct {
	info *host.StreamInfo
}

var _ LogOps = (*HostLogOps)(nil)

// DefaultLogOps returns the host implementation of LogOps.
func DefaultLogOps() *HostLogOps {
	return &HostLogOps{info: host.DefaultStreamInfo()}
}

func (o *HostLogOps) RequestHeaders() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.RequestHeaders)
}

func (o *HostLogOps) ResponseHeaders() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.ResponseHeaders)
}

func (o *HostLogOps) ResponseTrailers() (entities.HeaderMap, error) {
	return abi.GetHeaderMap(abi.ResponseTrailers)
}

func (o *HostLogOps) Property(path ...string) ([]byte, bool, error) {
	return o.info.Property(path...)
}

func (o *HostLogOps) StreamInfo() *host.StreamInfo { return o.info }
