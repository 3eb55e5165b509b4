package netfilter

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/host"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// ConnectionFlowOps controls the connection.
type ConnectionFlowOps interface {
	// ResumeConnection resumes a connection paused by StopIteration.
	ResumeConnection() error
	CloseDownstream() error
	CloseUpstream() error
}

// DownstreamDataOps is passed to OnDownstreamData.
type DownstreamDataOps interface {
	ConnectionFlowOps
	DownstreamData(start, maxSize int) ([]byte, error)
	MutateDownstreamData(action entities.BufferAction) error
}

// UpstreamDataOps is passed to OnUpstreamData.
type UpstreamDataOps interface {
	ConnectionFlowOps
	UpstreamData(start, maxSize int) ([]byte, error)
	MutateUpstreamData(action entities.BufferAction) error
}

// Ops is the union of all operations on a connection.
type Ops interface {
	DownstreamDataOps
	UpstreamDataOps
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

func (o *HostOps) ResumeConnection() error { return abi.ContinueTcpStream() }
func (o *HostOps) CloseDownstream() error  { return abi.CloseDownstream() }
func (o *HostOps) CloseUpstream() error    { return abi.CloseUpstream() }

func (o *HostOps) DownstreamData(start, maxSize int) ([]byte, error) {
	return abi.GetBuffer(abi.DownstreamData, start, maxSize)
}

func (o *HostOps) MutateDownstreamData(action entities.BufferAction) error {
	return abi.MutateBuffer(abi.DownstreamData, action)
}

func (o *HostOps) UpstreamData(start, maxSize int) ([]byte, error) {
	return abi.GetBuffer(abi.UpstreamData, start, maxSize)
}

func (o *HostOps) MutateUpstreamData(action entities.BufferAction) error {
	return abi.MutateBuffer(abi.UpstreamData, action)
}
