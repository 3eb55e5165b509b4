// Package netfilter binds network (L4) filters to the proxy-wasm TCP
// callbacks.
package netfilter

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/extension"
)

// Factory creates network filters for one filter configuration.
type Factory interface {
	extension.Configurable
	extension.Drainable

	// NewFilter is called for every new connection.
	NewFilter(id entities.InstanceID) (Filter, error)
}

// Filter processes a single connection.
type Filter interface {
	OnNewConnection() (entities.NetworkFilterStatus, error)

	OnDownstreamData(dataSize int, endOfStream bool, ops DownstreamDataOps) (entities.NetworkFilterStatus, error)
	OnDownstreamClose(peer entities.PeerType, ops Ops) error

	OnUpstreamData(dataSize int, endOfStream bool, ops UpstreamDataOps) (entities.NetworkFilterStatus, error)
	OnUpstreamClose(peer entities.PeerType, ops Ops) error

	// OnConnectionComplete is called once the connection is closed on both sides.
	OnConnectionComplete(ops Ops) error

	// OnHttpCallResponse receives the response of a request sent by the filter.
	OnHttpCallResponse(
		handle entities.HttpClientRequestHandle,
		numHeaders, bodySize, numTrailers int,
		ops Ops,
		resp ports.HttpClientResponseOps,
	) error
}

// BaseFilter continues on every callback.
type BaseFilter struct{}

var _ Filter = BaseFilter{}

func (BaseFilter) OnNewConnection() (entities.NetworkFilterStatus, error) {
	return entities.NetworkContinue, nil
}

func (BaseFilter) OnDownstreamData(int, bool, DownstreamDataOps) (entities.NetworkFilterStatus, error) {
	return entities.NetworkContinue, nil
}

func (BaseFilter) OnDownstreamClose(entities.PeerType, Ops) error { return nil }

func (BaseFilter) OnUpstreamData(int, bool, UpstreamDataOps) (entities.NetworkFilterStatus, error) {
	return entities.NetworkContinue, nil
}

func (BaseFilter) OnUpstreamClose(entities.PeerType, Ops) error { return nil }

func (BaseFilter) OnConnectionComplete(Ops) error { return nil }

func (BaseFilter) OnHttpCallResponse(entities.HttpClientRequestHandle, int, int, int, Ops, ports.HttpClientResponseOps) error {
	return nil
}

func action(s entities.NetworkFilterStatus) types.Action {
	if s == entities.NetworkContinue {
		return types.ActionContinue
	}
	return types.ActionPause
}

func peerType(p types.PeerType) entities.PeerType {
	switch p {
	case types.PeerTypeLocal:
		return entities.PeerLocal
	case types.PeerTypeRemote:
		return entities.PeerRemote
	default:
		return entities.PeerUnknown
	}
}
