package entities

import "strings"

// PeerType identifies which side closed a connection.
type PeerType int

const (
	PeerUnknown PeerType = iota
	PeerLocal
	PeerRemote
)

func (p PeerType) String() string {
	switch p {
	case PeerLocal:
		return "local"
	case PeerRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// TrafficDirection of the listener that accepted a connection.
type TrafficDirection int64

const (
	TrafficDirectionUnspecified TrafficDirection = 0
	TrafficDirectionInbound     TrafficDirection = 1
	TrafficDirectionOutbound    TrafficDirection = 2
)

func (d TrafficDirection) String() string {
	switch d {
	case TrafficDirectionInbound:
		return "INBOUND"
	case TrafficDirectionOutbound:
		return "OUTBOUND"
	default:
		return "UNSPECIFIED"
	}
}

// ResponseFlags is the set of Envoy response flags of a finished request.
type ResponseFlags uint64

const (
	FailedLocalHealthCheck ResponseFlags = 1 << iota
	NoHealthyUpstream
	UpstreamRequestTimeout
	LocalReset
	UpstreamRemoteReset
	UpstreamConnectionFailure
	UpstreamConnectionTermination
	UpstreamOverflow
	NoRouteFound
	DelayInjected
	FaultInjected
	RateLimited
	UnauthorizedExternalService
	RateLimitServiceError
	DownstreamConnectionTermination
	UpstreamRetryLimitExceeded
	StreamIdleTimeout
	InvalidEnvoyRequestHeaders
	DownstreamProtocolError
	UpstreamMaxStreamDurationReached
	ResponseFromCacheFilter
	NoFilterConfigFound
)

var responseFlagCodes = []struct {
	flag ResponseFlags
	code string
}{
	{FailedLocalHealthCheck, "LH"},
	{NoHealthyUpstream, "UH"},
	{UpstreamRequestTimeout, "UT"},
	{LocalReset, "LR"},
	{UpstreamRemoteReset, "UR"},
	{UpstreamConnectionFailure, "UF"},
	{UpstreamConnectionTermination, "UC"},
	{UpstreamOverflow, "UO"},
	{NoRouteFound, "NR"},
	{DelayInjected, "DI"},
	{FaultInjected, "FI"},
	{RateLimited, "RL"},
	{UnauthorizedExternalService, "UAEX"},
	{RateLimitServiceError, "RLSE"},
	{DownstreamConnectionTermination, "DC"},
	{UpstreamRetryLimitExceeded, "URX"},
	{StreamIdleTimeout, "SI"},
	{InvalidEnvoyRequestHeaders, "IH"},
	{DownstreamProtocolError, "DPE"},
	{UpstreamMaxStreamDurationReached, "UMSDR"},
	{ResponseFromCacheFilter, "RFCF"},
	{NoFilterConfigFound, "NFCF"},
}

// Has reports whether every flag in f is set.
func (r ResponseFlags) Has(f ResponseFlags) bool {
	return r&f == f
}

// Codes returns the short codes of the set flags, in bit order.
func (r ResponseFlags) Codes() []string {
	var codes []string
	for _, fc := range responseFlagCodes {
		if r&fc.flag != 0 {
			codes = append(codes, fc.code)
		}
	}
	return codes
}

func (r ResponseFlags) String() string {
	return strings.Join(r.Codes(), ",")
}
