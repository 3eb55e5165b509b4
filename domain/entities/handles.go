package entities

import "strconv"

// InstanceID identifies an extension instance (a filter or a logger).
// It is the proxy-wasm context id the host assigned to the instance.
type InstanceID uint32

func (id InstanceID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// HttpClientRequestHandle identifies an outgoing HTTP request
// dispatched through the host (the callout id).
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpClientRequestHandle uint32

func (h HttpClientRequestHandle) String() string {
	return "@" + strconv.FormatUint(uint64(h), 10)
}

// SharedQueueHandle identifies a shared queue registered or resolved on the host.
type SharedQueueHandle uint32

func (h SharedQueueHandle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// MetricHandle identifies a metric defined on the host.
type MetricHandle uint32

func (h MetricHandle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// OptimisticLockVersion is the compare-and-swap version of a shared data entry.
// The zero value disables the version check on writes.
type OptimisticLockVersion uint32

func (v OptimisticLockVersion) String() string {
	return strconv.FormatUint(uint64(v), 10)
}
