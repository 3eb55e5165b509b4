// Package entities provides the core domain types of the Envoy extension SDK.
// They describe values that cross the proxy-wasm boundary (handles, header
// maps, buffer mutations, filter statuses, stream metadata) without
// depending on the ABI bindings themselves.
package entities
