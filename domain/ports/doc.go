// Package ports defines interfaces for the host services an extension uses.
// Extensions depend on these abstractions; the host package implements them
// on top of the proxy-wasm ABI and the envoytest package provides fakes.
package ports
