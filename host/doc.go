// Package host provides the services Envoy offers to an extension: clock,
// stats, HTTP client, shared data, shared queues and stream properties.
//
// Each service implements an interface from domain/ports on top of the
// proxy-wasm ABI. Extensions should depend on the interfaces so tests can
// substitute the fakes from the envoytest package.
package host
