// Package extension holds the lifecycle shared by every kind of Envoy
// extension: configuration, draining and error reporting.
//
// The extension kinds themselves live in sub-packages:
//
//   - httpfilter: HTTP filters
//   - netfilter: network (TCP) filters
//   - accesslog: access loggers
package extension
