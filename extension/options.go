package extension

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/host"
)

// Options are the services shared by the contexts of one extension.
type Options struct {
	Sink         ports.ErrorSink
	ConfigureOps ConfigureOps
	ResponseOps  ports.HttpClientResponseOps
}

// Option configures Options.
type Option func(*Options)

// WithErrorSink sets where callback errors are reported.
func WithErrorSink(sink ports.ErrorSink) Option {
	return func(o *Options) {
		o.Sink = sink
	}
}

// WithConfigureOps overrides how the configuration is read.
func WithConfigureOps(ops ConfigureOps) Option {
	return func(o *Options) {
		o.ConfigureOps = ops
	}
}

// WithResponseOps overrides how responses of HTTP calls are read.
func WithResponseOps(ops ports.HttpClientResponseOps) Option {
	return func(o *Options) {
		o.ResponseOps = ops
	}
}

// NewOptions applies opts over the host defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		Sink:         DefaultErrorSink(),
		ConfigureOps: HostConfigureOps{},
		ResponseOps:  host.HttpClientResponseOps{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
