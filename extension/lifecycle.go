package extension

import (
	"fmt"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
)

// Configure reads the configuration and hands it to c.
// It returns false if the configuration must be rejected; errors are
// reported to sink.
func Configure(c Configurable, ops ConfigureOps, sink ports.ErrorSink) bool {
	config, err := ops.Configuration()
	if err != nil {
		sink.Observe("failed to read extension configuration", err)
		return false
	}
	status, err := c.OnConfigure(config, ops)
	if err != nil {
		sink.Observe("failed to configure extension", err)
		return false
	}
	return status.AsBool()
}

// Drain asks d to drain. It returns true once draining is complete.
// An error completes draining since the host would retry forever otherwise.
func Drain(d Drainable, sink ports.ErrorSink) bool {
	status, err := d.OnDrain()
	if err != nil {
		sink.Observe("failed to initiate draining of extension", err)
		return true
	}
	return status.AsBool()
}

// CalloutReceiver routes responses of HTTP calls sent by a factory to the
// factory, if it handles them.
type CalloutReceiver struct {
	Target any
	Ops    ports.HttpClientResponseOps
	Sink   ports.ErrorSink
}

// OnHttpCallResponse implements wasmcontext.CalloutReceiver.
func (r CalloutReceiver) OnHttpCallResponse(handle entities.HttpClientRequestHandle, numHeaders, bodySize, numTrailers int) {
	h, ok := r.Target.(HttpCallHandler)
	if !ok {
		r.Sink.Observe("dropping response to an HTTP request made by the extension",
			fmt.Errorf("extension does not handle HTTP call responses (request %s)", handle))
		return
	}
	if err := h.OnHttpCallResponse(handle, numHeaders, bodySize, numTrailers, r.Ops); err != nil {
		r.Sink.Observe("failed to process a response to an HTTP request made by the extension", err)
	}
}
