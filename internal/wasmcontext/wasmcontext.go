// Package wasmcontext tracks which extension instance the host is currently
// calling into. The host drives a VM from a single thread, so one global
// slot is enough; it is set by the extension contexts on every callback and
// read by the HTTP client and the log handler.
package wasmcontext

import (
	stdcontext "context"
	"sync"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// contextKey is a type alias for context value keys to avoid collisions.
type contextKey string

// InstanceKey is the context key for the current Instance.
const InstanceKey contextKey = "envoy_instance"

// CalloutReceiver receives the response of an HTTP call dispatched while
// its instance was current.
type CalloutReceiver interface {
	OnHttpCallResponse(handle entities.HttpClientRequestHandle, numHeaders, bodySize, numTrailers int)
}

// Instance describes the extension instance handling the current callback.
type Instance struct {
	// Receiver gets responses of HTTP calls sent by the instance.
	Receiver CalloutReceiver

	// Extension is the name the extension was registered under.
	Extension string

	// ID is the proxy-wasm context id of the instance.
	ID entities.InstanceID
}

var contextStore = struct {
	current Instance
	sync.RWMutex
}{}

// Enter makes inst the current instance and returns a function restoring the
// previous one. Callbacks use it as `defer wasmcontext.Enter(inst)()`.
func Enter(inst Instance) (restore func()) {
	contextStore.Lock()
	prev := contextStore.current
	contextStore.current = inst
	contextStore.Unlock()

	return func() {
		contextStore.Lock()
		contextStore.current = prev
		contextStore.Unlock()
	}
}

// Current returns the instance handling the current callback.
// It returns the zero Instance outside of a callback.
func Current() Instance {
	contextStore.RLock()
	defer contextStore.RUnlock()
	return contextStore.current
}

// Reset clears the current instance.
func Reset() {
	contextStore.Lock()
	defer contextStore.Unlock()
	contextStore.current = Instance{}
}

// WithInstance returns a context carrying inst.
func WithInstance(ctx stdcontext.Context, inst Instance) stdcontext.Context {
	if ctx == nil {
		ctx = stdcontext.Background()
	}
	return stdcontext.WithValue(ctx, InstanceKey, inst)
}

// FromContext returns the instance carried by ctx, falling back to Current.
func FromContext(ctx stdcontext.Context) Instance {
	if ctx != nil {
		if inst, ok := ctx.Value(InstanceKey).(Instance); ok {
			return inst
		}
	}
	return Current()
}
