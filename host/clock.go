package host

import (
	"time"

	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
)

// Clock reads the wall clock the proxy exposes to the VM.
type Clock struct{}

var _ ports.Clock = Clock{}

// DefaultClock returns the host clock.
func DefaultClock() Clock {
	return Clock{}
}

// Now returns the current time. Inside the proxy, the Go runtime reads it
// through the WASI clock the proxy provides.
func (Clock) Now() (time.Time, error) {
	return time.Now(), nil
}
