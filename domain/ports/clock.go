package ports

import "time"

// Clock provides the current time as seen by the host.
type Clock interface {
	Now() (time.Time, error)
}
