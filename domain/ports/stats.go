package ports

// Stats defines metrics on the host.
// Defining the same name twice returns a handle to the same metric.
type Stats interface {
	Counter(name string) (Counter, error)
	Gauge(name string) (Gauge, error)
	Histogram(name string) (Histogram, error)
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Inc() error
	Add(offset uint64) error
	Value() (uint64, error)
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Inc() error
	Dec() error
	Add(offset uint64) error
	Sub(offset uint64) error
	Set(value uint64) error
	Value() (uint64, error)
}

// Histogram records a distribution of values.
type Histogram interface {
	Record(value uint64) error
}
