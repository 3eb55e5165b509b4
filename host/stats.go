package host

import (
	"math"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// Stats defines metrics through proxy_define_metric.
type Stats struct{}

var _ ports.Stats = Stats{}

// DefaultStats returns the host stats service.
func DefaultStats() Stats {
	return Stats{}
}

// Counter defines (or looks up) a counter.
func (Stats) Counter(name string) (ports.Counter, error) {
	m, err := abi.DefineCounter(name)
	if err != nil {
		return nil, err
	}
	return &Counter{metric: m}, nil
}

// Gauge defines (or looks up) a gauge.
func (Stats) Gauge(name string) (ports.Gauge, error) {
	m, err := abi.DefineGauge(name)
	if err != nil {
		return nil, err
	}
	return &Gauge{metric: m}, nil
}

// Histogram defines (or looks up) a histogram.
func (Stats) Histogram(name string) (ports.Histogram, error) {
	m, err := abi.DefineHistogram(name)
	if err != nil {
		return nil, err
	}
	return &Histogram{metric: m}, nil
}

// Counter is a host counter.
type Counter struct {
	metric proxywasm.MetricCounter
}

// Handle returns the host id of the counter.
func (c *Counter) Handle() entities.MetricHandle {
	return abi.MetricHandleOf(c.metric)
}

// Inc adds one.
func (c *Counter) Inc() error {
	return c.Add(1)
}

// Add adds offset. The ABI takes a signed 64-bit delta, so offsets above
// MaxInt64 are applied in several increments.
func (c *Counter) Add(offset uint64) error {
	for _, chunk := range splitOffset(offset) {
		if err := abi.IncrementCounter(c.metric, chunk); err != nil {
			return err
		}
	}
	return nil
}

// Value reads the counter.
func (c *Counter) Value() (uint64, error) {
	return abi.CounterValue(c.metric)
}

// Gauge is a host gauge.
type Gauge struct {
	metric proxywasm.MetricGauge
}

// Handle returns the host id of the gauge.
func (g *Gauge) Handle() entities.MetricHandle {
	return abi.MetricHandleOf(g.metric)
}

// Inc adds one.
func (g *Gauge) Inc() error {
	return g.Add(1)
}

// Dec subtracts one.
func (g *Gauge) Dec() error {
	return g.Sub(1)
}

// Add adds offset.
func (g *Gauge) Add(offset uint64) error {
	for _, chunk := range splitOffset(offset) {
		if err := abi.AddGauge(g.metric, int64(chunk)); err != nil { //nolint:gosec // G115: chunks fit in int64
			return err
		}
	}
	return nil
}

// Sub subtracts offset.
func (g *Gauge) Sub(offset uint64) error {
	for _, chunk := range splitOffset(offset) {
		if err := abi.AddGauge(g.metric, -int64(chunk)); err != nil { //nolint:gosec // G115: chunks fit in int64
			return err
		}
	}
	return nil
}

// Set records value as the absolute value of the gauge.
func (g *Gauge) Set(value uint64) error {
	return abi.RecordGauge(g.metric, value)
}

// Value reads the gauge. Negative host values read as zero.
func (g *Gauge) Value() (uint64, error) {
	v, err := abi.GaugeValue(g.metric)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, nil
	}
	return uint64(v), nil
}

// Histogram is a host histogram.
type Histogram struct {
	metric proxywasm.MetricHistogram
}

// Handle returns the host id of the histogram.
func (h *Histogram) Handle() entities.MetricHandle {
	return abi.MetricHandleOf(h.metric)
}

// Record records value.
func (h *Histogram) Record(value uint64) error {
	return abi.RecordHistogram(h.metric, value)
}

// splitOffset splits offset into chunks no larger than MaxInt64.
func splitOffset(offset uint64) []uint64 {
	chunks := make([]uint64, 0, 3)
	for offset > math.MaxInt64 {
		chunks = append(chunks, math.MaxInt64)
		offset -= math.MaxInt64
	}
	return append(chunks, offset)
}
