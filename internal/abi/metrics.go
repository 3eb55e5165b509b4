package abi

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// DefineCounter defines a counter metric.
func DefineCounter(name string) (metric proxywasm.MetricCounter, err error) {
	err = guard(FnDefineMetric, func() {
		metric = proxywasm.DefineCounterMetric(name)
	})
	return metric, err
}

// DefineGauge defines a gauge metric.
func DefineGauge(name string) (metric proxywasm.MetricGauge, err error) {
	err = guard(FnDefineMetric, func() {
		metric = proxywasm.DefineGaugeMetric(name)
	})
	return metric, err
}

// DefineHistogram defines a histogram metric.
func DefineHistogram(name string) (metric proxywasm.MetricHistogram, err error) {
	err = guard(FnDefineMetric, func() {
		metric = proxywasm.DefineHistogramMetric(name)
	})
	return metric, err
}

// IncrementCounter adds offset to a counter.
func IncrementCounter(metric proxywasm.MetricCounter, offset uint64) error {
	return guard(FnIncrementMetric, func() {
		metric.Increment(offset)
	})
}

// CounterValue reads a counter.
func CounterValue(metric proxywasm.MetricCounter) (value uint64, err error) {
	err = guard(FnGetMetric, func() {
		value = metric.Value()
	})
	return value, err
}

// AddGauge adds a signed offset to a gauge.
func AddGauge(metric proxywasm.MetricGauge, offset int64) error {
	return guard(FnIncrementMetric, func() {
		metric.Add(offset)
	})
}

// RecordGauge sets a gauge to value through proxy_record_metric.
func RecordGauge(metric proxywasm.MetricGauge, value uint64) error {
	return guard(FnRecordMetric, func() {
		// MetricGauge has no Record; the histogram binding makes the same
		// proxy_record_metric call for the metric id.
		proxywasm.MetricHistogram(metric).Record(value)
	})
}

// GaugeValue reads a gauge.
func GaugeValue(metric proxywasm.MetricGauge) (value int64, err error) {
	err = guard(FnGetMetric, func() {
		value = metric.Value()
	})
	return value, err
}

// RecordHistogram records a value in a histogram.
func RecordHistogram(metric proxywasm.MetricHistogram, value uint64) error {
	return guard(FnRecordMetric, func() {
		metric.Record(value)
	})
}

// MetricHandleOf returns the host id of a defined metric.
func MetricHandleOf[M ~uint32](metric M) entities.MetricHandle {
	return entities.MetricHandle(metric)
}
