// Package envoytest provides in-memory host services and a proxytest-based
// harness for testing extensions without Envoy.
package envoytest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

// FakeClock is a manually driven clock.
type FakeClock struct {
	now time.Time
	mu  sync.Mutex
}

var _ ports.Clock = (*FakeClock)(nil)

// NewFakeClock creates a clock reading now.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now, nil
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FakeStats keeps metrics in memory. Metrics are looked up by name, so
// defining a name twice returns the same metric.
type FakeStats struct {
	counters   map[string]*fakeCounter
	gauges     map[string]*fakeGauge
	histograms map[string]*fakeHistogram
	mu         sync.Mutex
}

var _ ports.Stats = (*FakeStats)(nil)

// NewFakeStats creates an empty FakeStats.
func NewFakeStats() *FakeStats {
	s := &FakeStats{}
	s.Reset()
	return s
}

func (s *FakeStats) Counter(name string) (ports.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[name]
	if !ok {
		c = &fakeCounter{mu: &s.mu}
		s.counters[name] = c
	}
	return c, nil
}

func (s *FakeStats) Gauge(name string) (ports.Gauge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gauges[name]
	if !ok {
		g = &fakeGauge{mu: &s.mu}
		s.gauges[name] = g
	}
	return g, nil
}

func (s *FakeStats) Histogram(name string) (ports.Histogram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histograms[name]
	if !ok {
		h = &fakeHistogram{mu: &s.mu}
		s.histograms[name] = h
	}
	return h, nil
}

// CounterValue returns the value of a counter, or 0 if it was never defined.
func (s *FakeStats) CounterValue(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.counters[name]; ok {
		return c.value
	}
	return 0
}

// GaugeValue returns the value of a gauge, or 0 if it was never defined.
func (s *FakeStats) GaugeValue(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.gauges[name]; ok {
		return g.value
	}
	return 0
}

// HistogramValues returns the values recorded by a histogram.
func (s *FakeStats) HistogramValues(name string) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.histograms[name]; ok {
		return append([]uint64(nil), h.values...)
	}
	return nil
}

// Reset drops every metric.
func (s *FakeStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = map[string]*fakeCounter{}
	s.gauges = map[string]*fakeGauge{}
	s.histograms = map[string]*fakeHistogram{}
}

type fakeCounter struct {
	mu    *sync.Mutex
	value uint64
}

func (c *fakeCounter) Inc() error { return c.Add(1) }

func (c *fakeCounter) Add(offset uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += offset
	return nil
}

func (c *fakeCounter) Value() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, nil
}

type fakeGauge struct {
	mu    *sync.Mutex
	value uint64
}

func (g *fakeGauge) Inc() error { return g.Add(1) }
func (g *fakeGauge) Dec() error { return g.Sub(1) }

func (g *fakeGauge) Add(offset uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value += offset
	return nil
}

// Sub saturates at zero, matching how the host gauge reads.
func (g *fakeGauge) Sub(offset uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if offset > g.value {
		g.value = 0
	} else {
		g.value -= offset
	}
	return nil
}

func (g *fakeGauge) Set(value uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
	return nil
}

func (g *fakeGauge) Value() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value, nil
}

type fakeHistogram struct {
	mu     *sync.Mutex
	values []uint64
}

func (h *fakeHistogram) Record(value uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, value)
	return nil
}

// HttpRequest is a request captured by FakeHttpClient.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type HttpRequest struct {
	Upstream string
	Headers  entities.HeaderMap
	Body     []byte
	Trailers entities.HeaderMap
	Timeout  time.Duration
	Handle   entities.HttpClientRequestHandle
}

// FakeHttpClient records requests instead of sending them.
//
//nolint:revive // keeps the naming of the proxy-wasm ABI
type FakeHttpClient struct {
	// Err, when set, is returned by SendRequest.
	Err      error
	requests []HttpRequest
	next     entities.HttpClientRequestHandle
	mu       sync.Mutex
}

var _ ports.HttpClient = (*FakeHttpClient)(nil)

func (c *FakeHttpClient) SendRequest(
	upstream string,
	headers entities.HeaderMap,
	body []byte,
	trailers entities.HeaderMap,
	timeout time.Duration,
) (entities.HttpClientRequestHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	c.next++
	c.requests = append(c.requests, HttpRequest{
		Upstream: upstream,
		Headers:  headers,
		Body:     body,
		Trailers: trailers,
		Timeout:  timeout,
		Handle:   c.next,
	})
	return c.next, nil
}

// Requests returns the requests sent so far.
func (c *FakeHttpClient) Requests() []HttpRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]HttpRequest(nil), c.requests...)
}

// FakeResponseOps serves a canned HTTP call response.
type FakeResponseOps struct {
	Headers  entities.HeaderMap
	Body     []byte
	Trailers entities.HeaderMap
}

var _ ports.HttpClientResponseOps = (*FakeResponseOps)(nil)

func (o *FakeResponseOps) HttpCallResponseHeaders() (entities.HeaderMap, error) {
	return o.Headers, nil
}

func (o *FakeResponseOps) HttpCallResponseBody(start, maxSize int) ([]byte, error) {
	if start >= len(o.Body) {
		return nil, nil
	}
	end := min(start+maxSize, len(o.Body))
	return o.Body[start:end], nil
}

func (o *FakeResponseOps) HttpCallResponseTrailers() (entities.HeaderMap, error) {
	return o.Trailers, nil
}

// FakePropertyStore keeps properties in memory, keyed by path.
type FakePropertyStore struct {
	values map[string][]byte
	mu     sync.Mutex
}

var _ ports.PropertyStore = (*FakePropertyStore)(nil)

// NewFakePropertyStore creates an empty store.
func NewFakePropertyStore() *FakePropertyStore {
	return &FakePropertyStore{values: map[string][]byte{}}
}

func propertyKey(path []string) string {
	return strings.Join(path, "\x00")
}

func (p *FakePropertyStore) Property(path []string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[propertyKey(path)]
	return v, ok, nil
}

func (p *FakePropertyStore) SetProperty(path []string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[propertyKey(path)] = value
	return nil
}

// SetString stores a string property.
func (p *FakePropertyStore) SetString(value string, path ...string) *FakePropertyStore {
	_ = p.SetProperty(path, []byte(value))
	return p
}

// SetInt64 stores an integer property in the host encoding.
func (p *FakePropertyStore) SetInt64(value int64, path ...string) *FakePropertyStore {
	_ = p.SetProperty(path, abi.EncodeInt64(value))
	return p
}

// SetUint64 stores an unsigned integer property in the host encoding.
func (p *FakePropertyStore) SetUint64(value uint64, path ...string) *FakePropertyStore {
	_ = p.SetProperty(path, abi.EncodeUint64(value))
	return p
}

// SetBool stores a boolean property in the host encoding.
func (p *FakePropertyStore) SetBool(value bool, path ...string) *FakePropertyStore {
	_ = p.SetProperty(path, abi.EncodeBool(value))
	return p
}

// SetTimestamp stores a timestamp property in the host encoding.
func (p *FakePropertyStore) SetTimestamp(value time.Time, path ...string) *FakePropertyStore {
	return p.SetInt64(value.UnixNano(), path...)
}

// SetDuration stores a duration property in the host encoding.
func (p *FakePropertyStore) SetDuration(value time.Duration, path ...string) *FakePropertyStore {
	return p.SetInt64(int64(value), path...)
}

type sharedEntry struct {
	value   []byte
	version entities.OptimisticLockVersion
}

// FakeSharedData is an in-memory key-value store with compare-and-swap.
type FakeSharedData struct {
	entries map[string]sharedEntry
	mu      sync.Mutex
}

var _ ports.SharedData = (*FakeSharedData)(nil)

// NewFakeSharedData creates an empty store.
func NewFakeSharedData() *FakeSharedData {
	return &FakeSharedData{entries: map[string]sharedEntry{}}
}

func (s *FakeSharedData) Get(key string) ([]byte, entities.OptimisticLockVersion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, 0, false, nil
	}
	return e.value, e.version, true, nil
}

// Set stores value. A non-zero version must match the stored one.
func (s *FakeSharedData) Set(key string, value []byte, version entities.OptimisticLockVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[key]
	if version != 0 && version != e.version {
		return errors.HostFunction(abi.FnSetSharedData).Call(errors.StatusCasMismatch, types.ErrorStatusCasMismatch)
	}
	s.entries[key] = sharedEntry{value: value, version: e.version + 1}
	return nil
}

type fakeQueue struct {
	vmID     string
	name     string
	messages [][]byte
}

// FakeSharedQueue is an in-memory set of message queues.
type FakeSharedQueue struct {
	// VMID is the id of the VM queues are registered by.
	VMID   string
	queues []*fakeQueue
	mu     sync.Mutex
}

var _ ports.SharedQueue = (*FakeSharedQueue)(nil)

// Register returns the handle of the queue called name, creating it if needed.
func (q *FakeSharedQueue) Register(name string) (entities.SharedQueueHandle, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if h, ok := q.lookup(q.VMID, name); ok {
		return h, nil
	}
	q.queues = append(q.queues, &fakeQueue{vmID: q.VMID, name: name})
	return entities.SharedQueueHandle(len(q.queues)), nil
}

func (q *FakeSharedQueue) Lookup(vmID, name string) (entities.SharedQueueHandle, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	h, ok := q.lookup(vmID, name)
	return h, ok, nil
}

func (q *FakeSharedQueue) lookup(vmID, name string) (entities.SharedQueueHandle, bool) {
	for i, queue := range q.queues {
		if queue.vmID == vmID && queue.name == name {
			return entities.SharedQueueHandle(i + 1), true
		}
	}
	return 0, false
}

func (q *FakeSharedQueue) queue(fn string, handle entities.SharedQueueHandle) (*fakeQueue, error) {
	if handle == 0 || int(handle) > len(q.queues) {
		return nil, errors.HostFunction(fn).Call(errors.StatusNotFound, types.ErrorStatusNotFound)
	}
	return q.queues[handle-1], nil
}

func (q *FakeSharedQueue) Enqueue(handle entities.SharedQueueHandle, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	queue, err := q.queue(abi.FnEnqueue, handle)
	if err != nil {
		return err
	}
	queue.messages = append(queue.messages, data)
	return nil
}

func (q *FakeSharedQueue) Dequeue(handle entities.SharedQueueHandle) ([]byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	queue, err := q.queue(abi.FnDequeue, handle)
	if err != nil {
		return nil, false, err
	}
	if len(queue.messages) == 0 {
		return nil, false, nil
	}
	msg := queue.messages[0]
	queue.messages = queue.messages[1:]
	return msg, true, nil
}

// Observation is an error reported to a FakeErrorSink.
type Observation struct {
	Err     error
	Context string
}

func (o Observation) String() string {
	return fmt.Sprintf("%s: %v", o.Context, o.Err)
}

// FakeErrorSink records reported errors.
type FakeErrorSink struct {
	observed []Observation
	mu       sync.Mutex
}

var _ ports.ErrorSink = (*FakeErrorSink)(nil)

func (s *FakeErrorSink) Observe(context string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed = append(s.observed, Observation{Context: context, Err: err})
}

// Observed returns the errors reported so far.
func (s *FakeErrorSink) Observed() []Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Observation(nil), s.observed...)
}
