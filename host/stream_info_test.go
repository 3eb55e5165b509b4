package host

import (
	stdErrors "errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/internal/abi"
)

type fakeProperties struct {
	values map[string][]byte
	err    error
}

func (f *fakeProperties) Property(path []string) ([]byte, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	v, ok := f.values[strings.Join(path, ".")]
	return v, ok, nil
}

func (f *fakeProperties) SetProperty(path []string, value []byte) error {
	if f.values == nil {
		f.values = map[string][]byte{}
	}
	f.values[strings.Join(path, ".")] = value
	return nil
}

func TestStreamInfo_Request(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	info := NewStreamInfo(&fakeProperties{values: map[string][]byte{
		"request.headers.x-tenant": []byte("acme"),
		"request.id":               []byte("req-1"),
		"request.time":             abi.EncodeInt64(start.UnixNano()),
		"request.duration":         abi.EncodeInt64(int64(250 * time.Millisecond)),
		"request.size":             abi.EncodeInt64(42),
		"request.method":           []byte("POST"),
		"request.url_path":         []byte("/api"),
	}})
	req := info.Request()

	tenant, ok, err := req.Header("x-tenant")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acme", tenant)

	id, _, err := req.ID()
	require.NoError(t, err)
	assert.Equal(t, "req-1", id)

	ts, ok, err := req.Time()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, start.Equal(ts))

	d, _, err := req.Duration()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	size, _, err := req.Size()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), size)

	method, _, err := req.Method()
	require.NoError(t, err)
	assert.Equal(t, "POST", method)

	_, ok, err = req.Scheme()
	require.NoError(t, err)
	assert.False(t, ok, "missing property reads as not found")
}

func TestStreamInfo_Response(t *testing.T) {
	info := NewStreamInfo(&fakeProperties{values: map[string][]byte{
		"response.code":        abi.EncodeInt64(503),
		"response.flags":       abi.EncodeInt64(int64(entities.NoHealthyUpstream)),
		"response.grpc_status": abi.EncodeInt64(14),
	}})
	resp := info.Response()

	code, ok, err := resp.Code()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(503), code)

	flags, _, err := resp.Flags()
	require.NoError(t, err)
	assert.True(t, flags.Has(entities.NoHealthyUpstream))

	grpc, _, err := resp.GrpcStatus()
	require.NoError(t, err)
	assert.Equal(t, int32(14), grpc)
}

func TestStreamInfo_ConnectionAndPeers(t *testing.T) {
	info := NewStreamInfo(&fakeProperties{values: map[string][]byte{
		"connection_id":                    abi.EncodeUint64(math.MaxUint64),
		"connection.mtls":                  abi.EncodeBool(true),
		"connection.requested_server_name": []byte("example.com"),
		"upstream.port":                    abi.EncodeInt64(8443),
		"source.address":                   []byte("10.0.0.1:5000"),
		"destination.port":                 abi.EncodeInt64(80),
		"listener_direction":               abi.EncodeInt64(int64(entities.TrafficDirectionInbound)),
		"cluster_name":                     []byte("backend"),
		"route_name":                       []byte("default"),
		"plugin_root_id":                   []byte("my_filter"),
	}})

	id, _, err := info.Connection().ID()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), id)

	mtls, _, err := info.Connection().MTLS()
	require.NoError(t, err)
	assert.True(t, mtls)

	sni, _, err := info.Connection().RequestedServerName()
	require.NoError(t, err)
	assert.Equal(t, "example.com", sni)

	port, _, err := info.Upstream().Port()
	require.NoError(t, err)
	assert.Equal(t, uint32(8443), port)

	addr, _, err := info.Source().Address()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:5000", addr)

	dport, _, err := info.Destination().Port()
	require.NoError(t, err)
	assert.Equal(t, uint32(80), dport)

	dir, _, err := info.Listener().TrafficDirection()
	require.NoError(t, err)
	assert.Equal(t, entities.TrafficDirectionInbound, dir)

	cluster, _, err := info.Cluster().Name()
	require.NoError(t, err)
	assert.Equal(t, "backend", cluster)

	route, _, err := info.Route().Name()
	require.NoError(t, err)
	assert.Equal(t, "default", route)

	rootID, _, err := info.Plugin().RootID()
	require.NoError(t, err)
	assert.Equal(t, "my_filter", rootID)
}

func TestStreamInfo_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value []byte
		read  func(*StreamInfo) error
	}{
		{
			name:  "short integer",
			key:   "response.code",
			value: []byte{1, 2},
			read:  func(s *StreamInfo) error { _, _, err := s.Response().Code(); return err },
		},
		{
			name:  "code out of range",
			key:   "response.code",
			value: abi.EncodeInt64(70000),
			read:  func(s *StreamInfo) error { _, _, err := s.Response().Code(); return err },
		},
		{
			name:  "negative size",
			key:   "request.size",
			value: abi.EncodeInt64(-1),
			read:  func(s *StreamInfo) error { _, _, err := s.Request().Size(); return err },
		},
		{
			name:  "invalid utf-8",
			key:   "cluster_name",
			value: []byte{0xff, 0xfe},
			read:  func(s *StreamInfo) error { _, _, err := s.Cluster().Name(); return err },
		},
		{
			name:  "truncated header map",
			key:   "request.headers",
			value: []byte{2, 0, 0, 0, 1, 0},
			read:  func(s *StreamInfo) error { _, err := s.Request().Headers(); return err },
		},
		{
			name:  "bool of wrong length",
			key:   "connection.mtls",
			value: []byte{1, 1},
			read:  func(s *StreamInfo) error { _, _, err := s.Connection().MTLS(); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewStreamInfo(&fakeProperties{values: map[string][]byte{tt.key: tt.value}})
			err := tt.read(info)
			require.Error(t, err)

			var parseErr *errors.ParseError
			assert.True(t, stdErrors.As(err, &parseErr))
		})
	}
}

func TestStreamInfo_Headers(t *testing.T) {
	headers := entities.NewHeaderMap(
		[2]string{":method", "GET"},
		[2]string{"x-tenant", "acme"},
		[2]string{"x-tenant", "globex"},
	)
	info := NewStreamInfo(&fakeProperties{values: map[string][]byte{
		"request.headers":          abi.EncodeMap(headers),
		"request.headers.x-binary": {0xff, 0xfe},
	}})

	got, err := info.Request().Headers()
	require.NoError(t, err)
	assert.Equal(t, headers, got)
	assert.Equal(t, []string{"acme", "globex"}, got.Values("x-tenant"))

	raw, ok, err := info.Request().Header("x-binary")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, string([]byte{0xff, 0xfe}), raw)

	trailers, err := info.Response().Trailers()
	require.NoError(t, err)
	assert.Empty(t, trailers)
}

func TestStreamInfo_StoreError(t *testing.T) {
	boom := stdErrors.New("boom")
	info := NewStreamInfo(&fakeProperties{err: boom})

	_, ok, err := info.Plugin().Name()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestStreamInfo_SetProperty(t *testing.T) {
	props := &fakeProperties{}
	info := NewStreamInfo(props)

	require.NoError(t, info.SetProperty([]string{"filter_state", "tenant"}, []byte("acme")))

	v, ok, err := info.Property("filter_state", "tenant")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("acme"), v)
}
