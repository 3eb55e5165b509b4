//go:build !wasip1

package envoy_test

import (
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/proxytest"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go"
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
	"github.com/reglet-dev/envoy-sdk-go/envoytest"
	"github.com/reglet-dev/envoy-sdk-go/extension"
	"github.com/reglet-dev/envoy-sdk-go/extension/accesslog"
	"github.com/reglet-dev/envoy-sdk-go/extension/httpfilter"
	"github.com/reglet-dev/envoy-sdk-go/extension/netfilter"
	"github.com/reglet-dev/envoy-sdk-go/host"
)

type tagConfig struct {
	Header string `json:"header" validate:"required"`
}

type tagFactory struct {
	extension.BaseFactory
	header string
}

func (f *tagFactory) OnConfigure(config []byte, _ extension.ConfigureOps) (entities.ConfigStatus, error) {
	var c tagConfig
	if err := envoy.ParseConfig(config, &c); err != nil {
		return entities.ConfigRejected, err
	}
	f.header = c.Header
	return entities.ConfigAccepted, nil
}

func (f *tagFactory) NewFilter(entities.InstanceID) (httpfilter.Filter, error) {
	return &tagFilter{header: f.header, client: host.DefaultHttpClient()}, nil
}

type tagFilter struct {
	httpfilter.BaseFilter
	client ports.HttpClient
	header string
}

func (f *tagFilter) OnRequestHeaders(_ int, _ bool, ops httpfilter.RequestHeadersOps) (entities.FilterHeadersStatus, error) {
	if _, ok, err := ops.RequestHeader("x-fail"); err != nil || ok {
		return entities.HeadersStopIteration, stdErrors.New("asked to fail")
	}
	if _, ok, _ := ops.RequestHeader("x-deny"); ok {
		return entities.HeadersStopIteration, ops.SendResponse(403, entities.HeaderMap{{Name: "x-denied-by", Value: "tag"}}, []byte("denied"))
	}
	if _, ok, _ := ops.RequestHeader("x-check"); ok {
		_, err := f.client.SendRequest("authz",
			entities.HeaderMap{{Name: ":method", Value: "GET"}, {Name: ":path", Value: "/check"}, {Name: ":authority", Value: "authz"}},
			nil, nil, time.Second)
		return entities.HeadersStopIteration, err
	}
	return entities.HeadersContinue, ops.SetRequestHeader(f.header, "true")
}

func (f *tagFilter) OnHttpCallResponse(
	_ entities.HttpClientRequestHandle,
	_, _, _ int,
	ops httpfilter.Ops,
	resp ports.HttpClientResponseOps,
) error {
	headers, err := resp.HttpCallResponseHeaders()
	if err != nil {
		return err
	}
	if status, _ := headers.Get(":status"); status != "200" {
		return ops.SendResponse(403, nil, nil)
	}
	if err := ops.SetRequestHeader(f.header, "checked"); err != nil {
		return err
	}
	return ops.ResumeRequest()
}

func newTagFactory(entities.InstanceID) (httpfilter.Factory, error) {
	return &tagFactory{}, nil
}

func newVM(t *testing.T, rootID string, sink *envoytest.FakeErrorSink, register envoy.RegisterFunc) types.VMContext {
	t.Helper()
	r := envoy.NewRegistrar()
	require.NoError(t, r.Register(register))
	return envoy.NewVMContext(r,
		envoy.WithErrorSink(sink),
		envoy.WithPropertyStore(envoytest.NewFakePropertyStore().SetString(rootID, "plugin_root_id")),
	)
}

func TestDispatcher_HTTPFilter(t *testing.T) {
	envoytest.RunHTTPFilterTests(t, newTagFactory, []envoytest.HTTPTestCase{
		{
			Name:           "tags request",
			Config:         []byte("header: x-tagged"),
			RequestHeaders: [][2]string{{":path", "/"}},
			Validate: func(t *testing.T, h proxytest.HostEmulator, r *envoytest.HTTPResult) {
				envoytest.AssertContinued(t, r)
				envoytest.AssertNoErrors(t, r)
				assert.Contains(t, h.GetCurrentRequestHeaders(r.ContextID), [2]string{"x-tagged", "true"})
			},
		},
		{
			Name:           "local reply",
			Config:         []byte(`{"header": "x-tagged"}`),
			RequestHeaders: [][2]string{{"x-deny", "1"}},
			Validate: func(t *testing.T, _ proxytest.HostEmulator, r *envoytest.HTTPResult) {
				envoytest.AssertLocalResponse(t, r, 403)
				envoytest.AssertNoErrors(t, r)
				assert.Equal(t, []byte("denied"), r.LocalResponse.Data)
			},
		},
		{
			Name:           "filter error replies 500",
			Config:         []byte("header: x-tagged"),
			RequestHeaders: [][2]string{{"x-fail", "1"}},
			Validate: func(t *testing.T, _ proxytest.HostEmulator, r *envoytest.HTTPResult) {
				assert.Equal(t, types.ActionPause, r.RequestHeadersAction)
				envoytest.AssertLocalResponse(t, r, 500)
				require.Len(t, r.Errors, 1)
				assert.Equal(t, "failed to handle HTTP request headers", r.Errors[0].Context)
			},
		},
	})
}

func TestDispatcher_HTTPFilterRejectsConfig(t *testing.T) {
	sink := &envoytest.FakeErrorSink{}
	vm := newVM(t, "tag", sink, func(m *envoy.Module) error {
		return m.AddHTTPFilter("tag", newTagFactory)
	})

	h := envoytest.StartEmulator(t, vm, []byte("other: 1"))
	assert.Equal(t, types.OnPluginStartStatusFailed, h.StartPlugin())

	require.Len(t, sink.Observed(), 1)
	var configErr *errors.ConfigError
	assert.True(t, stdErrors.As(sink.Observed()[0].Err, &configErr))
}

func TestDispatcher_HTTPCallout(t *testing.T) {
	sink := &envoytest.FakeErrorSink{}
	vm := newVM(t, "tag", sink, func(m *envoy.Module) error {
		return m.AddHTTPFilter("tag", newTagFactory)
	})
	h := envoytest.NewEmulator(t, vm, []byte("header: x-tagged"))

	id := h.InitializeHttpContext()
	action := h.CallOnRequestHeaders(id, [][2]string{{"x-check", "1"}}, true)
	require.Equal(t, types.ActionPause, action)

	callouts := h.GetCalloutAttributesFromContext(id)
	require.Len(t, callouts, 1)
	assert.Equal(t, "authz", callouts[0].Upstream)

	h.CallOnHttpCallResponse(callouts[0].CalloutID, [][2]string{{":status", "200"}}, nil, nil)

	assert.Equal(t, types.ActionContinue, h.GetCurrentHttpStreamAction(id))
	assert.Contains(t, h.GetCurrentRequestHeaders(id), [2]string{"x-tagged", "checked"})
	assert.Empty(t, sink.Observed())
}

type echoFactory struct {
	extension.BaseFactory
}

func (echoFactory) NewFilter(entities.InstanceID) (netfilter.Filter, error) {
	return &echoFilter{}, nil
}

type echoFilter struct {
	netfilter.BaseFilter
}

func (f *echoFilter) OnDownstreamData(size int, _ bool, ops netfilter.DownstreamDataOps) (entities.NetworkFilterStatus, error) {
	data, err := ops.DownstreamData(0, size)
	if err != nil {
		return entities.NetworkStopIteration, err
	}
	if string(data) == "boom" {
		return entities.NetworkStopIteration, stdErrors.New("bad payload")
	}
	return entities.NetworkContinue, ops.MutateDownstreamData(entities.Prepend([]byte(">")))
}

func TestDispatcher_NetworkFilter(t *testing.T) {
	sink := &envoytest.FakeErrorSink{}
	vm := newVM(t, "", sink, func(m *envoy.Module) error {
		return m.AddNetworkFilter("echo", func(entities.InstanceID) (netfilter.Factory, error) {
			return echoFactory{}, nil
		})
	})
	h := envoytest.NewEmulator(t, vm, nil)

	id, action := h.InitializeConnection()
	require.Equal(t, types.ActionContinue, action)

	assert.Equal(t, types.ActionContinue, h.CallOnDownstreamData(id, []byte("ping")))
	assert.Empty(t, sink.Observed())

	assert.Equal(t, types.ActionPause, h.CallOnDownstreamData(id, []byte("boom")))
	require.NotEmpty(t, sink.Observed())
	assert.Equal(t, "failed to handle data received from the downstream", sink.Observed()[0].Context)
}

type countingLogger struct {
	accesslog.BaseLogger
	paths []string
}

func (l *countingLogger) OnLog(ops accesslog.LogOps) error {
	headers, err := ops.RequestHeaders()
	if err != nil {
		return err
	}
	path, _ := headers.Get(":path")
	l.paths = append(l.paths, path)
	return nil
}

func TestDispatcher_AccessLogger(t *testing.T) {
	logger := &countingLogger{}
	sink := &envoytest.FakeErrorSink{}
	vm := newVM(t, "audit", sink, func(m *envoy.Module) error {
		return m.AddAccessLogger("audit", func(entities.InstanceID) (accesslog.Logger, error) {
			return logger, nil
		})
	})
	h := envoytest.NewEmulator(t, vm, nil)

	for _, path := range []string{"/a", "/b"} {
		id := h.InitializeHttpContext()
		h.CallOnRequestHeaders(id, [][2]string{{":path", path}}, true)
		h.CompleteHttpContext(id)
	}

	assert.Equal(t, []string{"/a", "/b"}, logger.paths)
	assert.Empty(t, sink.Observed())
}

func TestDispatcher_UnknownRootID(t *testing.T) {
	sink := &envoytest.FakeErrorSink{}
	vm := newVM(t, "missing", sink, func(m *envoy.Module) error {
		if err := m.AddHTTPFilter("a", newTagFactory); err != nil {
			return err
		}
		return m.AddHTTPFilter("b", newTagFactory)
	})

	h := envoytest.StartEmulator(t, vm, nil)
	assert.Equal(t, types.OnPluginStartStatusFailed, h.StartPlugin())

	require.Len(t, sink.Observed(), 1)
	var unknown *errors.UnknownExtensionError
	require.True(t, stdErrors.As(sink.Observed()[0].Err, &unknown))
	assert.Equal(t, "missing", unknown.Requested)
	assert.Equal(t, []string{"a", "b"}, unknown.Available)
}

func TestDispatcher_FactoryError(t *testing.T) {
	boom := stdErrors.New("no factory")
	sink := &envoytest.FakeErrorSink{}
	vm := newVM(t, "tag", sink, func(m *envoy.Module) error {
		return m.AddHTTPFilter("tag", func(entities.InstanceID) (httpfilter.Factory, error) {
			return nil, boom
		})
	})

	h := envoytest.StartEmulator(t, vm, nil)
	assert.Equal(t, types.OnPluginStartStatusFailed, h.StartPlugin())
	require.Len(t, sink.Observed(), 1)
	assert.ErrorIs(t, sink.Observed()[0].Err, boom)
}

func TestDispatcher_RegistrationErrorFailsVM(t *testing.T) {
	sink := &envoytest.FakeErrorSink{}
	r := envoy.NewRegistrar()
	require.NoError(t, r.Register(func(m *envoy.Module) error { return m.AddHTTPFilter("tag", newTagFactory) }))
	require.NoError(t, r.Register(func(m *envoy.Module) error { return m.AddHTTPFilter("tag", newTagFactory) }))

	vm := envoy.NewVMContext(r, envoy.WithErrorSink(sink))

	opt := proxytest.NewEmulatorOption().WithVMContext(vm)
	h, reset := proxytest.NewHostEmulator(opt)
	defer reset()

	assert.Equal(t, types.OnVMStartStatusFailed, h.StartVM())
	require.Len(t, sink.Observed(), 1)
	var dup *errors.DuplicateExtensionError
	assert.True(t, stdErrors.As(sink.Observed()[0].Err, &dup))
}

func TestDispatcher_VMStartHook(t *testing.T) {
	var got []byte
	r := envoy.NewRegistrar()
	vm := envoy.NewVMContext(r, envoy.WithVMStartHook(func(config []byte) error {
		got = config
		return nil
	}))

	opt := proxytest.NewEmulatorOption().WithVMContext(vm).WithVMConfiguration([]byte("vm-config"))
	h, reset := proxytest.NewHostEmulator(opt)
	defer reset()

	assert.Equal(t, types.OnVMStartStatusOK, h.StartVM())
	assert.Equal(t, []byte("vm-config"), got)
}
