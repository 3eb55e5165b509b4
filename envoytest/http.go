package envoytest

import (
	"testing"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/proxytest"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go"
	"github.com/reglet-dev/envoy-sdk-go/extension"
)

// HTTPTestCase drives one HTTP stream through a filter.
type HTTPTestCase struct {
	// Validate inspects the outcome of the stream.
	Validate func(t *testing.T, host proxytest.HostEmulator, r *HTTPResult)

	Name string
	// Config is the plugin configuration.
	Config []byte

	RequestHeaders  [][2]string
	RequestBody     []byte
	ResponseHeaders [][2]string
	ResponseBody    []byte
}

// HTTPResult is the outcome of an HTTP test case.
type HTTPResult struct {
	// LocalResponse is the direct reply sent by the filter, if any.
	LocalResponse *proxytest.LocalHttpResponse
	// Errors are the errors the filter reported.
	Errors []Observation

	ContextID uint32

	RequestHeadersAction  types.Action
	RequestBodyAction     types.Action
	ResponseHeadersAction types.Action
	ResponseBodyAction    types.Action
}

// RunHTTPFilterTests runs each test case against a fresh instance of the
// filter created by newFactory. Stages without input are skipped, and the
// response side only runs if the request was not answered locally.
func RunHTTPFilterTests(t *testing.T, newFactory envoy.NewHTTPFilterFunc, tests []HTTPTestCase) {
	t.Helper()

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			const name = "filter_under_test"

			r := envoy.NewRegistrar()
			if err := r.Register(func(m *envoy.Module) error {
				return m.AddHTTPFilter(name, newFactory)
			}); err != nil {
				t.Fatalf("failed to register filter: %v", err)
			}

			sink := &FakeErrorSink{}
			vm := envoy.NewVMContext(r,
				envoy.WithPropertyStore(NewFakePropertyStore().SetString(name, "plugin_root_id")),
				envoy.WithExtensionOptions(extension.WithErrorSink(sink)),
			)
			host := NewEmulator(t, vm, tc.Config)

			res := &HTTPResult{ContextID: host.InitializeHttpContext()}
			id := res.ContextID

			res.RequestHeadersAction = host.CallOnRequestHeaders(id, tc.RequestHeaders, tc.RequestBody == nil)
			if tc.RequestBody != nil {
				res.RequestBodyAction = host.CallOnRequestBody(id, tc.RequestBody, true)
			}

			res.LocalResponse = host.GetSentLocalResponse(id)
			if res.LocalResponse == nil && tc.ResponseHeaders != nil {
				res.ResponseHeadersAction = host.CallOnResponseHeaders(id, tc.ResponseHeaders, tc.ResponseBody == nil)
				if tc.ResponseBody != nil {
					res.ResponseBodyAction = host.CallOnResponseBody(id, tc.ResponseBody, true)
				}
				res.LocalResponse = host.GetSentLocalResponse(id)
			}

			host.CompleteHttpContext(id)
			res.Errors = sink.Observed()

			if tc.Validate != nil {
				tc.Validate(t, host, res)
			}
		})
	}
}

// AssertContinued asserts that the request headers were passed on and no
// local reply was sent.
func AssertContinued(t *testing.T, r *HTTPResult) {
	t.Helper()
	if r.RequestHeadersAction != types.ActionContinue {
		t.Errorf("expected request headers to continue, got %v", r.RequestHeadersAction)
	}
	if r.LocalResponse != nil {
		t.Errorf("expected no local response, got status %d", r.LocalResponse.StatusCode)
	}
}

// AssertLocalResponse asserts that the filter replied with status.
func AssertLocalResponse(t *testing.T, r *HTTPResult, status uint32) {
	t.Helper()
	if r.LocalResponse == nil {
		t.Errorf("expected local response with status %d, got none", status)
		return
	}
	if r.LocalResponse.StatusCode != status {
		t.Errorf("expected local response status %d, got %d", status, r.LocalResponse.StatusCode)
	}
}

// AssertNoErrors asserts that the filter reported no errors.
func AssertNoErrors(t *testing.T, r *HTTPResult) {
	t.Helper()
	for _, o := range r.Errors {
		t.Errorf("unexpected error: %s", o)
	}
}
