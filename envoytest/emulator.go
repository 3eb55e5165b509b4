package envoytest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/proxytest"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

// NewEmulator starts vm and one plugin with pluginConfig on a proxytest
// host emulator. The emulator is reset when the test ends.
//
// The emulator is process-global, so tests using it must not run in parallel.
func NewEmulator(t *testing.T, vm types.VMContext, pluginConfig []byte) proxytest.HostEmulator {
	t.Helper()

	host := StartEmulator(t, vm, pluginConfig)
	require.Equal(t, types.OnPluginStartStatusOK, host.StartPlugin(), "plugin failed to start")
	return host
}

// StartEmulator is NewEmulator without starting the plugin, for tests that
// expect the plugin start to fail.
func StartEmulator(t *testing.T, vm types.VMContext, pluginConfig []byte) proxytest.HostEmulator {
	t.Helper()

	opt := proxytest.NewEmulatorOption().
		WithVMContext(vm).
		WithPluginConfiguration(pluginConfig)
	host, reset := proxytest.NewHostEmulator(opt)
	t.Cleanup(func() {
		reset()
		wasmcontext.Reset()
	})

	require.Equal(t, types.OnVMStartStatusOK, host.StartVM(), "VM failed to start")
	return host
}
