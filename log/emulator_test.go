package log_test

import (
	stdlog "log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm/types"

	"github.com/reglet-dev/envoy-sdk-go/envoytest"
	"github.com/reglet-dev/envoy-sdk-go/internal/wasmcontext"
)

func TestDefaultLogger_UnderEmulator(t *testing.T) {
	wasmcontext.Reset()
	host := envoytest.NewEmulator(t, &types.DefaultVMContext{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("default logger", "k", "v")
		stdlog.Printf("standard logger")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("logging through the default handler did not return")
	}

	assert.Equal(t, []string{"default logger k=v"}, host.GetInfoLogs())
	assert.Equal(t, os.Stderr, stdlog.Writer())
}
