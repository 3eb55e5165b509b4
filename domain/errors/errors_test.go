package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostError(t *testing.T) {
	baseErr := fmt.Errorf("not found")
	err := HostFunction("proxy_get_property").Call(StatusNotFound, baseErr)

	assert.Equal(t, `call to host ABI function "env.proxy_get_property" failed with status code 1 (not found)`, err.Error())
	assert.True(t, errors.Is(err, baseErr))
	assert.True(t, err.NotFound())

	var hostErr *HostError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &hostErr))
	assert.Equal(t, "proxy_get_property", hostErr.Function.Name)

	detail := err.ToErrorDetail()
	assert.Equal(t, "host", detail.Type)
	assert.Equal(t, "env.proxy_get_property", detail.Code)
	assert.True(t, detail.IsNotFound)
}

func TestParseError(t *testing.T) {
	baseErr := fmt.Errorf("expected 8 bytes, got 3")
	err := HostFunction("proxy_get_property").Parse([]string{"request", "size"}, []byte{1, 2, 3}, baseErr)

	assert.Contains(t, err.Error(), `value of property "request.size"`)
	assert.Contains(t, err.Error(), "expected 8 bytes, got 3")
	assert.True(t, errors.Is(err, baseErr))

	detail := err.ToErrorDetail()
	assert.Equal(t, "parse", detail.Type)
	assert.Equal(t, "request.size", detail.Details["property"])
}

func TestParseError_NoPath(t *testing.T) {
	err := HostFunction("proxy_get_buffer_bytes").Parse(nil, nil, fmt.Errorf("bad"))
	assert.Equal(t, `value returned by host ABI function "env.proxy_get_buffer_bytes" cannot be parsed: bad`, err.Error())
}

func TestDuplicateExtensionError(t *testing.T) {
	err := &DuplicateExtensionError{Name: "my.filter"}
	assert.Equal(t, `WebAssembly module attempted to register 2 different extensions under the same root_id "my.filter"`, err.Error())
	assert.Equal(t, "duplicate_extension", err.ToErrorDetail().Code)
}

func TestUnknownExtensionError(t *testing.T) {
	err := &UnknownExtensionError{Requested: "x", Available: []string{"a", "b"}}
	assert.Equal(t, `WebAssembly module has no extension with root_id "x"; valid root_id values are: [a, b]`, err.Error())
}

func TestConfigError(t *testing.T) {
	baseErr := fmt.Errorf("must be positive")
	err := &ConfigError{Field: "timeout", Err: baseErr}

	assert.Equal(t, "config validation failed for field 'timeout': must be positive", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	noField := &ConfigError{Err: baseErr}
	assert.Equal(t, "config validation failed: must be positive", noField.Error())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "cas mismatch", StatusCasMismatch.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestToErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode string
	}{
		{
			name:     "nil",
			err:      nil,
			wantType: "",
		},
		{
			name:     "host error",
			err:      HostFunction("proxy_http_call").Call(StatusBadArgument, nil),
			wantType: "host",
			wantCode: "env.proxy_http_call",
		},
		{
			name:     "wrapped config error",
			err:      fmt.Errorf("outer: %w", &ConfigError{Field: "param", Err: fmt.Errorf("x")}),
			wantType: "config",
			wantCode: "param",
		},
		{
			name:     "module error",
			err:      &ModuleError{Module: "filter.wasm", Err: fmt.Errorf("bad magic")},
			wantType: "module",
		},
		{
			name:     "generic",
			err:      fmt.Errorf("boom"),
			wantType: "internal",
		},
		{
			name:     "error detail",
			err:      &ErrorDetail{Type: "custom", Code: "c"},
			wantType: "custom",
			wantCode: "c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := ToErrorDetail(tt.err)
			if tt.err == nil {
				assert.Nil(t, detail)
				return
			}
			require.NotNil(t, detail)
			assert.Equal(t, tt.wantType, detail.Type)
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}
}
