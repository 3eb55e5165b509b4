// Package errors provides domain-specific error types for the SDK.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail. New error types only need to implement this
// interface without modifying ToErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// Status is a proxy-wasm ABI status code.
type Status uint32

const (
	StatusOK                   Status = 0
	StatusNotFound             Status = 1
	StatusBadArgument          Status = 2
	StatusSerializationFailure Status = 3
	StatusParseFailure         Status = 4
	StatusBadExpression        Status = 5
	StatusInvalidMemoryAccess  Status = 6
	StatusEmpty                Status = 7
	StatusCasMismatch          Status = 8
	StatusResultMismatch       Status = 9
	StatusInternalFailure      Status = 10
	StatusBrokenConnection     Status = 11
	StatusUnimplemented        Status = 12

	// StatusUnknown is used when the binding reported a failure without a status.
	StatusUnknown Status = 0xFFFFFFFF
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusBadArgument:
		return "bad argument"
	case StatusSerializationFailure:
		return "serialization failure"
	case StatusParseFailure:
		return "parse failure"
	case StatusBadExpression:
		return "bad expression"
	case StatusInvalidMemoryAccess:
		return "invalid memory access"
	case StatusEmpty:
		return "empty"
	case StatusCasMismatch:
		return "cas mismatch"
	case StatusResultMismatch:
		return "result mismatch"
	case StatusInternalFailure:
		return "internal failure"
	case StatusBrokenConnection:
		return "broken connection"
	case StatusUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Function names a host ABI function, e.g. env.proxy_get_property.
type Function struct {
	Module string
	Name   string
}

// HostFunction returns the Function for a hostcall of the "env" module.
func HostFunction(name string) Function {
	return Function{Module: "env", Name: name}
}

func (f Function) String() string {
	return f.Module + "." + f.Name
}

// Call wraps a failure returned by this function.
func (f Function) Call(status Status, err error) *HostError {
	return &HostError{Function: f, Status: status, Err: err}
}

// Parse wraps a value returned by this function that could not be decoded.
func (f Function) Parse(path []string, value []byte, err error) *ParseError {
	return &ParseError{Function: f, Path: path, Value: value, Err: err}
}

// HostError represents a failed call to a host ABI function.
type HostError struct {
	Err      error
	Function Function
	Status   Status
}

func (e *HostError) Error() string {
	return fmt.Sprintf("call to host ABI function %q failed with status code %d (%s)",
		e.Function.String(), uint32(e.Status), e.Status)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the host answered with a not found status.
func (e *HostError) NotFound() bool {
	return e.Status == StatusNotFound
}

// ToErrorDetail implements DetailedError.
func (e *HostError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "host",
		Code:       e.Function.String(),
		IsNotFound: e.NotFound(),
	}
}

// ParseError represents a host value that could not be decoded.
type ParseError struct {
	Err      error
	Function Function
	Path     []string
	Value    []byte
}

func (e *ParseError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("value of property %q returned by host ABI function %q cannot be parsed: %v (raw: %q)",
			strings.Join(e.Path, "."), e.Function.String(), e.Err, e.Value)
	}
	return fmt.Sprintf("value returned by host ABI function %q cannot be parsed: %v", e.Function.String(), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ParseError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "parse", Code: e.Function.String()}
	if len(e.Path) > 0 {
		detail.Details = map[string]any{"property": strings.Join(e.Path, ".")}
	}
	return detail
}

// DuplicateExtensionError is returned when two extensions are registered
// under the same root id.
type DuplicateExtensionError struct {
	Name string
}

func (e *DuplicateExtensionError) Error() string {
	return fmt.Sprintf("WebAssembly module attempted to register 2 different extensions under the same root_id %q", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *DuplicateExtensionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "module", Code: "duplicate_extension"}
}

// UnknownExtensionError is returned when the host asks for a root id that
// no registered extension answers to.
type UnknownExtensionError struct {
	Requested string
	Available []string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("WebAssembly module has no extension with root_id %q; valid root_id values are: [%s]",
		e.Requested, strings.Join(e.Available, ", "))
}

// ToErrorDetail implements DetailedError.
func (e *UnknownExtensionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "module",
		Code:    "unknown_extension",
		Details: map[string]any{"requested": e.Requested, "available": e.Available},
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// SchemaError represents a schema generation error.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "schema"}
}

// ModuleError reports a WebAssembly module that could not be inspected.
type ModuleError struct {
	Err    error
	Module string
}

func (e *ModuleError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("invalid module %s: %v", e.Module, e.Err)
	}
	return fmt.Sprintf("invalid module: %v", e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ModuleError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "module"}
}
