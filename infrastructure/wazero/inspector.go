package wazero

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
)

// DefaultMaxModuleSize is the largest module Inspect accepts by default.
const DefaultMaxModuleSize = 64 << 20

// InspectorConfig holds configuration for the inspector.
type InspectorConfig struct {
	// MaxModuleSize limits the size of the module binary.
	// Default is 64MB.
	MaxModuleSize int

	// MemoryLimitPages caps the linear memory a module may declare, in
	// 64KiB pages. Zero keeps the wazero default.
	MemoryLimitPages uint32

	// Logger receives inspection records. Default is slog.Default().
	Logger *slog.Logger
}

// InspectorOption configures the inspector.
type InspectorOption func(*InspectorConfig)

// WithMaxModuleSize sets the maximum module size.
func WithMaxModuleSize(size int) InspectorOption {
	return func(c *InspectorConfig) {
		c.MaxModuleSize = size
	}
}

// WithLogger sets the logger used for inspection records.
func WithLogger(logger *slog.Logger) InspectorOption {
	return func(c *InspectorConfig) {
		c.Logger = logger
	}
}

// WithMemoryLimitPages sets the memory limit used when compiling.
func WithMemoryLimitPages(pages uint32) InspectorOption {
	return func(c *InspectorConfig) {
		c.MemoryLimitPages = pages
	}
}

func defaultInspectorConfig() InspectorConfig {
	return InspectorConfig{
		MaxModuleSize: DefaultMaxModuleSize,
	}
}

// Inspector reports the proxy-wasm surface of extension modules.
type Inspector struct {
	cfg InspectorConfig
}

// NewInspector creates an inspector.
func NewInspector(opts ...InspectorOption) *Inspector {
	cfg := defaultInspectorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Inspector{cfg: cfg}
}

// Inspect compiles wasm with the default inspector and reports its surface.
func Inspect(ctx context.Context, wasm []byte) (*entities.ModuleReport, error) {
	return NewInspector().Inspect(ctx, wasm)
}

// Inspect compiles wasm and reports its exports, imports and ABI version.
// The module is never instantiated.
func (i *Inspector) Inspect(ctx context.Context, wasm []byte) (*entities.ModuleReport, error) {
	name := moduleName(ctx, "")
	if len(wasm) > i.cfg.MaxModuleSize {
		return nil, &errors.ModuleError{
			Module: name,
			Err:    fmt.Errorf("module size %d exceeds maximum %d bytes", len(wasm), i.cfg.MaxModuleSize),
		}
	}

	rc := wazero.NewRuntimeConfig()
	if i.cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(i.cfg.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, rc)
	defer func() {
		if err := runtime.Close(ctx); err != nil {
			i.cfg.Logger.WarnContext(ctx, "wazero: failed to close runtime", "error", err)
		}
	}()

	compiled, err := runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, &errors.ModuleError{Module: name, Err: err}
	}

	report := &entities.ModuleReport{}
	for export := range compiled.ExportedFunctions() {
		report.Exports = append(report.Exports, export)
	}
	sort.Strings(report.Exports)

	for _, def := range compiled.ImportedFunctions() {
		module, fn, _ := def.Import()
		report.Imports = append(report.Imports, entities.FunctionImport{Module: module, Name: fn})
	}

	report.ExportsMemory = len(compiled.ExportedMemories()) > 0
	report.ABIVersion = report.DetectABIVersion()

	i.cfg.Logger.DebugContext(ctx, "wazero: inspected module",
		"module", name,
		"exports", len(report.Exports),
		"imports", len(report.Imports),
		"abi_version", string(report.ABIVersion))

	return report, nil
}
