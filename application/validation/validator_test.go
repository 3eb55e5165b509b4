package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/envoy-sdk-go/application/validation"
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

func validReport() *entities.ModuleReport {
	return &entities.ModuleReport{
		Exports: []string{
			"malloc",
			"proxy_abi_version_0_2_0",
			"proxy_on_configure",
			"proxy_on_context_create",
			"proxy_on_vm_start",
		},
		Imports: []entities.FunctionImport{
			{Module: "env", Name: "proxy_log"},
			{Module: "wasi_snapshot_preview1", Name: "fd_write"},
		},
		ABIVersion:    entities.ABIVersion020,
		ExportsMemory: true,
	}
}

func messages(findings []entities.ValidationError) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Message)
	}
	return out
}

func TestReportValidator_Validate(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(r *entities.ModuleReport)
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:      "valid module",
			mutate:    func(*entities.ModuleReport) {},
			wantValid: true,
		},
		{
			name: "allocator via proxy_on_memory_allocate",
			mutate: func(r *entities.ModuleReport) {
				r.Exports[0] = "proxy_on_memory_allocate"
			},
			wantValid: true,
		},
		{
			name: "missing entry point",
			mutate: func(r *entities.ModuleReport) {
				r.Exports = []string{"malloc", "proxy_abi_version_0_2_0", "proxy_on_configure", "proxy_on_vm_start"}
			},
			wantErrors: []string{"missing required export proxy_on_context_create"},
		},
		{
			name: "missing allocator",
			mutate: func(r *entities.ModuleReport) {
				r.Exports = r.Exports[1:]
			},
			wantErrors: []string{"missing memory allocator: export one of malloc, proxy_on_memory_allocate"},
		},
		{
			name: "missing marker",
			mutate: func(r *entities.ModuleReport) {
				r.ABIVersion = entities.ABIVersionUnknown
			},
			wantErrors: []string{
				"missing ABI version marker: export one of proxy_abi_version_0_2_1, proxy_abi_version_0_2_0, proxy_abi_version_0_1_0",
			},
		},
		{
			name: "unknown host function",
			mutate: func(r *entities.ModuleReport) {
				r.Imports = append(r.Imports, entities.FunctionImport{Module: "env", Name: "proxy_teleport"})
			},
			wantValid:    true,
			wantWarnings: []string{"unknown host function env.proxy_teleport"},
		},
		{
			name: "memory not exported",
			mutate: func(r *entities.ModuleReport) {
				r.ExportsMemory = false
			},
			wantValid:    true,
			wantWarnings: []string{"module does not export its memory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validReport()
			tt.mutate(report)

			result, err := validation.ValidateReport(report)
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantErrors, messages(result.Errors))
			assert.Equal(t, tt.wantWarnings, messages(result.Warnings))
		})
	}
}

func TestReportValidator_EmptyModule(t *testing.T) {
	result, err := validation.NewReportValidator().Validate(&entities.ModuleReport{})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Contains(t, messages(result.Errors), "module exports no functions")
	assert.Len(t, result.Errors, 6)
}

func TestReportValidator_NilReport(t *testing.T) {
	_, err := validation.ValidateReport(nil)
	assert.Error(t, err)
}
