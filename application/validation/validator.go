// Package validation checks inspected extension modules against the
// proxy-wasm ABI.
package validation

import (
	stdErrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
)

// RequiredExports are the entry points every extension must export.
var RequiredExports = []string{
	"proxy_on_context_create",
	"proxy_on_vm_start",
	"proxy_on_configure",
}

// allocators are the exports the host may call to allocate guest memory.
var allocators = []string{"malloc", "proxy_on_memory_allocate"}

// ReportValidator implements ports.ReportValidator.
type ReportValidator struct {
	validate *validator.Validate
}

// NewReportValidator creates a new validator.
func NewReportValidator() ports.ReportValidator {
	return &ReportValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateReport checks report with a default validator.
func ValidateReport(report *entities.ModuleReport) (*entities.ValidationResult, error) {
	return NewReportValidator().Validate(report)
}

// Validate checks that report exports the required entry points, a memory
// allocator and an ABI marker. Imports of unknown proxy_* functions are
// reported as warnings.
func (v *ReportValidator) Validate(report *entities.ModuleReport) (*entities.ValidationResult, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}
	result := &entities.ValidationResult{Valid: true}

	if err := v.validate.Struct(report); err != nil {
		var verrs validator.ValidationErrors
		if !stdErrors.As(err, &verrs) {
			return nil, fmt.Errorf("failed to validate report: %w", err)
		}
		for _, fe := range verrs {
			result.AddError(fieldName(fe), fieldMessage(fe))
		}
	}

	for _, name := range RequiredExports {
		if !report.Exported(name) {
			result.AddError("exports", fmt.Sprintf("missing required export %s", name))
		}
	}

	if !slices.ContainsFunc(allocators, report.Exported) {
		result.AddError("exports", fmt.Sprintf("missing memory allocator: export one of %s",
			strings.Join(allocators, ", ")))
	}

	if !report.ExportsMemory {
		result.AddWarning("exports", "module does not export its memory")
	}

	for _, call := range report.HostCalls() {
		if strings.HasPrefix(call, "proxy_") && !slices.Contains(entities.KnownHostCalls, call) {
			result.AddWarning("imports", fmt.Sprintf("unknown host function env.%s", call))
		}
	}

	return result, nil
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "ABIVersion":
		return "abi_version"
	case "Exports":
		return "exports"
	default:
		return strings.ToLower(fe.Field())
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "ABIVersion":
		if fe.Tag() == "required" {
			return "missing ABI version marker: export one of " + strings.Join(markers(), ", ")
		}
		return fmt.Sprintf("unsupported ABI version %v", fe.Value())
	case "Exports":
		return "module exports no functions"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func markers() []string {
	return []string{
		entities.ABIMarker(entities.ABIVersion021),
		entities.ABIMarker(entities.ABIVersion020),
		entities.ABIMarker(entities.ABIVersion010),
	}
}
