// Package wireformat defines the documents written by envoy-sdk-inspect.
// CI pipelines consume them, so these types must remain stable and
// backward compatible.
package wireformat

import (
	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
)

// ReportVersion is the version of the report document layout.
const ReportVersion = "1"

// ErrorDetail provides structured error information, consistent across the
// SDK and its tools.
type ErrorDetail = entities.ErrorDetail

// ReportWire is the inspection report of one extension module.
type ReportWire struct {
	Error         *ErrorDetail  `json:"error,omitempty" yaml:"error,omitempty"`
	Version       string        `json:"version" yaml:"version"`
	Module        string        `json:"module" yaml:"module"`
	ABIVersion    string        `json:"abi_version,omitempty" yaml:"abi_version,omitempty"`
	Exports       []string      `json:"exports,omitempty" yaml:"exports,omitempty"`
	HostCalls     []string      `json:"host_calls,omitempty" yaml:"host_calls,omitempty"`
	Imports       []ImportWire  `json:"imports,omitempty" yaml:"imports,omitempty"`
	Errors        []FindingWire `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings      []FindingWire `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Size          int           `json:"size" yaml:"size"`
	ExportsMemory bool          `json:"exports_memory" yaml:"exports_memory"`
	Valid         bool          `json:"valid" yaml:"valid"`
}

// ImportWire is a function imported by the module.
type ImportWire struct {
	Module string `json:"module" yaml:"module"`
	Name   string `json:"name" yaml:"name"`
}

// FindingWire is a validation error or warning.
type FindingWire struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// NewReportWire converts an inspection report and its validation result.
// result may be nil if the module was not validated.
func NewReportWire(module string, size int, report *entities.ModuleReport, result *entities.ValidationResult) *ReportWire {
	w := &ReportWire{
		Version: ReportVersion,
		Module:  module,
		Size:    size,
		Valid:   true,
	}
	if report != nil {
		w.ABIVersion = string(report.ABIVersion)
		w.Exports = report.Exports
		w.HostCalls = report.HostCalls()
		w.ExportsMemory = report.ExportsMemory
		for _, imp := range report.Imports {
			w.Imports = append(w.Imports, ImportWire{Module: imp.Module, Name: imp.Name})
		}
	}
	if result != nil {
		w.Valid = result.Valid
		w.Errors = findings(result.Errors)
		w.Warnings = findings(result.Warnings)
	}
	return w
}

// NewErrorReportWire describes a module that could not be inspected.
func NewErrorReportWire(module string, size int, err error) *ReportWire {
	return &ReportWire{
		Version: ReportVersion,
		Module:  module,
		Size:    size,
		Error:   errors.ToErrorDetail(err),
	}
}

func findings(in []entities.ValidationError) []FindingWire {
	var out []FindingWire
	for _, f := range in {
		out = append(out, FindingWire{Field: f.Field, Message: f.Message})
	}
	return out
}
