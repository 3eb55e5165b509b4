package ports

import "github.com/reglet-dev/envoy-sdk-go/domain/entities"

// ReportValidator checks that an inspected module can be loaded as a
// proxy-wasm extension.
type ReportValidator interface {
	// Validate checks the report against the proxy-wasm ABI requirements.
	Validate(report *entities.ModuleReport) (*entities.ValidationResult, error)
}
