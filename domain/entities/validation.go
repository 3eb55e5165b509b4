package entities

// ValidationResult represents the outcome of an extension module validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Valid    bool
}

// ValidationError represents a specific validation finding.
type ValidationError struct {
	Field   string
	Message string
}

// AddError records a finding that makes the result invalid.
func (r *ValidationResult) AddError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning records a finding that does not affect validity.
func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}
