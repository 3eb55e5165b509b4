package wazero

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var moduleNameKey = &contextKey{name: "module_name"}

// WithModuleName adds the name of the module being inspected to the context.
// It is used in log records and errors.
func WithModuleName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, moduleNameKey, name)
}

// ModuleNameFromContext retrieves the module name from the context.
func ModuleNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(moduleNameKey).(string)
	return name, ok
}

// moduleName extracts the module name from context, falling back to fallback.
func moduleName(ctx context.Context, fallback string) string {
	if name, ok := ModuleNameFromContext(ctx); ok {
		return name
	}
	return fallback
}
