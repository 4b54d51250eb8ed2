package context

import "context"

type operationKey struct{}

// WithOperation tags ctx with the name of the state operation being run
// (add_report, import_pdf, ...). Loggers pick it up automatically.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey{}, name)
}

// GetOperation returns the operation name or "".
func GetOperation(ctx context.Context) string {
	if v, ok := ctx.Value(operationKey{}).(string); ok {
		return v
	}
	return ""
}
