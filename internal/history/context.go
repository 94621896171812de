package history

import "context"

type sourceKey struct{}

// WithSource tags ctx with what started the operation.
func WithSource(ctx context.Context, source Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the source stored by WithSource, SourceCLI if none.
func SourceFrom(ctx context.Context) Source {
	if source, ok := ctx.Value(sourceKey{}).(Source); ok {
		return source
	}

	return SourceCLI
}
