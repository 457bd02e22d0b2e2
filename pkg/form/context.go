package form

import (
	"context"

	ferrors "github.com/vango-dev/noorform/internal/errors"
)

type contextKey struct{}

// WithForm returns a copy of ctx carrying f.
func WithForm(ctx context.Context, f *Form) context.Context {
	return context.WithValue(ctx, contextKey{}, f)
}

// FromContext returns the Form carried by ctx, if any.
func FromContext(ctx context.Context) (*Form, bool) {
	if ctx == nil {
		return nil, false
	}
	f, ok := ctx.Value(contextKey{}).(*Form)
	return f, ok && f != nil
}

// MustFromContext returns the Form carried by ctx.
// Using a field outside a mounted form is a programming error, so it panics
// with an *errors.Error coded F001.
func MustFromContext(ctx context.Context) *Form {
	f, ok := FromContext(ctx)
	if !ok {
		panic(ferrors.New("F001").
			WithSuggestion("Wrap the context with form.WithForm before binding fields"))
	}
	return f
}

// RenderField binds name on the Form carried by ctx and passes the field to
// render. It panics like MustFromContext when ctx carries no Form.
func RenderField[R any](ctx context.Context, name string, render func(FieldProps) R) R {
	return render(MustFromContext(ctx).Field(name))
}
