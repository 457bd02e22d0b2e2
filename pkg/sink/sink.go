package sink

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/vango-dev/noorform/pkg/form"
)

// Submission is one successful submit of a form.
type Submission struct {
	ID         string      `json:"id"`
	Form       string      `json:"form"`
	Locale     string      `json:"locale,omitempty"`
	Values     form.Values `json:"values"`
	ReceivedAt time.Time   `json:"receivedAt"`
}

// Sink stores submissions. Implementations must be safe for concurrent use.
type Sink interface {
	Store(ctx context.Context, sub Submission) error
}

// Bind returns a SubmitFunc that stores each snapshot of formName in s.
// The locale is taken from the context, see WithLocale.
func Bind(s Sink, formName string) form.SubmitFunc {
	return func(ctx context.Context, values form.Values) error {
		return s.Store(ctx, Submission{
			ID:         newID(),
			Form:       formName,
			Locale:     LocaleFrom(ctx),
			Values:     values,
			ReceivedAt: time.Now().UTC(),
		})
	}
}

type localeKey struct{}

// WithLocale returns a copy of ctx recording the locale a form was filled in.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFrom returns the locale recorded by WithLocale, or "".
func LocaleFrom(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}

func newID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
