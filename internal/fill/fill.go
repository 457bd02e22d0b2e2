// Package fill drives a form from the terminal, one field at a time.
package fill

import (
	"context"
	"fmt"

	"github.com/vango-dev/noorform/internal/prompt"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
)

// DefaultAttempts is how many times a field is asked before moving on.
const DefaultAttempts = 3

// Filler asks for every field of a definition and submits the form.
type Filler struct {
	Driver   prompt.Driver
	Locale   catalog.Locale
	Attempts int
}

// Run prompts for each field of def in order and submits f.
// Each answer is applied the way a browser would: change, then blur.
// A field whose error becomes visible is asked again.
func (r *Filler) Run(ctx context.Context, def *catalog.Definition, f *form.Form) (bool, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	if err := r.Driver.Info(ctx, def.Title.In(r.Locale)); err != nil {
		return false, err
	}

	for _, spec := range def.Fields {
		for i := 0; i < attempts; i++ {
			value, err := r.ask(ctx, spec, f.Field(spec.Name).StringValue())
			if err != nil {
				return false, err
			}
			props := f.Field(spec.Name)
			props.OnChange(value)
			props.OnBlur()

			props = f.Field(spec.Name)
			if !props.ShowError() {
				break
			}
			if err := r.Driver.Info(ctx, "  ✗ "+props.Error); err != nil {
				return false, err
			}
		}
	}

	accepted := f.Submit(ctx)
	if !accepted {
		for _, spec := range def.Fields {
			if props := f.Field(spec.Name); props.ShowError() {
				msg := fmt.Sprintf("  %s: %s", spec.Label.In(r.Locale), props.Error)
				if err := r.Driver.Info(ctx, msg); err != nil {
					return false, err
				}
			}
		}
	}
	return accepted, nil
}

func (r *Filler) ask(ctx context.Context, spec catalog.FieldSpec, current string) (string, error) {
	message := spec.Label.In(r.Locale)
	if spec.Required {
		message += " *"
	}
	cfg := prompt.InputConfig{
		Message: message,
		Default: current,
		Help:    spec.Placeholder.In(r.Locale),
	}

	switch spec.Type {
	case catalog.TypePassword:
		return r.Driver.Password(ctx, cfg)
	case catalog.TypeTextarea:
		return r.Driver.TextArea(ctx, cfg)
	case catalog.TypeSelect:
		return r.choose(ctx, spec, cfg, current)
	default:
		return r.Driver.Input(ctx, cfg)
	}
}

func (r *Filler) choose(ctx context.Context, spec catalog.FieldSpec, cfg prompt.InputConfig, current string) (string, error) {
	labels := make([]string, len(spec.Options))
	defaultIndex := -1
	for i, opt := range spec.Options {
		labels[i] = opt.Label.In(r.Locale)
		if opt.Value == current {
			defaultIndex = i
		}
	}
	idx, err := r.Driver.Select(ctx, prompt.SelectConfig{
		Message:      cfg.Message,
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         cfg.Help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(spec.Options) {
		return "", nil
	}
	return spec.Options[idx].Value, nil
}
