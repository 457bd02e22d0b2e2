package catalog

import (
	"log/slog"
	"sort"
	"sync"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/form"
)

// FieldType is the input type a renderer should use.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypePassword FieldType = "password"
	TypeTel      FieldType = "tel"
	TypeTextarea FieldType = "textarea"
	TypeSelect   FieldType = "select"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label Text
}

// FieldSpec describes one field of a Definition.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Label       Text
	Placeholder Text
	Required    bool
	Options     []Option

	// Validate builds the field's validator for a locale. Nil means the
	// field is never validated.
	Validate func(l Locale) form.Validator
}

// Definition is a named form.
type Definition struct {
	Name        string
	Title       Text
	Description Text
	Fields      []FieldSpec
}

// Field returns the spec of the named field.
func (d *Definition) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the field names in declaration order.
func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Validators builds the validators of every validated field for l.
func (d *Definition) Validators(l Locale) map[string]form.Validator {
	out := make(map[string]form.Validator, len(d.Fields))
	for _, f := range d.Fields {
		if f.Validate != nil {
			out[f.Name] = f.Validate(l)
		}
	}
	return out
}

// InitialValues returns an empty string for every field.
func (d *Definition) InitialValues() form.Values {
	values := make(form.Values, len(d.Fields))
	for _, f := range d.Fields {
		values[f.Name] = ""
	}
	return values
}

// MountOptions configures a form mounted from a Definition.
type MountOptions struct {
	// InitialValues are merged over the definition's empty defaults.
	InitialValues form.Values

	OnSubmit   form.SubmitFunc
	Logger     *slog.Logger
	Production bool
	Observer   form.Observer
}

// Registry maps form names to definitions.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Default returns a registry holding the built-in showcase forms.
func Default() *Registry {
	r := NewRegistry()
	for _, def := range builtins() {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds def. Names must be unique and non-empty.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return ferrors.Newf(ferrors.CategoryRuntime, "form definition has no name")
	}

	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" || seen[f.Name] {
			return ferrors.Newf(ferrors.CategoryRuntime, "form %q: field names must be unique and non-empty", def.Name)
		}
		seen[f.Name] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return ferrors.Newf(ferrors.CategoryRuntime, "form %q is already registered", def.Name)
	}
	d := def.clone()
	r.defs[def.Name] = &d
	return nil
}

// clone copies d deeply enough that later edits to the caller's fields and
// options do not reach the registry.
func (d *Definition) clone() Definition {
	out := *d
	out.Fields = make([]FieldSpec, len(d.Fields))
	for i, f := range d.Fields {
		f.Options = append([]Option(nil), f.Options...)
		out.Fields[i] = f
	}
	return out
}

// Get returns the named definition.
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, ferrors.New("F003").
			WithDetail("No form named " + name).
			WithSuggestion("Run 'noorform forms' to list the available forms")
	}
	return def, nil
}

// Names returns the registered form names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns every definition, sorted by name.
func (r *Registry) Definitions() []*Definition {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(names))
	for _, name := range names {
		if def, ok := r.defs[name]; ok {
			out = append(out, def)
		}
	}
	return out
}

// Mount creates a fresh form for the named definition with messages in l.
func (r *Registry) Mount(name string, l Locale, opts MountOptions) (*form.Form, error) {
	def, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return def.Mount(l, opts), nil
}

// Mount creates a fresh form for d with messages in l.
func (d *Definition) Mount(l Locale, opts MountOptions) *form.Form {
	initial := d.InitialValues()
	for k, v := range opts.InitialValues {
		initial[k] = v
	}
	return form.New(form.Options{
		InitialValues: initial,
		Validators:    d.Validators(l),
		OnSubmit:      opts.OnSubmit,
		Logger:        opts.Logger,
		Production:    opts.Production,
		Observer:      opts.Observer,
	})
}
