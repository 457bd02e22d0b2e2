package form

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/reactive"
)

// Values maps field names to their current values.
type Values map[string]any

// Clone returns a shallow copy of v. A nil map clones to an empty one.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// SubmitFunc receives a snapshot of the form values once every field is valid.
type SubmitFunc func(ctx context.Context, values Values) error

// PreventDefaulter is implemented by submit events that carry a default
// action, such as a browser form post.
type PreventDefaulter interface {
	PreventDefault()
}

// Options configures a Form.
type Options struct {
	// InitialValues seeds the form. The map is copied.
	InitialValues Values

	// Validators maps field names to their validator. Fields without an
	// entry are never validated and never hold an error.
	Validators map[string]Validator

	// OnSubmit is called with a snapshot of the values when a submit
	// attempt passes validation. A nil OnSubmit is a no-op.
	OnSubmit SubmitFunc

	// Logger receives submission failure warnings.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Production suppresses the submission failure warning.
	Production bool

	// Observer is notified of validations and submissions. Optional.
	Observer Observer
}

// Form is the state store of a single mounted form.
// It is safe for concurrent use.
type Form struct {
	initial    Values
	validators map[string]Validator
	onSubmit   SubmitFunc
	logger     *slog.Logger
	production bool
	observer   Observer

	scope      *reactive.Scope
	values     *reactive.Signal[Values]
	errors     *reactive.Signal[map[string]string]
	touched    *reactive.Signal[map[string]bool]
	submitting *reactive.Signal[bool]
	submitErr  *reactive.Signal[error]
}

// New creates a Form from opts.
func New(opts Options) *Form {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	validators := make(map[string]Validator, len(opts.Validators))
	for field, v := range opts.Validators {
		if v != nil {
			validators[field] = v
		}
	}

	scope := reactive.NewScope()
	f := &Form{
		initial:    opts.InitialValues.Clone(),
		validators: validators,
		onSubmit:   opts.OnSubmit,
		logger:     logger,
		production: opts.Production,
		observer:   opts.Observer,
		scope:      scope,
		values:     reactive.NewSignal(opts.InitialValues.Clone()).In(scope),
		errors:     reactive.NewSignal(map[string]string{}).In(scope),
		touched:    reactive.NewSignal(map[string]bool{}).In(scope),
		submitting: reactive.NewSignal(false).In(scope),
		submitErr: reactive.NewSignal[error](nil).In(scope).WithEquals(func(a, b error) bool {
			return a == nil && b == nil
		}),
	}
	return f
}

// ----------------------------------------------------------------------------
// Mutators
// ----------------------------------------------------------------------------

// SetFieldValue overwrites the value of field. It does not validate.
func (f *Form) SetFieldValue(field string, value any) {
	f.values.Update(func(m Values) Values {
		next := m.Clone()
		next[field] = value
		return next
	})
}

// SetFieldError overwrites the error message of field.
func (f *Form) SetFieldError(field string, message string) {
	f.errors.Update(func(m map[string]string) map[string]string {
		next := copyStrings(m)
		next[field] = message
		return next
	})
}

// SetFieldTouched overwrites the touched flag of field.
func (f *Form) SetFieldTouched(field string, touched bool) {
	f.touched.Update(func(m map[string]bool) map[string]bool {
		next := copyBools(m)
		next[field] = touched
		return next
	})
}

// ValidateField runs the validator registered for field against its current
// value. A field without a validator passes without side effects. On failure
// the message is stored and false is returned; on success any stored message
// is cleared.
func (f *Form) ValidateField(field string) bool {
	if _, ok := f.validators[field]; !ok {
		return true
	}
	return f.validateWith(field, f.Values())
}

// validateWith validates field against values and records the outcome.
func (f *Form) validateWith(field string, values Values) bool {
	v, ok := f.validators[field]
	if !ok {
		return true
	}

	err := v.Validate(values[field], values)

	if err != nil {
		f.SetFieldError(field, MessageOf(err))
	} else {
		f.errors.Update(func(m map[string]string) map[string]string {
			if _, exists := m[field]; !exists {
				return m
			}
			next := copyStrings(m)
			delete(next, field)
			return next
		})
	}

	if f.observer != nil {
		f.observer.FieldValidated(field, err == nil)
	}
	return err == nil
}

// HandleSubmit prevents the default action of ev, when given, and submits.
func (f *Form) HandleSubmit(ctx context.Context, ev PreventDefaulter) bool {
	if ev != nil {
		ev.PreventDefault()
	}
	return f.Submit(ctx)
}

// Submit attempts a submission. Every validator-bound field is marked
// touched and revalidated; OnSubmit runs only when all of them pass.
// Submit reports whether OnSubmit was invoked. It blocks until OnSubmit
// returns and never propagates its error.
//
// Validation and OnSubmit see the same snapshot, taken once at the start,
// so changes made while the attempt runs never reach OnSubmit unvalidated.
//
// Submit does not guard against re-entrant calls. Callers that must prevent
// double submission check IsSubmitting first.
func (f *Form) Submit(ctx context.Context) bool {
	fields := f.ValidatedFields()
	snapshot := f.Values()

	valid := true
	f.scope.Batch(func() {
		f.touched.Update(func(m map[string]bool) map[string]bool {
			next := copyBools(m)
			for _, field := range fields {
				next[field] = true
			}
			return next
		})
		for _, field := range fields {
			if !f.validateWith(field, snapshot) {
				valid = false
			}
		}
	})

	if !valid {
		if f.observer != nil {
			f.observer.Submitted(OutcomeInvalid, 0)
		}
		return false
	}

	f.run(ctx, snapshot)
	return true
}

func (f *Form) run(ctx context.Context, snapshot Values) {
	f.scope.Batch(func() {
		f.submitErr.Set(nil)
		f.submitting.Set(true)
	})
	defer f.submitting.Set(false)

	start := time.Now()
	err := f.call(ctx, snapshot.Clone())
	elapsed := time.Since(start)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
		f.submitErr.Set(err)
		if !f.production {
			f.logger.Warn("form submission failed", "error", err)
		}
	}
	if f.observer != nil {
		f.observer.Submitted(outcome, elapsed)
	}
}

// call invokes OnSubmit, turning a panic into an error.
func (f *Form) call(ctx context.Context, values Values) (err error) {
	if f.onSubmit == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = ferrors.New("F002").WithDetail(fmt.Sprintf("submit handler panicked: %v", r))
		}
	}()
	return f.onSubmit(ctx, values)
}

// Reset restores the initial values and clears errors, touched flags and
// the submission error. It does not change IsSubmitting.
func (f *Form) Reset() {
	f.scope.Batch(func() {
		f.values.Set(f.initial.Clone())
		f.errors.Set(map[string]string{})
		f.touched.Set(map[string]bool{})
		f.submitErr.Set(nil)
	})
}

// Subscribe registers fn to run after every state change. The bulk touch
// and revalidation of a submit attempt arrives as a single call.
func (f *Form) Subscribe(fn func()) (unsubscribe func()) {
	return f.scope.Subscribe(fn)
}

// ----------------------------------------------------------------------------
// Accessors
// ----------------------------------------------------------------------------

// Values returns a snapshot of the current values.
func (f *Form) Values() Values {
	return f.values.Get().Clone()
}

// Value returns the value of field and whether it has been set.
func (f *Form) Value(field string) (any, bool) {
	v, ok := f.values.Get()[field]
	return v, ok
}

// Errors returns a copy of the current error messages keyed by field.
func (f *Form) Errors() map[string]string {
	return copyStrings(f.errors.Get())
}

// Error returns the error message of field, if any.
func (f *Form) Error(field string) (string, bool) {
	msg, ok := f.errors.Get()[field]
	return msg, ok
}

// Touched reports whether field has been blurred or part of a submit attempt.
func (f *Form) Touched(field string) bool {
	return f.touched.Get()[field]
}

// TouchedFields returns a copy of the touched flags.
func (f *Form) TouchedFields() map[string]bool {
	return copyBools(f.touched.Get())
}

// IsSubmitting reports whether OnSubmit is currently running.
func (f *Form) IsSubmitting() bool {
	return f.submitting.Get()
}

// SubmissionError returns the failure of the last submission, if any.
// It is cleared when the next submission starts and by Reset.
func (f *Form) SubmissionError() error {
	return f.submitErr.Get()
}

// IsValid reports whether no field currently holds an error.
func (f *Form) IsValid() bool {
	return len(f.errors.Get()) == 0
}

// HasValidator reports whether field has a registered validator.
func (f *Form) HasValidator(field string) bool {
	_, ok := f.validators[field]
	return ok
}

// ValidatedFields returns the names of all validator-bound fields, sorted.
func (f *Form) ValidatedFields() []string {
	fields := make([]string, 0, len(f.validators))
	for field := range f.validators {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBools(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
