package form

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// recordingObserver collects engine events.
type recordingObserver struct {
	mu          sync.Mutex
	validations []string
	outcomes    []Outcome
}

func (r *recordingObserver) FieldValidated(field string, valid bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := "ok"
	if !valid {
		state = "fail"
	}
	r.validations = append(r.validations, field+":"+state)
}

func (r *recordingObserver) Submitted(outcome Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewCopiesInitialValues(t *testing.T) {
	initial := Values{"email": "a@b.co"}
	f := New(Options{InitialValues: initial})

	initial["email"] = "changed"
	if v, _ := f.Value("email"); v != "a@b.co" {
		t.Errorf("form shares the caller's map: got %v", v)
	}

	snapshot := f.Values()
	snapshot["email"] = "mutated"
	if v, _ := f.Value("email"); v != "a@b.co" {
		t.Errorf("Values() is not a copy: got %v", v)
	}
}

func TestNewWithNilOptions(t *testing.T) {
	f := New(Options{})
	if len(f.Values()) != 0 || len(f.Errors()) != 0 || len(f.TouchedFields()) != 0 {
		t.Error("expected empty state")
	}
	if !f.Submit(context.Background()) {
		t.Error("form without validators should submit")
	}
}

func TestSetFieldValueDoesNotValidate(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": ""},
		Validators:    map[string]Validator{"email": Required("Email is required")},
	})

	f.SetFieldValue("email", "")
	f.SetFieldValue("email", "   ")
	if _, ok := f.Error("email"); ok {
		t.Error("SetFieldValue must not validate")
	}
	if v, _ := f.Value("email"); v != "   " {
		t.Errorf("value = %q", v)
	}
}

func TestSetFieldErrorAndTouchedOverwrite(t *testing.T) {
	f := New(Options{})

	f.SetFieldError("name", "first")
	f.SetFieldError("name", "second")
	if msg, _ := f.Error("name"); msg != "second" {
		t.Errorf("error = %q, want second", msg)
	}

	f.SetFieldTouched("name", true)
	f.SetFieldTouched("name", false)
	if f.Touched("name") {
		t.Error("touched should be overwritten to false")
	}
}

func TestValidateFieldWithoutValidator(t *testing.T) {
	f := New(Options{InitialValues: Values{"nickname": ""}})
	calls := 0
	f.Subscribe(func() { calls++ })

	if !f.ValidateField("nickname") {
		t.Error("field without validator should pass")
	}
	if calls != 0 {
		t.Errorf("expected no state change, got %d notifications", calls)
	}
}

func TestValidateFieldSetsAndClearsError(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"password": "12"},
		Validators:    map[string]Validator{"password": MinLength(6, "")},
	})

	if f.ValidateField("password") {
		t.Fatal("expected failure")
	}
	if msg, _ := f.Error("password"); msg != "Must be at least 6 characters" {
		t.Errorf("error = %q", msg)
	}

	f.SetFieldValue("password", "123456")
	if !f.ValidateField("password") {
		t.Fatal("expected success")
	}
	if _, ok := f.Error("password"); ok {
		t.Error("error should be cleared after passing validation")
	}
	if !f.IsValid() {
		t.Error("form should be valid")
	}
}

// Validation twice with no change yields the same state.
func TestValidateFieldIdempotent(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": "not-an-email"},
		Validators:    map[string]Validator{"email": Email("bad")},
	})

	first := f.ValidateField("email")
	errsFirst := f.Errors()
	second := f.ValidateField("email")
	errsSecond := f.Errors()

	if first != second {
		t.Errorf("results differ: %v then %v", first, second)
	}
	if diff := cmp.Diff(errsFirst, errsSecond); diff != "" {
		t.Errorf("errors differ (-first +second):\n%s", diff)
	}
}

// Fields never blurred or submitted stay untouched, whatever their validity.
func TestTouchGating(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": "", "name": ""},
		Validators: map[string]Validator{
			"email": Required(""),
			"name":  Required(""),
		},
	})

	f.SetFieldValue("email", "")
	f.Field("email").OnChange("x")

	for _, name := range []string{"email", "name"} {
		p := f.Field(name)
		if p.Touched {
			t.Errorf("%s touched without interaction", name)
		}
		if p.ShowError() {
			t.Errorf("%s shows an error without interaction", name)
		}
	}
	if len(f.State().VisibleErrors) != 0 {
		t.Errorf("visible errors = %v", f.State().VisibleErrors)
	}
}

func TestScenarioBlurRequiredEmail(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": ""},
		Validators:    map[string]Validator{"email": Required("Email is required")},
	})

	if _, ok := f.Error("email"); ok {
		t.Fatal("no error expected right after mount")
	}

	f.Field("email").OnBlur()

	if msg, _ := f.Error("email"); msg != "Email is required" {
		t.Errorf("errors.email = %q", msg)
	}
	if !f.Touched("email") {
		t.Error("touched.email should be true")
	}
}

func TestSubmitInvalidDoesNotCallOnSubmit(t *testing.T) {
	called := false
	f := New(Options{
		InitialValues: Values{"email": "a@b.co", "password": "12"},
		Validators: map[string]Validator{
			"email":    Compose(Required(""), Email("")),
			"password": MinLength(6, ""),
		},
		OnSubmit: func(ctx context.Context, values Values) error {
			called = true
			return nil
		},
		Logger: quietLogger(),
	})

	sawSubmitting := false
	f.Subscribe(func() {
		if f.IsSubmitting() {
			sawSubmitting = true
		}
	})

	if f.Submit(context.Background()) {
		t.Error("Submit should report false")
	}
	if called {
		t.Error("OnSubmit must not run when a field fails")
	}
	if sawSubmitting || f.IsSubmitting() {
		t.Error("IsSubmitting must stay false")
	}

	wantTouched := map[string]bool{"email": true, "password": true}
	if diff := cmp.Diff(wantTouched, f.TouchedFields()); diff != "" {
		t.Errorf("touched mismatch (-want +got):\n%s", diff)
	}
	wantErrors := map[string]string{"password": "Must be at least 6 characters"}
	if diff := cmp.Diff(wantErrors, f.Errors()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

// Every field's error is current after a failed attempt, not only the first.
func TestSubmitValidatesAllFields(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"a": "", "b": "", "c": "ok"},
		Validators: map[string]Validator{
			"a": Required("a required"),
			"b": Required("b required"),
			"c": Required("c required"),
		},
	})
	f.SetFieldError("c", "stale")

	f.Submit(context.Background())

	want := map[string]string{"a": "a required", "b": "b required"}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

// The written scenario expects "a@b" to be accepted, but the email pattern
// requires a dot in the domain, so the address is rejected here.
func TestSubmitScenarioUndottedEmail(t *testing.T) {
	called := false
	f := New(Options{
		InitialValues: Values{"email": "a@b", "password": "12"},
		Validators: map[string]Validator{
			"email":    Compose(Required(""), Email("")),
			"password": MinLength(6, ""),
		},
		OnSubmit: func(ctx context.Context, values Values) error {
			called = true
			return nil
		},
	})

	if f.Submit(context.Background()) || called {
		t.Fatal("OnSubmit must not run")
	}

	wantTouched := map[string]bool{"email": true, "password": true}
	if diff := cmp.Diff(wantTouched, f.TouchedFields()); diff != "" {
		t.Errorf("touched mismatch (-want +got):\n%s", diff)
	}
	wantErrors := map[string]string{
		"email":    "Please enter a valid email address",
		"password": "Must be at least 6 characters",
	}
	if diff := cmp.Diff(wantErrors, f.Errors()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

// A change made by a subscriber while Submit runs must not reach OnSubmit.
func TestSubmitPassesValidatedSnapshot(t *testing.T) {
	var (
		got Values
		f   *Form
	)
	f = New(Options{
		InitialValues: Values{"email": "a@b.co"},
		Validators: map[string]Validator{
			"email": Compose(Required(""), Email("")),
		},
		OnSubmit: func(ctx context.Context, values Values) error {
			got = values
			return nil
		},
	})

	changed := false
	f.Subscribe(func() {
		if !changed {
			changed = true
			f.SetFieldValue("email", "")
		}
	})

	if !f.Submit(context.Background()) {
		t.Fatal("Submit should report true")
	}
	if diff := cmp.Diff(Values{"email": "a@b.co"}, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if v, _ := f.Value("email"); v != "" {
		t.Errorf("later change should still be stored, got %v", v)
	}
}

func TestSubmitSuccessPath(t *testing.T) {
	var (
		calls    int
		got      Values
		duringOK bool
		f        *Form
	)
	f = New(Options{
		InitialValues: Values{"email": "layla@example.com", "password": "secret1", "note": "hi"},
		Validators: map[string]Validator{
			"email":    Compose(Required(""), Email("")),
			"password": MinLength(6, ""),
		},
		OnSubmit: func(ctx context.Context, values Values) error {
			calls++
			got = values
			duringOK = f.IsSubmitting()
			return nil
		},
	})

	var transitions []bool
	f.Subscribe(func() {
		s := f.IsSubmitting()
		if len(transitions) == 0 || transitions[len(transitions)-1] != s {
			transitions = append(transitions, s)
		}
	})

	if !f.Submit(context.Background()) {
		t.Fatal("Submit should report true")
	}
	if calls != 1 {
		t.Fatalf("OnSubmit calls = %d, want 1", calls)
	}
	if diff := cmp.Diff(f.Values(), got); diff != "" {
		t.Errorf("snapshot mismatch (-values +snapshot):\n%s", diff)
	}
	if !duringOK {
		t.Error("IsSubmitting should be true inside OnSubmit")
	}
	if f.IsSubmitting() {
		t.Error("IsSubmitting should be false after Submit")
	}
	if diff := cmp.Diff([]bool{false, true, false}, transitions); diff != "" {
		t.Errorf("submitting transitions (-want +got):\n%s", diff)
	}
}

func TestSubmitSnapshotIsIsolated(t *testing.T) {
	var snap Values
	f := New(Options{
		InitialValues: Values{"name": "Noor"},
		OnSubmit: func(ctx context.Context, values Values) error {
			snap = values
			values["name"] = "mutated"
			return nil
		},
	})
	f.Submit(context.Background())

	if v, _ := f.Value("name"); v != "Noor" {
		t.Errorf("OnSubmit mutation leaked into the form: %v", v)
	}
	if snap["name"] != "mutated" {
		t.Error("snapshot should be writable by the callee")
	}
}

func TestSubmitErrorIsSwallowedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("upstream unavailable")
	f := New(Options{
		OnSubmit: func(ctx context.Context, values Values) error { return boom },
		Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
	})

	if !f.Submit(context.Background()) {
		t.Fatal("OnSubmit should have been invoked")
	}
	if f.IsSubmitting() {
		t.Error("IsSubmitting must be reset after a failure")
	}
	if !errors.Is(f.SubmissionError(), boom) {
		t.Errorf("SubmissionError = %v", f.SubmissionError())
	}
	if !strings.Contains(buf.String(), "form submission failed") {
		t.Errorf("expected warning log, got %q", buf.String())
	}
}

func TestSubmitErrorNotLoggedInProduction(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{
		OnSubmit:   func(ctx context.Context, values Values) error { return errors.New("nope") },
		Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
		Production: true,
	})
	f.Submit(context.Background())

	if buf.Len() != 0 {
		t.Errorf("production must not log, got %q", buf.String())
	}
	if f.SubmissionError() == nil {
		t.Error("SubmissionError should still be recorded")
	}
}

func TestSubmitPanicIsRecovered(t *testing.T) {
	f := New(Options{
		OnSubmit: func(ctx context.Context, values Values) error { panic("kaboom") },
		Logger:   quietLogger(),
	})

	f.Submit(context.Background())

	if f.IsSubmitting() {
		t.Error("IsSubmitting must be reset after a panic")
	}
	err := f.SubmissionError()
	if err == nil || !strings.Contains(err.Error(), "F002") {
		t.Errorf("SubmissionError = %v", err)
	}
}

func TestSubmissionErrorClearedOnNextSubmit(t *testing.T) {
	fail := true
	f := New(Options{
		OnSubmit: func(ctx context.Context, values Values) error {
			if fail {
				return errors.New("first try fails")
			}
			return nil
		},
		Logger: quietLogger(),
	})

	f.Submit(context.Background())
	if f.SubmissionError() == nil {
		t.Fatal("expected a submission error")
	}
	fail = false
	f.Submit(context.Background())
	if f.SubmissionError() != nil {
		t.Errorf("SubmissionError = %v, want nil", f.SubmissionError())
	}
}

func TestSubmitPassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "trace-1")
	var seen any
	f := New(Options{OnSubmit: func(ctx context.Context, values Values) error {
		seen = ctx.Value(key{})
		return nil
	}})
	f.Submit(ctx)
	if seen != "trace-1" {
		t.Errorf("context value = %v", seen)
	}
}

// A field with no validator never appears in errors.
func TestUnvalidatedFieldNeverHasError(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"bio": "", "email": ""},
		Validators:    map[string]Validator{"email": Required("")},
	})

	f.Field("bio").OnBlur()
	f.Submit(context.Background())
	f.SetFieldValue("bio", strings.Repeat("x", 10000))
	f.Submit(context.Background())

	if _, ok := f.Error("bio"); ok {
		t.Error("bio should never hold an error")
	}
	if f.Touched("bio") != true {
		t.Error("blurred bio should be touched")
	}
}

func TestSubmitTouchIsOneNotification(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"a": "", "b": "", "c": ""},
		Validators: map[string]Validator{
			"a": Required(""),
			"b": Required(""),
			"c": Required(""),
		},
	})

	calls := 0
	var touchedSeen map[string]bool
	var errsSeen map[string]string
	f.Subscribe(func() {
		calls++
		touchedSeen = f.TouchedFields()
		errsSeen = f.Errors()
	})

	f.Submit(context.Background())

	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
	if len(touchedSeen) != 3 || len(errsSeen) != 3 {
		t.Errorf("observer saw partial state: touched=%v errors=%v", touchedSeen, errsSeen)
	}
}

func TestSubmitDoesNotHoldStoreDuringCallback(t *testing.T) {
	var f *Form
	f = New(Options{
		InitialValues: Values{"name": "a"},
		OnSubmit: func(ctx context.Context, values Values) error {
			f.SetFieldValue("name", "changed during submit")
			return nil
		},
	})

	done := make(chan struct{})
	go func() {
		f.Submit(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit deadlocked")
	}
	if v, _ := f.Value("name"); v != "changed during submit" {
		t.Errorf("value = %v", v)
	}
}

func TestHandleSubmitPreventsDefault(t *testing.T) {
	ev := &fakeEvent{}
	f := New(Options{})
	f.HandleSubmit(context.Background(), ev)
	if !ev.prevented {
		t.Error("PreventDefault was not called")
	}
	// A nil event is allowed.
	f.HandleSubmit(context.Background(), nil)
}

type fakeEvent struct{ prevented bool }

func (e *fakeEvent) PreventDefault() { e.prevented = true }

func TestReset(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": ""},
		Validators:    map[string]Validator{"email": Required("")},
	})
	f.SetFieldValue("email", "x")
	f.Submit(context.Background())
	f.SetFieldValue("email", "")
	f.Field("email").OnBlur()

	f.Reset()

	if v, _ := f.Value("email"); v != "" {
		t.Errorf("value = %v", v)
	}
	if len(f.Errors()) != 0 || len(f.TouchedFields()) != 0 {
		t.Errorf("reset left state: errors=%v touched=%v", f.Errors(), f.TouchedFields())
	}
}

func TestObserverEvents(t *testing.T) {
	obs := &recordingObserver{}
	f := New(Options{
		InitialValues: Values{"email": ""},
		Validators:    map[string]Validator{"email": Required("")},
		Observer:      obs,
	})

	f.Submit(context.Background())
	f.SetFieldValue("email", "x@y.z")
	f.Submit(context.Background())

	if diff := cmp.Diff([]string{"email:fail", "email:ok"}, obs.validations); diff != "" {
		t.Errorf("validations (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Outcome{OutcomeInvalid, OutcomeSuccess}, obs.outcomes); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}
}

func TestValidatedFieldsSorted(t *testing.T) {
	f := New(Options{Validators: map[string]Validator{
		"zeta":  Required(""),
		"alpha": Required(""),
		"nil":   nil,
	}})
	if diff := cmp.Diff([]string{"alpha", "zeta"}, f.ValidatedFields()); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if f.HasValidator("nil") {
		t.Error("nil validators are dropped")
	}
}

func TestState(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": "", "name": ""},
		Validators: map[string]Validator{
			"email": Required("Email is required"),
			"name":  Required("Name is required"),
		},
	})
	f.Field("email").OnBlur()
	f.ValidateField("name")

	s := f.State()
	if s.Valid {
		t.Error("state should be invalid")
	}
	want := map[string]string{"email": "Email is required"}
	if diff := cmp.Diff(want, s.VisibleErrors); diff != "" {
		t.Errorf("visible errors (-want +got):\n%s", diff)
	}
	if len(s.Errors) != 2 {
		t.Errorf("errors = %v", s.Errors)
	}
}

func TestConcurrentFieldUpdates(t *testing.T) {
	f := New(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			f.SetFieldValue(name, i)
			f.SetFieldTouched(name, true)
		}(i)
	}
	wg.Wait()

	if len(f.Values()) != 20 || len(f.TouchedFields()) != 20 {
		t.Errorf("lost updates: values=%d touched=%d", len(f.Values()), len(f.TouchedFields()))
	}
}
