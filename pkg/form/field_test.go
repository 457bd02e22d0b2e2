package form

import (
	"context"
	"strings"
	"testing"

	ferrors "github.com/vango-dev/noorform/internal/errors"
)

func TestFieldProjection(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": "x", "count": 0, "agree": false, "empty": nil},
		Validators:    map[string]Validator{"email": Email("bad email")},
	})

	p := f.Field("email")
	if p.Name != "email" || p.Value != "x" {
		t.Errorf("props = %+v", p)
	}
	if p.HasError || p.Touched || p.ShowError() {
		t.Error("fresh field should have no visible state")
	}

	if got := f.Field("missing").Value; got != "" {
		t.Errorf("unset value = %#v, want \"\"", got)
	}
	if got := f.Field("empty").Value; got != "" {
		t.Errorf("nil value = %#v, want \"\"", got)
	}
	if got := f.Field("count").Value; got != 0 {
		t.Errorf("zero value = %#v, want 0", got)
	}
	if got := f.Field("agree").Value; got != false {
		t.Errorf("false value = %#v, want false", got)
	}
	if got := f.Field("count").StringValue(); got != "0" {
		t.Errorf("StringValue = %q", got)
	}
}

func TestFieldOnChangeThenBlur(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": ""},
		Validators:    map[string]Validator{"email": Email("bad email")},
	})

	p := f.Field("email")
	p.OnChange("not-an-email")
	if _, ok := f.Error("email"); ok {
		t.Fatal("change must not validate")
	}

	p.OnBlur()
	p = f.Field("email")
	if !p.ShowError() || p.Error != "bad email" {
		t.Errorf("props after blur = %+v", p)
	}
}

// Callbacks from an earlier projection still act on the live form.
func TestFieldCallbacksAreLive(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"password": "", "confirm": ""},
		Validators:    map[string]Validator{"confirm": MatchField("password", "")},
	})
	confirm := f.Field("confirm")

	f.SetFieldValue("password", "abc")
	confirm.OnBlur()
	if msg, _ := f.Error("confirm"); msg != "Fields do not match" {
		t.Errorf("error = %q", msg)
	}

	confirm.OnChange("abc")
	confirm.OnBlur()
	if _, ok := f.Error("confirm"); ok {
		t.Error("matching values should clear the error")
	}
}

func TestFieldBlurWithoutValidator(t *testing.T) {
	f := New(Options{})
	f.Field("note").OnBlur()
	if !f.Touched("note") {
		t.Error("blur should mark touched")
	}
	if len(f.Errors()) != 0 {
		t.Errorf("errors = %v", f.Errors())
	}
}

func TestContextRoundTrip(t *testing.T) {
	f := New(Options{})
	ctx := WithForm(context.Background(), f)

	got, ok := FromContext(ctx)
	if !ok || got != f {
		t.Fatal("form not found in context")
	}
	if MustFromContext(ctx) != f {
		t.Error("MustFromContext returned a different form")
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context should not carry a form")
	}
	if _, ok := FromContext(nil); ok {
		t.Error("nil context should not carry a form")
	}
}

func TestMustFromContextPanicsOutsideForm(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(*ferrors.Error)
		if !ok {
			t.Fatalf("panic value = %T, want *errors.Error", r)
		}
		if err.Code != "F001" {
			t.Errorf("code = %s", err.Code)
		}
		if !strings.Contains(err.Message, "within a Form") {
			t.Errorf("message = %q", err.Message)
		}
	}()
	MustFromContext(context.Background())
}

func TestRenderField(t *testing.T) {
	f := New(Options{InitialValues: Values{"name": "Noor"}})
	ctx := WithForm(context.Background(), f)

	out := RenderField(ctx, "name", func(p FieldProps) string {
		return p.Name + "=" + p.StringValue()
	})
	if out != "name=Noor" {
		t.Errorf("rendered %q", out)
	}
}
