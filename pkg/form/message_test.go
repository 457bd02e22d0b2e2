package form

import (
	"strings"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		errMsg, fallback string
		want             string
		ok               bool
	}{
		{"Email is required", "hint", "Email is required", true},
		{"", "hint", "hint", true},
		{"", "", "", false},
	}
	for _, tt := range tests {
		got, ok := Message(tt.errMsg, tt.fallback)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Message(%q, %q) = %q, %v", tt.errMsg, tt.fallback, got, ok)
		}
	}
}

func TestMessageHTML(t *testing.T) {
	got := string(MessageHTML("Email is required", ""))
	want := `<p class="text-sm font-medium text-destructive" role="alert">Email is required</p>`
	if got != want {
		t.Errorf("got %s", got)
	}

	if MessageHTML("", "") != "" {
		t.Error("nothing to show should render nothing")
	}
}

func TestMessageHTMLEscapesError(t *testing.T) {
	got := string(MessageHTML(`<b>bad</b> & "worse"`, ""))
	if strings.Contains(got, "<b>") {
		t.Errorf("error text was not escaped: %s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;bad&lt;/b&gt; &amp;") {
		t.Errorf("got %s", got)
	}
}

func TestMessageHTMLSanitizesFallback(t *testing.T) {
	got := string(MessageHTML("", `<em>Optional</em><script>alert(1)</script>`))
	if !strings.Contains(got, "<em>Optional</em>") {
		t.Errorf("allowed markup was dropped: %s", got)
	}
	if strings.Contains(got, "script") {
		t.Errorf("script survived sanitizing: %s", got)
	}

	if MessageHTML("", "<script>alert(1)</script>") != "" {
		t.Error("fallback that sanitizes to nothing should render nothing")
	}
}

func TestFieldMessageHTMLWaitsForTouch(t *testing.T) {
	f := New(Options{
		InitialValues: Values{"email": ""},
		Validators:    map[string]Validator{"email": Required("Email is required")},
	})
	f.ValidateField("email")

	if FieldMessageHTML(f.Field("email")) != "" {
		t.Error("untouched field must not render its error")
	}

	f.SetFieldTouched("email", true)
	if !strings.Contains(string(FieldMessageHTML(f.Field("email"))), "Email is required") {
		t.Error("touched field should render its error")
	}
}
