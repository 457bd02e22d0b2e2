// Package form provides form state management with field-level validation.
//
// # Overview
//
// A Form owns the values, per-field error messages, per-field touched flags
// and the submitting flag of one mounted form. Fields are bound through
// Form.Field, which returns the value together with OnChange and OnBlur
// callbacks, so an input control never needs the whole store.
//
// # Basic Usage
//
//	f := form.New(form.Options{
//	    InitialValues: form.Values{"email": "", "password": ""},
//	    Validators: map[string]form.Validator{
//	        "email":    form.Compose(form.Required("Email is required"), form.Email("")),
//	        "password": form.MinLength(6, "Password must be at least 6 characters"),
//	    },
//	    OnSubmit: func(ctx context.Context, values form.Values) error {
//	        return signIn(ctx, values["email"], values["password"])
//	    },
//	})
//
//	email := f.Field("email")
//	email.OnChange("layla@example.com")
//	email.OnBlur() // marks touched, then validates
//
//	f.Submit(ctx)
//
// # Validation
//
// Validation never runs on construction or on change. It runs when a field
// is blurred and, for every field with a validator, when a submit is
// attempted. The first failing validator of a Compose chain wins, so a field
// holds at most one message at a time.
//
// Built-in validators:
//
//   - Required: rejects empty and blank values
//   - Email: permissive single-@ address check
//   - MinLength/MaxLength: rune length constraints
//   - Pattern: regular expression matching
//   - MatchField/NotMatchField: cross-field comparison
//   - Custom: user-defined logic
//
// # Submission
//
// Submit marks every validator-bound field touched, revalidates all of them,
// and calls OnSubmit only when every field passes. IsSubmitting is true only
// while OnSubmit runs. Errors and panics from OnSubmit are recovered, logged
// outside production, and kept in SubmissionError.
package form
