package form

// FieldProps is the projection of one field of a Form.
type FieldProps struct {
	// Name is the field name.
	Name string

	// Value is the current value, or "" when unset.
	Value any

	// OnChange stores a new value without validating.
	OnChange func(value any)

	// OnBlur marks the field touched and then validates it.
	OnBlur func()

	// Error is the current error message, or "".
	Error string

	// HasError reports whether the field holds an error.
	HasError bool

	// Touched reports whether the field has been blurred or submitted.
	Touched bool
}

// ShowError reports whether the error should be displayed.
func (p FieldProps) ShowError() bool {
	return p.Touched && p.HasError
}

// StringValue returns Value as a string.
func (p FieldProps) StringValue() string {
	return toString(p.Value)
}

// Field binds a single field of the form.
// The returned callbacks always act on f, even after further changes.
func (f *Form) Field(name string) FieldProps {
	value, ok := f.Value(name)
	if !ok || value == nil {
		value = ""
	}
	msg, hasError := f.Error(name)

	return FieldProps{
		Name:  name,
		Value: value,
		OnChange: func(value any) {
			f.SetFieldValue(name, value)
		},
		OnBlur: func() {
			f.SetFieldTouched(name, true)
			f.ValidateField(name)
		},
		Error:    msg,
		HasError: hasError,
		Touched:  f.Touched(name),
	}
}
