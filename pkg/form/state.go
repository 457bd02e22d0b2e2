package form

// State is a point-in-time snapshot of a Form, shaped for encoding.
type State struct {
	Values          Values            `json:"values"`
	Errors          map[string]string `json:"errors"`
	Touched         map[string]bool   `json:"touched"`
	VisibleErrors   map[string]string `json:"visibleErrors"`
	IsSubmitting    bool              `json:"isSubmitting"`
	SubmissionError string            `json:"submissionError,omitempty"`
	Valid           bool              `json:"valid"`
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	errs := f.Errors()
	touched := f.TouchedFields()

	s := State{
		Values:        f.Values(),
		Errors:        errs,
		Touched:       touched,
		VisibleErrors: VisibleErrors(errs, touched),
		IsSubmitting:  f.IsSubmitting(),
		Valid:         len(errs) == 0,
	}
	if err := f.SubmissionError(); err != nil {
		s.SubmissionError = err.Error()
	}
	return s
}

// VisibleErrors keeps only the errors of touched fields. An error is never
// shown for a field the user has not interacted with.
func VisibleErrors(errs map[string]string, touched map[string]bool) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		if touched[field] {
			out[field] = msg
		}
	}
	return out
}
