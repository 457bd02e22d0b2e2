package form

import "time"

// Outcome classifies a submit attempt.
type Outcome string

const (
	// OutcomeInvalid means validation failed and OnSubmit was not called.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeSuccess means OnSubmit returned nil.
	OutcomeSuccess Outcome = "success"
	// OutcomeError means OnSubmit returned an error or panicked.
	OutcomeError Outcome = "error"
)

// Observer receives engine events, typically to record metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	// FieldValidated is called after every validator run.
	FieldValidated(field string, valid bool)

	// Submitted is called once per submit attempt. elapsed is the time
	// spent in OnSubmit and zero for invalid attempts.
	Submitted(outcome Outcome, elapsed time.Duration)
}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) FieldValidated(field string, valid bool) {
	for _, obs := range o {
		if obs != nil {
			obs.FieldValidated(field, valid)
		}
	}
}

func (o Observers) Submitted(outcome Outcome, elapsed time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.Submitted(outcome, elapsed)
		}
	}
}
