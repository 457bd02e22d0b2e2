// Package errors provides structured, coded errors for noorform.
//
// Every error carries a short code (e.g. "F001") that maps to a registered
// template with a category, a one-line message and a longer detail. Errors
// can wrap an underlying cause, so errors.Is and errors.As from the standard
// library keep working across package boundaries.
//
// # Error Categories
//
//   - runtime: misuse of the form engine (field used outside a form)
//   - config: configuration loading and validation
//   - protocol: live form wire messages
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("F101").
//	    WithDetail("port 70000 is out of range").
//	    WithSuggestion("Use a port between 0 and 65535")
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors
