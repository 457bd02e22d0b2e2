// Package reactive provides small observable value containers.
//
// A Signal holds a value and notifies subscribers when the value changes.
// Signals that belong to the same Scope can be updated together inside
// Scope.Batch; each subscriber is then notified once, after the outermost
// batch returns, so observers never see a half-applied update.
//
//	scope := reactive.NewScope()
//	first := reactive.NewSignal("").In(scope)
//	last := reactive.NewSignal("").In(scope)
//
//	stop := first.Subscribe(render)
//	defer stop()
//
//	scope.Batch(func() {
//	    first.Set("Layla")
//	    last.Set("Haddad")
//	})
package reactive
