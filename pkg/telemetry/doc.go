// Package telemetry records form activity with Prometheus and OpenTelemetry.
//
// Metrics collected:
//   - noorform_field_validations_total: validator runs by field and result
//   - noorform_submissions_total: submit attempts by form and outcome
//   - noorform_submit_duration_seconds: time spent in submit handlers
//   - noorform_live_sessions: open live form connections
//   - noorform_live_messages_total: live client messages by type
//
// Example:
//
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	f, _ := catalog.Default().Mount("signin", catalog.English, catalog.MountOptions{
//	    Observer: m.Observer("signin"),
//	    OnSubmit: telemetry.TraceSubmit("signin", handler),
//	})
//	http.Handle("/metrics", m.Handler())
package telemetry
