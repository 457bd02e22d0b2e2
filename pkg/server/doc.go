// Package server serves catalog forms over HTTP and WebSocket.
//
// Routes:
//
//	GET  /healthz                   liveness probe
//	GET  /api/forms                 form summaries for the negotiated locale
//	GET  /api/forms/{name}          form definition and initial state
//	POST /api/forms/{name}/submit   one-shot validate and submit
//	GET  /api/forms/{name}/live     WebSocket bound to one mounted form
//	GET  /metrics                   Prometheus metrics, when configured
//
// A live connection owns one form for its lifetime. The client sends JSON
// messages:
//
//	{"type": "change", "field": "email", "value": "layla@example.com"}
//	{"type": "blur", "field": "email"}
//	{"type": "submit"}
//	{"type": "reset"}
//
// and receives "init", "state", "submitted" and "error" messages carrying
// the form state after every change.
package server
