// Package sink stores successful form submissions.
//
// A Sink receives a Submission; Bind turns a sink into the form.SubmitFunc
// a form calls once every field is valid:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	s := sink.NewS3Sink(s3.NewFromConfig(cfg), "forms", "submissions")
//	f, _ := catalog.Default().Mount("contact", catalog.Arabic, catalog.MountOptions{
//	    OnSubmit: s.For("contact"),
//	})
package sink
