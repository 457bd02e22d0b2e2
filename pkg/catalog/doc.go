// Package catalog holds the showcase forms served by noorform.
//
// Every form is bilingual. A Definition describes its fields as static
// metadata for renderers and builds localized validators on Mount:
//
//	reg := catalog.Default()
//	f, err := reg.Mount("signin", catalog.Arabic, catalog.MountOptions{
//	    OnSubmit: sink.For("signin"),
//	})
//
// Locales are negotiated from an Accept-Language header with Negotiate.
package catalog
