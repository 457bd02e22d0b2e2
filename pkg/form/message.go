package form

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// messagePolicy sanitizes fallback markup passed to MessageHTML.
var messagePolicy = bluemonday.UGCPolicy()

// messageClass is the class list of a rendered message paragraph.
const messageClass = "text-sm font-medium text-destructive"

// Message picks the text of an error message slot. The explicit error wins
// over the fallback; ok is false when neither is set and nothing should be
// shown.
func Message(errMsg, fallback string) (text string, ok bool) {
	if errMsg != "" {
		return errMsg, true
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// MessageHTML renders an error message paragraph. errMsg is escaped as
// text; fallbackHTML is sanitized markup shown only when errMsg is empty.
// The result is empty when there is nothing to show.
func MessageHTML(errMsg, fallbackHTML string) template.HTML {
	var body string
	switch {
	case errMsg != "":
		body = template.HTMLEscapeString(errMsg)
	case fallbackHTML != "":
		body = messagePolicy.Sanitize(fallbackHTML)
		if strings.TrimSpace(body) == "" {
			return ""
		}
	default:
		return ""
	}

	var b strings.Builder
	b.WriteString(`<p class="`)
	b.WriteString(messageClass)
	b.WriteString(`" role="alert">`)
	b.WriteString(body)
	b.WriteString(`</p>`)
	return template.HTML(b.String())
}

// FieldMessageHTML renders the message of p only once the field is touched.
func FieldMessageHTML(p FieldProps) template.HTML {
	if !p.Touched {
		return ""
	}
	return MessageHTML(p.Error, "")
}
