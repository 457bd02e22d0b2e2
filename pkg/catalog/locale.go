package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	ferrors "github.com/vango-dev/noorform/internal/errors"
)

// Locale identifies a supported language.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Locales lists every supported locale. The first entry is the default.
var Locales = []Locale{English, Arabic}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

func (l Locale) String() string {
	return string(l)
}

// Dir returns the text direction of l, "rtl" or "ltr".
func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// ParseLocale parses a locale name such as "ar" or "en-US".
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err == nil {
		base, _ := tag.Base()
		for _, l := range Locales {
			if base.String() == string(l) {
				return l, nil
			}
		}
	}
	return "", ferrors.New("F102").
		WithDetail("Locale " + strconv.Quote(s) + " is not supported")
}

// Negotiate picks the best supported locale for an Accept-Language header.
// It returns fallback when nothing in the header matches.
func Negotiate(acceptLanguage string, fallback Locale) Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return Locales[index]
}
