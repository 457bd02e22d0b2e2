package catalog

import "fmt"

// Text is a string in every supported locale.
type Text struct {
	En string
	Ar string
}

// In returns the text for l, falling back to English.
func (t Text) In(l Locale) string {
	if l == Arabic && t.Ar != "" {
		return t.Ar
	}
	return t.En
}

type messageKey int

const (
	msgRequired messageKey = iota
	msgEmail
	msgMinLength
	msgMaxLength
	msgMatch
	msgPhone
	msgChoice
)

var messages = map[messageKey]Text{
	msgRequired:  {En: "This field is required", Ar: "هذا الحقل مطلوب"},
	msgEmail:     {En: "Please enter a valid email address", Ar: "يرجى إدخال بريد إلكتروني صالح"},
	msgMinLength: {En: "Must be at least %d characters", Ar: "يجب ألا يقل عن %d أحرف"},
	msgMaxLength: {En: "Must be no more than %d characters", Ar: "يجب ألا يزيد عن %d حرفاً"},
	msgMatch:     {En: "Fields do not match", Ar: "الحقول غير متطابقة"},
	msgPhone:     {En: "Please enter a valid phone number", Ar: "يرجى إدخال رقم هاتف صالح"},
	msgChoice:    {En: "Please choose one of the options", Ar: "يرجى اختيار أحد الخيارات"},
}

// message returns the localized text of key with args applied.
func message(l Locale, key messageKey, args ...any) string {
	text := messages[key].In(l)
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
