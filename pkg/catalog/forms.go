package catalog

import (
	"regexp"

	"github.com/vango-dev/noorform/pkg/form"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ]{7,20}$`)

// Countries offered by the signup form.
var Countries = []Option{
	{Value: "sa", Label: Text{En: "Saudi Arabia", Ar: "المملكة العربية السعودية"}},
	{Value: "ae", Label: Text{En: "United Arab Emirates", Ar: "الإمارات العربية المتحدة"}},
	{Value: "kw", Label: Text{En: "Kuwait", Ar: "الكويت"}},
}

var (
	labelName     = Text{En: "Full Name", Ar: "الاسم الكامل"}
	labelEmail    = Text{En: "Email", Ar: "البريد الإلكتروني"}
	labelPassword = Text{En: "Password", Ar: "كلمة المرور"}
)

func builtins() []Definition {
	return []Definition{signin(), signup(), contact()}
}

func signin() Definition {
	return Definition{
		Name:        "signin",
		Title:       Text{En: "Welcome back", Ar: "مرحباً بعودتك"},
		Description: Text{En: "Sign in to your account to continue", Ar: "سجّل الدخول إلى حسابك للمتابعة"},
		Fields: []FieldSpec{
			{
				Name:        "email",
				Type:        TypeEmail,
				Label:       labelEmail,
				Placeholder: Text{En: "name@example.com", Ar: "name@example.com"},
				Required:    true,
				Validate:    requiredEmail,
			},
			{
				Name:     "password",
				Type:     TypePassword,
				Label:    labelPassword,
				Validate: minLength(6),
			},
		},
	}
}

func signup() Definition {
	return Definition{
		Name:        "signup",
		Title:       Text{En: "Create an account", Ar: "إنشاء حساب"},
		Description: Text{En: "Enter your details to get started", Ar: "أدخل بياناتك للبدء"},
		Fields: []FieldSpec{
			{
				Name:     "name",
				Type:     TypeText,
				Label:    labelName,
				Required: true,
				Validate: required,
			},
			{
				Name:     "email",
				Type:     TypeEmail,
				Label:    labelEmail,
				Required: true,
				Validate: requiredEmail,
			},
			{
				Name:     "password",
				Type:     TypePassword,
				Label:    labelPassword,
				Required: true,
				Validate: func(l Locale) form.Validator {
					return form.Compose(required(l), minLength(8)(l))
				},
			},
			{
				Name:     "confirmPassword",
				Type:     TypePassword,
				Label:    Text{En: "Confirm Password", Ar: "تأكيد كلمة المرور"},
				Required: true,
				Validate: func(l Locale) form.Validator {
					return form.Compose(required(l), form.MatchField("password", message(l, msgMatch)))
				},
			},
			{
				Name:     "country",
				Type:     TypeSelect,
				Label:    Text{En: "Country", Ar: "الدولة"},
				Required: true,
				Options:  Countries,
				Validate: func(l Locale) form.Validator {
					return form.Compose(required(l), oneOf(Countries, message(l, msgChoice)))
				},
			},
		},
	}
}

func contact() Definition {
	return Definition{
		Name:        "contact",
		Title:       Text{En: "Contact us", Ar: "تواصل معنا"},
		Description: Text{En: "We usually reply within a day", Ar: "نرد عادة خلال يوم واحد"},
		Fields: []FieldSpec{
			{
				Name:     "name",
				Type:     TypeText,
				Label:    labelName,
				Required: true,
				Validate: func(l Locale) form.Validator {
					return form.Compose(required(l), maxLength(80)(l))
				},
			},
			{
				Name:     "email",
				Type:     TypeEmail,
				Label:    labelEmail,
				Required: true,
				Validate: requiredEmail,
			},
			{
				Name:        "phone",
				Type:        TypeTel,
				Label:       Text{En: "Phone", Ar: "رقم الهاتف"},
				Placeholder: Text{En: "+966 50 000 0000", Ar: "+966 50 000 0000"},
				Validate: func(l Locale) form.Validator {
					return form.Pattern(phonePattern, message(l, msgPhone))
				},
			},
			{
				Name:     "message",
				Type:     TypeTextarea,
				Label:    Text{En: "Message", Ar: "الرسالة"},
				Required: true,
				Validate: func(l Locale) form.Validator {
					return form.Compose(required(l), maxLength(500)(l))
				},
			},
		},
	}
}

func required(l Locale) form.Validator {
	return form.Required(message(l, msgRequired))
}

func requiredEmail(l Locale) form.Validator {
	return form.Compose(required(l), form.Email(message(l, msgEmail)))
}

func minLength(n int) func(Locale) form.Validator {
	return func(l Locale) form.Validator {
		return form.MinLength(n, message(l, msgMinLength, n))
	}
}

func maxLength(n int) func(Locale) form.Validator {
	return func(l Locale) form.Validator {
		return form.MaxLength(n, message(l, msgMaxLength, n))
	}
}

// oneOf fails unless a non-empty value is one of the option values.
func oneOf(options []Option, msg string) form.Validator {
	allowed := make(map[string]bool, len(options))
	for _, o := range options {
		allowed[o.Value] = true
	}
	return form.Custom(func(value any) error {
		if value == nil {
			return nil
		}
		if s, ok := value.(string); ok && (s == "" || allowed[s]) {
			return nil
		}
		return form.ValidationError{Message: msg}
	})
}
