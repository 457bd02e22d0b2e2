package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (F001-F099)
	// ============================================

	"F001": {
		Category: CategoryRuntime,
		Message:  "Form components must be used within a Form",
		Detail:   "A field binding looked up its form from the context, but no form was mounted. Attach the form with form.WithForm before rendering fields.",
	},
	"F002": {
		Category: CategoryRuntime,
		Message:  "Form submission failed",
		Detail:   "The submit handler returned an error or panicked. The form stays mounted and can be submitted again.",
	},
	"F003": {
		Category: CategoryRuntime,
		Message:  "Unknown form",
		Detail:   "No form with this name is registered in the catalog.",
	},

	// ============================================
	// Config Errors (F100-F199)
	// ============================================

	"F100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"F101": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"F102": {
		Category: CategoryConfig,
		Message:  "Unsupported locale",
		Detail:   "Supported locales are en and ar.",
	},
	"F103": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"F104": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations use Go syntax, for example 30s or 2m.",
	},

	// ============================================
	// Protocol Errors (F200-F299)
	// ============================================

	"F200": {
		Category: CategoryProtocol,
		Message:  "Invalid message",
		Detail:   "Live form messages are JSON objects with a type and an optional field and value.",
	},
	"F201": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "Supported types are change, blur, submit and reset.",
	},
	"F202": {
		Category: CategoryProtocol,
		Message:  "Submission already in progress",
		Detail:   "Wait for the current submission to finish before submitting again.",
	},
	"F203": {
		Category: CategoryProtocol,
		Message:  "Missing field name",
	},
	"F204": {
		Category: CategoryProtocol,
		Message:  "Invalid request body",
		Detail:   "Submit bodies are a JSON object or urlencoded form values.",
	},

	// ============================================
	// CLI Errors (F300-F399)
	// ============================================

	"F300": {
		Category: CategoryCLI,
		Message:  "Invalid values input",
		Detail:   "Values must be a JSON object mapping field names to values.",
	},
	"F301": {
		Category: CategoryCLI,
		Message:  "Form is invalid",
	},
	"F302": {
		Category: CategoryCLI,
		Message:  "Prompt aborted",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
