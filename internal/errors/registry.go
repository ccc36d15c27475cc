package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Lex Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategoryLex,
		Message:  "Unexpected character",
		Detail:   "The source file contains a character that is not valid at this position.",
		DocURL:   "https://siftframework.dev/docs/errors/S001",
	},
	"S002": {
		Category: CategoryLex,
		Message:  "Unterminated string literal",
		Detail:   "A string literal was opened but never closed before the end of the line or file.",
		DocURL:   "https://siftframework.dev/docs/errors/S002",
	},
	"S003": {
		Category: CategoryLex,
		Message:  "Unterminated template literal",
		Detail:   "A template literal was opened with a backtick but never closed.",
		DocURL:   "https://siftframework.dev/docs/errors/S003",
	},

	// ============================================
	// Parse Errors (S101-S199)
	// ============================================

	"S101": {
		Category: CategoryParse,
		Message:  "Unexpected token",
		Detail:   "The parser encountered a token it did not expect at this position.",
		DocURL:   "https://siftframework.dev/docs/errors/S101",
	},
	"S102": {
		Category: CategoryParse,
		Message:  "Mismatched closing tag",
		Detail:   "A closing tag does not match the name of the element it is supposed to close.",
		DocURL:   "https://siftframework.dev/docs/errors/S102",
	},
	"S103": {
		Category: CategoryParse,
		Message:  "Unknown type annotation",
		Detail:   "Declarations must use one of: string, number, boolean, array, object, function, node.",
		DocURL:   "https://siftframework.dev/docs/errors/S103",
	},

	// ============================================
	// Semantic Errors (S201-S299)
	// ============================================

	"S201": {
		Category: CategorySemantic,
		Message:  "Duplicate declaration",
		Detail:   "Props, state fields, events, and exports share one namespace per component. Each name may be declared only once.",
		DocURL:   "https://siftframework.dev/docs/errors/S201",
	},
	"S202": {
		Category: CategorySemantic,
		Message:  "Type mismatch",
		Detail:   "The literal default value does not match the declared type annotation.",
		DocURL:   "https://siftframework.dev/docs/errors/S202",
	},
	"S203": {
		Category: CategorySemantic,
		Message:  "Unresolved identifier",
		Detail:   "The identifier is not a prop, state field, state setter, event handler, loop variable, or implicit binding of this component.",
		DocURL:   "https://siftframework.dev/docs/errors/S203",
	},
	"S204": {
		Category: CategorySemantic,
		Message:  "Unknown export",
		Detail:   "API modules may only export the HTTP method handlers GET, POST, PUT, PATCH, and DELETE.",
		DocURL:   "https://siftframework.dev/docs/errors/S204",
	},

	// ============================================
	// Route Errors (S301-S399)
	// ============================================

	"S301": {
		Category: CategoryRoute,
		Message:  "Catch-all segment is not terminal",
		Detail:   "A [...param] segment consumes the rest of the path, so no route may continue past it.",
		DocURL:   "https://siftframework.dev/docs/errors/S301",
	},
	"S302": {
		Category: CategoryRoute,
		Message:  "Ambiguous dynamic siblings",
		Detail:   "Two dynamic segments with different parameter names cannot share the same parent directory.",
		DocURL:   "https://siftframework.dev/docs/errors/S302",
	},
	"S303": {
		Category: CategoryRoute,
		Message:  "Duplicate route",
		Detail:   "Two files claim the same route path. Remove or rename one of them.",
		DocURL:   "https://siftframework.dev/docs/errors/S303",
	},

	// ============================================
	// Config Errors (S401-S499)
	// ============================================

	"S401": {
		Category: CategoryConfig,
		Message:  "Cannot read sift.json",
		Detail:   "The configuration file exists but could not be opened or read.",
		DocURL:   "https://siftframework.dev/docs/errors/S401",
	},
	"S402": {
		Category: CategoryConfig,
		Message:  "Malformed sift.json",
		Detail:   "The configuration file is not valid JSON.",
		DocURL:   "https://siftframework.dev/docs/errors/S402",
	},
	"S403": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field has a value outside its allowed range.",
		DocURL:   "https://siftframework.dev/docs/errors/S403",
	},

	// ============================================
	// CLI Errors (S501-S599)
	// ============================================

	"S501": {
		Category: CategoryCLI,
		Message:  "Routes directory not found",
		Detail:   "The routes directory does not exist. Run the command from the project root or pass --routes.",
		DocURL:   "https://siftframework.dev/docs/errors/S501",
	},
	"S502": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "One or more source files failed to compile. See the individual errors above.",
		DocURL:   "https://siftframework.dev/docs/errors/S502",
	},
}

// Register adds a custom error template to the registry.
// This allows extensions to define their own error codes.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for an error code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
