// Package errors provides structured, actionable error messages for Sift.
//
// The errors package implements a comprehensive error system that:
//   - Shows exact source locations (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues with code examples
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - lex: Tokenization errors (unterminated strings, stray characters)
//   - parse: Syntax errors (unexpected tokens, mismatched tags)
//   - semantic: Validation errors (duplicate declarations, unresolved identifiers)
//   - route: Route tree construction errors (ambiguous siblings, misplaced catch-alls)
//   - config: sift.json errors (malformed JSON, unknown fields)
//   - cli: Command-line usage errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "S201") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("S203").
//	    WithLocation("app/routes/page.sft", 15, 12).
//	    WithSuggestion("Declare the identifier in props or state before using it")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR S203: Unresolved identifier
//	//
//	//   app/routes/page.sft:15:12
//	//
//	//     13 │ state {
//	//     14 │     count: number = 0
//	//   → 15 │ }
//	//        │            ^
//	//
//	//   Hint: Declare the identifier in props or state before using it
//	//
//	//   Learn more: https://siftframework.dev/docs/errors/S203
package errors
