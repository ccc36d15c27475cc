package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryLex      Category = "lex"
	CategoryParse    Category = "parse"
	CategorySemantic Category = "semantic"
	CategoryRoute    Category = "route"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SiftError is a structured error with source location, suggestions, and documentation.
type SiftError struct {
	// Code is a unique error identifier (e.g., "S201").
	Code string

	// Category is the error type (lex, parse, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source code location where the error occurred.
	Location *Location

	// Context contains surrounding source code lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SiftError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SiftError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error.
func (e *SiftError) WithLocation(file string, line, column int) *SiftError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SiftError) WithSuggestion(s string) *SiftError {
	e.Suggestion = s
	return e
}

// WithExample adds a code example to the error.
func (e *SiftError) WithExample(ex string) *SiftError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *SiftError) WithDetail(d string) *SiftError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *SiftError) WithContext(lines []string) *SiftError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *SiftError) Wrap(err error) *SiftError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a SiftError from a registered error code.
func New(code string) *SiftError {
	template, ok := registry[code]
	if !ok {
		return &SiftError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SiftError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new SiftError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SiftError {
	return &SiftError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a SiftError.
func FromError(err error, code string) *SiftError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SiftError); ok {
		return se
	}
	return New(code).Wrap(err)
}
