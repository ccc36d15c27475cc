package parser

import (
	"fmt"
	"strings"

	"github.com/sift-dev/sift/pkg/token"
)

// ParseError reports a grammar violation. It carries the set of token kinds
// that would have been accepted and the kind actually found.
type ParseError struct {
	File     string
	Pos      token.Position
	Expected []token.Kind
	Found    token.Kind
	Lexeme   string
	Msg      string // extra context, e.g. mismatched tag names
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Msg)
	}
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s:%s: expected %s, found %s(%q)",
		e.File, e.Pos, strings.Join(names, " or "), e.Found, e.Lexeme)
}
