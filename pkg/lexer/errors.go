package lexer

import (
	"fmt"

	"github.com/sift-dev/sift/pkg/token"
)

// LexError reports a malformed character stream. It is a pure data value;
// formatting for humans is the caller's concern.
type LexError struct {
	File string
	Pos  token.Position
	Char rune
	Msg  string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: unexpected character %q", e.File, e.Pos, e.Char)
}
