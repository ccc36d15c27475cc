package errors

import (
	stderrors "errors"
	"strings"

	"github.com/sift-dev/sift/pkg/lexer"
	"github.com/sift-dev/sift/pkg/parser"
	"github.com/sift-dev/sift/pkg/router"
	"github.com/sift-dev/sift/pkg/semantic"
)

// semanticCodes maps validator error codes to registered Sift codes.
var semanticCodes = map[semantic.ErrorCode]string{
	semantic.ErrDuplicateDecl:   "S201",
	semantic.ErrTypeMismatch:    "S202",
	semantic.ErrUnresolvedIdent: "S203",
	semantic.ErrUnknownExport:   "S204",
}

// routeCodes maps route-tree error kinds to registered Sift codes.
var routeCodes = map[router.BuildErrorKind]string{
	router.ErrCatchAllNotTerminal: "S301",
	router.ErrAmbiguousDynamic:    "S302",
	router.ErrDuplicateRoute:      "S303",
}

// Convert translates any error produced by the compile pipeline into one or
// more SiftErrors suitable for terminal display. Errors the pipeline does not
// know about pass through wrapped under a CLI category.
func Convert(err error) []*SiftError {
	if err == nil {
		return nil
	}

	var lexErr *lexer.LexError
	if stderrors.As(err, &lexErr) {
		code := "S001"
		switch {
		case strings.Contains(lexErr.Msg, "unterminated string"):
			code = "S002"
		case strings.Contains(lexErr.Msg, "unterminated template"):
			code = "S003"
		}
		se := New(code)
		se.Message = lexErr.Error()
		return []*SiftError{se.WithLocation(lexErr.File, lexErr.Pos.Line, lexErr.Pos.Column)}
	}

	var parseErr *parser.ParseError
	if stderrors.As(err, &parseErr) {
		code := "S101"
		switch {
		case strings.Contains(parseErr.Msg, "closing tag"):
			code = "S102"
		case strings.Contains(parseErr.Msg, "unknown type"):
			code = "S103"
		}
		se := New(code)
		se.Message = parseErr.Error()
		return []*SiftError{se.WithLocation(parseErr.File, parseErr.Pos.Line, parseErr.Pos.Column)}
	}

	var list semantic.ErrorList
	if stderrors.As(err, &list) {
		out := make([]*SiftError, 0, len(list))
		for _, verr := range list {
			out = append(out, convertSemantic(verr))
		}
		return out
	}

	var semErr *semantic.SemanticError
	if stderrors.As(err, &semErr) {
		return []*SiftError{convertSemantic(semErr)}
	}

	var buildErr *router.BuildError
	if stderrors.As(err, &buildErr) {
		code, ok := routeCodes[buildErr.Kind]
		if !ok {
			code = "S301"
		}
		se := New(code)
		se.Detail = se.Message + ". " + se.Detail
		se.Message = buildErr.Msg
		se.Location = &Location{File: buildErr.Path}
		return []*SiftError{se}
	}

	return []*SiftError{Newf(CategoryCLI, "%s", err.Error()).Wrap(err)}
}

func convertSemantic(verr *semantic.SemanticError) *SiftError {
	code, ok := semanticCodes[verr.Code]
	if !ok {
		code = "S203"
	}
	se := New(code)
	se.Message = verr.Msg
	return se.WithLocation(verr.File, verr.Pos.Line, verr.Pos.Column)
}
