package parser

import (
	"errors"
	"fmt"

	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// ErrSyntax matches every *ParseError through errors.Is.
var ErrSyntax = errors.New("syntax error")

// ParseError represents a token found where the grammar required another.
type ParseError struct {
	Expected string         // description of what the grammar required
	Found    string         // description of the offending token
	Pos      lexer.Position // position of the offending token
	Hint     string         // optional suggestion
}

// Error formats the parse error as a string
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d, column %d: expected %s, found %s",
		e.Pos.Line, e.Pos.Column, e.Expected, e.Found)
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// Kind names the error class.
func (e *ParseError) Kind() string {
	return "ParseError"
}

func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

// NewParseError creates a ParseError for an unexpected token
func NewParseError(expected string, found lexer.Token) *ParseError {
	return &ParseError{
		Expected: expected,
		Found:    found.Describe(),
		Pos:      found.Start,
	}
}
