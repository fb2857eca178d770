package lexer

import (
	"errors"
	"fmt"
)

// ErrUnterminated matches every *UnterminatedError through errors.Is.
var ErrUnterminated = errors.New("unterminated construct")

// UnterminatedError reports a quote, substitution, arithmetic expansion,
// extended test or heredoc that is still open at the end of input. Pos is
// the position of the opening delimiter.
type UnterminatedError struct {
	Construct string
	Pos       Position
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("line %d, column %d: unterminated %s", e.Pos.Line, e.Pos.Column, e.Construct)
}

// Kind names the error class.
func (e *UnterminatedError) Kind() string {
	return "UnterminatedConstruct"
}

func (e *UnterminatedError) Is(target error) bool {
	return target == ErrUnterminated
}
