package parser

import (
	"errors"
	"testing"

	"github.com/aledsdavies/bashcst/pkgs/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandling(t *testing.T) {
	testCases := []TestCase{
		{
			Name:        "case without esac",
			Input:       "case $1 in start) echo a ;;",
			WantErr:     true,
			ErrorSubstr: "expected 'esac', found end of input",
		},
		{
			Name:        "case clause without terminator or esac",
			Input:       "case x in a) echo",
			WantErr:     true,
			ErrorSubstr: "expected 'esac', found end of input",
		},
		{
			Name:        "missing fi",
			Input:       "if true; then echo yes",
			WantErr:     true,
			ErrorSubstr: "expected 'fi', found end of input",
		},
		{
			Name:        "missing done",
			Input:       "while true; do echo",
			WantErr:     true,
			ErrorSubstr: "expected 'done', found end of input",
		},
		{
			Name:        "then in place of do",
			Input:       "while true; then echo; done",
			WantErr:     true,
			ErrorSubstr: `expected 'do', found "then"`,
		},
		{
			Name:        "stray fi",
			Input:       "fi",
			WantErr:     true,
			ErrorSubstr: `expected command, found "fi"`,
		},
		{
			Name:        "leading semicolon",
			Input:       "; echo",
			WantErr:     true,
			ErrorSubstr: `expected command, found ";"`,
		},
		{
			Name:        "case terminator outside case",
			Input:       "echo a;;",
			WantErr:     true,
			ErrorSubstr: `expected ';' or newline, found ";;"`,
		},
		{
			Name:        "brace group closed on same line without separator",
			Input:       "{ echo hi }",
			WantErr:     true,
			ErrorSubstr: "expected '}', found end of input",
		},
		{
			Name:        "empty subshell",
			Input:       "( )",
			WantErr:     true,
			ErrorSubstr: `expected command, found ")"`,
		},
		{
			Name:        "function without body",
			Input:       "foo() echo",
			WantErr:     true,
			ErrorSubstr: `expected '{', found "echo"`,
		},
		{
			Name:        "redirect without target",
			Input:       "echo >",
			WantErr:     true,
			ErrorSubstr: "expected redirection target, found end of input",
		},
		{
			Name:        "dangling and",
			Input:       "a &&",
			WantErr:     true,
			ErrorSubstr: "expected command, found end of input",
		},
		{
			Name:        "dangling pipe",
			Input:       "a |",
			WantErr:     true,
			ErrorSubstr: "expected command, found end of input",
		},
		{
			Name:        "empty extended test",
			Input:       "[[ ]]",
			WantErr:     true,
			ErrorSubstr: `expected conditional expression, found "]]"`,
		},
		{
			Name:        "unclosed test",
			Input:       "[ -f x",
			WantErr:     true,
			ErrorSubstr: "expected ']', found end of input",
		},
		{
			Name:        "missing in",
			Input:       "case x esac",
			WantErr:     true,
			ErrorSubstr: `expected 'in', found "esac"`,
		},
		{
			Name:        "unterminated string",
			Input:       `echo "abc`,
			WantErr:     true,
			ErrorSubstr: "unterminated double-quoted string",
		},
		{
			Name:    "valid script",
			Input:   "echo ok",
			WantErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			runErrorCase(t, tc)
		})
	}
}

func TestKeywordHints(t *testing.T) {
	testCases := []TestCase{
		{
			Name:        "fi typo",
			Input:       "if true; then echo; fii",
			WantErr:     true,
			ErrorSubstr: "expected 'fi'",
			HintSubstr:  `did you mean 'fi' instead of "fii" at line 1, column 21?`,
		},
		{
			Name:        "done transposed",
			Input:       "for x in a; do\n  echo $x\ndoen",
			WantErr:     true,
			ErrorSubstr: "expected 'done'",
			HintSubstr:  `did you mean 'done' instead of "doen" at line 3, column 1?`,
		},
		{
			Name:        "then typo",
			Input:       "if true; them echo; fi",
			WantErr:     true,
			ErrorSubstr: `expected 'then', found "fi"`,
			HintSubstr:  `did you mean 'then' instead of "them"`,
		},
		{
			Name:        "esac typo",
			Input:       "case x in\n  a) b\n  esca",
			WantErr:     true,
			ErrorSubstr: "expected 'esac'",
			HintSubstr:  `"esca"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			runErrorCase(t, tc)
		})
	}
}

func TestNoHintForUnrelatedNames(t *testing.T) {
	_, err := Parse("if true; then ls -la")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Empty(t, perr.Hint)
}

func TestParseErrorDetails(t *testing.T) {
	_, err := Parse("case $1 in start) echo a ;;")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "'esac'", perr.Expected)
	assert.Equal(t, "end of input", perr.Found)
	assert.Equal(t, lexer.Position{Offset: 27, Line: 1, Column: 28}, perr.Pos)
	assert.Equal(t, "ParseError", perr.Kind())
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.False(t, errors.Is(err, lexer.ErrUnterminated))
	assert.Equal(t, "line 1, column 28: expected 'esac', found end of input", err.Error())
}

func TestLexerErrorsPassThrough(t *testing.T) {
	_, err := Parse("cat <<EOF\nno end")
	require.Error(t, err)

	var uerr *lexer.UnterminatedError
	require.True(t, errors.As(err, &uerr), "error is %T", err)
	assert.Equal(t, "heredoc", uerr.Construct)
	assert.True(t, errors.Is(err, lexer.ErrUnterminated))
	assert.False(t, errors.Is(err, ErrSyntax))
}
