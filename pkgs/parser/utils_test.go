package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// TestCase describes a parse expected to fail
type TestCase struct {
	Name        string
	Input       string
	WantErr     bool
	ErrorSubstr string
	HintSubstr  string
}

// ignorePositions drops source positions and word segments from tree
// comparisons.
var ignorePositions = cmp.Options{
	cmpopts.IgnoreFields(ast.Word{}, "Pos", "Segments"),
	cmpopts.IgnoreFields(ast.Command{}, "Pos"),
	cmpopts.IgnoreFields(ast.CommandList{}, "Pos"),
	cmpopts.IgnoreFields(ast.Pipeline{}, "Pos"),
	cmpopts.IgnoreFields(ast.Redirect{}, "Pos"),
	cmpopts.IgnoreFields(ast.VariableAssignment{}, "Pos"),
	cmpopts.IgnoreFields(ast.HereDoc{}, "Segments"),
	cmpopts.IgnoreFields(ast.Comment{}, "Pos"),
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := Parse(input)
	require.NoError(t, err, "input: %q", input)
	require.NotNil(t, prog)
	return prog
}

// stages returns the stages of the first pipeline of statement i.
func stages(t *testing.T, prog *ast.Program, i int) []ast.Cmd {
	t.Helper()
	stmts := prog.Statements()
	require.Greater(t, len(stmts), i, "statement %d missing", i)
	pipes := stmts[i].Pipelines()
	require.NotEmpty(t, pipes)
	return pipes[0].Commands()
}

// firstStage returns the first stage of the first statement.
func firstStage(t *testing.T, prog *ast.Program) ast.Cmd {
	t.Helper()
	cmds := stages(t, prog, 0)
	require.NotEmpty(t, cmds)
	return cmds[0]
}

func firstCommand(t *testing.T, prog *ast.Program) *ast.Command {
	t.Helper()
	cmd, ok := firstStage(t, prog).(*ast.Command)
	require.True(t, ok, "first stage is %T, not *ast.Command", firstStage(t, prog))
	return cmd
}

// statementCommand returns the first simple command of a body sequence.
func statementCommand(t *testing.T, seq ast.Sequence) *ast.Command {
	t.Helper()
	stmts := seq.Statements()
	require.NotEmpty(t, stmts)
	cmd, ok := stmts[0].Pipelines()[0].Commands()[0].(*ast.Command)
	require.True(t, ok)
	return cmd
}

func wordTexts(words []*ast.Word) []string {
	var result []string
	for _, w := range words {
		result = append(result, w.Raw())
	}
	return result
}

// runErrorCase parses the input and checks the failure it produces.
func runErrorCase(t *testing.T, tc TestCase) {
	t.Helper()
	prog, err := Parse(tc.Input)
	if !tc.WantErr {
		require.NoError(t, err)
		return
	}
	if err == nil {
		t.Fatalf("expected error for %q, got program %v", tc.Input, prog)
	}
	if prog != nil {
		t.Errorf("expected no program on error, got %v", prog)
	}
	if !strings.Contains(err.Error(), tc.ErrorSubstr) {
		t.Errorf("error %q does not contain %q", err.Error(), tc.ErrorSubstr)
	}
	if tc.HintSubstr != "" {
		var perr *ParseError
		require.True(t, errors.As(err, &perr), "error is %T", err)
		if !strings.Contains(perr.Hint, tc.HintSubstr) {
			t.Errorf("hint %q does not contain %q", perr.Hint, tc.HintSubstr)
		}
	}
}
