// Package roundtrip checks that scripts survive parse and regenerate
// unchanged.
package roundtrip

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/generator"
	"github.com/aledsdavies/bashcst/pkgs/parser"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/crypto/blake2b"
)

// Report is the outcome of verifying one script.
type Report struct {
	Name string

	SourceDigest    string
	GeneratedDigest string

	Identical  bool // generate(parse(s)) == s
	Idempotent bool // a second pass changes nothing
	Stable     bool // the reparsed tree has the same shape

	Statements int
	Diff       string // unified diff when not Identical
}

// OK reports whether every property held.
func (r *Report) OK() bool {
	return r.Identical && r.Idempotent && r.Stable
}

// Failures names the properties that did not hold.
func (r *Report) Failures() []string {
	var failed []string
	if !r.Identical {
		failed = append(failed, "identity")
	}
	if !r.Idempotent {
		failed = append(failed, "idempotence")
	}
	if !r.Stable {
		failed = append(failed, "structure")
	}
	return failed
}

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s: ok (%d statements, blake2b %s)", r.Name, r.Statements, short(r.SourceDigest))
	}
	return fmt.Sprintf("%s: FAILED %s", r.Name, strings.Join(r.Failures(), ", "))
}

func short(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}

// Digest returns the hex BLAKE2b-256 sum of text.
func Digest(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Verify parses source, regenerates it and checks the result. Only a parse
// failure of source is returned as an error; property violations are
// recorded in the report.
func Verify(name, source string) (*Report, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	generated := generator.Generate(prog)
	report := &Report{
		Name:            name,
		SourceDigest:    Digest(source),
		GeneratedDigest: Digest(generated),
		Statements:      len(prog.Statements()),
	}
	report.Identical = report.SourceDigest == report.GeneratedDigest
	if !report.Identical {
		report.Diff = Diff(name, source, generated)
	}

	reparsed, err := parser.Parse(generated)
	if err != nil {
		return report, nil
	}
	report.Idempotent = generator.Generate(reparsed) == generated
	report.Stable = reflect.DeepEqual(Shape(prog), Shape(reparsed))
	return report, nil
}

// Diff renders a unified diff between the original and regenerated text.
// It is empty when they are equal.
func Diff(name, a, b string) string {
	if a == b {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: name,
		ToFile:   name + " (regenerated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return err.Error()
	}
	return text
}

// Shape summarizes the structure of a tree: statement kinds, command names
// and arguments, in source order. Trivia is left out.
func Shape(node ast.Node) []string {
	var shape []string
	ast.Walk(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case ast.Trivia, *ast.Operator:
			return true
		case *ast.Command:
			line := "command"
			if n.Name != nil {
				line += " " + n.Name.Value()
			}
			for _, a := range n.Arguments() {
				line += " " + a.Value()
			}
			shape = append(shape, line)
		case *ast.Word:
		case *ast.CaseClause:
			term := n.Terminator
			if term == "" {
				term = ast.Break
			}
			shape = append(shape, "case_clause "+term)
		default:
			shape = append(shape, strings.ToLower(typeName(n)))
		}
		return true
	})
	return shape
}

func typeName(n ast.Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
