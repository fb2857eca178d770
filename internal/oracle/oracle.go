// Package oracle cross-checks scripts against the tree-sitter Bash grammar,
// an independent parser used to catch disagreements with our own.
package oracle

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
)

// maxIssues bounds the report for badly broken input.
const maxIssues = 50

// maxDepth stops the walk on pathologically nested trees.
const maxDepth = 1000

// Issue is an ERROR or MISSING node in the tree-sitter tree.
type Issue struct {
	Line    int // 1-based
	Column  int // 1-based
	Missing bool
	Type    string
	Text    string
}

func (i Issue) String() string {
	if i.Missing {
		return fmt.Sprintf("line %d, column %d: missing %s", i.Line, i.Column, i.Type)
	}
	return fmt.Sprintf("line %d, column %d: unexpected %q", i.Line, i.Column, i.Text)
}

// Verdict is tree-sitter's opinion of a script.
type Verdict struct {
	Accepted bool
	Issues   []Issue
	Tree     string // S-expression of the tree-sitter parse
}

// Check parses source with tree-sitter-bash.
func Check(ctx context.Context, source string) (*Verdict, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(bash.GetLanguage())

	content := []byte(source)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	v := &Verdict{Tree: root.String()}
	collectIssues(root, content, &v.Issues, 0)
	v.Accepted = len(v.Issues) == 0 && !root.HasError()
	return v, nil
}

func collectIssues(node *sitter.Node, content []byte, issues *[]Issue, depth int) {
	if node == nil || depth > maxDepth || len(*issues) >= maxIssues {
		return
	}

	if node.IsError() || node.IsMissing() {
		start := node.StartPoint()
		issue := Issue{
			Line:    int(start.Row) + 1,
			Column:  int(start.Column) + 1,
			Missing: node.IsMissing(),
			Type:    node.Type(),
		}
		if s, e := node.StartByte(), node.EndByte(); e > s && int(e) <= len(content) {
			issue.Text = truncate(string(content[s:e]), 40)
		}
		*issues = append(*issues, issue)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectIssues(node.Child(i), content, issues, depth+1)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Agreement compares tree-sitter's verdict with the result of our parse.
type Agreement int

const (
	BothAccept Agreement = iota
	BothReject
	OnlyOursAccepts
	OnlyOracleAccepts
)

var agreementNames = [...]string{
	BothAccept:        "both accept",
	BothReject:        "both reject",
	OnlyOursAccepts:   "only bashcst accepts",
	OnlyOracleAccepts: "only tree-sitter accepts",
}

func (a Agreement) String() string {
	if int(a) < len(agreementNames) && int(a) >= 0 {
		return agreementNames[a]
	}
	return fmt.Sprintf("Agreement(%d)", int(a))
}

// Agrees reports whether both parsers reached the same verdict.
func (a Agreement) Agrees() bool {
	return a == BothAccept || a == BothReject
}

// Compare classifies the two verdicts. parseErr is the error our parser
// returned for the same source.
func Compare(v *Verdict, parseErr error) Agreement {
	ours := parseErr == nil
	switch {
	case ours && v.Accepted:
		return BothAccept
	case !ours && !v.Accepted:
		return BothReject
	case ours:
		return OnlyOursAccepts
	default:
		return OnlyOracleAccepts
	}
}
