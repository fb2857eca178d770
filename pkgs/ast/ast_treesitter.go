package ast

import (
	"encoding/json"

	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// Tree dump functions
// Nodes are converted to nested maps in the shape of tree-sitter's JSON
// output: a "type" key, optional "start_position" and named children.

type dumper struct {
	trivia bool
}

// ToMap converts a node to a tree-sitter style map, leaving out trivia.
func ToMap(node Node) map[string]interface{} {
	return dumper{}.node(node)
}

// ToMapWithTrivia converts a node to a map that also lists spaces,
// newlines, semicolons and comments.
func ToMapWithTrivia(node Node) map[string]interface{} {
	return dumper{trivia: true}.node(node)
}

// SerializeJSON renders the trivia-free dump as indented JSON.
func SerializeJSON(node Node) (string, error) {
	data, err := json.MarshalIndent(ToMap(node), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func position(pos lexer.Position) map[string]int {
	return map[string]int{
		"row":    pos.Line - 1,
		"column": pos.Column - 1,
	}
}

func withPosition(m map[string]interface{}, pos lexer.Position) map[string]interface{} {
	if pos.IsValid() {
		m["start_position"] = position(pos)
	}
	return m
}

func (d dumper) list(nodes []Node) []interface{} {
	result := []interface{}{}
	for _, n := range nodes {
		if _, ok := n.(Trivia); ok && !d.trivia {
			continue
		}
		result = append(result, d.node(n))
	}
	return result
}

func (d dumper) word(w *Word) interface{} {
	if w == nil {
		return nil
	}
	return d.node(w)
}

func segments(segs []Segment) []interface{} {
	result := []interface{}{}
	for _, s := range segs {
		m := map[string]interface{}{
			"kind":  s.Kind.String(),
			"quote": s.Quote.String(),
			"text":  s.Text,
		}
		if s.Name != "" {
			m["name"] = s.Name
		}
		result = append(result, m)
	}
	return result
}

func (d dumper) node(node Node) map[string]interface{} {
	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{
			"type":     "program",
			"children": d.list(n.Body),
		}

	case *CommandList:
		return withPosition(map[string]interface{}{
			"type":     "list",
			"children": d.list(n.Items),
		}, n.Pos)

	case *Pipeline:
		return withPosition(map[string]interface{}{
			"type":       "pipeline",
			"negated":    n.Negated,
			"background": n.Background,
			"children":   d.list(n.Items),
		}, n.Pos)

	case *Operator:
		return map[string]interface{}{"type": "operator", "value": n.Op}

	case *Command:
		m := map[string]interface{}{
			"type":      "command",
			"prefix":    d.list(n.Prefix),
			"arguments": d.list(n.Args),
		}
		if n.Name != nil {
			m["name"] = d.node(n.Name)
		}
		return withPosition(m, n.Pos)

	case *Word:
		m := map[string]interface{}{
			"type":     "word",
			"text":     n.Text,
			"quoted":   n.Quoted,
			"segments": segments(n.Segments),
		}
		if n.Quoted {
			m["quote"] = n.QuoteType.String()
		}
		return withPosition(m, n.Pos)

	case *VariableAssignment:
		m := map[string]interface{}{
			"type":   "variable_assignment",
			"name":   n.Name,
			"append": n.Append,
		}
		if n.Value != nil {
			m["value"] = d.node(n.Value)
		}
		if n.Array != nil {
			m["array"] = d.node(n.Array)
		}
		return withPosition(m, n.Pos)

	case *ArrayLiteral:
		return map[string]interface{}{
			"type":     "array",
			"children": d.list(n.Items),
		}

	case *Redirect:
		m := map[string]interface{}{
			"type":     "redirect",
			"operator": n.Op,
		}
		if n.Fd != "" {
			m["fd"] = n.Fd
		}
		if n.Target != nil {
			m["target"] = d.node(n.Target)
		}
		if n.HereDoc != nil {
			m["heredoc"] = d.node(n.HereDoc)
		}
		return withPosition(m, n.Pos)

	case *HereDoc:
		m := map[string]interface{}{
			"type":       "heredoc",
			"strip_tabs": n.StripTabs,
			"quoted":     n.Quoted,
			"content":    n.Content,
			"segments":   segments(n.Segments),
		}
		if n.Delimiter != nil {
			m["delimiter"] = d.node(n.Delimiter)
		}
		return m

	case *IfStatement:
		elifs := []interface{}{}
		for _, e := range n.Elifs {
			elifs = append(elifs, d.node(e))
		}
		m := map[string]interface{}{
			"type":      "if_statement",
			"condition": d.list(n.Condition),
			"then":      d.list(n.Then),
			"elif":      elifs,
			"redirects": d.list(n.Redirs),
		}
		if n.Else != nil {
			m["else"] = d.list(n.Else)
		}
		return withPosition(m, n.Pos)

	case *ElifClause:
		return map[string]interface{}{
			"type":      "elif_clause",
			"condition": d.list(n.Condition),
			"body":      d.list(n.Body),
		}

	case *WhileStatement:
		return withPosition(map[string]interface{}{
			"type":      "while_statement",
			"condition": d.list(n.Condition),
			"body":      d.list(n.Body),
			"redirects": d.list(n.Redirs),
		}, n.Pos)

	case *UntilStatement:
		return withPosition(map[string]interface{}{
			"type":      "until_statement",
			"condition": d.list(n.Condition),
			"body":      d.list(n.Body),
			"redirects": d.list(n.Redirs),
		}, n.Pos)

	case *ForStatement:
		m := map[string]interface{}{
			"type":      "for_statement",
			"body":      d.list(n.Body),
			"redirects": d.list(n.Redirs),
		}
		if n.Variable != nil {
			m["variable"] = d.node(n.Variable)
		} else {
			m["arithmetic"] = n.Arith
		}
		if n.In != nil {
			m["items"] = d.list(n.In.Items)
		}
		return withPosition(m, n.Pos)

	case *CaseStatement:
		clauses := []interface{}{}
		for _, c := range n.Clauses {
			clauses = append(clauses, d.node(c))
		}
		return withPosition(map[string]interface{}{
			"type":      "case_statement",
			"subject":   d.word(n.Subject),
			"clauses":   clauses,
			"redirects": d.list(n.Redirs),
		}, n.Pos)

	case *CaseClause:
		term := n.Terminator
		if term == "" {
			term = Break
		}
		return map[string]interface{}{
			"type":       "case_clause",
			"patterns":   d.list(n.Patterns),
			"body":       d.list(n.Body),
			"terminator": term,
			"implicit":   n.Implicit,
		}

	case *FunctionDefinition:
		m := map[string]interface{}{
			"type":  "function_definition",
			"style": n.Style.String(),
			"name":  d.word(n.Name),
		}
		if n.Body != nil {
			m["body"] = d.node(n.Body)
		}
		return withPosition(m, n.Pos)

	case *BraceGroup:
		return withPosition(map[string]interface{}{
			"type":      "brace_group",
			"body":      d.list(n.Body),
			"redirects": d.list(n.Redirs),
		}, n.Pos)

	case *Subshell:
		return withPosition(map[string]interface{}{
			"type":      "subshell",
			"body":      d.list(n.Body),
			"redirects": d.list(n.Redirs),
		}, n.Pos)

	case *TestExpression:
		return withPosition(map[string]interface{}{
			"type":      "test_expression",
			"extended":  n.Extended,
			"elements":  d.list(n.Elements),
			"redirects": d.list(n.Redirs),
		}, n.Pos)

	case *ArithmeticCommand:
		return withPosition(map[string]interface{}{
			"type":       "arithmetic_command",
			"expression": n.Expr,
			"redirects":  d.list(n.Redirs),
		}, n.Pos)

	case *Space:
		return map[string]interface{}{"type": "space", "value": n.Value}
	case *Newline:
		return map[string]interface{}{"type": "newline"}
	case *Semicolon:
		return map[string]interface{}{"type": "semicolon"}
	case *Comment:
		return withPosition(map[string]interface{}{"type": "comment", "text": n.Text}, n.Pos)
	}

	return map[string]interface{}{"type": "unknown"}
}
