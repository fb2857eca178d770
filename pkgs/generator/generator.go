package generator

import (
	"io"
	"strings"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// Generate renders a program back to Bash source. Every node prints its
// stored text and every trivia node its literal value, so a parsed program
// regenerates byte for byte.
func Generate(prog *ast.Program) string {
	if prog == nil {
		return ""
	}
	return GenerateNode(prog)
}

// GenerateNode renders any subtree. Heredoc bodies still pending when the
// subtree ends are written after a final newline.
func GenerateNode(node ast.Node) string {
	g := &printer{}
	g.node(node)
	g.finish()
	return g.buf.String()
}

// Fprint writes the rendering of node to w
func Fprint(w io.Writer, node ast.Node) error {
	_, err := io.WriteString(w, GenerateNode(node))
	return err
}

type printer struct {
	buf     strings.Builder
	pending []*ast.HereDoc // bodies to write after the next newline
}

func (g *printer) write(s string) {
	g.buf.WriteString(s)
}

func (g *printer) list(nodes []ast.Node) {
	for _, n := range nodes {
		g.node(n)
	}
}

func (g *printer) word(w *ast.Word) {
	if w != nil {
		g.write(w.Raw())
	}
}

func (g *printer) node(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		g.list(n.Body)
	case *ast.CommandList:
		g.list(n.Items)
	case *ast.Pipeline:
		if n.Negated {
			g.write("!")
		}
		g.list(n.Items)
		if n.Background {
			g.write("&")
		}
	case *ast.Operator:
		g.write(n.Op)

	case *ast.Command:
		g.list(n.Prefix)
		g.word(n.Name)
		g.list(n.Args)
	case *ast.Word:
		g.write(n.Raw())
	case *ast.VariableAssignment:
		g.write(n.Name)
		if n.Append {
			g.write("+=")
		} else {
			g.write("=")
		}
		if n.Array != nil {
			g.node(n.Array)
		} else {
			g.word(n.Value)
		}
	case *ast.ArrayLiteral:
		g.write("(")
		g.list(n.Items)
		g.write(")")
	case *ast.Redirect:
		g.redirect(n)
	case *ast.HereDoc:
		g.heredoc(n)

	case *ast.IfStatement:
		g.write("if")
		g.list(n.Condition)
		g.write("then")
		g.list(n.Then)
		for _, e := range n.Elifs {
			g.node(e)
		}
		if n.Else != nil {
			g.write("else")
			g.list(n.Else)
		}
		g.write("fi")
		g.list(n.Redirs)
	case *ast.ElifClause:
		g.write("elif")
		g.list(n.Condition)
		g.write("then")
		g.list(n.Body)
	case *ast.WhileStatement:
		g.loop("while", n.Condition, n.Body, n.Redirs)
	case *ast.UntilStatement:
		g.loop("until", n.Condition, n.Body, n.Redirs)
	case *ast.ForStatement:
		g.forLoop(n)
	case *ast.CaseStatement:
		g.write("case")
		g.list(n.AfterCase)
		g.word(n.Subject)
		g.list(n.BeforeIn)
		g.write("in")
		for _, c := range n.Clauses {
			g.node(c)
		}
		g.list(n.BeforeEsac)
		g.write("esac")
		g.list(n.Redirs)
	case *ast.CaseClause:
		g.list(n.Lead)
		if n.OpenParen {
			g.write("(")
		}
		g.list(n.Patterns)
		g.write(")")
		g.list(n.Body)
		switch {
		case n.Implicit:
		case n.Terminator == "":
			g.write(ast.Break)
		default:
			g.write(n.Terminator)
		}
	case *ast.FunctionDefinition:
		g.function(n)
	case *ast.BraceGroup:
		g.write("{")
		g.list(n.Body)
		g.write("}")
		g.list(n.Redirs)
	case *ast.Subshell:
		g.write("(")
		g.list(n.Body)
		g.write(")")
		g.list(n.Redirs)
	case *ast.TestExpression:
		open, close := "[", "]"
		if n.Extended {
			open, close = "[[", "]]"
		}
		g.write(open)
		g.list(n.Elements)
		g.write(close)
		g.list(n.Redirs)
	case *ast.ArithmeticCommand:
		g.write("((" + n.Expr + "))")
		g.list(n.Redirs)

	case *ast.Space:
		g.write(n.Value)
	case *ast.Newline:
		g.write("\n")
		g.flush()
	case *ast.Semicolon:
		g.write(";")
	case *ast.Comment:
		g.write(n.Text)
	}
}

func (g *printer) loop(keyword string, cond, body ast.Sequence, redirs []ast.Node) {
	g.write(keyword)
	g.list(cond)
	g.write("do")
	g.list(body)
	g.write("done")
	g.list(redirs)
}

func (g *printer) forLoop(n *ast.ForStatement) {
	g.write("for")
	g.list(n.AfterFor)
	if n.Variable != nil {
		g.word(n.Variable)
	} else {
		g.write(n.Arith)
	}
	if n.In != nil {
		g.list(n.In.Before)
		g.write("in")
		g.list(n.In.Items)
	}
	g.list(n.BeforeDo)
	g.write("do")
	g.list(n.Body)
	g.write("done")
	g.list(n.Redirs)
}

func (g *printer) function(n *ast.FunctionDefinition) {
	if n.Style != ast.StyleParens {
		g.write("function")
		g.list(n.AfterKeyword)
	}
	g.word(n.Name)
	if n.Style != ast.StyleKeyword {
		g.list(n.AfterName)
		g.write("(")
		g.list(n.InParens)
		g.write(")")
	}
	g.list(n.BeforeBody)
	if n.Body != nil {
		g.node(n.Body)
	}
}

func (g *printer) redirect(r *ast.Redirect) {
	g.write(r.Fd + r.Op + r.Space)
	switch {
	case r.HereDoc != nil:
		g.word(r.HereDoc.Delimiter)
		g.pending = append(g.pending, r.HereDoc)
	default:
		g.word(r.Target)
	}
}

// heredoc writes a body followed by its terminator line
func (g *printer) heredoc(h *ast.HereDoc) {
	g.write(h.Content)
	end := h.EndLine
	if end == "" && h.Delimiter != nil {
		end, _ = lexer.UnquoteDelimiter(h.Delimiter.Raw())
	}
	g.write(end)
	if !h.NoTrailingNewline {
		g.write("\n")
	}
}

func (g *printer) flush() {
	for _, h := range g.pending {
		g.heredoc(h)
	}
	g.pending = nil
}

// finish writes heredocs whose line was never ended
func (g *printer) finish() {
	if len(g.pending) > 0 {
		g.write("\n")
		g.flush()
	}
}
