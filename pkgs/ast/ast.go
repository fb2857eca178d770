package ast

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// Node represents any node in the CST. The set of node types is closed:
// only this package can implement it.
type Node interface {
	String() string
	node()
}

// Cmd is a pipeline stage: a simple command, a lone assignment or a
// compound command.
type Cmd interface {
	Node
	cmd()
}

// Trivia is formatting retained for exact regeneration.
type Trivia interface {
	Node
	trivia()
}

// Sequence is an ordered list of statements (*CommandList) and trivia, or of
// trivia alone where the grammar only allows formatting.
type Sequence []Node

// Statements returns the statements of the sequence, skipping trivia.
func (s Sequence) Statements() []*CommandList {
	var result []*CommandList
	for _, n := range s {
		if cl, ok := n.(*CommandList); ok {
			result = append(result, cl)
		}
	}
	return result
}

// Program represents the root of the CST (an entire script)
type Program struct {
	Body Sequence
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(%d statements)", len(p.Body.Statements()))
}

// Statements returns the top-level statements in source order.
func (p *Program) Statements() []*CommandList {
	return p.Body.Statements()
}

// Comments returns every comment in the script, including those nested in
// compound commands.
func (p *Program) Comments() []*Comment {
	var result []*Comment
	Walk(p, func(n Node) bool {
		if c, ok := n.(*Comment); ok {
			result = append(result, c)
		}
		return true
	})
	return result
}

// CommandList is a statement: pipelines joined by && and ||, with any
// trivia between them.
type CommandList struct {
	Items []Node // *Pipeline, *Operator and trivia
	Pos   lexer.Position
}

func (c *CommandList) String() string {
	var parts []string
	for _, n := range c.Items {
		switch n := n.(type) {
		case *Pipeline:
			parts = append(parts, n.String())
		case *Operator:
			parts = append(parts, n.Op)
		}
	}
	return strings.Join(parts, " ")
}

// Background reports whether the whole list runs asynchronously.
func (c *CommandList) Background() bool {
	pipes := c.Pipelines()
	return len(pipes) > 0 && pipes[len(pipes)-1].Background
}

// Pipelines returns the pipelines of the list in order.
func (c *CommandList) Pipelines() []*Pipeline {
	var result []*Pipeline
	for _, n := range c.Items {
		if p, ok := n.(*Pipeline); ok {
			result = append(result, p)
		}
	}
	return result
}

// Pipeline is a sequence of stages joined by | or |&. A negated pipeline
// starts with ! and a background pipeline ends with &.
type Pipeline struct {
	Negated bool
	Items   []Node // Cmd stages, *Operator and trivia
	// Background records the & ending the statement. It is only ever set on
	// the last pipeline of a CommandList and applies to the whole list:
	// in a && b &, both a and b run in the background.
	Background bool
	Pos        lexer.Position
}

func (p *Pipeline) String() string {
	var parts []string
	if p.Negated {
		parts = append(parts, "!")
	}
	for _, n := range p.Items {
		switch n := n.(type) {
		case Cmd:
			parts = append(parts, n.String())
		case *Operator:
			parts = append(parts, n.Op)
		}
	}
	if p.Background {
		parts = append(parts, "&")
	}
	return strings.Join(parts, " ")
}

// Commands returns the stages of the pipeline in order.
func (p *Pipeline) Commands() []Cmd {
	var result []Cmd
	for _, n := range p.Items {
		if c, ok := n.(Cmd); ok {
			result = append(result, c)
		}
	}
	return result
}

// Operator is a control or pattern operator: && || | |& and, inside tests,
// ( ) ! && ||.
type Operator struct {
	Op string
}

func (o *Operator) String() string { return o.Op }

// Command is a simple command. Prefix holds assignments and redirects
// before the name; Args holds words, redirects and spaces after it.
type Command struct {
	Prefix []Node // *VariableAssignment, *Redirect, *Space
	Name   *Word  // nil for a command made only of assignments and redirects
	Args   []Node // *Word, *Redirect, *VariableAssignment, *Space
	Pos    lexer.Position
}

func (c *Command) String() string {
	parts := []string{}
	if c.Name != nil {
		parts = append(parts, c.Name.Raw())
	}
	for _, w := range c.Arguments() {
		parts = append(parts, w.Raw())
	}
	return fmt.Sprintf("Command(%s)", strings.Join(parts, " "))
}

// Arguments returns the argument words in order, excluding redirect targets.
func (c *Command) Arguments() []*Word {
	var result []*Word
	for _, n := range c.Args {
		if w, ok := n.(*Word); ok {
			result = append(result, w)
		}
	}
	return result
}

// Assignments returns the assignments preceding the command name.
func (c *Command) Assignments() []*VariableAssignment {
	var result []*VariableAssignment
	for _, n := range c.Prefix {
		if a, ok := n.(*VariableAssignment); ok {
			result = append(result, a)
		}
	}
	return result
}

// Redirects returns every redirect of the command in source order.
func (c *Command) Redirects() []*Redirect {
	var result []*Redirect
	for _, list := range [][]Node{c.Prefix, c.Args} {
		for _, n := range list {
			if r, ok := n.(*Redirect); ok {
				result = append(result, r)
			}
		}
	}
	return result
}

// HereDocs returns the command's heredocs in the order their operators
// appear.
func (c *Command) HereDocs() []*HereDoc {
	var result []*HereDoc
	for _, r := range c.Redirects() {
		if r.HereDoc != nil {
			result = append(result, r.HereDoc)
		}
	}
	return result
}

// HereDocument returns the first heredoc of the command, or nil.
func (c *Command) HereDocument() *HereDoc {
	if docs := c.HereDocs(); len(docs) > 0 {
		return docs[0]
	}
	return nil
}

// Word is a shell word. When the whole word is a single quoted string,
// Quoted is set and Text holds the content between the quotes; otherwise
// Text is the word exactly as written.
type Word struct {
	Text      string
	Quoted    bool
	QuoteType lexer.QuoteType // Unquoted unless Quoted
	Segments  []Segment
	Pos       lexer.Position
}

func (w *Word) String() string { return w.Raw() }

// Raw returns the word as it appears in source. Quote characters are
// added around Text unless Text already carries them.
func (w *Word) Raw() string {
	if !w.Quoted {
		return w.Text
	}
	d := w.QuoteType.Delimiter()
	if d == "" || isDelimited(w.Text, d[0]) {
		return w.Text
	}
	return d + w.Text + d
}

// Value returns the word with whole-word quotes removed.
func (w *Word) Value() string {
	if d := w.QuoteType.Delimiter(); w.Quoted && d != "" && isDelimited(w.Text, d[0]) {
		return w.Text[1 : len(w.Text)-1]
	}
	return w.Text
}

func rawOf(w *Word) string {
	if w == nil {
		return ""
	}
	return w.Raw()
}

func isDelimited(text string, q byte) bool {
	n := len(text)
	if n < 2 || text[0] != q || text[n-1] != q {
		return false
	}
	return q == '\'' || text[n-2] != '\\'
}

// SegmentKind classifies a word segment
type SegmentKind int

const (
	Literal SegmentKind = iota
	Parameter
	CommandSubst
	Arithmetic
	ProcessSubst
)

var segmentNames = [...]string{
	Literal:      "literal",
	Parameter:    "parameter",
	CommandSubst: "command_substitution",
	Arithmetic:   "arithmetic",
	ProcessSubst: "process_substitution",
}

func (k SegmentKind) String() string {
	if int(k) < len(segmentNames) && int(k) >= 0 {
		return segmentNames[k]
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// Segment is a literal run or an expansion inside a word or heredoc.
type Segment struct {
	Kind  SegmentKind
	Quote lexer.QuoteType
	Text  string // literal content, or the expansion as written
	Name  string // parameter name, when the expansion has one
}

// Expansions returns the non-literal segments of the word.
func (w *Word) Expansions() []Segment {
	var result []Segment
	for _, s := range w.Segments {
		if s.Kind != Literal {
			result = append(result, s)
		}
	}
	return result
}

// VariableAssignment is name=value, name+=value or name=(array items).
type VariableAssignment struct {
	Name   string        // as written, including any subscript
	Append bool          // +=
	Value  *Word         // nil for an empty or array value
	Array  *ArrayLiteral // set for name=(...)
	Pos    lexer.Position
}

func (a *VariableAssignment) String() string {
	op := "="
	if a.Append {
		op = "+="
	}
	switch {
	case a.Array != nil:
		return a.Name + op + a.Array.String()
	case a.Value != nil:
		return a.Name + op + a.Value.Raw()
	}
	return a.Name + op
}

// ArrayLiteral is the parenthesized item list of an array assignment.
type ArrayLiteral struct {
	Items []Node // *Word and trivia
}

func (a *ArrayLiteral) String() string {
	var parts []string
	for _, n := range a.Items {
		if w, ok := n.(*Word); ok {
			parts = append(parts, w.Raw())
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Redirect is an I/O redirection such as 2>&1, >> log or <<EOF.
type Redirect struct {
	Fd      string   // IO number, empty when absent
	Op      string   // operator as written
	Space   string   // whitespace between operator and target
	Target  *Word    // nil for heredocs
	HereDoc *HereDoc // set for << and <<-
	Pos     lexer.Position
}

func (r *Redirect) String() string {
	target := ""
	switch {
	case r.Target != nil:
		target = r.Target.Raw()
	case r.HereDoc != nil && r.HereDoc.Delimiter != nil:
		target = r.HereDoc.Delimiter.Raw()
	}
	return r.Fd + r.Op + r.Space + target
}

// HereDoc is the body of a << or <<- redirect.
type HereDoc struct {
	Delimiter *Word
	StripTabs bool // <<-
	Quoted    bool // delimiter was quoted; the body is not expanded
	Content   string
	EndLine   string // terminator line as written; empty means the delimiter
	// NoTrailingNewline is set when the terminator line ends the input.
	NoTrailingNewline bool
	Segments          []Segment // expansions of an unquoted body
}

func (h *HereDoc) String() string {
	if h.Delimiter == nil {
		return "HereDoc"
	}
	return fmt.Sprintf("HereDoc(%s)", h.Delimiter.Value())
}

// Body returns the content with leading tabs removed when the operator
// was <<-.
func (h *HereDoc) Body() string {
	if !h.StripTabs {
		return h.Content
	}
	lines := strings.SplitAfter(h.Content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "\t")
	}
	return strings.Join(lines, "")
}

// Redirected holds the redirects that follow a compound command.
type Redirected struct {
	Redirs []Node // *Redirect and *Space
}

// Redirects returns the redirects applied to the compound command.
func (r *Redirected) Redirects() []*Redirect {
	var result []*Redirect
	for _, n := range r.Redirs {
		if rd, ok := n.(*Redirect); ok {
			result = append(result, rd)
		}
	}
	return result
}

// IfStatement represents if/elif/else/fi. Each Sequence includes the trivia
// between its surrounding keywords.
type IfStatement struct {
	Redirected
	Condition Sequence
	Then      Sequence
	Elifs     []*ElifClause
	Else      Sequence // nil when there is no else branch
	Pos       lexer.Position
}

func (s *IfStatement) String() string {
	return fmt.Sprintf("IfStatement(%d elif, else=%t)", len(s.Elifs), s.Else != nil)
}

// ElifClause is one elif branch.
type ElifClause struct {
	Condition Sequence
	Body      Sequence
}

func (e *ElifClause) String() string { return "ElifClause" }

// WhileStatement represents while ...; do ...; done
type WhileStatement struct {
	Redirected
	Condition Sequence
	Body      Sequence
	Pos       lexer.Position
}

func (s *WhileStatement) String() string { return "WhileStatement" }

// UntilStatement represents until ...; do ...; done
type UntilStatement struct {
	Redirected
	Condition Sequence
	Body      Sequence
	Pos       lexer.Position
}

func (s *UntilStatement) String() string { return "UntilStatement" }

// ForStatement represents both for name [in words] and for ((...)) loops.
type ForStatement struct {
	Redirected
	AfterFor Sequence
	Variable *Word  // nil for arithmetic loops
	Arith    string // "((init; cond; step))" as written
	In       *ForIn
	BeforeDo Sequence
	Body     Sequence
	Pos      lexer.Position
}

// ForIn is the in-clause of a for loop.
type ForIn struct {
	Before Sequence // trivia between the variable and "in"
	Items  []Node   // *Word and *Space after "in"
}

func (s *ForStatement) String() string {
	if s.Variable == nil {
		return fmt.Sprintf("ForStatement(%s)", s.Arith)
	}
	return fmt.Sprintf("ForStatement(%s)", s.Variable.Raw())
}

// Words returns the words iterated over, or nil without an in-clause.
func (s *ForStatement) Words() []*Word {
	if s.In == nil {
		return nil
	}
	var result []*Word
	for _, n := range s.In.Items {
		if w, ok := n.(*Word); ok {
			result = append(result, w)
		}
	}
	return result
}

// CaseStatement represents case word in ... esac
type CaseStatement struct {
	Redirected
	AfterCase  Sequence
	Subject    *Word
	BeforeIn   Sequence
	Clauses    []*CaseClause
	BeforeEsac Sequence
	Pos        lexer.Position
}

func (s *CaseStatement) String() string {
	return fmt.Sprintf("CaseStatement(%s, %d clauses)", rawOf(s.Subject), len(s.Clauses))
}

// Case clause terminators
const (
	Break       = ";;"
	FallThrough = ";&"
	Continue    = ";;&"
)

// CaseClause is one pattern list with its body. Lead holds the trivia
// before the patterns. Implicit marks a clause that reached esac without a
// terminator; its Terminator is ";;" but nothing is printed for it.
type CaseClause struct {
	Lead       Sequence
	OpenParen  bool
	Patterns   []Node // *Word, *Operator ("|") and *Space
	Body       Sequence
	Terminator string
	Implicit   bool
}

func (c *CaseClause) String() string {
	var pats []string
	for _, w := range c.PatternWords() {
		pats = append(pats, w.Raw())
	}
	return fmt.Sprintf("CaseClause(%s %s)", strings.Join(pats, "|"), c.Terminator)
}

// PatternWords returns the alternative patterns of the clause.
func (c *CaseClause) PatternWords() []*Word {
	var result []*Word
	for _, n := range c.Patterns {
		if w, ok := n.(*Word); ok {
			result = append(result, w)
		}
	}
	return result
}

// FunctionStyle records how a function definition was written
type FunctionStyle int

const (
	StyleParens  FunctionStyle = iota // name() body
	StyleKeyword                      // function name body
	StyleBoth                         // function name() body
)

var styleNames = [...]string{
	StyleParens:  "parens",
	StyleKeyword: "keyword",
	StyleBoth:    "both",
}

func (s FunctionStyle) String() string {
	if int(s) < len(styleNames) && int(s) >= 0 {
		return styleNames[s]
	}
	return fmt.Sprintf("FunctionStyle(%d)", int(s))
}

// FunctionDefinition represents a shell function. Body is a *BraceGroup or
// a *Subshell.
type FunctionDefinition struct {
	Style        FunctionStyle
	AfterKeyword Sequence // after "function"
	Name         *Word
	AfterName    Sequence // between the name and "("
	InParens     Sequence // between "(" and ")"
	BeforeBody   Sequence
	Body         Cmd
	Pos          lexer.Position
}

func (f *FunctionDefinition) String() string {
	return fmt.Sprintf("FunctionDefinition(%s)", rawOf(f.Name))
}

// BraceGroup represents { list; }
type BraceGroup struct {
	Redirected
	Body Sequence
	Pos  lexer.Position
}

func (b *BraceGroup) String() string { return "BraceGroup" }

// Subshell represents ( list )
type Subshell struct {
	Redirected
	Body Sequence
	Pos  lexer.Position
}

func (s *Subshell) String() string { return "Subshell" }

// TestExpression represents [ ... ] or, when Extended, [[ ... ]]. Elements
// keep operands, operators and trivia in source order.
type TestExpression struct {
	Redirected
	Extended bool
	Elements []Node // *Word, *Operator, *Redirect and trivia
	Pos      lexer.Position
}

func (t *TestExpression) String() string {
	var parts []string
	for _, n := range t.Terms() {
		parts = append(parts, n.String())
	}
	if t.Extended {
		return "[[ " + strings.Join(parts, " ") + " ]]"
	}
	return "[ " + strings.Join(parts, " ") + " ]"
}

// Terms returns the operands and operators of the test without trivia.
func (t *TestExpression) Terms() []Node {
	var result []Node
	for _, n := range t.Elements {
		if _, ok := n.(Trivia); !ok {
			result = append(result, n)
		}
	}
	return result
}

// ArithmeticCommand represents (( expr )). Expr is the text between the
// double parentheses.
type ArithmeticCommand struct {
	Redirected
	Expr string
	Pos  lexer.Position
}

func (a *ArithmeticCommand) String() string { return "((" + a.Expr + "))" }

// Space is a run of blanks, possibly with backslash-newline continuations.
type Space struct {
	Value string
}

func (s *Space) String() string { return s.Value }

// Newline is a line break.
type Newline struct{}

func (n *Newline) String() string { return "\n" }

// Semicolon is a ; statement separator.
type Semicolon struct{}

func (s *Semicolon) String() string { return ";" }

// Comment is a # comment up to the end of its line.
type Comment struct {
	Text string // including the leading #
	Pos  lexer.Position
}

func (c *Comment) String() string { return c.Text }

func (*Program) node()            {}
func (*CommandList) node()        {}
func (*Pipeline) node()           {}
func (*Operator) node()           {}
func (*Command) node()            {}
func (*Word) node()               {}
func (*VariableAssignment) node() {}
func (*ArrayLiteral) node()       {}
func (*Redirect) node()           {}
func (*HereDoc) node()            {}
func (*IfStatement) node()        {}
func (*ElifClause) node()         {}
func (*WhileStatement) node()     {}
func (*UntilStatement) node()     {}
func (*ForStatement) node()       {}
func (*CaseStatement) node()      {}
func (*CaseClause) node()         {}
func (*FunctionDefinition) node() {}
func (*BraceGroup) node()         {}
func (*Subshell) node()           {}
func (*TestExpression) node()     {}
func (*ArithmeticCommand) node()  {}
func (*Space) node()              {}
func (*Newline) node()            {}
func (*Semicolon) node()          {}
func (*Comment) node()            {}

func (*Command) cmd()            {}
func (*VariableAssignment) cmd() {}
func (*IfStatement) cmd()        {}
func (*WhileStatement) cmd()     {}
func (*UntilStatement) cmd()     {}
func (*ForStatement) cmd()       {}
func (*CaseStatement) cmd()      {}
func (*FunctionDefinition) cmd() {}
func (*BraceGroup) cmd()         {}
func (*Subshell) cmd()           {}
func (*TestExpression) cmd()     {}
func (*ArithmeticCommand) cmd()  {}

func (*Space) trivia()     {}
func (*Newline) trivia()   {}
func (*Semicolon) trivia() {}
func (*Comment) trivia()   {}
