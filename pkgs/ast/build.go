package ast

import (
	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

var segmentKinds = [...]SegmentKind{
	lexer.PartLiteral: Literal,
	lexer.PartParam:   Parameter,
	lexer.PartCommand: CommandSubst,
	lexer.PartArith:   Arithmetic,
	lexer.PartProcess: ProcessSubst,
}

// SegmentsOf converts scanned word parts into segments.
func SegmentsOf(parts []lexer.Part) []Segment {
	if len(parts) == 0 {
		return nil
	}
	result := make([]Segment, len(parts))
	for i, p := range parts {
		result[i] = Segment{Kind: segmentKinds[p.Kind], Quote: p.Quote, Text: p.Text, Name: p.Name}
	}
	return result
}

// NewWord creates an unquoted word. text is used as written, so it may
// contain quoted parts and expansions.
func NewWord(text string) *Word {
	return &Word{Text: text, Segments: SegmentsOf(lexer.ScanParts(text))}
}

// NewQuotedWord creates a word quoted as a whole. text is the content
// between the quotes.
func NewQuotedWord(text string, quote lexer.QuoteType) *Word {
	if quote.Delimiter() == "" {
		return NewWord(text)
	}
	w := &Word{Text: text, Quoted: true, QuoteType: quote}
	w.Segments = SegmentsOf(lexer.ScanParts(w.Raw()))
	return w
}

// NewCommand creates a simple command with single spaces between words.
func NewCommand(name string, args ...*Word) *Command {
	c := &Command{Name: NewWord(name)}
	for _, a := range args {
		c.Args = append(c.Args, &Space{Value: " "}, a)
	}
	return c
}

// NewAssignment creates name=value with value used as written.
func NewAssignment(name, value string) *VariableAssignment {
	a := &VariableAssignment{Name: name}
	if value != "" {
		a.Value = NewWord(value)
	}
	return a
}

// NewStatement joins stages into a pipeline statement.
func NewStatement(stages ...Cmd) *CommandList {
	p := &Pipeline{}
	for i, s := range stages {
		if i > 0 {
			p.Items = append(p.Items, &Space{Value: " "}, &Operator{Op: "|"}, &Space{Value: " "})
		}
		p.Items = append(p.Items, s)
	}
	return &CommandList{Items: []Node{p}}
}

// NewProgram creates a program with one statement per line.
func NewProgram(stmts ...*CommandList) *Program {
	prog := &Program{}
	for _, s := range stmts {
		prog.Body = append(prog.Body, s, &Newline{})
	}
	return prog
}
