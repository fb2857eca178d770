package ast

import (
	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// Editor support functions: symbol outlines and position lookup.

// SymbolKind classifies a document symbol
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolVariable
)

func (k SymbolKind) String() string {
	if k == SymbolFunction {
		return "function"
	}
	return "variable"
}

// Symbol is a name defined by the script.
type Symbol struct {
	Name string
	Kind SymbolKind
	Pos  lexer.Position
}

// DocumentSymbols lists function definitions, assigned variables and loop
// variables in source order. A name assigned several times is reported at
// each assignment.
func DocumentSymbols(program *Program) []Symbol {
	var symbols []Symbol
	Walk(program, func(n Node) bool {
		switch n := n.(type) {
		case *FunctionDefinition:
			if n.Name != nil {
				symbols = append(symbols, Symbol{Name: n.Name.Value(), Kind: SymbolFunction, Pos: n.Pos})
			}
		case *VariableAssignment:
			symbols = append(symbols, Symbol{Name: baseName(n.Name), Kind: SymbolVariable, Pos: n.Pos})
		case *ForStatement:
			if n.Variable != nil {
				symbols = append(symbols, Symbol{Name: n.Variable.Value(), Kind: SymbolVariable, Pos: n.Variable.Pos})
			}
		}
		return true
	})
	return symbols
}

func baseName(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '[' {
			return name[:i]
		}
	}
	return name
}

// WordAt finds the word covering the given 1-based line and column, or nil.
// Only words with source positions can be found.
func WordAt(root Node, line, column int) *Word {
	var found *Word
	Walk(root, func(n Node) bool {
		w, ok := n.(*Word)
		if !ok || !w.Pos.IsValid() {
			return true
		}
		if isPositionInWord(line, column, w) {
			found = w
		}
		return true
	})
	return found
}

func isPositionInWord(line, column int, w *Word) bool {
	raw := w.Raw()
	l, c := w.Pos.Line, w.Pos.Column
	for i := 0; i < len(raw); i++ {
		if l == line && c == column {
			return true
		}
		if raw[i] == '\n' {
			l++
			c = 1
		} else {
			c++
		}
	}
	return false
}
