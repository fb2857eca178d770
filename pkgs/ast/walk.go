package ast

// Walk traverses the tree depth-first in source order, calling fn for each
// node. Children are skipped when fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkList(n.Body, fn)
	case *CommandList:
		walkList(n.Items, fn)
	case *Pipeline:
		walkList(n.Items, fn)
	case *Command:
		walkList(n.Prefix, fn)
		walkWord(n.Name, fn)
		walkList(n.Args, fn)
	case *VariableAssignment:
		walkWord(n.Value, fn)
		if n.Array != nil {
			Walk(n.Array, fn)
		}
	case *ArrayLiteral:
		walkList(n.Items, fn)
	case *Redirect:
		walkWord(n.Target, fn)
		if n.HereDoc != nil {
			Walk(n.HereDoc, fn)
		}
	case *HereDoc:
		walkWord(n.Delimiter, fn)
	case *IfStatement:
		walkList(n.Condition, fn)
		walkList(n.Then, fn)
		for _, e := range n.Elifs {
			Walk(e, fn)
		}
		walkList(n.Else, fn)
		walkList(n.Redirs, fn)
	case *ElifClause:
		walkList(n.Condition, fn)
		walkList(n.Body, fn)
	case *WhileStatement:
		walkList(n.Condition, fn)
		walkList(n.Body, fn)
		walkList(n.Redirs, fn)
	case *UntilStatement:
		walkList(n.Condition, fn)
		walkList(n.Body, fn)
		walkList(n.Redirs, fn)
	case *ForStatement:
		walkList(n.AfterFor, fn)
		walkWord(n.Variable, fn)
		if n.In != nil {
			walkList(n.In.Before, fn)
			walkList(n.In.Items, fn)
		}
		walkList(n.BeforeDo, fn)
		walkList(n.Body, fn)
		walkList(n.Redirs, fn)
	case *CaseStatement:
		walkList(n.AfterCase, fn)
		walkWord(n.Subject, fn)
		walkList(n.BeforeIn, fn)
		for _, c := range n.Clauses {
			Walk(c, fn)
		}
		walkList(n.BeforeEsac, fn)
		walkList(n.Redirs, fn)
	case *CaseClause:
		walkList(n.Lead, fn)
		walkList(n.Patterns, fn)
		walkList(n.Body, fn)
	case *FunctionDefinition:
		walkList(n.AfterKeyword, fn)
		walkWord(n.Name, fn)
		walkList(n.AfterName, fn)
		walkList(n.InParens, fn)
		walkList(n.BeforeBody, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}
	case *BraceGroup:
		walkList(n.Body, fn)
		walkList(n.Redirs, fn)
	case *Subshell:
		walkList(n.Body, fn)
		walkList(n.Redirs, fn)
	case *TestExpression:
		walkList(n.Elements, fn)
		walkList(n.Redirs, fn)
	case *ArithmeticCommand:
		walkList(n.Redirs, fn)
	case *Word, *Operator, *Space, *Newline, *Semicolon, *Comment:
		// Leaf nodes
	}
}

func walkList(list []Node, fn func(Node) bool) {
	for _, n := range list {
		Walk(n, fn)
	}
}

func walkWord(w *Word, fn func(Node) bool) {
	if w != nil {
		Walk(w, fn)
	}
}

// Commands returns every simple command under node in source order.
func Commands(node Node) []*Command {
	var result []*Command
	Walk(node, func(n Node) bool {
		if c, ok := n.(*Command); ok {
			result = append(result, c)
		}
		return true
	})
	return result
}

// Functions returns every function definition under node in source order.
func Functions(node Node) []*FunctionDefinition {
	var result []*FunctionDefinition
	Walk(node, func(n Node) bool {
		if f, ok := n.(*FunctionDefinition); ok {
			result = append(result, f)
		}
		return true
	})
	return result
}
