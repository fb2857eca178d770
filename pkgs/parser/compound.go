package parser

import (
	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// parseIf parses if list; then list; [elif list; then list;]... [else list;] fi
func (p *Parser) parseIf() (ast.Cmd, error) {
	stmt := &ast.IfStatement{Pos: p.advance().Start}

	var err error
	if stmt.Condition, err = p.parseBody(lexer.THEN); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.THEN); err != nil {
		return nil, err
	}
	if stmt.Then, err = p.parseBody(lexer.ELIF, lexer.ELSE, lexer.FI); err != nil {
		return nil, err
	}

	for p.current.Type == lexer.ELIF {
		p.advance()
		clause := &ast.ElifClause{}
		if clause.Condition, err = p.parseBody(lexer.THEN); err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.THEN); err != nil {
			return nil, err
		}
		if clause.Body, err = p.parseBody(lexer.ELIF, lexer.ELSE, lexer.FI); err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, clause)
	}

	if p.current.Type == lexer.ELSE {
		p.advance()
		if stmt.Else, err = p.parseBody(lexer.FI); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.FI); err != nil {
		return nil, err
	}
	if err := p.redirects(&stmt.Redirected); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseLoop parses while and until loops, which share one shape
func (p *Parser) parseLoop() (ast.Cmd, error) {
	kw := p.advance()

	cond, err := p.parseBody(lexer.DO)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.DO); err != nil {
		return nil, err
	}
	body, err := p.parseBody(lexer.DONE)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.DONE); err != nil {
		return nil, err
	}

	if kw.Type == lexer.UNTIL {
		stmt := &ast.UntilStatement{Condition: cond, Body: body, Pos: kw.Start}
		if err := p.redirects(&stmt.Redirected); err != nil {
			return nil, err
		}
		return stmt, nil
	}
	stmt := &ast.WhileStatement{Condition: cond, Body: body, Pos: kw.Start}
	if err := p.redirects(&stmt.Redirected); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseFor parses for name [in words]; do list; done and
// for ((init; cond; step)); do list; done
func (p *Parser) parseFor() (ast.Cmd, error) {
	stmt := &ast.ForStatement{Pos: p.advance().Start}
	stmt.AfterFor = p.spaces()

	switch p.current.Type {
	case lexer.ARITH_CMD:
		stmt.Arith = p.advance().Text
	case lexer.WORD:
		stmt.Variable = p.word()
	default:
		return nil, p.errorf("loop variable")
	}

	lead := p.trivia()
	if stmt.Variable != nil && (p.current.Type == lexer.IN || p.isWord("in")) {
		p.advance()
		in := &ast.ForIn{Before: lead}
		for p.peekPastSpace().Type == lexer.WORD {
			in.Items = p.spaceInto(in.Items)
			in.Items = append(in.Items, p.word())
		}
		stmt.In = in
		lead = p.trivia()
	}

	if p.current.Type == lexer.SEMI {
		p.advance()
		lead = append(lead, &ast.Semicolon{})
		lead = append(lead, p.trivia()...)
	}
	stmt.BeforeDo = lead

	// After (( )) the lexer does not treat do as reserved.
	if p.isWord("do") && stmt.Variable == nil {
		p.advance()
	} else if _, err := p.consume(lexer.DO); err != nil {
		return nil, err
	}

	var err error
	if stmt.Body, err = p.parseBody(lexer.DONE); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.DONE); err != nil {
		return nil, err
	}
	if err := p.redirects(&stmt.Redirected); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseCase parses case word in [clause]... esac
func (p *Parser) parseCase() (ast.Cmd, error) {
	stmt := &ast.CaseStatement{Pos: p.advance().Start}
	stmt.AfterCase = p.spaces()

	if !isWordLike(p.current.Type) {
		return nil, p.errorf("word")
	}
	stmt.Subject = p.word()
	stmt.BeforeIn = p.trivia()

	if p.current.Type != lexer.IN && !p.isWord("in") {
		return nil, p.expected(lexer.IN)
	}
	p.advance()

	for {
		lead := p.trivia()
		if p.current.Type == lexer.ESAC || p.isWord("esac") {
			p.advance()
			stmt.BeforeEsac = lead
			break
		}
		if p.current.Type == lexer.EOF {
			return nil, p.expected(lexer.ESAC)
		}

		clause, err := p.parseCaseClause(lead)
		if err != nil {
			return nil, err
		}
		stmt.Clauses = append(stmt.Clauses, clause)
	}

	if err := p.redirects(&stmt.Redirected); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseCaseClause parses [(] pattern [| pattern]... ) list [;; | ;& | ;;&]
func (p *Parser) parseCaseClause(lead ast.Sequence) (*ast.CaseClause, error) {
	clause := &ast.CaseClause{Lead: lead}
	if p.current.Type == lexer.LPAREN {
		p.advance()
		clause.OpenParen = true
	}

	for {
		clause.Patterns = p.spaceInto(clause.Patterns)
		if !isWordLike(p.current.Type) {
			return nil, p.errorf("pattern")
		}
		clause.Patterns = append(clause.Patterns, p.word())
		clause.Patterns = p.spaceInto(clause.Patterns)
		if p.current.Type != lexer.PIPE {
			break
		}
		clause.Patterns = append(clause.Patterns, &ast.Operator{Op: p.advance().Text})
	}
	if _, err := p.consume(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseSequence(lexer.DSEMI, lexer.SEMI_AMP, lexer.DSEMI_AMP, lexer.ESAC)
	if err != nil {
		return nil, err
	}
	clause.Body = body

	switch p.current.Type {
	case lexer.DSEMI, lexer.SEMI_AMP, lexer.DSEMI_AMP:
		clause.Terminator = p.advance().Text
	case lexer.ESAC:
		// esac is consumed by the statement
		clause.Terminator = ast.Break
		clause.Implicit = true
	default:
		return nil, p.expected(lexer.ESAC)
	}
	return clause, nil
}

// parseFunction parses name() body, function name body and
// function name() body. The body is a brace group or a subshell.
func (p *Parser) parseFunction() (ast.Cmd, error) {
	fn := &ast.FunctionDefinition{Pos: p.current.Start}

	if p.current.Type == lexer.FUNCTION {
		p.advance()
		fn.Style = ast.StyleKeyword
		fn.AfterKeyword = p.spaces()
		if p.current.Type != lexer.WORD {
			return nil, p.errorf("function name")
		}
		fn.Name = p.word()
		if p.peekPastSpace().Type == lexer.LPAREN {
			fn.Style = ast.StyleBoth
			fn.AfterName = p.spaces()
			if err := p.emptyParens(fn); err != nil {
				return nil, err
			}
		}
	} else {
		fn.Style = ast.StyleParens
		fn.Name = p.word()
		fn.AfterName = p.spaces()
		if err := p.emptyParens(fn); err != nil {
			return nil, err
		}
	}

	fn.BeforeBody = p.trivia()

	var err error
	switch p.current.Type {
	case lexer.LBRACE:
		fn.Body, err = p.parseBraceGroup()
	case lexer.LPAREN:
		fn.Body, err = p.parseSubshell()
	default:
		return nil, p.expected(lexer.LBRACE)
	}
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) emptyParens(fn *ast.FunctionDefinition) error {
	if _, err := p.consume(lexer.LPAREN); err != nil {
		return err
	}
	fn.InParens = p.spaces()
	_, err := p.consume(lexer.RPAREN)
	return err
}

// parseBraceGroup parses { list; }
func (p *Parser) parseBraceGroup() (ast.Cmd, error) {
	group := &ast.BraceGroup{Pos: p.advance().Start}

	var err error
	if group.Body, err = p.parseBody(lexer.RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RBRACE); err != nil {
		return nil, err
	}
	if err := p.redirects(&group.Redirected); err != nil {
		return nil, err
	}
	return group, nil
}

// parseSubshell parses ( list )
func (p *Parser) parseSubshell() (ast.Cmd, error) {
	sub := &ast.Subshell{Pos: p.advance().Start}

	var err error
	if sub.Body, err = p.parseBody(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RPAREN); err != nil {
		return nil, err
	}
	if err := p.redirects(&sub.Redirected); err != nil {
		return nil, err
	}
	return sub, nil
}

// parseExtendedTest parses [[ expression ]] into a flat element list
func (p *Parser) parseExtendedTest() (ast.Cmd, error) {
	test := &ast.TestExpression{Extended: true, Pos: p.advance().Start}

	for p.current.Type != lexer.DRBRACKET {
		switch p.current.Type {
		case lexer.SPACE:
			test.Elements = append(test.Elements, &ast.Space{Value: p.advance().Text})
		case lexer.NEWLINE:
			p.advance()
			test.Elements = append(test.Elements, &ast.Newline{})
		case lexer.AND_IF, lexer.OR_IF, lexer.LPAREN, lexer.RPAREN, lexer.BANG:
			test.Elements = append(test.Elements, &ast.Operator{Op: p.advance().Text})
		case lexer.WORD:
			test.Elements = append(test.Elements, p.word())
		default:
			return nil, p.expected(lexer.DRBRACKET)
		}
	}
	if len(test.Terms()) == 0 {
		return nil, p.errorf("conditional expression")
	}
	p.advance()

	if err := p.redirects(&test.Redirected); err != nil {
		return nil, err
	}
	return test, nil
}

// parseTest parses [ args ]. The arguments stay a flat list; redirects
// between them belong to the test command.
func (p *Parser) parseTest() (ast.Cmd, error) {
	test := &ast.TestExpression{Pos: p.advance().Start}

	for p.current.Type != lexer.RBRACKET {
		switch {
		case p.current.Type == lexer.SPACE:
			test.Elements = append(test.Elements, &ast.Space{Value: p.advance().Text})
		case p.current.Type.IsRedirect():
			r, err := p.parseRedirect()
			if err != nil {
				return nil, err
			}
			test.Elements = append(test.Elements, r)
		case isWordLike(p.current.Type):
			test.Elements = append(test.Elements, p.word())
		default:
			return nil, p.expected(lexer.RBRACKET)
		}
	}
	p.advance()

	if err := p.redirects(&test.Redirected); err != nil {
		return nil, err
	}
	return test, nil
}

// parseArithmetic parses (( expr ))
func (p *Parser) parseArithmetic() (ast.Cmd, error) {
	tok := p.advance()
	cmd := &ast.ArithmeticCommand{Expr: tok.Text[2 : len(tok.Text)-2], Pos: tok.Start}
	if err := p.redirects(&cmd.Redirected); err != nil {
		return nil, err
	}
	return cmd, nil
}
