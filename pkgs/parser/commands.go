package parser

import (
	"strings"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// newWord builds a word node from source text. A word that is one quoted
// string as a whole keeps only its content in Text.
func newWord(text string, pos lexer.Position) *ast.Word {
	w := &ast.Word{
		Text:     text,
		Segments: ast.SegmentsOf(lexer.ScanParts(text)),
		Pos:      pos,
	}
	if q := lexer.QuoteOf(text); q != lexer.Unquoted {
		w.Quoted = true
		w.QuoteType = q
		w.Text = text[1 : len(text)-1]
	}
	return w
}

// word consumes the current token as a word
func (p *Parser) word() *ast.Word {
	tok := p.advance()
	return newWord(tok.Text, tok.Start)
}

// isWordLike reports whether a token can be used as a plain word where a
// command name or argument is expected.
func isWordLike(t lexer.TokenType) bool {
	switch t {
	case lexer.WORD, lexer.LBRACKET, lexer.RBRACKET, lexer.DLBRACKET, lexer.DRBRACKET:
		return true
	}
	return t.IsKeyword()
}

// isName reports whether a token can name a command after its prefix.
func isName(t lexer.TokenType) bool {
	return isWordLike(t) && !isCloser(t)
}

func (p *Parser) isAssignment() bool {
	return p.current.Type == lexer.WORD && lexer.IsAssignment(p.current.Text)
}

// parseCommand parses a simple command:
// (assignment | redirect)* [name (word | redirect)*]
func (p *Parser) parseCommand() (ast.Cmd, error) {
	cmd := &ast.Command{Pos: p.current.Start}

	for p.current.Type.IsRedirect() || p.isAssignment() {
		if p.isAssignment() {
			a, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			cmd.Prefix = append(cmd.Prefix, a)
		} else {
			r, err := p.parseRedirect()
			if err != nil {
				return nil, err
			}
			cmd.Prefix = append(cmd.Prefix, r)
		}

		next := p.peekPastSpace().Type
		if !isName(next) && !next.IsRedirect() {
			break
		}
		cmd.Prefix = p.spaceInto(cmd.Prefix)
	}

	if isName(p.current.Type) {
		tok := p.advance()
		cmd.Name = newWord(tok.Text, tok.Start)
		p.names = append(p.names, tok)

		for {
			next := p.peekPastSpace().Type
			if next != lexer.WORD && !next.IsRedirect() &&
				next != lexer.LBRACKET && next != lexer.RBRACKET &&
				next != lexer.DLBRACKET && next != lexer.DRBRACKET {
				break
			}
			cmd.Args = p.spaceInto(cmd.Args)

			switch {
			case p.current.Type.IsRedirect():
				r, err := p.parseRedirect()
				if err != nil {
					return nil, err
				}
				cmd.Args = append(cmd.Args, r)
			case p.isArrayAssignment():
				a, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				cmd.Args = append(cmd.Args, a)
			default:
				cmd.Args = append(cmd.Args, p.word())
			}
		}
	}

	if cmd.Name == nil && len(cmd.Prefix) == 1 {
		if a, ok := cmd.Prefix[0].(*ast.VariableAssignment); ok {
			return a, nil
		}
	}
	return cmd, nil
}

// isArrayAssignment reports whether the current word starts name=( ... ).
func (p *Parser) isArrayAssignment() bool {
	if p.current.Type != lexer.WORD || !strings.HasSuffix(p.current.Text, "=") {
		return false
	}
	_, _, value, ok := lexer.SplitAssignment(p.current.Text)
	return ok && value == "" && p.tokens[p.pos+1].Type == lexer.LPAREN
}

// parseAssignment parses name=value, name+=value or name=(items)
func (p *Parser) parseAssignment() (*ast.VariableAssignment, error) {
	tok := p.advance()
	name, appendOp, value, _ := lexer.SplitAssignment(tok.Text)
	a := &ast.VariableAssignment{Name: name, Append: appendOp, Pos: tok.Start}

	if value != "" {
		shift := len(tok.Text) - len(value)
		pos := tok.Start
		pos.Offset += shift
		pos.Column += shift
		a.Value = newWord(value, pos)
		return a, nil
	}

	if p.current.Type == lexer.LPAREN {
		arr, err := p.parseArray()
		if err != nil {
			return nil, err
		}
		a.Array = arr
	}
	return a, nil
}

// parseArray parses ( item... ) after an assignment. Items may span lines.
func (p *Parser) parseArray() (*ast.ArrayLiteral, error) {
	p.advance()
	arr := &ast.ArrayLiteral{}
	for {
		arr.Items = append(arr.Items, p.trivia()...)
		switch {
		case p.current.Type == lexer.RPAREN:
			p.advance()
			return arr, nil
		case isWordLike(p.current.Type):
			arr.Items = append(arr.Items, p.word())
		default:
			return nil, p.errorf("')'")
		}
	}
}

// parseRedirect parses [n]op target. A heredoc operator takes the next
// collected body.
func (p *Parser) parseRedirect() (*ast.Redirect, error) {
	r := &ast.Redirect{Pos: p.current.Start}
	if p.current.Type == lexer.IO_NUMBER {
		r.Fd = p.advance().Text
	}
	if !p.match(lexer.REDIR, lexer.DLESS, lexer.DLESSDASH) {
		return nil, p.errorf("redirection operator")
	}

	op := p.advance()
	r.Op = op.Text
	if p.current.Type == lexer.SPACE {
		r.Space = p.advance().Text
	}
	if !isWordLike(p.current.Type) {
		return nil, p.errorf("redirection target")
	}
	target := p.word()

	if op.Type == lexer.REDIR {
		r.Target = target
		return r, nil
	}

	if len(p.bodies) == 0 {
		return nil, &lexer.UnterminatedError{Construct: "heredoc", Pos: op.Start}
	}
	body := p.bodies[0]
	p.bodies = p.bodies[1:]

	_, quoted := lexer.UnquoteDelimiter(target.Raw())
	hd := &ast.HereDoc{
		Delimiter: target,
		StripTabs: op.Type == lexer.DLESSDASH,
		Quoted:    quoted,
	}
	splitHeredoc(hd, body.Text)
	if !quoted {
		hd.Segments = ast.SegmentsOf(lexer.ScanHeredoc(hd.Content))
	}
	r.HereDoc = hd
	return r, nil
}

// splitHeredoc separates a collected body into content and terminator line.
func splitHeredoc(hd *ast.HereDoc, body string) {
	if strings.HasSuffix(body, "\n") {
		body = body[:len(body)-1]
	} else {
		hd.NoTrailingNewline = true
	}
	i := strings.LastIndexByte(body, '\n')
	hd.Content = body[:i+1]
	hd.EndLine = body[i+1:]
}

// redirects parses the redirects that may follow a compound command
func (p *Parser) redirects(r *ast.Redirected) error {
	for p.peekPastSpace().Type.IsRedirect() {
		r.Redirs = p.spaceInto(r.Redirs)
		rd, err := p.parseRedirect()
		if err != nil {
			return err
		}
		r.Redirs = append(r.Redirs, rd)
	}
	return nil
}
