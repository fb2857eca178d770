package parser

import (
	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/aledsdavies/bashcst/pkgs/lexer"
)

// Parser implements a recursive descent parser over the lossless token
// stream. Every token ends up in the tree, as structure or as trivia.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	current lexer.Token
	bodies  []lexer.Token // heredoc bodies, in the order of their operators
	names   []lexer.Token // command names seen so far, for keyword hints
}

// Parse tokenizes and parses a Bash script. Lexer failures are returned
// unchanged as *lexer.UnterminatedError; grammar failures as *ParseError.
func Parse(text string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already tokenized script. A missing trailing EOF
// token is supplied.
func ParseTokens(tokens []lexer.Token) (*ast.Program, error) {
	p := &Parser{tokens: make([]lexer.Token, 0, len(tokens)+1)}
	for _, tok := range tokens {
		if tok.Type == lexer.HEREDOC_BODY {
			p.bodies = append(p.bodies, tok)
			continue
		}
		p.tokens = append(p.tokens, tok)
	}

	if n := len(p.tokens); n == 0 || p.tokens[n-1].Type != lexer.EOF {
		end := lexer.Position{Line: 1, Column: 1}
		if n > 0 {
			end = p.tokens[n-1].End
		}
		p.tokens = append(p.tokens, lexer.Token{Type: lexer.EOF, Start: end, End: end})
	}
	p.current = p.tokens[0]

	return p.parseProgram()
}

// advance consumes the current token and returns it
func (p *Parser) advance() lexer.Token {
	tok := p.current
	if p.pos < len(p.tokens)-1 {
		p.pos++
		p.current = p.tokens[p.pos]
	}
	return tok
}

// match checks if current token matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.current.Type == t {
			return true
		}
	}
	return false
}

// isWord reports whether the current token is the plain word text. Reserved
// words are not recognized everywhere, so "in", "do" and "esac" sometimes
// arrive as words.
func (p *Parser) isWord(text string) bool {
	return p.current.Type == lexer.WORD && p.current.Text == text
}

// skipSpaces returns the index of the first non-space token at or after i.
// The trailing EOF token bounds the search.
func (p *Parser) skipSpaces(i int) int {
	for p.tokens[i].Type == lexer.SPACE {
		i++
	}
	return i
}

// peekPastSpace returns the first token at or after the cursor that is not
// a space.
func (p *Parser) peekPastSpace() lexer.Token {
	return p.tokens[p.skipSpaces(p.pos)]
}

// spaceInto appends the current space token, if any, to items.
func (p *Parser) spaceInto(items []ast.Node) []ast.Node {
	if p.current.Type == lexer.SPACE {
		items = append(items, &ast.Space{Value: p.advance().Text})
	}
	return items
}

// spaces collects the spaces at the cursor.
func (p *Parser) spaces() ast.Sequence {
	var seq ast.Sequence
	for p.current.Type == lexer.SPACE {
		seq = append(seq, &ast.Space{Value: p.advance().Text})
	}
	return seq
}

// trivia collects spaces, newlines and comments at the cursor.
func (p *Parser) trivia() ast.Sequence {
	var seq ast.Sequence
	for {
		switch p.current.Type {
		case lexer.SPACE:
			seq = append(seq, &ast.Space{Value: p.advance().Text})
		case lexer.NEWLINE:
			p.advance()
			seq = append(seq, &ast.Newline{})
		case lexer.COMMENT:
			tok := p.advance()
			seq = append(seq, &ast.Comment{Text: tok.Text, Pos: tok.Start})
		default:
			return seq
		}
	}
}

func (p *Parser) errorf(expected string) *ParseError {
	return NewParseError(expected, p.current)
}

// consume advances past a token of the given type or reports what was
// expected, with a typo hint for closing keywords.
func (p *Parser) consume(typ lexer.TokenType) (lexer.Token, error) {
	if p.current.Type == typ {
		return p.advance(), nil
	}
	return lexer.Token{}, p.expected(typ)
}

func (p *Parser) expected(typ lexer.TokenType) *ParseError {
	text := describe(typ)
	err := p.errorf("'" + text + "'")
	if typ.IsKeyword() && len(text) > 1 {
		err.Hint = p.keywordHint(text)
	}
	return err
}

// describe returns the source text of a fixed token type.
func describe(typ lexer.TokenType) string {
	for text, t := range lexer.Keywords {
		if t == typ {
			return text
		}
	}
	switch typ {
	case lexer.RPAREN:
		return ")"
	case lexer.RBRACKET:
		return "]"
	case lexer.DRBRACKET:
		return "]]"
	case lexer.DSEMI:
		return ";;"
	case lexer.SEMI_AMP:
		return ";&"
	case lexer.DSEMI_AMP:
		return ";;&"
	case lexer.IN:
		return "in"
	}
	return typ.String()
}

// isCloser reports whether t can only end an enclosing construct.
func isCloser(t lexer.TokenType) bool {
	switch t {
	case lexer.THEN, lexer.ELSE, lexer.ELIF, lexer.FI, lexer.DO, lexer.DONE, lexer.ESAC,
		lexer.RBRACE, lexer.RPAREN, lexer.DSEMI, lexer.SEMI_AMP, lexer.DSEMI_AMP:
		return true
	}
	return false
}

// parseProgram parses the entire script
func (p *Parser) parseProgram() (*ast.Program, error) {
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: body}, nil
}

// parseSequence parses statements and the trivia around them until EOF or
// one of the stop tokens, which is left for the caller.
func (p *Parser) parseSequence(stops ...lexer.TokenType) (ast.Sequence, error) {
	var seq ast.Sequence
	separable := false // a ; may follow

	for {
		switch p.current.Type {
		case lexer.SPACE:
			seq = append(seq, &ast.Space{Value: p.advance().Text})
			continue
		case lexer.NEWLINE:
			p.advance()
			seq = append(seq, &ast.Newline{})
			separable = false
			continue
		case lexer.COMMENT:
			tok := p.advance()
			seq = append(seq, &ast.Comment{Text: tok.Text, Pos: tok.Start})
			separable = false
			continue
		case lexer.SEMI:
			if !separable {
				return nil, p.errorf("command")
			}
			p.advance()
			seq = append(seq, &ast.Semicolon{})
			separable = false
			continue
		case lexer.EOF:
			return seq, nil
		}

		if p.match(stops...) {
			return seq, nil
		}
		if isCloser(p.current.Type) && len(stops) > 0 {
			return nil, p.expected(stops[0])
		}

		stmt, err := p.parseCommandList()
		if err != nil {
			return nil, err
		}
		seq = append(seq, stmt)

		pipes := stmt.Pipelines()
		separable = !pipes[len(pipes)-1].Background
		if !separable {
			continue
		}
		switch next := p.peekPastSpace(); next.Type {
		case lexer.NEWLINE, lexer.SEMI, lexer.COMMENT, lexer.EOF:
		default:
			if !containsType(stops, next.Type) {
				return nil, NewParseError("';' or newline", next)
			}
		}
	}
}

func containsType(types []lexer.TokenType, t lexer.TokenType) bool {
	for _, typ := range types {
		if typ == t {
			return true
		}
	}
	return false
}

// parseBody parses a sequence that must hold at least one statement. At
// end of input the empty sequence is returned so the caller can report the
// missing closing keyword instead.
func (p *Parser) parseBody(stops ...lexer.TokenType) (ast.Sequence, error) {
	seq, err := p.parseSequence(stops...)
	if err != nil {
		return nil, err
	}
	if len(seq.Statements()) == 0 && p.current.Type != lexer.EOF {
		return nil, p.errorf("command")
	}
	return seq, nil
}

// parseCommandList parses pipelines joined by && and ||
func (p *Parser) parseCommandList() (*ast.CommandList, error) {
	list := &ast.CommandList{Pos: p.current.Start}
	for {
		pipe, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, pipe)
		if pipe.Background {
			return list, nil
		}

		next := p.peekPastSpace()
		if next.Type != lexer.AND_IF && next.Type != lexer.OR_IF {
			return list, nil
		}
		list.Items = p.spaceInto(list.Items)
		list.Items = append(list.Items, &ast.Operator{Op: p.advance().Text})
		list.Items = append(list.Items, p.trivia()...)
	}
}

// parsePipeline parses [!] stage (| stage)* [&]
func (p *Parser) parsePipeline() (*ast.Pipeline, error) {
	pipe := &ast.Pipeline{Pos: p.current.Start}
	if p.current.Type == lexer.BANG {
		p.advance()
		pipe.Negated = true
		pipe.Items = p.spaceInto(pipe.Items)
	}

	for {
		stage, err := p.parseStage()
		if err != nil {
			return nil, err
		}
		pipe.Items = append(pipe.Items, stage)

		next := p.peekPastSpace()
		if next.Type != lexer.PIPE && next.Type != lexer.PIPE_AMP {
			break
		}
		pipe.Items = p.spaceInto(pipe.Items)
		pipe.Items = append(pipe.Items, &ast.Operator{Op: p.advance().Text})
		pipe.Items = append(pipe.Items, p.trivia()...)
	}

	if p.peekPastSpace().Type == lexer.AMP {
		pipe.Items = p.spaceInto(pipe.Items)
		p.advance()
		pipe.Background = true
	}
	return pipe, nil
}

// parseStage dispatches on the leading token of a pipeline stage
func (p *Parser) parseStage() (ast.Cmd, error) {
	switch p.current.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE, lexer.UNTIL:
		return p.parseLoop()
	case lexer.FOR:
		return p.parseFor()
	case lexer.CASE:
		return p.parseCase()
	case lexer.FUNCTION:
		return p.parseFunction()
	case lexer.LBRACE:
		return p.parseBraceGroup()
	case lexer.LPAREN:
		return p.parseSubshell()
	case lexer.DLBRACKET:
		return p.parseExtendedTest()
	case lexer.LBRACKET:
		return p.parseTest()
	case lexer.ARITH_CMD:
		return p.parseArithmetic()
	case lexer.WORD:
		if p.isFunctionDef() {
			return p.parseFunction()
		}
		return p.parseCommand()
	case lexer.IO_NUMBER, lexer.REDIR, lexer.DLESS, lexer.DLESSDASH:
		return p.parseCommand()
	}
	return nil, p.errorf("command")
}

// isFunctionDef looks ahead for name ( ).
func (p *Parser) isFunctionDef() bool {
	if lexer.IsAssignment(p.current.Text) {
		return false
	}
	i := p.skipSpaces(p.pos + 1)
	if p.tokens[i].Type != lexer.LPAREN {
		return false
	}
	i = p.skipSpaces(i + 1)
	return p.tokens[i].Type == lexer.RPAREN
}
