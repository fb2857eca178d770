package lexer

import (
	"strings"
)

// Character classification lookup tables
var (
	isBlank       [256]bool
	isMeta        [256]bool
	isDigit       [256]bool
	isNameStart   [256]bool
	isNamePart    [256]bool
	isExtglobLead [256]bool
	isCommentLead [256]bool
)

func init() {
	for i := 0; i < 256; i++ {
		ch := byte(i)
		isBlank[i] = ch == ' ' || ch == '\t' || ch == '\r'
		isMeta[i] = isBlank[i] || (ch != 0 && strings.IndexByte("\n;&|<>()", ch) >= 0)
		isDigit[i] = '0' <= ch && ch <= '9'
		isNameStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isNamePart[i] = isNameStart[i] || isDigit[i]
		isExtglobLead[i] = ch != 0 && strings.IndexByte("?*+@!", ch) >= 0
		isCommentLead[i] = isBlank[i] || (ch != 0 && strings.IndexByte("\n;&|(", ch) >= 0)
	}
}

// Redirection operators, longest first
var redirOps = [...]struct {
	text string
	typ  TokenType
}{
	{"<<<", REDIR},
	{"<<-", DLESSDASH},
	{"<<", DLESS},
	{"<>", REDIR},
	{"<&", REDIR},
	{">>", REDIR},
	{">&", REDIR},
	{">|", REDIR},
	{"<", REDIR},
	{">", REDIR},
}

type pendingHeredoc struct {
	delimiter string // delimiter with quoting removed
	stripTabs bool
	op        Position // position of the << operator
}

// Lexer tokenizes Bash source into a lossless token stream.
//
// Context that a plain regular lexer cannot see is tracked here: whether the
// next word is in command position (keywords are only reserved there), open
// [[ ]] and [ ] tests, pending redirect targets and heredocs whose bodies
// start after the current line.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int

	queue []Token // tokens produced ahead of time (heredoc bodies)

	cmdPos      bool
	savedCmdPos bool // command position to restore after a redirect target
	redirTarget bool
	ioNumber    bool
	inTest      bool       // inside [ ... ]
	extended    []Position // open [[ tokens
	regexNext   bool       // the next word in [[ ]] is a =~ operand
	recent      [2]TokenType

	heredocOp *Token
	heredocs  []pendingHeredoc
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
		cmdPos: true,
	}
}

// Tokenize splits text into tokens. Concatenating the Text of every token
// reproduces text exactly. The final token is always EOF.
func Tokenize(text string) ([]Token, error) {
	return New(text).TokenizeToSlice()
}

// TokenizeToSlice tokenizes the whole input into a pre-allocated slice
func (l *Lexer) TokenizeToSlice() ([]Token, error) {
	estimatedTokens := len(l.input) / 3
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}
	result := make([]Token, 0, estimatedTokens)

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		result = append(result, tok)
		if tok.Type == EOF {
			return result, nil
		}
	}
}

// NextToken returns the next token from the input. Once the input is
// exhausted it keeps returning EOF.
func (l *Lexer) NextToken() (Token, error) {
	if len(l.queue) > 0 {
		tok := l.queue[0]
		l.queue = l.queue[1:]
		return tok, nil
	}

	if l.pos >= len(l.input) {
		return l.lexEOF()
	}

	start := l.position()
	c := l.input[l.pos]
	ext := len(l.extended) > 0

	if ext && l.regexNext && !isBlank[c] && c != '\n' {
		return l.lexWord(start)
	}

	switch {
	case isBlank[c] || (c == '\\' && l.peek(1) == '\n'):
		l.skipSpace()
		return l.emit(SPACE, start), nil

	case c == '\n':
		l.advanceTo(l.pos + 1)
		tok := l.emit(NEWLINE, start)
		if err := l.readHeredocBodies(); err != nil {
			return Token{}, err
		}
		return tok, nil

	case c == '#':
		end := strings.IndexByte(l.input[l.pos:], '\n')
		if end < 0 {
			end = len(l.input) - l.pos
		}
		l.advanceTo(l.pos + end)
		return l.emit(COMMENT, start), nil

	case c == ';':
		switch {
		case l.hasPrefix(";;&"):
			return l.op(DSEMI_AMP, 3, start), nil
		case l.hasPrefix(";;"):
			return l.op(DSEMI, 2, start), nil
		case l.hasPrefix(";&"):
			return l.op(SEMI_AMP, 2, start), nil
		}
		return l.op(SEMI, 1, start), nil

	case c == '&':
		switch {
		case l.hasPrefix("&&"):
			return l.op(AND_IF, 2, start), nil
		case !ext && l.hasPrefix("&>>"):
			return l.op(REDIR, 3, start), nil
		case !ext && l.hasPrefix("&>"):
			return l.op(REDIR, 2, start), nil
		}
		return l.op(AMP, 1, start), nil

	case c == '|':
		switch {
		case l.hasPrefix("||"):
			return l.op(OR_IF, 2, start), nil
		case l.hasPrefix("|&"):
			return l.op(PIPE_AMP, 2, start), nil
		}
		return l.op(PIPE, 1, start), nil

	case c == '(':
		if !ext && l.peek(1) == '(' && (l.cmdPos || l.recent[1] == FOR) {
			return l.lexArithCommand(start)
		}
		return l.op(LPAREN, 1, start), nil

	case c == ')':
		return l.op(RPAREN, 1, start), nil

	case c == '<' || c == '>':
		if ext {
			return l.op(WORD, 1, start), nil
		}
		if l.peek(1) == '(' {
			return l.lexWord(start)
		}
		return l.lexRedirect(start), nil
	}

	return l.lexWord(start)
}

func (l *Lexer) lexEOF() (Token, error) {
	if n := len(l.extended); n > 0 {
		return Token{}, &UnterminatedError{Construct: "extended test", Pos: l.extended[n-1]}
	}
	if len(l.heredocs) > 0 {
		return Token{}, &UnterminatedError{Construct: "heredoc", Pos: l.heredocs[0].op}
	}
	p := l.position()
	return Token{Type: EOF, Start: p, End: p}, nil
}

func (l *Lexer) lexWord(start Position) (Token, error) {
	ext := len(l.extended) > 0
	end, open := scanWord(l.input, l.pos, ext, ext && l.regexNext)
	if open != nil {
		return Token{}, l.unterminated(open)
	}
	if end <= l.pos {
		end = l.pos + 1
	}
	text := l.input[l.pos:end]
	typ := l.classify(text, end, start)
	l.advanceTo(end)
	return l.emit(typ, start), nil
}

func (l *Lexer) lexArithCommand(start Position) (Token, error) {
	end, open := scanNested(l.input, l.pos, l.pos+2, ctxArithmetic)
	if open != nil {
		return Token{}, &UnterminatedError{Construct: "arithmetic command", Pos: start}
	}
	l.advanceTo(end)
	return l.emit(ARITH_CMD, start), nil
}

func (l *Lexer) lexRedirect(start Position) Token {
	for _, r := range redirOps {
		if l.hasPrefix(r.text) {
			return l.op(r.typ, len(r.text), start)
		}
	}
	return l.op(REDIR, 1, start)
}

// classify decides what a scanned word is, given the current context.
func (l *Lexer) classify(text string, end int, start Position) TokenType {
	if n := len(l.extended); n > 0 {
		switch text {
		case "]]":
			l.extended = l.extended[:n-1]
			return DRBRACKET
		case "!":
			return BANG
		}
		return WORD
	}

	if l.inTest && text == "]" {
		l.inTest = false
		return RBRACKET
	}

	if isDigits(text) && end < len(l.input) && (l.input[end] == '<' || l.input[end] == '>') {
		return IO_NUMBER
	}

	if text == "in" && (l.recent[0] == FOR || l.recent[0] == CASE) && l.recent[1] == WORD {
		return IN
	}

	if !l.cmdPos || l.redirTarget {
		return WORD
	}

	switch text {
	case "[[":
		l.extended = append(l.extended, start)
		return DLBRACKET
	case "[":
		l.inTest = true
		return LBRACKET
	}
	if typ, ok := Keywords[text]; ok {
		return typ
	}
	return WORD
}

// track updates the command-position state after a token is produced.
func (l *Lexer) track(tok Token) {
	switch tok.Type {
	case SPACE, COMMENT, HEREDOC_BODY, EOF:
		return
	}

	l.regexNext = tok.Type == WORD && tok.Text == "=~" && len(l.extended) > 0

	if l.heredocOp != nil && tok.Type == WORD {
		delim, _ := UnquoteDelimiter(tok.Text)
		l.heredocs = append(l.heredocs, pendingHeredoc{
			delimiter: delim,
			stripTabs: l.heredocOp.Type == DLESSDASH,
			op:        l.heredocOp.Start,
		})
	}
	l.heredocOp = nil

	switch tok.Type {
	case NEWLINE, SEMI, DSEMI, SEMI_AMP, DSEMI_AMP, AMP, AND_IF, OR_IF, PIPE, PIPE_AMP:
		l.cmdPos = true
		l.inTest = false
		l.redirTarget = false
		l.ioNumber = false
	case LPAREN, RPAREN, IF, THEN, ELSE, ELIF, DO, WHILE, UNTIL, LBRACE, BANG,
		FI, DONE, ESAC, RBRACE:
		l.cmdPos = true
	case FOR, CASE, IN, FUNCTION, ARITH_CMD, DLBRACKET, DRBRACKET, LBRACKET, RBRACKET:
		l.cmdPos = false
	case IO_NUMBER:
		l.savedCmdPos = l.cmdPos
		l.ioNumber = true
		l.cmdPos = false
	case REDIR, DLESS, DLESSDASH:
		if !l.ioNumber {
			l.savedCmdPos = l.cmdPos
		}
		l.ioNumber = false
		l.redirTarget = true
		l.cmdPos = false
		if tok.Type != REDIR {
			t := tok
			l.heredocOp = &t
		}
	case WORD:
		switch {
		case l.redirTarget:
			l.cmdPos = l.savedCmdPos
			l.redirTarget = false
		case l.recent[1] == FUNCTION:
			l.cmdPos = true
		case l.cmdPos && IsAssignment(tok.Text):
		default:
			l.cmdPos = false
		}
	}

	l.recent[0], l.recent[1] = l.recent[1], tok.Type
}

// readHeredocBodies consumes the bodies of heredocs introduced on the line
// that just ended, one HEREDOC_BODY token per heredoc. Each body includes
// its terminator line.
func (l *Lexer) readHeredocBodies() error {
	pending := l.heredocs
	l.heredocs = nil

	for _, hd := range pending {
		start := l.position()
		for {
			if l.pos >= len(l.input) {
				return &UnterminatedError{Construct: "heredoc", Pos: hd.op}
			}
			rest := l.input[l.pos:]
			line := rest
			n := len(rest)
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				line = rest[:i]
				n = i + 1
			}
			l.advanceTo(l.pos + n)
			if hd.stripTabs {
				line = strings.TrimLeft(line, "\t")
			}
			if line == hd.delimiter {
				break
			}
		}
		l.queue = append(l.queue, l.token(HEREDOC_BODY, start))
	}
	return nil
}

func (l *Lexer) unterminated(f *frame) error {
	return &UnterminatedError{
		Construct: constructNames[f.ctx],
		Pos:       l.positionAt(f.start),
	}
}

func (l *Lexer) skipSpace() {
	i := l.pos
	for i < len(l.input) {
		c := l.input[i]
		if isBlank[c] {
			i++
		} else if c == '\\' && i+1 < len(l.input) && l.input[i+1] == '\n' {
			i += 2
		} else {
			break
		}
	}
	l.advanceTo(i)
}

func (l *Lexer) op(typ TokenType, n int, start Position) Token {
	l.advanceTo(l.pos + n)
	return l.emit(typ, start)
}

// emit builds the token ending at the current offset and updates context.
func (l *Lexer) emit(typ TokenType, start Position) Token {
	tok := l.token(typ, start)
	l.track(tok)
	return tok
}

func (l *Lexer) token(typ TokenType, start Position) Token {
	return Token{
		Type:  typ,
		Text:  l.input[start.Offset:l.pos],
		Start: start,
		End:   l.position(),
	}
}

func (l *Lexer) advanceTo(end int) {
	if end > len(l.input) {
		end = len(l.input)
	}
	for l.pos < end {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

// positionAt computes the position of an earlier offset.
func (l *Lexer) positionAt(offset int) Position {
	p := Position{Offset: offset, Line: 1, Column: 1}
	for i := 0; i < offset && i < len(l.input); i++ {
		if l.input[i] == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}
	return 0
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit[s[i]] {
			return false
		}
	}
	return true
}
