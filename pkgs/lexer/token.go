package lexer

import (
	"fmt"
)

// TokenType represents the type of token in a Bash script
//
// The lexer never drops input: whitespace, newlines and comments come out as
// trivia tokens, so concatenating every token's Text reproduces the source.
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota

	// Trivia
	SPACE   // run of blanks, tabs and backslash-newline continuations
	NEWLINE // \n
	COMMENT // # to end of line (newline excluded)

	// Literals
	WORD         // any word, including quoted strings and expansions
	IO_NUMBER    // 2 in 2>file
	ARITH_CMD    // (( expr ))
	HEREDOC_BODY // raw heredoc lines including the terminator line

	// Keywords (only recognized in command position)
	IF       // if
	THEN     // then
	ELSE     // else
	ELIF     // elif
	FI       // fi
	FOR      // for
	WHILE    // while
	UNTIL    // until
	DO       // do
	DONE     // done
	CASE     // case
	ESAC     // esac
	FUNCTION // function
	IN       // in
	LBRACE   // {
	RBRACE   // }
	BANG     // !

	// Test brackets
	LBRACKET  // [
	RBRACKET  // ]
	DLBRACKET // [[
	DRBRACKET // ]]

	// Structural punctuation
	LPAREN // (
	RPAREN // )

	// Control operators
	SEMI      // ;
	DSEMI     // ;;
	SEMI_AMP  // ;&
	DSEMI_AMP // ;;&
	AMP       // &
	AND_IF    // &&
	OR_IF     // ||
	PIPE      // |
	PIPE_AMP  // |&

	// Redirection operators
	REDIR     // < > >> <> >| <& >& &> &>> <<<
	DLESS     // <<
	DLESSDASH // <<-
)

// Pre-computed token name lookup for fast debugging
var tokenNames = [...]string{
	EOF:          "EOF",
	SPACE:        "SPACE",
	NEWLINE:      "NEWLINE",
	COMMENT:      "COMMENT",
	WORD:         "WORD",
	IO_NUMBER:    "IO_NUMBER",
	ARITH_CMD:    "ARITH_CMD",
	HEREDOC_BODY: "HEREDOC_BODY",
	IF:           "IF",
	THEN:         "THEN",
	ELSE:         "ELSE",
	ELIF:         "ELIF",
	FI:           "FI",
	FOR:          "FOR",
	WHILE:        "WHILE",
	UNTIL:        "UNTIL",
	DO:           "DO",
	DONE:         "DONE",
	CASE:         "CASE",
	ESAC:         "ESAC",
	FUNCTION:     "FUNCTION",
	IN:           "IN",
	LBRACE:       "LBRACE",
	RBRACE:       "RBRACE",
	BANG:         "BANG",
	LBRACKET:     "LBRACKET",
	RBRACKET:     "RBRACKET",
	DLBRACKET:    "DLBRACKET",
	DRBRACKET:    "DRBRACKET",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	SEMI:         "SEMI",
	DSEMI:        "DSEMI",
	SEMI_AMP:     "SEMI_AMP",
	DSEMI_AMP:    "DSEMI_AMP",
	AMP:          "AMP",
	AND_IF:       "AND_IF",
	OR_IF:        "OR_IF",
	PIPE:         "PIPE",
	PIPE_AMP:     "PIPE_AMP",
	REDIR:        "REDIR",
	DLESS:        "DLESS",
	DLESSDASH:    "DLESSDASH",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsTrivia reports whether tokens of this type carry only formatting.
func (t TokenType) IsTrivia() bool {
	return t == SPACE || t == NEWLINE || t == COMMENT
}

// IsKeyword reports whether t is a reserved word or reserved punctuation
// recognized in command position.
func (t TokenType) IsKeyword() bool {
	return t >= IF && t <= BANG
}

// IsRedirect reports whether t starts a redirection.
func (t TokenType) IsRedirect() bool {
	return t == REDIR || t == DLESS || t == DLESSDASH || t == IO_NUMBER
}

// Keywords maps reserved words to their token types
var Keywords = map[string]TokenType{
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"elif":     ELIF,
	"fi":       FI,
	"for":      FOR,
	"while":    WHILE,
	"until":    UNTIL,
	"do":       DO,
	"done":     DONE,
	"case":     CASE,
	"esac":     ESAC,
	"function": FUNCTION,
	"{":        LBRACE,
	"}":        RBRACE,
	"!":        BANG,
}

// QuoteType represents the quoting style of a word or word part
type QuoteType int

const (
	Unquoted     QuoteType = iota
	SingleQuoted           // 'text' - no expansion
	DoubleQuoted           // "text" - parameter and command expansion
	Backtick               // `text` - legacy command substitution
	AnsiCQuoted            // $'text' - backslash escapes
)

var quoteNames = [...]string{
	Unquoted:     "none",
	SingleQuoted: "single",
	DoubleQuoted: "double",
	Backtick:     "backtick",
	AnsiCQuoted:  "ansi-c",
}

func (q QuoteType) String() string {
	if int(q) < len(quoteNames) && int(q) >= 0 {
		return quoteNames[q]
	}
	return fmt.Sprintf("QuoteType(%d)", int(q))
}

// Delimiter returns the quote character for whole-word quoting styles.
func (q QuoteType) Delimiter() string {
	switch q {
	case SingleQuoted:
		return "'"
	case DoubleQuoted:
		return `"`
	case Backtick:
		return "`"
	}
	return ""
}

// Position represents a location in the source text
type Position struct {
	Offset int // 0-based byte offset
	Line   int // 1-based line number
	Column int // 1-based byte column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Token represents a single token with its exact source slice
type Token struct {
	Type  TokenType
	Text  string   // exact source text
	Start Position // position of the first byte
	End   Position // position just past the last byte
}

// Position returns a formatted position string for error reporting
func (t Token) Position() string {
	if t.Start.Line == t.End.Line {
		return fmt.Sprintf("%d:%d-%d", t.Start.Line, t.Start.Column, t.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", t.Start.Line, t.Start.Column, t.End.Line, t.End.Column)
}

// Describe renders the token for error messages.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	case SPACE:
		return "whitespace"
	case HEREDOC_BODY:
		return "heredoc body"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Start)
}
