package lexer

import (
	"fmt"
	"strings"
)

// PartKind classifies a piece of a word
type PartKind int

const (
	PartLiteral PartKind = iota // plain text in some quoting context
	PartParam                   // $name, $1, ${...}
	PartCommand                 // $(...) and `...`
	PartArith                   // $((...))
	PartProcess                 // <(...) and >(...)
)

var partNames = [...]string{
	PartLiteral: "literal",
	PartParam:   "parameter",
	PartCommand: "command",
	PartArith:   "arithmetic",
	PartProcess: "process",
}

func (k PartKind) String() string {
	if int(k) < len(partNames) && int(k) >= 0 {
		return partNames[k]
	}
	return fmt.Sprintf("PartKind(%d)", int(k))
}

// Part is one segment of a word. Literal parts hold their content with the
// surrounding quote characters removed; expansion parts hold their raw
// source text.
type Part struct {
	Kind  PartKind
	Quote QuoteType // quoting context the part appears in
	Text  string
	Name  string // variable name for parameter expansions, when it has one
}

type partScanner struct {
	src   string
	parts []Part
}

func (p *partScanner) at(i int) byte {
	if i < len(p.src) {
		return p.src[i]
	}
	return 0
}

func (p *partScanner) add(part Part) {
	p.parts = append(p.parts, part)
}

func (p *partScanner) literal(q QuoteType, text string) {
	if text == "" {
		return
	}
	if n := len(p.parts); n > 0 && p.parts[n-1].Kind == PartLiteral && p.parts[n-1].Quote == q {
		p.parts[n-1].Text += text
		return
	}
	p.add(Part{Kind: PartLiteral, Quote: q, Text: text})
}

// expansion reads a $ or backtick expansion at i.
func (p *partScanner) expansion(i int, q QuoteType) (Part, int, bool) {
	var enclosing []context
	if q == DoubleQuoted {
		enclosing = []context{ctxDoubleQuote}
	}
	src := p.src

	if src[i] == '`' {
		end, _ := scanNested(src, i, i+1, ctxBacktick, enclosing...)
		return Part{Kind: PartCommand, Quote: q, Text: src[i:end]}, end, true
	}

	next := p.at(i + 1)
	switch {
	case next == '(' && p.at(i+2) == '(':
		end, _ := scanNested(src, i, i+3, ctxArithmetic, enclosing...)
		return Part{Kind: PartArith, Quote: q, Text: src[i:end]}, end, true
	case next == '(':
		end, _ := scanNested(src, i, i+2, ctxCommandSubst, enclosing...)
		return Part{Kind: PartCommand, Quote: q, Text: src[i:end]}, end, true
	case next == '{':
		end, open := scanNested(src, i, i+2, ctxParameter, enclosing...)
		inner := src[i+2 : end]
		if open == nil {
			inner = src[i+2 : end-1]
		}
		return Part{Kind: PartParam, Quote: q, Text: src[i:end], Name: paramName(inner)}, end, true
	case isNameStart[next]:
		j := i + 1
		for j < len(src) && isNamePart[src[j]] {
			j++
		}
		return Part{Kind: PartParam, Quote: q, Text: src[i:j], Name: src[i+1 : j]}, j, true
	case next != 0 && strings.IndexByte("@*#?$!-0123456789", next) >= 0:
		return Part{Kind: PartParam, Quote: q, Text: src[i : i+2], Name: string(next)}, i + 2, true
	}
	return Part{}, i, false
}

// double reads double-quoted content starting at i. With term set it stops
// after the closing quote; otherwise it runs to the end of src.
func (p *partScanner) double(i int, term bool, q QuoteType) int {
	before := len(p.parts)
	lit := i
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case term && c == '"':
			p.literal(q, p.src[lit:i])
			if len(p.parts) == before {
				p.add(Part{Kind: PartLiteral, Quote: q})
			}
			return i + 1
		case c == '\\':
			i += 2
		case c == '$' || c == '`':
			part, end, ok := p.expansion(i, q)
			if !ok {
				i++
				continue
			}
			p.literal(q, p.src[lit:i])
			p.add(part)
			i, lit = end, end
		default:
			i++
		}
	}
	if i > len(p.src) {
		i = len(p.src)
	}
	p.literal(q, p.src[lit:i])
	return i
}

// ScanParts splits raw word text into literal and expansion parts.
func ScanParts(raw string) []Part {
	p := &partScanner{src: raw}
	i, lit := 0, 0
	flush := func(end int) {
		if end > len(raw) {
			end = len(raw)
		}
		p.literal(Unquoted, raw[lit:end])
	}

	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\\':
			i += 2

		case c == '\'':
			flush(i)
			end, open := scanNested(raw, i, i+1, ctxSingleQuote)
			body := raw[i+1 : end]
			if open == nil {
				body = raw[i+1 : end-1]
			}
			p.add(Part{Kind: PartLiteral, Quote: SingleQuoted, Text: body})
			i, lit = end, end

		case c == '$' && p.at(i+1) == '\'':
			flush(i)
			end, open := scanNested(raw, i, i+2, ctxAnsiC)
			body := raw[i+2 : end]
			if open == nil {
				body = raw[i+2 : end-1]
			}
			p.add(Part{Kind: PartLiteral, Quote: AnsiCQuoted, Text: body})
			i, lit = end, end

		case c == '"' || (c == '$' && p.at(i+1) == '"'):
			flush(i)
			if c == '$' {
				i++
			}
			i = p.double(i+1, true, DoubleQuoted)
			lit = i

		case c == '$' || c == '`':
			part, end, ok := p.expansion(i, Unquoted)
			if !ok {
				i++
				continue
			}
			flush(i)
			p.add(part)
			i, lit = end, end

		case (c == '<' || c == '>') && i == 0 && p.at(1) == '(':
			end, _ := scanNested(raw, 0, 2, ctxCommandSubst)
			p.add(Part{Kind: PartProcess, Text: raw[:end]})
			i, lit = end, end

		default:
			i++
		}
	}
	flush(i)
	return p.parts
}

// ScanHeredoc splits the content of an unquoted heredoc into literal text
// and the expansions it contains.
func ScanHeredoc(content string) []Part {
	p := &partScanner{src: content}
	p.double(0, false, Unquoted)
	return p.parts
}

// paramName extracts the variable name from the inside of ${...}.
func paramName(inner string) string {
	if len(inner) > 1 && (inner[0] == '#' || inner[0] == '!') {
		inner = inner[1:]
	}
	if inner == "" {
		return ""
	}
	switch c := inner[0]; {
	case isNameStart[c]:
		j := 1
		for j < len(inner) && isNamePart[inner[j]] {
			j++
		}
		return inner[:j]
	case isDigit[c]:
		j := 1
		for j < len(inner) && isDigit[inner[j]] {
			j++
		}
		return inner[:j]
	case strings.IndexByte("@*#?$!-", c) >= 0:
		return inner[:1]
	}
	return ""
}

// SplitAssignment splits an assignment word such as a=1, a+=1 or a[i]=1.
// ok is false when word is not an assignment.
func SplitAssignment(word string) (name string, appendOp bool, value string, ok bool) {
	if word == "" || !isNameStart[word[0]] {
		return "", false, "", false
	}
	i := 1
	for i < len(word) && isNamePart[word[i]] {
		i++
	}
	if i < len(word) && word[i] == '[' {
		end := strings.IndexByte(word[i:], ']')
		if end < 0 {
			return "", false, "", false
		}
		i += end + 1
	}
	name = word[:i]
	if i < len(word) && word[i] == '+' {
		appendOp = true
		i++
	}
	if i >= len(word) || word[i] != '=' {
		return "", false, "", false
	}
	return name, appendOp, word[i+1:], true
}

// IsAssignment reports whether word is an assignment word.
func IsAssignment(word string) bool {
	_, _, _, ok := SplitAssignment(word)
	return ok
}

// UnquoteDelimiter removes quoting from a heredoc delimiter word. quoted
// reports whether any quoting was present, which disables expansion in the
// heredoc body.
func UnquoteDelimiter(raw string) (delim string, quoted bool) {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '\\':
			quoted = true
			if i+1 < len(raw) {
				i++
				b.WriteByte(raw[i])
			}
		case '\'', '"':
			quoted = true
			end := strings.IndexByte(raw[i+1:], c)
			if end < 0 {
				b.WriteString(raw[i+1:])
				i = len(raw)
				continue
			}
			b.WriteString(raw[i+1 : i+1+end])
			i += end + 1
		case '$':
			if i+1 < len(raw) && (raw[i+1] == '\'' || raw[i+1] == '"') {
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), quoted
}

// QuoteOf reports how raw is quoted when the whole word is one quoted
// string, and Unquoted otherwise.
func QuoteOf(raw string) QuoteType {
	if len(raw) < 2 {
		return Unquoted
	}

	var ctx context
	var quote QuoteType
	switch raw[0] {
	case '\'':
		ctx, quote = ctxSingleQuote, SingleQuoted
	case '"':
		ctx, quote = ctxDoubleQuote, DoubleQuoted
	case '`':
		ctx, quote = ctxBacktick, Backtick
	default:
		return Unquoted
	}

	end, open := scanNested(raw, 0, 1, ctx)
	if open == nil && end == len(raw) {
		return quote
	}
	return Unquoted
}
