package lexer

import "strings"

// context identifies one level of the nesting stack used while scanning a
// word. Each frame is pushed by an opening delimiter and popped by its
// matching terminator.
type context int

const (
	ctxWord         context = iota // unquoted word text (bottom of the stack)
	ctxRegex                       // unquoted right-hand side of =~ inside [[ ]]
	ctxSingleQuote                 // '...'
	ctxAnsiC                       // $'...'
	ctxDoubleQuote                 // "..."
	ctxBacktick                    // `...`
	ctxCommandSubst                // $(...), <(...), >(...)
	ctxArithmetic                  // $((...)) and ((...))
	ctxParameter                   // ${...}
	ctxExtglob                     // @(...) and friends inside [[ ]]
)

var constructNames = [...]string{
	ctxWord:         "word",
	ctxRegex:        "regular expression",
	ctxSingleQuote:  "single-quoted string",
	ctxAnsiC:        "ANSI-C string",
	ctxDoubleQuote:  "double-quoted string",
	ctxBacktick:     "backtick command substitution",
	ctxCommandSubst: "command substitution",
	ctxArithmetic:   "arithmetic expansion",
	ctxParameter:    "parameter expansion",
	ctxExtglob:      "extended glob",
}

type frame struct {
	ctx   context
	depth int // nesting of the frame's own brackets
	start int // offset of the opening delimiter
	subst *substState
}

// substState follows the shell grammar inside a command substitution far
// enough to find its closing parenthesis: case patterns end in ')' and
// heredoc bodies are raw text.
type substState struct {
	command      bool // at the start of a command
	cases        int  // open case statements
	awaitIn      int  // case words still waiting for their 'in'
	pattern      bool // reading a case pattern list
	patternStart bool // no pattern byte seen yet, '(' is optional syntax
	heredocs     []pendingDoc
}

type pendingDoc struct {
	delim string
	strip bool
}

// reserved words after which a new command starts
var commandLeads = map[string]bool{
	"if": true, "then": true, "else": true, "elif": true, "while": true,
	"until": true, "do": true, "!": true, "{": true, "time": true,
}

// scanner walks nested quoting contexts over src.
type scanner struct {
	src   string
	stack []frame
}

func (s *scanner) at(i int) byte {
	if i < len(s.src) {
		return s.src[i]
	}
	return 0
}

func (s *scanner) push(ctx context, start int) {
	f := frame{ctx: ctx, start: start}
	if ctx == ctxCommandSubst {
		f.subst = &substState{command: true}
	}
	s.stack = append(s.stack, f)
}

func (s *scanner) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *scanner) top() *frame {
	return &s.stack[len(s.stack)-1]
}

// insideDouble reports whether any enclosing frame is a double-quoted string.
func (s *scanner) insideDouble() bool {
	for i := len(s.stack) - 1; i >= 0; i-- {
		switch s.stack[i].ctx {
		case ctxDoubleQuote:
			return true
		case ctxCommandSubst, ctxBacktick:
			return false
		}
	}
	return false
}

// dollar handles a '$' at i and returns the offset to continue from.
func (s *scanner) dollar(i int) int {
	switch s.at(i + 1) {
	case '(':
		if s.at(i+2) == '(' {
			s.push(ctxArithmetic, i)
			return i + 3
		}
		s.push(ctxCommandSubst, i)
		return i + 2
	case '{':
		s.push(ctxParameter, i)
		return i + 2
	case '\'':
		if s.top().ctx == ctxDoubleQuote {
			return i + 1
		}
		s.push(ctxAnsiC, i)
		return i + 2
	case '"':
		if s.top().ctx == ctxDoubleQuote {
			return i + 1
		}
		s.push(ctxDoubleQuote, i)
		return i + 2
	}
	return i + 1
}

// quoteOrExpansion handles the openers shared by every shell-like context.
// It returns false when c is not one of them.
func (s *scanner) quoteOrExpansion(c byte, i int) (int, bool) {
	switch c {
	case '\\':
		return i + 2, true
	case '\'':
		s.push(ctxSingleQuote, i)
		return i + 1, true
	case '"':
		s.push(ctxDoubleQuote, i)
		return i + 1, true
	case '`':
		s.push(ctxBacktick, i)
		return i + 1, true
	case '$':
		return s.dollar(i), true
	}
	return i, false
}

// step advances through one byte (or escape) of a nested frame. It never
// handles the bottom word frame.
func (s *scanner) step(i int) int {
	f := s.top()
	c := s.src[i]

	switch f.ctx {
	case ctxSingleQuote:
		if c == '\'' {
			s.pop()
		}
		return i + 1

	case ctxAnsiC:
		if c == '\\' {
			return i + 2
		}
		if c == '\'' {
			s.pop()
		}
		return i + 1

	case ctxDoubleQuote:
		switch c {
		case '\\':
			return i + 2
		case '"':
			s.pop()
			return i + 1
		case '`':
			s.push(ctxBacktick, i)
			return i + 1
		case '$':
			return s.dollar(i)
		}
		return i + 1

	case ctxBacktick:
		switch c {
		case '\\':
			return i + 2
		case '`':
			s.pop()
		}
		return i + 1

	case ctxParameter:
		switch c {
		case '{':
			f.depth++
			return i + 1
		case '}':
			if f.depth == 0 {
				s.pop()
			} else {
				f.depth--
			}
			return i + 1
		case '\'':
			if s.insideDouble() {
				return i + 1
			}
		}
		if next, ok := s.quoteOrExpansion(c, i); ok {
			return next
		}
		return i + 1

	case ctxCommandSubst:
		return s.substStep(f, i)

	case ctxArithmetic:
		switch c {
		case '(':
			f.depth++
			return i + 1
		case ')':
			if f.depth > 0 {
				f.depth--
				return i + 1
			}
			if s.at(i+1) == ')' {
				s.pop()
				return i + 2
			}
			return i + 1
		}
		if next, ok := s.quoteOrExpansion(c, i); ok {
			return next
		}
		return i + 1

	case ctxExtglob:
		switch c {
		case '(':
			f.depth++
			return i + 1
		case ')':
			if f.depth == 0 {
				s.pop()
			} else {
				f.depth--
			}
			return i + 1
		}
		if next, ok := s.quoteOrExpansion(c, i); ok {
			return next
		}
		return i + 1
	}

	return i + 1
}

// substStep advances through one byte or word of a command substitution.
func (s *scanner) substStep(f *frame, i int) int {
	st := f.subst
	c := s.src[i]
	if st.pattern && c != '(' && !isBlank[c] && c != '\n' {
		st.patternStart = false
	}

	switch c {
	case ' ', '\t', '\r':
		return i + 1
	case '\n':
		st.command = true
		if len(st.heredocs) > 0 {
			return s.heredocBodies(st, i+1)
		}
		return i + 1
	case ';':
		if s.at(i+1) == ';' || s.at(i+1) == '&' {
			next := i + 2
			if s.at(i+1) == ';' && s.at(next) == '&' {
				next++
			}
			if st.cases > 0 {
				st.pattern, st.patternStart = true, true
			}
			st.command = true
			return next
		}
		st.command = true
		return i + 1
	case '&', '|':
		st.command = true
		return i + 1
	case '(':
		if st.pattern && st.patternStart {
			st.patternStart = false
			return i + 1
		}
		f.depth++
		st.command = true
		return i + 1
	case ')':
		switch {
		case st.pattern && f.depth == 0:
			st.pattern = false
			st.command = true
		case f.depth == 0:
			s.pop()
		default:
			f.depth--
		}
		return i + 1
	case '<':
		if s.at(i+1) != '<' {
			return i + 1
		}
		if s.at(i+2) == '<' {
			return i + 3
		}
		return s.heredocOperator(st, i)
	case '>':
		return i + 1
	case '#':
		if i > 0 && isCommentLead[s.src[i-1]] {
			for i < len(s.src) && s.src[i] != '\n' {
				i++
			}
			return i
		}
	}

	if next, ok := s.quoteOrExpansion(c, i); ok {
		st.command = false
		return next
	}

	end := i
	for end < len(s.src) && !isMeta[s.src[end]] && strings.IndexByte("'\"`$\\", s.src[end]) < 0 {
		end++
	}
	if end == i {
		return i + 1
	}
	if end < len(s.src) && !isMeta[s.src[end]] {
		// the word continues with quoting or an expansion
		st.command = false
		return end
	}

	word := s.src[i:end]
	switch {
	case st.awaitIn > 0 && word == "in":
		st.awaitIn--
		st.pattern, st.patternStart = true, true
		st.command = false
	case st.command && word == "case":
		st.cases++
		st.awaitIn++
		st.command = false
	case st.command && word == "esac" && st.cases > 0:
		st.cases--
		st.pattern = false
		st.command = false
	default:
		st.command = st.command && commandLeads[word]
	}
	return end
}

// heredocOperator records the delimiter of the << or <<- at i and returns
// the offset just past the delimiter word.
func (s *scanner) heredocOperator(st *substState, i int) int {
	j := i + 2
	strip := s.at(j) == '-'
	if strip {
		j++
	}
	for j < len(s.src) && isBlank[s.src[j]] {
		j++
	}
	end, open := scanWord(s.src, j, false, false)
	if open != nil || end == j {
		return j
	}
	delim, _ := UnquoteDelimiter(s.src[j:end])
	st.heredocs = append(st.heredocs, pendingDoc{delim: delim, strip: strip})
	st.command = false
	return end
}

// heredocBodies skips the bodies of the pending heredocs, starting at the
// line that begins at i. A terminator line directly followed by ')' also
// ends the body and leaves the parenthesis to close the substitution.
// Missing terminators run to the end of input, leaving the frame open.
func (s *scanner) heredocBodies(st *substState, i int) int {
	for len(st.heredocs) > 0 {
		doc := st.heredocs[0]
		for {
			if i >= len(s.src) {
				return i
			}
			line := s.src[i:]
			next := len(s.src)
			if n := strings.IndexByte(line, '\n'); n >= 0 {
				line = line[:n]
				next = i + n + 1
			}
			lead := 0
			if doc.strip {
				trimmed := strings.TrimLeft(line, "\t")
				lead = len(line) - len(trimmed)
				line = trimmed
			}
			if line == doc.delim {
				i = next
				break
			}
			if len(st.heredocs) == 1 && strings.HasPrefix(line, doc.delim+")") {
				st.heredocs = nil
				return i + lead + len(doc.delim)
			}
			i = next
		}
		st.heredocs = st.heredocs[1:]
	}
	return i
}

// open returns the innermost unclosed frame, or nil when only the bottom
// word frame remains.
func (s *scanner) open(bottom int) *frame {
	if len(s.stack) > bottom {
		f := s.stack[len(s.stack)-1]
		return &f
	}
	return nil
}

// scanWord finds the end of the word starting at start. In extended mode
// (inside [[ ]]) extglob groups are part of the word and '<', '>' end it.
// With regex set the word is a =~ operand where '(', ')' and '|' belong to
// the pattern. The returned frame is non-nil when a nested construct is
// still open at the end of input.
func scanWord(src string, start int, extended, regex bool) (int, *frame) {
	bottom := ctxWord
	if regex {
		bottom = ctxRegex
	}
	s := &scanner{src: src, stack: []frame{{ctx: bottom, start: start}}}

	i := start
	for i < len(src) {
		if len(s.stack) > 1 {
			i = s.step(i)
			continue
		}

		f := s.top()
		c := src[i]

		if f.ctx == ctxRegex {
			switch c {
			case '(':
				f.depth++
				i++
				continue
			case ')':
				if f.depth == 0 {
					return i, nil
				}
				f.depth--
				i++
				continue
			case ' ', '\t', '\r', '\n', ';', '&':
				if f.depth == 0 {
					return i, nil
				}
				i++
				continue
			case '|', '<', '>':
				i++
				continue
			}
		} else if isMeta[c] {
			if (c == '<' || c == '>') && i == start && s.at(i+1) == '(' && !extended {
				s.push(ctxCommandSubst, i)
				i += 2
				continue
			}
			return i, nil
		}

		if extended && isExtglobLead[c] && s.at(i+1) == '(' {
			s.push(ctxExtglob, i)
			i += 2
			continue
		}

		if next, ok := s.quoteOrExpansion(c, i); ok {
			i = next
			continue
		}
		i++
	}

	if i > len(src) {
		i = len(src)
	}
	return i, s.open(1)
}

// scanNested finds the end of a construct whose opener has already been
// matched at start, continuing from body. It returns the offset just past
// the terminator. Enclosing contexts only affect how quotes are read.
func scanNested(src string, start, body int, ctx context, enclosing ...context) (int, *frame) {
	s := &scanner{src: src}
	for _, outer := range enclosing {
		s.push(outer, start)
	}
	s.push(ctx, start)

	i := body
	for i < len(src) && len(s.stack) > len(enclosing) {
		i = s.step(i)
	}
	if i > len(src) {
		i = len(src)
	}
	return i, s.open(len(enclosing))
}
