package expr

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	// pos is the 1-based rune column of the token.
	pos int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	// tokenNum is a decimal literal with optional fraction and exponent.
	tokenNum
	// tokenIdent is a function name.
	tokenIdent
	// tokenOp is one of + - * / **.
	tokenOp
	tokenOpen
	tokenClose
	// tokenSep separates call arguments.
	tokenSep
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

type lexer struct {
	src string
	off int // byte offset
	col int // rune column of src[off], 1-based
}

// lex scans the whole input. The last token is always tokenEOF.
func lex(src string) ([]lexToken, error) {
	l := &lexer{src: src, col: 1}
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek() (rune, int) {
	if l.off >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *lexer) advance(size int) {
	l.off += size
	l.col++
}

func (l *lexer) next() (lexToken, error) {
	for {
		r, size := l.peek()
		if size == 0 {
			return lexToken{kind: tokenEOF, pos: l.col}, nil
		}
		if !unicode.IsSpace(r) {
			break
		}
		l.advance(size)
	}

	start, pos := l.off, l.col
	r, size := l.peek()
	switch {
	case '0' <= r && r <= '9', r == '.':
		if err := l.scanNum(); err != nil {
			return lexToken{}, err
		}
		return lexToken{text: l.src[start:l.off], kind: tokenNum, pos: pos}, nil
	case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		l.scanIdent()
		return lexToken{text: l.src[start:l.off], kind: tokenIdent, pos: pos}, nil
	case r == '*':
		l.advance(size)
		if next, sz := l.peek(); next == '*' {
			l.advance(sz)
			return lexToken{text: "**", kind: tokenOp, pos: pos}, nil
		}
		return lexToken{text: "*", kind: tokenOp, pos: pos}, nil
	case r == '+', r == '-', r == '/':
		l.advance(size)
		return lexToken{text: string(r), kind: tokenOp, pos: pos}, nil
	case r == '(':
		l.advance(size)
		return lexToken{text: "(", kind: tokenOpen, pos: pos}, nil
	case r == ')':
		l.advance(size)
		return lexToken{text: ")", kind: tokenClose, pos: pos}, nil
	case r == ',':
		l.advance(size)
		return lexToken{text: ",", kind: tokenSep, pos: pos}, nil
	}
	if r == utf8.RuneError && size == 1 {
		return lexToken{}, errorf(pos, "invalid UTF-8 encoding")
	}
	return lexToken{}, errorf(pos, "unexpected character %q", r)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// scanNum consumes digits [. digits] [(e|E) [+|-] digits]. An e that is not
// followed by an exponent is left for the next token.
func (l *lexer) scanNum() error {
	pos := l.col
	digits := l.scanDigits()
	if r, size := l.peek(); r == '.' {
		l.advance(size)
		digits += l.scanDigits()
	}
	if digits == 0 {
		return errorf(pos, "malformed number")
	}

	r, size := l.peek()
	if r != 'e' && r != 'E' {
		return nil
	}
	off, col := l.off, l.col
	l.advance(size)
	if r, size := l.peek(); r == '+' || r == '-' {
		l.advance(size)
	}
	if l.scanDigits() == 0 {
		l.off, l.col = off, col
	}
	return nil
}

func (l *lexer) scanDigits() int {
	n := 0
	for {
		r, size := l.peek()
		if !isDigit(r) {
			return n
		}
		l.advance(size)
		n++
	}
}

func (l *lexer) scanIdent() {
	for {
		r, size := l.peek()
		if r != '_' && !isDigit(r) && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') {
			return
		}
		l.advance(size)
	}
}
