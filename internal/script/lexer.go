package script

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tNewline
	tIdent
	tLabel
	tSymbol
	tString
	tInt
	tLParen
	tRParen
	tLBrack
	tRBrack
	tLBrace
	tRBrace
	tComma
	tSemi
	tArrow
)

var tokenNames = map[tokenKind]string{
	tEOF:     "end of input",
	tNewline: "newline",
	tIdent:   "identifier",
	tLabel:   "label",
	tSymbol:  "symbol",
	tString:  "string",
	tInt:     "integer",
	tLParen:  "'('",
	tRParen:  "')'",
	tLBrack:  "'['",
	tRBrack:  "']'",
	tLBrace:  "'{'",
	tRBrace:  "'}'",
	tComma:   "','",
	tSemi:    "';'",
	tArrow:   "'=>'",
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

func (t token) describe() string {
	switch t.kind {
	case tIdent, tInt:
		return t.kind.String() + " " + t.text
	case tString:
		return "string \"" + t.text + "\""
	case tSymbol:
		return "symbol :" + t.text
	case tLabel:
		return "label " + t.text + ":"
	default:
		return t.kind.String()
	}
}

type lexer struct {
	src  []rune
	off  int
	line int
	col  int
}

// tokenize splits src into tokens, always ending with tEOF
func tokenize(src string) ([]token, error) {
	lx := &lexer{src: []rune(src), line: 1, col: 1}
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) peekRune(ahead int) rune {
	if lx.off+ahead >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+ahead]
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.off]
	lx.off++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) errorf(pos Pos, format string, args ...any) error {
	return newSyntaxError(pos, format, args...)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '?' || r == '!' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) next() (token, error) {
	for lx.off < len(lx.src) {
		r := lx.peekRune(0)
		switch {
		case r == '\n':
			pos := Pos{lx.line, lx.col}
			lx.advance()
			return token{kind: tNewline, pos: pos}, nil
		case r == '\\' && lx.peekRune(1) == '\n':
			// explicit line continuation
			lx.advance()
			lx.advance()
		case unicode.IsSpace(r):
			lx.advance()
		case r == '#':
			for lx.off < len(lx.src) && lx.peekRune(0) != '\n' {
				lx.advance()
			}
		default:
			return lx.lexToken()
		}
	}
	return token{kind: tEOF, pos: Pos{lx.line, lx.col}}, nil
}

func (lx *lexer) lexToken() (token, error) {
	pos := Pos{lx.line, lx.col}
	r := lx.peekRune(0)

	single := map[rune]tokenKind{
		'(': tLParen, ')': tRParen,
		'[': tLBrack, ']': tRBrack,
		'{': tLBrace, '}': tRBrace,
		',': tComma, ';': tSemi,
	}
	if kind, ok := single[r]; ok {
		lx.advance()
		return token{kind: kind, text: string(r), pos: pos}, nil
	}

	switch {
	case r == '=' && lx.peekRune(1) == '>':
		lx.advance()
		lx.advance()
		return token{kind: tArrow, text: "=>", pos: pos}, nil

	case r == '\'' || r == '"':
		s, err := lx.lexString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tString, text: s, pos: pos}, nil

	case r == ':':
		lx.advance()
		next := lx.peekRune(0)
		if next == '\'' || next == '"' {
			s, err := lx.lexString()
			if err != nil {
				return token{}, err
			}
			return token{kind: tSymbol, text: s, pos: pos}, nil
		}
		if !isIdentStart(next) {
			return token{}, lx.errorf(pos, "unexpected ':'")
		}
		return token{kind: tSymbol, text: lx.lexWord(), pos: pos}, nil

	case r == '-' && unicode.IsDigit(lx.peekRune(1)), unicode.IsDigit(r):
		var b strings.Builder
		b.WriteRune(lx.advance())
		for unicode.IsDigit(lx.peekRune(0)) || lx.peekRune(0) == '_' {
			if c := lx.advance(); c != '_' {
				b.WriteRune(c)
			}
		}
		return token{kind: tInt, text: b.String(), pos: pos}, nil

	case isIdentStart(r):
		word := lx.lexWord()
		// `name:` is a label unless it is the start of `name::`
		if lx.peekRune(0) == ':' && lx.peekRune(1) != ':' {
			lx.advance()
			return token{kind: tLabel, text: word, pos: pos}, nil
		}
		return token{kind: tIdent, text: word, pos: pos}, nil
	}

	return token{}, lx.errorf(pos, "unexpected character %q", r)
}

func (lx *lexer) lexWord() string {
	var b strings.Builder
	for lx.off < len(lx.src) && isIdentPart(lx.peekRune(0)) {
		b.WriteRune(lx.advance())
	}
	return b.String()
}

func (lx *lexer) lexString() (string, error) {
	pos := Pos{lx.line, lx.col}
	quote := lx.advance()

	var b strings.Builder
	for {
		if lx.off >= len(lx.src) {
			return "", lx.errorf(pos, "unterminated string")
		}
		r := lx.advance()
		switch {
		case r == quote:
			return b.String(), nil
		case r == '\\':
			if lx.off >= len(lx.src) {
				return "", lx.errorf(pos, "unterminated string")
			}
			esc := lx.advance()
			switch esc {
			case 'n':
				if quote == '"' {
					b.WriteRune('\n')
				} else {
					b.WriteString(`\n`)
				}
			case 't':
				if quote == '"' {
					b.WriteRune('\t')
				} else {
					b.WriteString(`\t`)
				}
			case '\\', '\'', '"':
				b.WriteRune(esc)
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}
