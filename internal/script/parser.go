package script

import (
	"strconv"
)

// Parse turns declaration source into a Program
func Parse(src string) (*Program, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	prog, err := p.parseProgram(func(t token) bool { return t.kind == tEOF })
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tEOF {
		return nil, p.unexpected()
	}
	return prog, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(ahead int) token {
	if p.pos+ahead >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+ahead]
}

func (p *parser) take() token {
	t := p.toks[p.pos]
	if t.kind != tEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tNewline {
		p.take()
	}
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.peek().kind != kind {
		return token{}, newSyntaxError(p.peek().pos, "expected %s, found %s", kind, p.peek().describe())
	}
	return p.take(), nil
}

func (p *parser) unexpected() error {
	t := p.peek()
	return newSyntaxError(t.pos, "unexpected %s", t.describe())
}

func isKeyword(t token, word string) bool {
	return t.kind == tIdent && t.text == word
}

// parseProgram reads statements until stop reports true for the next token.
// The stopping token is left unconsumed.
func (p *parser) parseProgram(stop func(token) bool) (*Program, error) {
	prog := &Program{Position: p.peek().pos}
	for {
		for p.peek().kind == tNewline || p.peek().kind == tSemi {
			p.take()
		}
		if stop(p.peek()) || p.peek().kind == tEOF {
			return prog, nil
		}

		stmt, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)

		next := p.peek()
		if next.kind != tNewline && next.kind != tSemi && next.kind != tEOF && !stop(next) {
			return nil, p.unexpected()
		}
	}
}

// parseExpr parses a call or literal. allowDo controls whether a call may own a
// do...end block; calls nested in bare arguments leave it to the outer call.
func (p *parser) parseExpr(allowDo bool) (Node, error) {
	t := p.peek()
	switch t.kind {
	case tIdent:
		switch t.text {
		case "nil":
			p.take()
			return &Nil{Position: t.pos}, nil
		case "true", "false":
			p.take()
			return &Bool{Position: t.pos, Value: t.text == "true"}, nil
		case "do", "end":
			return nil, p.unexpected()
		}
		return p.parseCall(allowDo)

	case tString:
		p.take()
		return &String{Position: t.pos, Value: t.text}, nil

	case tSymbol:
		p.take()
		return &Symbol{Position: t.pos, Name: t.text}, nil

	case tInt:
		p.take()
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, newSyntaxError(t.pos, "invalid integer %s", t.text)
		}
		return &Int{Position: t.pos, Value: v}, nil

	case tLBrack:
		return p.parseList()

	case tLBrace:
		return p.parseHash()
	}

	return nil, p.unexpected()
}

func (p *parser) parseCall(allowDo bool) (Node, error) {
	name := p.take()
	call := &Call{Position: name.pos, Name: name.text}

	switch {
	case p.peek().kind == tLParen:
		p.take()
		if err := p.parseArgs(call, tRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(tRParen); err != nil {
			return nil, err
		}
	case canStartArg(p.peek()):
		if err := p.parseBareArgs(call); err != nil {
			return nil, err
		}
	}

	switch {
	case allowDo && isKeyword(p.peek(), "do"):
		p.take()
		block, err := p.parseProgram(func(t token) bool { return isKeyword(t, "end") })
		if err != nil {
			return nil, err
		}
		if !isKeyword(p.peek(), "end") {
			return nil, newSyntaxError(p.peek().pos, "expected end to close block of %s", call.Name)
		}
		p.take()
		call.Block = block
	case p.peek().kind == tLBrace:
		p.take()
		block, err := p.parseProgram(func(t token) bool { return t.kind == tRBrace })
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tRBrace); err != nil {
			return nil, err
		}
		call.Block = block
	}

	return call, nil
}

func canStartArg(t token) bool {
	switch t.kind {
	case tString, tSymbol, tInt, tLBrack, tLabel:
		return true
	case tIdent:
		return t.text != "do" && t.text != "end"
	}
	return false
}

// parseArgs reads a parenthesised argument list up to (not including) closer
func (p *parser) parseArgs(call *Call, closer tokenKind) error {
	p.skipNewlines()
	if p.peek().kind == closer {
		return nil
	}
	for {
		if err := p.parseArg(call, true); err != nil {
			return err
		}
		p.skipNewlines()
		if p.peek().kind != tComma {
			return nil
		}
		p.take()
		p.skipNewlines()
	}
}

// parseBareArgs reads arguments of a call written without parentheses
func (p *parser) parseBareArgs(call *Call) error {
	for {
		if err := p.parseArg(call, false); err != nil {
			return err
		}
		if p.peek().kind != tComma {
			return nil
		}
		p.take()
		p.skipNewlines()
	}
}

func (p *parser) parseArg(call *Call, allowDo bool) error {
	key, isPair, err := p.parsePairKey()
	if err != nil {
		return err
	}
	if isPair {
		value, err := p.parseExpr(allowDo)
		if err != nil {
			return err
		}
		call.Pairs = append(call.Pairs, Pair{Key: key, Value: value})
		return nil
	}
	if len(call.Pairs) > 0 {
		return newSyntaxError(p.peek().pos, "positional argument after key/value pairs in %s", call.Name)
	}

	value, err := p.parseExpr(allowDo)
	if err != nil {
		return err
	}
	call.Args = append(call.Args, value)
	return nil
}

// parsePairKey consumes `key:`, `:key =>` or `"key" =>` when present
func (p *parser) parsePairKey() (string, bool, error) {
	t := p.peek()
	switch {
	case t.kind == tLabel:
		p.take()
		p.skipNewlines()
		return t.text, true, nil
	case (t.kind == tSymbol || t.kind == tString) && p.peekAt(1).kind == tArrow:
		p.take()
		p.take()
		p.skipNewlines()
		return t.text, true, nil
	}
	return "", false, nil
}

func (p *parser) parseList() (Node, error) {
	open := p.take()
	list := &List{Position: open.pos}

	p.skipNewlines()
	for p.peek().kind != tRBrack {
		item, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)

		p.skipNewlines()
		if p.peek().kind != tComma {
			break
		}
		p.take()
		p.skipNewlines()
	}

	if _, err := p.expect(tRBrack); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseHash() (Node, error) {
	open := p.take()
	hash := &Hash{Position: open.pos}

	p.skipNewlines()
	for p.peek().kind != tRBrace {
		key, ok, err := p.parsePairKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newSyntaxError(p.peek().pos, "expected key => value in hash, found %s", p.peek().describe())
		}
		value, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		hash.Pairs = append(hash.Pairs, Pair{Key: key, Value: value})

		p.skipNewlines()
		if p.peek().kind != tComma {
			break
		}
		p.take()
		p.skipNewlines()
	}

	if _, err := p.expect(tRBrace); err != nil {
		return nil, err
	}
	return hash, nil
}
