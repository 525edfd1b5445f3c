// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vlog

import "github.com/pkg/errors"

// Parser state: one-token lookahead over the lexer.
type parser struct {
	lex *lexer
	tok token
	mod *Module
}

func (p *parser) next() {
	p.tok = p.lex.next()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("line %d: "+format, append([]interface{}{p.tok.line}, args...)...)
}

func (p *parser) fail() error {
	if p.tok.kind == tErr {
		return p.errorf("%s", p.tok.text)
	}
	return p.errorf("unexpected %s", p.tok)
}

func (p *parser) accept(k tokKind) bool {
	if p.tok.kind != k {
		return false
	}
	p.next()
	return true
}

func (p *parser) expect(k tokKind) (token, error) {
	t := p.tok
	if t.kind != k {
		return t, p.fail()
	}
	p.next()
	return t, nil
}

func (p *parser) keyword(kw string) bool {
	return p.tok.kind == tIdent && p.tok.text == kw
}

// Parse parses one module from src.
//
func Parse(src string) (*Module, error) {
	p := &parser{lex: newLexer(src), mod: &Module{}}
	p.next()

	if !p.keyword("module") {
		return nil, p.errorf("expected module header")
	}
	p.next()
	name, err := p.expect(tIdent)
	if err != nil {
		return nil, err
	}
	p.mod.Name = name.text
	if err := p.parseHeaderPorts(); err != nil {
		return nil, err
	}

	for !p.keyword("endmodule") {
		if p.tok.kind == tEOF {
			return nil, p.errorf("missing endmodule")
		}
		if err := p.parseItem(); err != nil {
			return nil, err
		}
	}
	return p.mod, nil
}

// parseHeaderPorts consumes "( a, b, ... ) ;". Port directions come from
// the input/output declaration statements, not the header.
func (p *parser) parseHeaderPorts() error {
	if _, err := p.expect(tLParen); err != nil {
		return err
	}
	if !p.accept(tRParen) {
		for {
			if _, err := p.expect(tIdent); err != nil {
				return err
			}
			if p.accept(tRParen) {
				break
			}
			if _, err := p.expect(tComma); err != nil {
				return err
			}
		}
	}
	_, err := p.expect(tSemi)
	return err
}

func (p *parser) parseItem() error {
	switch {
	case p.keyword("input"):
		p.next()
		return p.parsePortDecl(DirInput)
	case p.keyword("output"):
		p.next()
		return p.parsePortDecl(DirOutput)
	case p.keyword("wire"), p.keyword("reg"):
		p.next()
		return p.parseWireDecl()
	case p.keyword("assign"):
		p.next()
		return p.parseAssign()
	case p.keyword("always"):
		p.next()
		return p.parseAlways()
	case p.tok.kind == tIdent:
		return p.parseInstance()
	}
	return p.fail()
}

func (p *parser) parseNameList() ([]string, error) {
	var names []string
	for {
		t, err := p.expect(tIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, t.text)
		if p.accept(tSemi) {
			return names, nil
		}
		if _, err := p.expect(tComma); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parsePortDecl(dir Dir) error {
	names, err := p.parseNameList()
	if err != nil {
		return err
	}
	for _, n := range names {
		p.mod.Ports = append(p.mod.Ports, Port{Name: n, Dir: dir})
	}
	return nil
}

func (p *parser) parseWireDecl() error {
	names, err := p.parseNameList()
	if err != nil {
		return err
	}
	p.mod.Wires = append(p.mod.Wires, names...)
	return nil
}

func (p *parser) parseAssign() error {
	lhs, err := p.expect(tIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(tAssignOp); err != nil {
		return err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(tSemi); err != nil {
		return err
	}
	p.mod.Assigns = append(p.mod.Assigns, Assign{LHS: lhs.text, RHS: rhs, Line: lhs.line})
	return nil
}

// parseAlways handles "always @(posedge clk)" register blocks and
// "always @(*)" combinational blocks. Clocked assignments become Regs
// (no combinational edge across the clock boundary); combinational
// assignments are timed like continuous assigns.
func (p *parser) parseAlways() error {
	if _, err := p.expect(tAt); err != nil {
		return err
	}
	clocked := false
	if p.accept(tStar) {
		// always @*
	} else {
		if _, err := p.expect(tLParen); err != nil {
			return err
		}
		if p.accept(tStar) {
			if _, err := p.expect(tRParen); err != nil {
				return err
			}
		} else {
			clocked = true
			for {
				if !p.keyword("posedge") && !p.keyword("negedge") {
					return p.fail()
				}
				p.next()
				if _, err := p.expect(tIdent); err != nil {
					return err
				}
				if p.accept(tRParen) {
					break
				}
				if !p.keyword("or") {
					return p.fail()
				}
				p.next()
			}
		}
	}

	if p.keyword("begin") {
		p.next()
		for !p.keyword("end") {
			if p.tok.kind == tEOF {
				return p.errorf("missing end")
			}
			if err := p.parseProcAssign(clocked); err != nil {
				return err
			}
		}
		p.next()
		return nil
	}
	return p.parseProcAssign(clocked)
}

func (p *parser) parseProcAssign(clocked bool) error {
	lhs, err := p.expect(tIdent)
	if err != nil {
		return err
	}
	if p.tok.kind != tAssignOp && p.tok.kind != tNBAssign {
		return p.fail()
	}
	p.next()
	rhs, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(tSemi); err != nil {
		return err
	}
	if clocked {
		p.mod.Regs = append(p.mod.Regs, Reg{LHS: lhs.text, RHS: rhs, Line: lhs.line})
	} else {
		p.mod.Assigns = append(p.mod.Assigns, Assign{LHS: lhs.text, RHS: rhs, Line: lhs.line})
	}
	return nil
}

// parseInstance handles "PRIM name ( .Port(net), ... );".
func (p *parser) parseInstance() error {
	prim, err := p.expect(tIdent)
	if err != nil {
		return err
	}
	name, err := p.expect(tIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(tLParen); err != nil {
		return err
	}
	inst := Instance{Prim: prim.text, Name: name.text, Line: prim.line}
	for {
		if _, err := p.expect(tDot); err != nil {
			return err
		}
		port, err := p.expect(tIdent)
		if err != nil {
			return err
		}
		if _, err := p.expect(tLParen); err != nil {
			return err
		}
		if !p.accept(tRParen) { // .CLK() leaves a pin open
			var net Expr
			switch p.tok.kind {
			case tIdent:
				net = &Ident{Name: p.tok.text}
			case tConst:
				net = &ConstBit{One: p.tok.one}
			default:
				return p.fail()
			}
			p.next()
			if _, err := p.expect(tRParen); err != nil {
				return err
			}
			inst.Conns = append(inst.Conns, Conn{Port: port.text, Net: net})
		}
		if p.accept(tRParen) {
			break
		}
		if _, err := p.expect(tComma); err != nil {
			return err
		}
	}
	if _, err := p.expect(tSemi); err != nil {
		return err
	}
	p.mod.Instances = append(p.mod.Instances, inst)
	return nil
}

// Expression grammar, lowest precedence first: ?: then | then ^ then &
// then unary ~.

func (p *parser) parseExpr() (Expr, error) {
	c, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.accept(tQuestion) {
		return c, nil
	}
	b, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tColon); err != nil {
		return nil, err
	}
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Cond{S: c, A: a, B: b}, nil
}

func (p *parser) parseOr() (Expr, error) {
	return p.parseChain('|', tPipe, p.parseXor)
}

func (p *parser) parseXor() (Expr, error) {
	return p.parseChain('^', tCaret, p.parseAnd)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.parseChain('&', tAmp, p.parseUnary)
}

func (p *parser) parseChain(op byte, k tokKind, sub func() (Expr, error)) (Expr, error) {
	e, err := sub()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != k {
		return e, nil
	}
	xs := []Expr{e}
	for p.accept(k) {
		x, err := sub()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return &Bin{Op: op, Xs: xs}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.accept(tTilde) {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tIdent:
		e := &Ident{Name: p.tok.text}
		p.next()
		return e, nil
	case tConst:
		e := &ConstBit{One: p.tok.one}
		p.next()
		return e, nil
	case tLParen:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.fail()
}
