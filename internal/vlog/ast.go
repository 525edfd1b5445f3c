// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vlog parses the structural Verilog subset accepted by the timing
// graph loader: a module header, input/output/wire declarations,
// continuous assignments over ~ & | ^ and ?:, primitive instantiations
// with named port connections, and always blocks.
//
package vlog

// Dir is a port direction.
type Dir uint8

// Port directions.
const (
	DirInput Dir = iota
	DirOutput
)

// A Port is a declared module port.
type Port struct {
	Name string
	Dir  Dir
}

// An Assign is a continuous assignment lhs = rhs, or a blocking assignment
// from a combinational always block (same timing shape).
type Assign struct {
	LHS  string
	RHS  Expr
	Line int
}

// A Conn is a named port connection .Port(Net).
type Conn struct {
	Port string
	Net  Expr // Ident or ConstBit
}

// An Instance is a primitive module instantiation.
type Instance struct {
	Prim  string
	Name  string
	Conns []Conn
	Line  int
}

// A Reg is an assignment inside a clocked always block. Its LHS is a
// registered signal (Q net); its RHS feeds the register's D input across a
// clock edge, not combinationally.
type Reg struct {
	LHS  string
	RHS  Expr
	Line int
}

// A Module is one parsed netlist module.
type Module struct {
	Name      string
	Ports     []Port
	Wires     []string
	Assigns   []Assign
	Instances []Instance
	Regs      []Reg
}

// Expr is a boolean expression over net names.
type Expr interface{ isExpr() }

// An Ident is a bare signal reference.
type Ident struct{ Name string }

// A ConstBit is a 1'b0 or 1'b1 literal.
type ConstBit struct{ One bool }

// A Not is a negation ~x.
type Not struct{ X Expr }

// A Bin is an associative chain over one of '&', '|', '^', flattened in
// source order.
type Bin struct {
	Op byte
	Xs []Expr
}

// A Cond is a ternary s ? b : a. A is the sel=0 branch, B the sel=1
// branch.
type Cond struct{ S, A, B Expr }

func (*Ident) isExpr()    {}
func (*ConstBit) isExpr() {}
func (*Not) isExpr()      {}
func (*Bin) isExpr()      {}
func (*Cond) isExpr()     {}

// Normalize rewrites e into canonical form: double negations collapse and
// nested chains of the same associative operator flatten. Pattern
// classification in the loader assumes normalized input.
//
func Normalize(e Expr) Expr {
	switch v := e.(type) {
	case *Not:
		x := Normalize(v.X)
		if n, ok := x.(*Not); ok {
			return n.X
		}
		return &Not{X: x}
	case *Bin:
		xs := make([]Expr, 0, len(v.Xs))
		for _, x := range v.Xs {
			x = Normalize(x)
			if b, ok := x.(*Bin); ok && b.Op == v.Op {
				xs = append(xs, b.Xs...)
			} else {
				xs = append(xs, x)
			}
		}
		if len(xs) == 1 {
			return xs[0]
		}
		return &Bin{Op: v.Op, Xs: xs}
	case *Cond:
		return &Cond{S: Normalize(v.S), A: Normalize(v.A), B: Normalize(v.B)}
	}
	return e
}
