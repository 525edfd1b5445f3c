// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import (
	"os"
	"strconv"
	"strings"

	"github.com/mjourdan/netsta/internal/vlog"
	"github.com/pkg/errors"
)

// BuildGraph loads a netlist file and translates it into a timing graph.
// Warnings (unknown primitives) are returned alongside the graph; fatal
// loader errors wrap ErrMalformedNetlist, ErrUndefinedSignal or
// ErrCombinationalCycle.
//
func BuildGraph(netlistPath string) (*Graph, Diagnostics, error) {
	src, err := os.ReadFile(netlistPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading netlist")
	}
	g, diags, err := LoadNetlist(string(src))
	if err != nil {
		return nil, diags, errors.WithMessage(err, netlistPath)
	}
	return g, diags, nil
}

// LoadNetlist translates netlist source text into a timing graph, the same
// way BuildGraph does.
//
func LoadNetlist(src string) (*Graph, Diagnostics, error) {
	mod, err := vlog.Parse(src)
	if err != nil {
		return nil, nil, errors.WithMessage(ErrMalformedNetlist, err.Error())
	}
	b := &builder{
		g:      newGraph(),
		driven: make(map[VertexID]bool),
		seen:   make(map[Edge]EdgeID),
	}
	if err := b.build(mod); err != nil {
		return nil, b.diags, err
	}
	return b.g, b.diags, nil
}

// builder accumulates the graph while walking a parsed module. Vertex and
// edge creation order is the insertion order every later pass ties on.
type builder struct {
	g      *Graph
	diags  Diagnostics
	driven map[VertexID]bool
	seen   map[Edge]EdgeID // multi-edges between a pair collapse to one
	nsynth int
}

func (b *builder) build(mod *vlog.Module) error {
	for _, p := range mod.Ports {
		v := b.vertex(p.Name)
		vt := &b.g.verts[v]
		vt.Type = Primary
		if p.Dir == vlog.DirInput {
			vt.Role = RoleInput
			b.driven[v] = true
		} else {
			vt.Role = RoleOutput
		}
	}
	// wire declarations don't materialize vertices: nets exist once used,
	// which also drops declared-but-unreferenced wires

	for _, a := range mod.Assigns {
		dst := b.vertex(a.LHS)
		if err := b.drive(dst, vlog.Normalize(a.RHS)); err != nil {
			return err
		}
	}
	for _, inst := range mod.Instances {
		if err := b.instance(inst); err != nil {
			return err
		}
	}
	for _, r := range mod.Regs {
		if err := b.reg(r); err != nil {
			return err
		}
	}

	if err := b.checkDriven(); err != nil {
		return err
	}
	if _, err := TopoOrder(b.g); err != nil {
		return err
	}

	for v := range b.g.verts {
		switch b.g.verts[v].Role {
		case RoleInput, RoleFFQ:
			b.g.starts = append(b.g.starts, VertexID(v))
		case RoleOutput, RoleFFD:
			b.g.ends = append(b.g.ends, VertexID(v))
		}
	}
	return nil
}

func (b *builder) vertex(name string) VertexID {
	if id, ok := b.g.names[name]; ok {
		return id
	}
	return b.g.addVertex(name, RoleComb, Unknown)
}

func (b *builder) constVertex(one bool) VertexID {
	name := "1'b0"
	if one {
		name = "1'b1"
	}
	if id, ok := b.g.names[name]; ok {
		return id
	}
	id := b.g.addVertex(name, RoleComb, Primary)
	b.g.verts[id].Const = true
	b.driven[id] = true
	return id
}

func (b *builder) edge(from, to VertexID) {
	key := Edge{From: from, To: to}
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = b.g.addEdge(from, to)
}

func (b *builder) setType(v VertexID, t GateType) {
	b.g.verts[v].Type = t
}

// atom resolves an operand to a vertex: identifiers and constants map
// directly, anything compound materializes a synthetic vertex driven by
// the sub-expression.
func (b *builder) atom(base string, e vlog.Expr) (VertexID, error) {
	switch x := e.(type) {
	case *vlog.Ident:
		return b.vertex(x.Name), nil
	case *vlog.ConstBit:
		return b.constVertex(x.One), nil
	}
	b.nsynth++
	v := b.vertex(base + "$" + strconv.Itoa(b.nsynth))
	if err := b.drive(v, e); err != nil {
		return 0, err
	}
	return v, nil
}

// drive classifies the normalized expression e into a gate tag for dst and
// wires one incoming edge per referenced operand. Negated operands
// materialize a synthetic NOT vertex unless the whole expression matches
// one of the XNOR / NAND / NOR patterns.
func (b *builder) drive(dst VertexID, e vlog.Expr) error {
	b.driven[dst] = true
	base := b.g.verts[dst].Name

	switch x := e.(type) {
	case *vlog.Ident:
		b.setType(dst, Assign)
		b.edge(b.vertex(x.Name), dst)
		return nil

	case *vlog.ConstBit:
		b.setType(dst, Assign)
		b.edge(b.constVertex(x.One), dst)
		return nil

	case *vlog.Not:
		return b.driveNot(dst, base, x.X)

	case *vlog.Bin:
		return b.driveBin(dst, base, x)

	case *vlog.Cond:
		s, err := b.atom(base, x.S)
		if err != nil {
			return err
		}
		a, err := b.atom(base, x.A)
		if err != nil {
			return err
		}
		bb, err := b.atom(base, x.B)
		if err != nil {
			return err
		}
		return b.mux(dst, base, a, bb, s)
	}
	return errors.WithMessage(ErrMalformedNetlist, "unsupported expression driving "+base)
}

// driveNot handles ~inner. Normalization guarantees inner is not itself a
// negation.
func (b *builder) driveNot(dst VertexID, base string, inner vlog.Expr) error {
	if x, ok := inner.(*vlog.Bin); ok {
		switch {
		case x.Op == '^' && len(x.Xs) == 2:
			return b.gate(dst, base, Xnor, x.Xs)
		case x.Op == '&':
			return b.gate(dst, base, Nand, x.Xs)
		case x.Op == '|':
			return b.gate(dst, base, Nor, x.Xs)
		}
	}
	b.setType(dst, Not)
	v, err := b.atom(base, inner)
	if err != nil {
		return err
	}
	b.edge(v, dst)
	return nil
}

func (b *builder) driveBin(dst VertexID, base string, x *vlog.Bin) error {
	switch x.Op {
	case '&', '|':
		if stripped, ok := allNegated(x.Xs); ok {
			// De Morgan forms: ~a & ~b is a NOR, ~a | ~b a NAND
			if x.Op == '&' {
				return b.gate(dst, base, Nor, stripped)
			}
			return b.gate(dst, base, Nand, stripped)
		}
		if x.Op == '&' {
			return b.gate(dst, base, And, x.Xs)
		}
		return b.gate(dst, base, Or, x.Xs)

	case '^':
		if len(x.Xs) == 2 {
			a, aneg := stripNot(x.Xs[0])
			c, cneg := stripNot(x.Xs[1])
			if aneg != cneg {
				return b.gate(dst, base, Xnor, []vlog.Expr{a, c})
			}
			if aneg && cneg {
				// both inversions cancel
				return b.gate(dst, base, Xor, []vlog.Expr{a, c})
			}
		}
		return b.gate(dst, base, Xor, x.Xs)
	}
	return errors.WithMessage(ErrMalformedNetlist, "unsupported operator driving "+base)
}

// gate tags dst and wires one edge per operand. A negated operand here is
// not part of a recognized pattern, so it becomes a synthetic NOT vertex
// between its signal and the gate.
func (b *builder) gate(dst VertexID, base string, t GateType, ops []vlog.Expr) error {
	b.setType(dst, t)
	for _, op := range ops {
		v, err := b.atom(base, op)
		if err != nil {
			return err
		}
		b.edge(v, dst)
	}
	return nil
}

// mux expands sel ? b : a into the gate-level equivalent, exposing the
// internal delay structure: an inverter on the select, two ANDs, one OR.
func (b *builder) mux(dst VertexID, base string, a, bb, s VertexID) error {
	ns := b.vertex(base + "$ns")
	b.driven[ns] = true
	b.setType(ns, Mux2Not)
	b.edge(s, ns)

	t0 := b.vertex(base + "$t0")
	b.driven[t0] = true
	b.setType(t0, Mux2And)
	b.edge(a, t0)
	b.edge(ns, t0)

	t1 := b.vertex(base + "$t1")
	b.driven[t1] = true
	b.setType(t1, Mux2And)
	b.edge(bb, t1)
	b.edge(s, t1)

	b.setType(dst, Mux2Or)
	b.edge(t0, dst)
	b.edge(t1, dst)
	return nil
}

// reg handles one clocked always-block assignment: the LHS is a register Q
// net (startpoint) and the RHS feeds a synthetic D-side endpoint. No
// combinational edge crosses the clock boundary.
func (b *builder) reg(r vlog.Reg) error {
	q := b.vertex(r.LHS)
	qt := &b.g.verts[q]
	if qt.Role != RoleInput {
		qt.Role = RoleFFQ
	}
	qt.Type = Dff
	b.driven[q] = true

	src, err := b.atom(r.LHS, vlog.Normalize(r.RHS))
	if err != nil {
		return err
	}
	d := b.vertex(r.LHS + ".D")
	dt := &b.g.verts[d]
	dt.Role = RoleFFD
	dt.Type = Dff
	b.driven[d] = true
	b.edge(src, d)
	return nil
}

// Known primitive output pin names, used to guess the outputs of unknown
// primitives.
var outPinNames = map[string]bool{
	"Y": true, "Q": true, "OUT": true, "O": true, "SUM": true, "COUT": true,
}

func (b *builder) instance(inst vlog.Instance) error {
	pin := func(name string) (VertexID, bool, error) {
		for _, c := range inst.Conns {
			if !strings.EqualFold(c.Port, name) {
				continue
			}
			v, err := b.atom(inst.Name, c.Net)
			return v, true, err
		}
		return 0, false, nil
	}
	need := func(name string) (VertexID, error) {
		v, ok, err := pin(name)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errors.WithMessage(ErrMalformedNetlist,
				"instance "+inst.Name+" ("+inst.Prim+"): missing pin "+name)
		}
		return v, nil
	}

	gate2 := func(t GateType) error {
		y, err := need("Y")
		if err != nil {
			return err
		}
		a, err := need("A")
		if err != nil {
			return err
		}
		c, err := need("B")
		if err != nil {
			return err
		}
		b.driven[y] = true
		b.setType(y, t)
		b.edge(a, y)
		b.edge(c, y)
		return nil
	}

	switch strings.ToUpper(inst.Prim) {
	case "NOT", "BUF":
		t := Not
		if strings.EqualFold(inst.Prim, "BUF") {
			t = Buf
		}
		y, err := need("Y")
		if err != nil {
			return err
		}
		a, err := need("A")
		if err != nil {
			return err
		}
		b.driven[y] = true
		b.setType(y, t)
		b.edge(a, y)
		return nil

	case "AND":
		return gate2(And)
	case "OR":
		return gate2(Or)
	case "NAND":
		return gate2(Nand)
	case "NOR":
		return gate2(Nor)
	case "XOR":
		return gate2(Xor)
	case "XNOR":
		return gate2(Xnor)

	case "MUX2":
		y, err := need("Y")
		if err != nil {
			return err
		}
		a, err := need("A")
		if err != nil {
			return err
		}
		c, err := need("B")
		if err != nil {
			return err
		}
		s, err := need("S")
		if err != nil {
			return err
		}
		b.driven[y] = true
		return b.mux(y, inst.Name, a, c, s)

	case "DFF":
		dnet, err := need("D")
		if err != nil {
			return err
		}
		d := b.vertex(inst.Name + ".D")
		dt := &b.g.verts[d]
		dt.Role = RoleFFD
		dt.Type = Dff
		b.driven[d] = true
		b.edge(dnet, d)

		if q, ok, err := pin("Q"); err != nil {
			return err
		} else if ok {
			qt := &b.g.verts[q]
			if qt.Role != RoleInput {
				qt.Role = RoleFFQ
			}
			qt.Type = Dff
			b.driven[q] = true
		}
		// CLK and friends carry no timing arc
		return nil

	case "FULL_ADDER":
		a, err := need("A")
		if err != nil {
			return err
		}
		c, err := need("B")
		if err != nil {
			return err
		}
		cin, err := need("CIN")
		if err != nil {
			return err
		}
		sum, err := need("SUM")
		if err != nil {
			return err
		}
		cout, err := need("COUT")
		if err != nil {
			return err
		}
		// expand into the equivalent gate subgraph: sum = a ^ b ^ cin,
		// cout = (a & b) | (cin & (a ^ b))
		x1 := b.vertex(inst.Name + "$x1")
		b.driven[x1] = true
		b.setType(x1, Xor)
		b.edge(a, x1)
		b.edge(c, x1)

		b.driven[sum] = true
		b.setType(sum, Xor)
		b.edge(x1, sum)
		b.edge(cin, sum)

		a1 := b.vertex(inst.Name + "$a1")
		b.driven[a1] = true
		b.setType(a1, And)
		b.edge(a, a1)
		b.edge(c, a1)

		a2 := b.vertex(inst.Name + "$a2")
		b.driven[a2] = true
		b.setType(a2, And)
		b.edge(cin, a2)
		b.edge(x1, a2)

		b.driven[cout] = true
		b.setType(cout, Or)
		b.edge(a1, cout)
		b.edge(a2, cout)
		return nil
	}

	// unknown primitive: tag its outputs UNKNOWN, wire every other pin as
	// a fan-in, and warn
	b.diags = append(b.diags, Warning{
		Kind:   WarnUnknownPrimitive,
		Signal: inst.Prim,
		Detail: "instance " + inst.Name,
	})
	var outs, ins []VertexID
	for _, c := range inst.Conns {
		v, err := b.atom(inst.Name, c.Net)
		if err != nil {
			return err
		}
		if outPinNames[strings.ToUpper(c.Port)] {
			outs = append(outs, v)
		} else {
			ins = append(ins, v)
		}
	}
	for _, o := range outs {
		b.driven[o] = true
		b.setType(o, Unknown)
		for _, in := range ins {
			b.edge(in, o)
		}
	}
	return nil
}

// allNegated strips one negation from every operand; ok only when there
// are at least two operands and every one of them is negated.
func allNegated(ops []vlog.Expr) ([]vlog.Expr, bool) {
	if len(ops) < 2 {
		return nil, false
	}
	stripped := make([]vlog.Expr, len(ops))
	for i, op := range ops {
		n, ok := op.(*vlog.Not)
		if !ok {
			return nil, false
		}
		stripped[i] = n.X
	}
	return stripped, true
}

func stripNot(e vlog.Expr) (vlog.Expr, bool) {
	if n, ok := e.(*vlog.Not); ok {
		return n.X, true
	}
	return e, false
}

// checkDriven reports the first referenced identifier that nothing drives.
func (b *builder) checkDriven() error {
	for id := range b.g.verts {
		vt := &b.g.verts[id]
		switch vt.Role {
		case RoleInput, RoleFFQ:
			continue
		}
		if !vt.Const && !b.driven[VertexID(id)] && len(vt.fanout) > 0 {
			return errors.WithMessage(ErrUndefinedSignal, "identifier "+strconv.Quote(vt.Name))
		}
	}
	return nil
}
