// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

// A GateType tags a vertex with the primitive that drives it. The tag keys
// the propagation delay attributed to the vertex.
//
type GateType uint8

// Gate type tags recognized by the netlist loader.
const (
	Unknown GateType = iota
	Primary
	Assign
	Buf
	Not
	And
	Or
	Nand
	Nor
	Xor
	Xnor
	Mux2Not
	Mux2And
	Mux2Or
	Dff

	numGateTypes = int(Dff) + 1
)

var gateNames = [numGateTypes]string{
	Unknown: "UNKNOWN",
	Primary: "PRIMARY",
	Assign:  "ASSIGN",
	Buf:     "BUF",
	Not:     "NOT",
	And:     "AND",
	Or:      "OR",
	Nand:    "NAND",
	Nor:     "NOR",
	Xor:     "XOR",
	Xnor:    "XNOR",
	Mux2Not: "MUX2_NOT",
	Mux2And: "MUX2_AND",
	Mux2Or:  "MUX2_OR",
	Dff:     "DFF",
}

func (t GateType) String() string {
	if int(t) < len(gateNames) {
		return gateNames[t]
	}
	return "UNKNOWN"
}

// GateTypeByName returns the tag named by one of the netlist tag strings
// ("AND", "MUX2_NOT", ...). It is the lookup used for delay-table overrides.
//
func GateTypeByName(name string) (GateType, bool) {
	for i, n := range gateNames {
		if n == name {
			return GateType(i), true
		}
	}
	return Unknown, false
}

// A DelayTable maps gate type tags to propagation delays in nanoseconds.
// It is indexed directly by GateType.
//
type DelayTable [numGateTypes]float64

// Map returns the table keyed by tag name, in the form Config.Delays
// accepts as overrides.
func (t DelayTable) Map() map[string]float64 {
	m := make(map[string]float64, numGateTypes)
	for i, n := range gateNames {
		m[n] = t[i]
	}
	return m
}

// DefaultDelays returns the default gate-delay table.
//
func DefaultDelays() DelayTable {
	var t DelayTable
	t[Assign] = 0.001
	t[Buf] = 0.01
	t[Not] = 0.01
	t[And] = 0.02
	t[Or] = 0.04
	t[Nand] = 0.025
	t[Nor] = 0.045
	t[Xor] = 0.03
	t[Xnor] = 0.03
	t[Mux2Not] = 0.05
	t[Mux2And] = 0.09
	t[Mux2Or] = 0.08
	// Primary, Dff and Unknown contribute no delay of their own.
	return t
}
