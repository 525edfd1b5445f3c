// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package netsta performs static timing analysis on gate-level netlists.

A structural netlist (continuous assignments and primitive instantiations)
is translated into a directed timing graph whose vertices are named signals
and whose edges denote logical causality from fan-in to fan-out. Propagation
delay is attributed to the destination vertex of each edge, based on the
gate type that drives it.

Three passes run over the graph: arrival times forward along a Kahn
topological order, required times backward along the reverse of that same
order, and per-vertex slack. The analysis derives the worst and total
negative slack over all endpoints and can enumerate the K worst
edge-disjoint critical paths between sequential endpoints.

Flip-flops split into a Q-side startpoint and a D-side endpoint, which is
what turns a sequential netlist into a DAG: no timing arc crosses a clock
edge. Repeated runs on the same netlist produce byte-identical results; all
ties resolve by vertex and edge insertion order.

*/
package netsta
