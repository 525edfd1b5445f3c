// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

// forwardPass propagates late-mode arrival times along order.
//
// Startpoints seed at clock-to-Q (FF Q sides) or zero (primary inputs),
// subject to per-vertex overrides. Every other vertex receives
//
//	AT(v) = delay(v) + max over fan-in of AT(u)
//
// or just delay(v) with no fan-in (implicit constant driver). The argmax
// fan-in edge is recorded for path reconstruction; ties keep the first
// predecessor in insertion order.
//
// fromStart marks vertices reachable from a startpoint, fromConst those
// reachable from an explicit 1'b0/1'b1 source. The two together decide
// which endpoints are excluded from slack reporting.
func forwardPass(g *Graph, order []VertexID, delays *DelayTable, cfg *Config) (at []float64, pred []EdgeID, fromStart, fromConst []bool) {
	n := len(g.verts)
	at = make([]float64, n)
	pred = make([]EdgeID, n)
	fromStart = make([]bool, n)
	fromConst = make([]bool, n)

	for _, v := range order {
		vt := &g.verts[v]
		pred[v] = -1

		if g.isStartpoint(v) {
			seed := 0.0
			if vt.Role == RoleFFQ {
				seed = cfg.ClockToQ
			}
			if ov, ok := cfg.StartpointAT[vt.Name]; ok {
				seed = ov
			}
			at[v] = seed
			fromStart[v] = true
			continue
		}
		if vt.Const {
			fromConst[v] = true
			continue
		}

		best := EdgeID(-1)
		bestAT := 0.0
		for _, e := range vt.fanin {
			u := g.edges[e].From
			if fromStart[u] {
				fromStart[v] = true
			}
			if fromConst[u] {
				fromConst[v] = true
			}
			if best < 0 || at[u] > bestAT {
				best = e
				bestAT = at[u]
			}
		}

		d := delays[vt.Type]
		if best < 0 {
			at[v] = d
		} else {
			at[v] = d + bestAT
		}
		pred[v] = best
	}
	return at, pred, fromStart, fromConst
}
