// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import "math"

// computeSlacks derives per-vertex slack RT - AT and per-edge slack
// RT(v) - delay(v) - AT(u) for every edge (u,v).
func computeSlacks(g *Graph, delays *DelayTable, at, rt []float64) (slack, edgeSlack []float64) {
	slack = make([]float64, len(g.verts))
	for v := range g.verts {
		slack[v] = rt[v] - at[v]
	}
	edgeSlack = make([]float64, len(g.edges))
	for i, e := range g.edges {
		edgeSlack[i] = rt[e.To] - delays[g.verts[e.To].Type] - at[e.From]
	}
	return slack, edgeSlack
}

// metrics folds endpoint slacks into WNS and TNS, skipping endpoints
// excluded from reporting. With no reported endpoint WNS is +Inf and TNS
// zero.
func metrics(g *Graph, slack []float64, fromStart, fromConst []bool) (wns, tns float64) {
	wns = math.Inf(1)
	for _, e := range g.ends {
		if !fromStart[e] && fromConst[e] {
			// driven by explicit constants only
			continue
		}
		s := slack[e]
		if s < wns {
			wns = s
		}
		if s < 0 {
			tns += s
		}
	}
	return wns, tns
}
