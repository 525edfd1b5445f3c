// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import "math"

// backwardPass propagates required times in reverse topological order.
//
// Endpoints seed at ClockPeriod - Setup; an unclocked design (ClockPeriod
// zero) defaults every endpoint to its own arrival time, giving zero slack
// at the outputs. Per-vertex overrides apply last. Every other vertex
// receives
//
//	RT(v) = min over fan-out of (RT(w) - delay(w))
//
// and +Inf with no fan-out, which excludes it from reporting.
func backwardPass(g *Graph, order []VertexID, delays *DelayTable, cfg *Config, at []float64) []float64 {
	rt := make([]float64, len(g.verts))
	for i := range rt {
		rt[i] = math.Inf(1)
	}

	for _, e := range g.ends {
		if cfg.ClockPeriod == 0 {
			rt[e] = at[e]
		} else {
			rt[e] = cfg.ClockPeriod - cfg.Setup
		}
		if ov, ok := cfg.EndpointRT[g.verts[e].Name]; ok {
			rt[e] = ov
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if g.isEndpoint(v) {
			// boundary condition holds even when an output net fans out
			// into further logic
			continue
		}
		best := math.Inf(1)
		for _, e := range g.verts[v].fanout {
			w := g.edges[e].To
			if c := rt[w] - delays[g.verts[w].Type]; c < best {
				best = c
			}
		}
		rt[v] = best
	}
	return rt
}
