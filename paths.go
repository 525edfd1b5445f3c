// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import "github.com/pkg/errors"

// A PathReport describes one extracted critical path, source to sink.
//
type PathReport struct {
	Vertices   []string    // startpoint first
	Edges      [][2]string // (from, to) pairs along the path
	Delays     []float64   // per-vertex delay, parallel to Vertices
	TotalDelay float64     // sum of per-vertex delays
	Slack      float64     // slack of the sink endpoint
}

// bitset marks consumed edge ids during path extraction.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)      { b[i>>6] |= 1 << (uint(i) & 63) }
func (b bitset) get(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }

// FindKCriticalPaths runs STA over g and extracts up to cfg.MaxPaths
// edge-disjoint critical paths, worst endpoint slack first. Two returned
// paths may share vertices but never an edge, which preserves parallel
// paths through fan-out cones.
//
// Paths with non-negative slack are returned by default; with
// cfg.ViolationsOnly set, extraction stops after the first path once no
// violating endpoint remains. Endpoints that become unreachable over the
// remaining edges are dropped with a NoPathToEndpoint warning.
//
func FindKCriticalPaths(g *Graph, cfg *Config) ([]PathReport, Diagnostics, error) {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	if len(g.ends) == 0 {
		return nil, nil, errors.WithStack(ErrNoEndpoints)
	}

	res, err := RunSTA(g, cfg)
	if err != nil {
		return nil, nil, err
	}

	used := newBitset(len(g.edges))
	dropped := make([]bool, len(g.verts))
	var diags Diagnostics
	var out []PathReport

	for len(out) < cfg.MaxPaths {
		// worst remaining endpoint; ties keep the earliest inserted
		e := VertexID(-1)
		for _, c := range g.ends {
			if dropped[c] || !res.Reported(c) {
				continue
			}
			if e < 0 || res.Slack[c] < res.Slack[e] {
				e = c
			}
		}
		if e < 0 {
			break
		}
		if cfg.ViolationsOnly && len(out) > 0 && res.Slack[e] >= 0 {
			break
		}

		verts, edges, ok := backtrack(g, res, used, e)
		if !ok {
			dropped[e] = true
			diags = append(diags, Warning{
				Kind:   WarnNoPathToEndpoint,
				Signal: g.verts[e].Name,
				Detail: "no available path from any startpoint",
			})
			continue
		}
		for _, pe := range edges {
			used.set(int(pe))
		}
		out = append(out, pathReport(g, res, verts, edges, e))
	}
	return out, diags, nil
}

// backtrack walks from endpoint end back to a startpoint (or a source
// vertex) along available edges, preferring the recorded critical
// predecessor and falling back to the available fan-in with the largest
// arrival time.
func backtrack(g *Graph, res *Result, used bitset, end VertexID) ([]VertexID, []EdgeID, bool) {
	rverts := []VertexID{end}
	var redges []EdgeID

	cur := end
	for {
		vt := &g.verts[cur]
		if g.isStartpoint(cur) || len(vt.fanin) == 0 {
			break
		}
		pick := EdgeID(-1)
		if pe := res.CritPred[cur]; pe >= 0 && !used.get(int(pe)) {
			pick = pe
		} else {
			bestAT := 0.0
			for _, e := range vt.fanin {
				if used.get(int(e)) {
					continue
				}
				u := g.edges[e].From
				if pick < 0 || res.AT[u] > bestAT {
					pick = e
					bestAT = res.AT[u]
				}
			}
		}
		if pick < 0 {
			return nil, nil, false
		}
		redges = append(redges, pick)
		cur = g.edges[pick].From
		rverts = append(rverts, cur)
	}
	if len(rverts) < 2 {
		return nil, nil, false
	}

	for i, j := 0, len(rverts)-1; i < j; i, j = i+1, j-1 {
		rverts[i], rverts[j] = rverts[j], rverts[i]
	}
	for i, j := 0, len(redges)-1; i < j; i, j = i+1, j-1 {
		redges[i], redges[j] = redges[j], redges[i]
	}
	return rverts, redges, true
}

func pathReport(g *Graph, res *Result, verts []VertexID, edges []EdgeID, end VertexID) PathReport {
	pr := PathReport{Slack: res.Slack[end]}
	for _, v := range verts {
		d := res.Delays[g.verts[v].Type]
		pr.Vertices = append(pr.Vertices, g.verts[v].Name)
		pr.Delays = append(pr.Delays, d)
		pr.TotalDelay += d
	}
	for _, e := range edges {
		pr.Edges = append(pr.Edges, [2]string{
			g.verts[g.edges[e].From].Name,
			g.verts[g.edges[e].To].Name,
		})
	}
	return pr
}
