// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import (
	"strings"

	"github.com/pkg/errors"
)

// TopoOrder returns the vertices of g in topological order using Kahn's
// algorithm. The work queue is FIFO and seeded in vertex insertion order,
// so the result is deterministic for a given netlist. Returns
// ErrCombinationalCycle if not every vertex can be ordered.
//
func TopoOrder(g *Graph) ([]VertexID, error) {
	indeg := make([]int, len(g.verts))
	for _, e := range g.edges {
		indeg[e.To]++
	}

	queue := make([]VertexID, 0, len(g.verts))
	for v := range g.verts {
		if indeg[v] == 0 {
			queue = append(queue, VertexID(v))
		}
	}

	order := make([]VertexID, 0, len(g.verts))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, e := range g.verts[u].fanout {
			w := g.edges[e].To
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}

	if len(order) != len(g.verts) {
		return nil, cycleError(g, indeg)
	}
	return order, nil
}

// TopoWaves returns the vertices of g grouped into Kahn "waves": each wave
// holds every vertex whose in-degree reaches zero simultaneously. The
// concatenation of all waves is exactly the order returned by TopoOrder,
// whose FIFO queue drains one wave before the next. Timing correctness does not
// depend on wave granularity; this mode exists for step-wise visualization.
//
func TopoWaves(g *Graph) ([][]VertexID, error) {
	indeg := make([]int, len(g.verts))
	for _, e := range g.edges {
		indeg[e.To]++
	}

	frontier := make([]VertexID, 0, len(g.verts))
	for v := range g.verts {
		if indeg[v] == 0 {
			frontier = append(frontier, VertexID(v))
		}
	}

	var waves [][]VertexID
	seen := 0
	for len(frontier) > 0 {
		waves = append(waves, frontier)
		seen += len(frontier)
		var next []VertexID
		for _, u := range frontier {
			for _, e := range g.verts[u].fanout {
				w := g.edges[e].To
				indeg[w]--
				if indeg[w] == 0 {
					next = append(next, w)
				}
			}
		}
		frontier = next
	}

	if seen != len(g.verts) {
		return nil, cycleError(g, indeg)
	}
	return waves, nil
}

// cycleError names up to eight vertices left with non-zero in-degree as the
// cycle witness.
func cycleError(g *Graph, indeg []int) error {
	var witness []string
	rest := 0
	for v, d := range indeg {
		if d <= 0 {
			continue
		}
		if len(witness) < 8 {
			witness = append(witness, g.verts[v].Name)
		} else {
			rest++
		}
	}
	msg := "involving " + strings.Join(witness, ", ")
	if rest > 0 {
		msg += ", ..."
	}
	return errors.WithMessage(ErrCombinationalCycle, msg)
}
