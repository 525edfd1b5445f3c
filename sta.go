// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

// A Result holds one STA invocation's outcome. AT, RT, Slack and CritPred
// are parallel arrays indexed by VertexID; EdgeSlack is indexed by EdgeID.
// The graph itself is untouched: a Result is the only state an invocation
// produces, so independent configurations can be analyzed concurrently
// against the same graph.
//
type Result struct {
	Order []VertexID // topological order shared by both passes

	AT        []float64
	RT        []float64
	Slack     []float64
	EdgeSlack []float64

	// CritPred records, per vertex, the fan-in edge realizing its arrival
	// time, or -1 for startpoints and sources. Path reconstruction follows
	// these edges.
	CritPred []EdgeID

	WNS float64 // worst negative slack over reported endpoints
	TNS float64 // total negative slack over reported endpoints

	// Delays is the table the run was configured with.
	Delays DelayTable

	fromStart []bool
	fromConst []bool
}

// Reported returns whether endpoint v participates in slack reporting.
// Endpoints unreachable from any startpoint and driven by explicit
// constants are excluded.
//
func (r *Result) Reported(v VertexID) bool {
	return r.fromStart[v] || !r.fromConst[v]
}

// RunSTA computes arrival times, required times and slacks over g for the
// given configuration. A nil cfg means DefaultConfig. The graph is
// read-only during the run.
//
func RunSTA(g *Graph, cfg *Config) (*Result, error) {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	delays, err := cfg.delayTable()
	if err != nil {
		return nil, err
	}

	order, err := TopoOrder(g)
	if err != nil {
		return nil, err
	}

	at, pred, fromStart, fromConst := forwardPass(g, order, &delays, cfg)
	rt := backwardPass(g, order, &delays, cfg, at)
	slack, edgeSlack := computeSlacks(g, &delays, at, rt)
	wns, tns := metrics(g, slack, fromStart, fromConst)

	return &Result{
		Order:     order,
		AT:        at,
		RT:        rt,
		Slack:     slack,
		EdgeSlack: edgeSlack,
		CritPred:  pred,
		WNS:       wns,
		TNS:       tns,
		Delays:    delays,
		fromStart: fromStart,
		fromConst: fromConst,
	}, nil
}
