// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package statest provides utility functions for testing timing analyses.
//
package statest

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/mjourdan/netsta"
)

const eps = 1e-12

func almostEq(a, b float64) bool {
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	return math.Abs(a-b) <= eps
}

// CompareResults runs STA on two netlists under the same constraints and
// reports every signal present in both whose AT, RT or slack differ, plus
// any WNS/TNS divergence. Both netlists are expected to describe the same
// circuit, e.g. with declarations permuted.
//
func CompareResults(t *testing.T, src1, src2 string, cfg *netsta.Config) {
	t.Helper()

	g1, _, err := netsta.LoadNetlist(src1)
	if err != nil {
		t.Fatal(err)
	}
	g2, _, err := netsta.LoadNetlist(src2)
	if err != nil {
		t.Fatal(err)
	}
	r1, err := netsta.RunSTA(g1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := netsta.RunSTA(g2, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for id1 := 0; id1 < g1.NumVertices(); id1++ {
		v1 := netsta.VertexID(id1)
		name := g1.Vertex(v1).Name
		v2, ok := g2.VertexByName(name)
		if !ok {
			continue
		}
		if !almostEq(r1.AT[v1], r2.AT[v2]) {
			t.Errorf("%s: AT %g != %g", name, r1.AT[v1], r2.AT[v2])
		}
		if !almostEq(r1.RT[v1], r2.RT[v2]) {
			t.Errorf("%s: RT %g != %g", name, r1.RT[v1], r2.RT[v2])
		}
		if !almostEq(r1.Slack[v1], r2.Slack[v2]) {
			t.Errorf("%s: slack %g != %g", name, r1.Slack[v1], r2.Slack[v2])
		}
	}
	if !almostEq(r1.WNS, r2.WNS) {
		t.Errorf("WNS %g != %g", r1.WNS, r2.WNS)
	}
	if !almostEq(r1.TNS, r2.TNS) {
		t.Errorf("TNS %g != %g", r1.TNS, r2.TNS)
	}
}

// CheckScaling verifies that scaling every delay and every constraint by a
// positive constant scales every arrival time, required time and slack by
// that constant. quick.Check drives the scale factor.
//
func CheckScaling(t *testing.T, src string, cfg *netsta.Config) {
	t.Helper()

	g, _, err := netsta.LoadNetlist(src)
	if err != nil {
		t.Fatal(err)
	}
	if cfg == nil {
		c := netsta.DefaultConfig()
		cfg = &c
	}
	base, err := netsta.RunSTA(g, cfg)
	if err != nil {
		t.Fatal(err)
	}

	f := func(n uint8) bool {
		c := 0.5 + float64(n)/16
		scaled := *cfg
		scaled.ClockPeriod *= c
		scaled.Setup *= c
		scaled.ClockToQ *= c
		scaled.Delays = base.Delays.Map()
		for k := range scaled.Delays {
			scaled.Delays[k] *= c
		}
		scaled.StartpointAT = make(map[string]float64, len(cfg.StartpointAT))
		for k, v := range cfg.StartpointAT {
			scaled.StartpointAT[k] = c * v
		}
		scaled.EndpointRT = make(map[string]float64, len(cfg.EndpointRT))
		for k, v := range cfg.EndpointRT {
			scaled.EndpointRT[k] = c * v
		}

		r, err := netsta.RunSTA(g, &scaled)
		if err != nil {
			return false
		}
		for v := 0; v < g.NumVertices(); v++ {
			if !scaledClose(c*base.AT[v], r.AT[v]) ||
				!scaledClose(c*base.RT[v], r.RT[v]) ||
				!scaledClose(c*base.Slack[v], r.Slack[v]) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 32}); err != nil {
		t.Error(err)
	}
}

func scaledClose(a, b float64) bool {
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	return math.Abs(a-b) <= 1e-9*(1+math.Abs(a))
}
