// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta_test

import (
	"reflect"
	"testing"

	"github.com/mjourdan/netsta"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func runSTA(t *testing.T, src string, cfg *netsta.Config) (*netsta.Graph, *netsta.Result) {
	t.Helper()
	g, _, err := netsta.LoadNetlist(src)
	require.NoError(t, err)
	res, err := netsta.RunSTA(g, cfg)
	require.NoError(t, err)
	return g, res
}

func Test_sta_singleGate(t *testing.T) {
	g, res := runSTA(t, `
module t (a, b, y);
input a, b;
output y;
assign y = a & b;
endmodule
`, nil)
	y := vertex(t, g, "y")
	require.InDelta(t, 0.02, res.AT[y], delta)
	require.InDelta(t, 1.95, res.RT[y], delta)
	require.InDelta(t, 1.93, res.Slack[y], delta)
	require.InDelta(t, 1.93, res.WNS, delta)
	require.InDelta(t, 0, res.TNS, delta)
}

func Test_sta_chain(t *testing.T) {
	g, res := runSTA(t, chainSrc, nil)
	y := vertex(t, g, "y")
	require.InDelta(t, 0.07, res.AT[y], delta) // 0.01 + 0.02 + 0.04
	require.InDelta(t, 1.88, res.Slack[y], delta)
}

func Test_sta_tightClock(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.ClockPeriod = 0.05
	_, res := runSTA(t, chainSrc, &cfg)
	require.InDelta(t, -0.07, res.WNS, delta)
	require.InDelta(t, -0.07, res.TNS, delta)
}

func Test_sta_dffChain(t *testing.T) {
	g, res := runSTA(t, `
module t (d, clk);
input d, clk;
wire q1, nq, q2;
DFF dff1 (.D(d), .Q(q1), .CLK(clk));
NOT g1 (.A(q1), .Y(nq));
DFF dff2 (.D(nq), .Q(q2), .CLK(clk));
endmodule
`, nil)
	q1 := vertex(t, g, "q1")
	d2 := vertex(t, g, "dff2.D")
	require.InDelta(t, 0.08, res.AT[q1], delta)
	require.InDelta(t, 0.09, res.AT[d2], delta)
	require.InDelta(t, 1.86, res.Slack[d2], delta)
	require.InDelta(t, 1.86, res.WNS, delta)
}

func Test_sta_assignOnly(t *testing.T) {
	g, res := runSTA(t, `
module t (a, y);
input a;
output y;
assign y = a;
endmodule
`, nil)
	y := vertex(t, g, "y")
	require.InDelta(t, 0.001, res.AT[y], delta)
	require.InDelta(t, 2.0-0.05-0.001, res.Slack[y], delta)
}

func Test_sta_diamond(t *testing.T) {
	g, res := runSTA(t, diamondSrc, nil)
	y := vertex(t, g, "y")
	require.InDelta(t, 0.01, res.AT[vertex(t, g, "p")], delta)
	require.InDelta(t, 0.01, res.AT[vertex(t, g, "q")], delta)
	require.InDelta(t, 0.03, res.AT[y], delta)
}

func Test_sta_unclocked(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.ClockPeriod = 0
	g, res := runSTA(t, chainSrc, &cfg)
	y := vertex(t, g, "y")
	require.InDelta(t, 0, res.Slack[y], delta)
	require.InDelta(t, 0, res.WNS, delta)
}

func Test_sta_overrides(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.StartpointAT = map[string]float64{"a": 0.5}
	g, res := runSTA(t, `
module t (a, y);
input a;
output y;
assign y = ~a;
endmodule
`, &cfg)
	require.InDelta(t, 0.51, res.AT[vertex(t, g, "y")], delta)

	cfg = netsta.DefaultConfig()
	cfg.EndpointRT = map[string]float64{"y": 0.4}
	_, res = runSTA(t, `
module t (a, y);
input a;
output y;
assign y = ~a;
endmodule
`, &cfg)
	require.InDelta(t, 0.4-0.01, res.WNS, delta)
}

func Test_sta_delayOverride(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.Delays = map[string]float64{"AND": 0.5}
	g, res := runSTA(t, `
module t (a, b, y);
input a, b;
output y;
assign y = a & b;
endmodule
`, &cfg)
	require.InDelta(t, 0.5, res.AT[vertex(t, g, "y")], delta)
}

func Test_sta_idempotent(t *testing.T) {
	g, _, err := netsta.LoadNetlist(chainSrc)
	require.NoError(t, err)
	r1, err := netsta.RunSTA(g, nil)
	require.NoError(t, err)
	r2, err := netsta.RunSTA(g, nil)
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(r1, r2), "repeated runs differ")
}

func Test_sta_sharedOrder(t *testing.T) {
	// the backward pass runs over the reverse of the forward order; both
	// passes see identical predecessor and successor sets
	g, res := runSTA(t, chainSrc, nil)
	order, err := netsta.TopoOrder(g)
	require.NoError(t, err)
	require.Equal(t, order, res.Order)
}
