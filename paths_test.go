// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta_test

import (
	"testing"

	"github.com/mjourdan/netsta"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diamondSrc = `
module diamond (a, y);
input a;
output y;
assign p = ~a;
assign q = ~a;
assign y = p & q;
endmodule
`

func findPaths(t *testing.T, src string, cfg *netsta.Config) ([]netsta.PathReport, netsta.Diagnostics) {
	t.Helper()
	g, _, err := netsta.LoadNetlist(src)
	require.NoError(t, err)
	paths, diags, err := netsta.FindKCriticalPaths(g, cfg)
	require.NoError(t, err)
	return paths, diags
}

func edgeSet(p netsta.PathReport) map[[2]string]bool {
	m := make(map[[2]string]bool, len(p.Edges))
	for _, e := range p.Edges {
		m[e] = true
	}
	return m
}

func assertEdgeDisjoint(t *testing.T, paths []netsta.PathReport) {
	t.Helper()
	seen := make(map[[2]string]bool)
	for _, p := range paths {
		for e := range edgeSet(p) {
			if seen[e] {
				t.Errorf("edge %v -> %v shared between paths", e[0], e[1])
			}
			seen[e] = true
		}
	}
}

func Test_kpaths_diamond(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.MaxPaths = 2
	paths, _ := findPaths(t, diamondSrc, &cfg)
	require.Len(t, paths, 2)

	assert.Equal(t, []string{"a", "p", "y"}, paths[0].Vertices)
	assert.Equal(t, []string{"a", "q", "y"}, paths[1].Vertices)
	assert.InDelta(t, paths[0].Slack, paths[1].Slack, delta)
	assert.InDelta(t, 0.03, paths[0].TotalDelay, delta) // NOT + AND
	assertEdgeDisjoint(t, paths)
}

func Test_kpaths_worstFirst(t *testing.T) {
	// y2's cone is deeper than y1's, so its path comes out first
	cfg := netsta.DefaultConfig()
	cfg.MaxPaths = 2
	paths, diags := findPaths(t, `
module t (a, b, y1, y2);
input a, b;
output y1, y2;
assign y1 = a & b;
assign n1 = ~a;
assign n2 = n1 & b;
assign y2 = ~n2;
endmodule
`, &cfg)
	require.Len(t, paths, 2)
	assert.Equal(t, "y2", paths[0].Vertices[len(paths[0].Vertices)-1])
	assert.Equal(t, "y1", paths[1].Vertices[len(paths[1].Vertices)-1])
	assert.LessOrEqual(t, paths[0].Slack, paths[1].Slack)
	// y2 runs out of edges before y1's turn
	require.Len(t, diags, 1)
	assert.Equal(t, netsta.WarnNoPathToEndpoint, diags[0].Kind)
}

func Test_kpaths_kExceedsPaths(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.MaxPaths = 5
	paths, diags := findPaths(t, `
module t (a, b, y);
input a, b;
output y;
assign y = a & b;
endmodule
`, &cfg)
	// two edge-disjoint paths exist, then the endpoint runs dry
	require.Len(t, paths, 2)
	assertEdgeDisjoint(t, paths)
	require.Len(t, diags, 1)
	assert.Equal(t, netsta.WarnNoPathToEndpoint, diags[0].Kind)
	assert.Equal(t, "y", diags[0].Signal)
}

func Test_kpaths_slacksNonDecreasing(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.MaxPaths = 4
	paths, _ := findPaths(t, `
module t (a, b, c, y1, y2);
input a, b, c;
output y1, y2;
assign y1 = a & b;
assign y2 = (a | b) ^ c;
endmodule
`, &cfg)
	require.NotEmpty(t, paths)
	for i := 1; i < len(paths); i++ {
		assert.LessOrEqual(t, paths[i-1].Slack, paths[i].Slack)
	}
	assertEdgeDisjoint(t, paths)
}

func Test_kpaths_violationsOnly(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.MaxPaths = 3
	cfg.ViolationsOnly = true
	// everything meets timing, so only the mandatory first path comes out
	paths, _ := findPaths(t, diamondSrc, &cfg)
	require.Len(t, paths, 1)
}

func Test_kpaths_noEndpoints(t *testing.T) {
	g, _, err := netsta.LoadNetlist(`
module t (a);
input a;
endmodule
`)
	require.NoError(t, err)
	_, _, err = netsta.FindKCriticalPaths(g, nil)
	require.Equal(t, netsta.ErrNoEndpoints, errors.Cause(err))
}

func Test_kpaths_reportShape(t *testing.T) {
	paths, _ := findPaths(t, chainSrc, nil)
	require.Len(t, paths, 1)
	p := paths[0]
	require.Equal(t, []string{"a", "n1", "n2", "y"}, p.Vertices)
	require.Equal(t, [][2]string{{"a", "n1"}, {"n1", "n2"}, {"n2", "y"}}, p.Edges)
	require.Len(t, p.Delays, len(p.Vertices))
	assert.InDelta(t, 0.07, p.TotalDelay, delta)
	assert.InDelta(t, 1.88, p.Slack, delta)
}
