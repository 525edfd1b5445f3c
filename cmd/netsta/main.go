// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command netsta runs static timing analysis on a gate-level netlist and
// prints the slack metrics and the K worst critical paths.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/mjourdan/netsta"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("netsta: ")

	var (
		cfgPath = flag.String("c", "", "timing constraints file (YAML)")
		tclk    = flag.Float64("tclk", 2.0, "clock period (ns)")
		setup   = flag.Float64("setup", 0.05, "setup time (ns)")
		ctq     = flag.Float64("ctq", 0.08, "clock-to-Q delay (ns)")
		k       = flag.Int("k", 1, "number of critical paths to report")
		neg     = flag.Bool("neg", false, "after the first path, report violating paths only")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: netsta [options] netlist.v")
	}

	cfg := netsta.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = netsta.LoadConfig(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	// explicit flags win over the constraints file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tclk":
			cfg.ClockPeriod = *tclk
		case "setup":
			cfg.Setup = *setup
		case "ctq":
			cfg.ClockToQ = *ctq
		case "k":
			cfg.MaxPaths = *k
		case "neg":
			cfg.ViolationsOnly = *neg
		}
	})
	g, diags, err := netsta.BuildGraph(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	res, err := netsta.RunSTA(g, &cfg)
	if err != nil {
		log.Fatal(err)
	}
	paths, pdiags, err := netsta.FindKCriticalPaths(g, &cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("vertices: %d  edges: %d  startpoints: %d  endpoints: %d\n",
		g.NumVertices(), g.NumEdges(), len(g.Startpoints()), len(g.Endpoints()))
	fmt.Printf("WNS = %.6f ns  TNS = %.6f ns\n", res.WNS, res.TNS)

	for _, w := range append(diags, pdiags...) {
		fmt.Println("warning:", w)
	}

	for i, p := range paths {
		fmt.Printf("\npath %d: slack %.6f ns, delay %.6f ns\n", i+1, p.Slack, p.TotalDelay)
		fmt.Printf("  %s\n", strings.Join(p.Vertices, " -> "))
	}
}
