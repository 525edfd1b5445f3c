// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fatal error kinds. Loader, orderer and path-extractor errors wrap one of
// these (configuration and file-reading errors do not); match with
// errors.Cause:
//
//	if errors.Cause(err) == netsta.ErrUndefinedSignal { ... }
//
var (
	// ErrMalformedNetlist is returned by the loader on unparseable input.
	ErrMalformedNetlist = errors.New("malformed netlist")

	// ErrUndefinedSignal is returned by the loader when an expression
	// references an identifier neither declared as input nor produced by
	// any assignment or instance.
	ErrUndefinedSignal = errors.New("undefined signal")

	// ErrCombinationalCycle is returned by the topological orderer when the
	// graph contains a cycle not broken by a flip-flop.
	ErrCombinationalCycle = errors.New("combinational cycle")

	// ErrNoEndpoints is returned by the path extractor when the graph has
	// no endpoints.
	ErrNoEndpoints = errors.New("netlist has no endpoints")
)

// A WarnKind identifies a non-fatal diagnostic.
//
type WarnKind uint8

// Warning kinds.
const (
	WarnUnknownPrimitive WarnKind = iota
	WarnNoPathToEndpoint
)

func (k WarnKind) String() string {
	switch k {
	case WarnUnknownPrimitive:
		return "unknown primitive"
	case WarnNoPathToEndpoint:
		return "no path to endpoint"
	}
	return "warning"
}

// A Warning is a non-fatal diagnostic tied to a signal or primitive name.
//
type Warning struct {
	Kind   WarnKind
	Signal string
	Detail string
}

func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Signal)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Kind, w.Signal, w.Detail)
}

// Diagnostics collects warnings in emission order. Fatal errors abort an
// analysis; warnings are returned alongside results.
//
type Diagnostics []Warning
