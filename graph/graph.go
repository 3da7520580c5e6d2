/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package graph walks require() edges from entry files and records every
// reachable module once.
package graph

import (
	"fmt"
	"slices"

	"bennypowers.dev/superjoin/resolve"
)

// WarningKind classifies a non-fatal problem found while walking.
type WarningKind int

const (
	// LexicalWarning marks a require() whose argument is not a string
	// literal. The edge is dropped.
	LexicalWarning WarningKind = iota
	// FallbackWarning marks a package specifier that only resolved as a
	// local file.
	FallbackWarning
)

func (k WarningKind) String() string {
	switch k {
	case LexicalWarning:
		return "lexical"
	case FallbackWarning:
		return "fallback"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning is a non-fatal problem found while walking.
type Warning struct {
	Kind      WarningKind
	Origin    string
	Specifier string
	Line      int
}

func (w Warning) String() string {
	switch w.Kind {
	case LexicalWarning:
		return fmt.Sprintf("%s:%d: could not resolve module name require(%s)", w.Origin, w.Line, w.Specifier)
	case FallbackWarning:
		return fmt.Sprintf("%s: %s resolved only as a local module", w.Origin, w.Specifier)
	}
	return w.Specifier
}

// Node is a module registered in the graph.
type Node struct {
	Module resolve.Module
	Source []byte
	// Dependencies holds the paths this module requires, in source order.
	Dependencies []string
	// Aliases are further public names the module was required by after
	// it was registered.
	Aliases []string
}

// addAlias records name as another public name of n. Names the runtime
// already maps to n are skipped.
func (n *Node) addAlias(name string) {
	if name == n.Module.Name || name == n.Module.Key() || slices.Contains(n.Aliases, name) {
		return
	}
	n.Aliases = append(n.Aliases, name)
}

// ModuleGraph is the set of reachable modules in discovery order.
type ModuleGraph struct {
	Nodes    []*Node
	Warnings []Warning
	index    map[string]*Node
}

// New creates an empty graph.
func New() *ModuleGraph {
	return &ModuleGraph{index: make(map[string]*Node)}
}

// Lookup returns the node registered for path.
func (g *ModuleGraph) Lookup(path string) (*Node, bool) {
	n, ok := g.index[path]
	return n, ok
}

// Len returns the number of registered modules.
func (g *ModuleGraph) Len() int {
	return len(g.Nodes)
}

// Paths lists registered paths in discovery order.
func (g *ModuleGraph) Paths() []string {
	paths := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		paths[i] = n.Module.Path
	}
	return paths
}

func (g *ModuleGraph) add(n *Node) {
	g.Nodes = append(g.Nodes, n)
	g.index[n.Module.Path] = n
}
