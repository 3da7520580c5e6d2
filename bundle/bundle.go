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

// Package bundle renders a module graph into a single script.
package bundle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/superjoin/graph"
	"bennypowers.dev/superjoin/runtime"
)

// ErrUMDName is returned when UMD output is requested without a name to
// export the bundle under.
var ErrUMDName = errors.New("UMD output requires a module name")

// Entry is one module rendered as a registration block.
type Entry struct {
	// Key is the name the module is registered under.
	Key string
	// Source is the rendered registration, ending in a newline.
	Source string
	// Origin is the module's path on disk.
	Origin string
}

// UMDDependency maps a specifier left out of the bundle to how each UMD
// consumer provides it. Dependencies are emitted sorted by Name.
type UMDDependency struct {
	Name   string
	AMD    string
	CJS    string
	Global string
}

// Options controls how a graph is assembled.
type Options struct {
	// Banner is emitted first, trimmed, followed by a blank line.
	Banner string
	// Main is the public name of the module required at the end.
	Main string
	UMD  bool
	// UMDName is the global property a UMD bundle is exported as.
	UMDName         string
	UMDDependencies []UMDDependency
	// Dev turns on runtime autoloading of modules missing from the bundle.
	Dev bool
	// NoLoader omits the runtime loader from non-UMD bundles, for pages
	// that load it separately.
	NoLoader bool
	// RequireCalls are appended verbatim after the modules.
	RequireCalls []string
}

// Entries renders every node of g in discovery order.
func Entries(g *graph.ModuleGraph) []Entry {
	entries := make([]Entry, 0, g.Len())
	for _, n := range g.Nodes {
		entries = append(entries, RenderEntry(n))
	}
	return entries
}

// RenderEntry wraps a module's source in a registration block. JSON files
// are assigned to module.exports. Every public name that differs from the
// registration key is recorded in the alias table.
func RenderEntry(n *graph.Node) Entry {
	m := n.Module
	var b strings.Builder
	if m.Alias != "" {
		fmt.Fprintf(&b, "require.alias[%s] = %s;\n", Quote(m.Name), Quote(m.Alias))
	}
	for _, name := range n.Aliases {
		fmt.Fprintf(&b, "require.alias[%s] = %s;\n", Quote(name), Quote(m.Key()))
	}
	fmt.Fprintf(&b, "require.register(%s, function(module, exports, require) {\n", Quote(m.Key()))
	if m.IsJSON() {
		b.WriteString("module.exports = ")
	}
	b.Write(n.Source)
	b.WriteString("\n});\n")

	return Entry{
		Key:    m.Key(),
		Source: b.String(),
		Origin: m.Path,
	}
}

// Assemble renders g into the final bundle text.
//
// Order: banner, loader or UMD opening, modules, autoload flag, extra
// require calls, main invocation, UMD closing.
func Assemble(g *graph.ModuleGraph, opts Options) (string, error) {
	if opts.UMD && opts.UMDName == "" {
		return "", ErrUMDName
	}

	var b strings.Builder
	if banner := strings.TrimSpace(opts.Banner); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	var tail string
	if opts.UMD {
		var head string
		head, tail = runtime.UMD(umdParams(opts))
		b.WriteString(head)
	} else if !opts.NoLoader {
		b.WriteString(runtime.Install())
	}

	for _, e := range Entries(g) {
		b.WriteString(e.Source)
	}

	if opts.Dev {
		b.WriteString("require.autoload = true;\n")
	}

	for _, call := range opts.RequireCalls {
		b.WriteString(call)
		if !strings.HasSuffix(call, "\n") {
			b.WriteString("\n")
		}
	}

	if opts.Main != "" {
		invoke := "require(" + Quote(opts.Main) + ");\n"
		if opts.UMD {
			invoke = "return " + invoke
		}
		b.WriteString(invoke)
	}

	b.WriteString(tail)
	return b.String(), nil
}

func umdParams(opts Options) runtime.UMDParams {
	deps := slices.Clone(opts.UMDDependencies)
	slices.SortFunc(deps, func(a, b UMDDependency) int {
		return strings.Compare(a.Name, b.Name)
	})

	p := runtime.UMDParams{Name: escape(opts.UMDName)}
	for _, dep := range deps {
		p.AMD = append(p.AMD, Quote(dep.AMD))
		p.CJS = append(p.CJS, "require("+Quote(dep.CJS)+")")
		p.Global = append(p.Global, "window."+dep.Global)
		p.Dependencies = append(p.Dependencies, Quote(dep.Name))
	}
	return p
}

// Quote renders s as a single-quoted JavaScript string.
func Quote(s string) string {
	return "'" + escape(s) + "'"
}

var escaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func escape(s string) string {
	return escaper.Replace(s)
}
