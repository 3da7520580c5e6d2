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

package graph

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"bennypowers.dev/superjoin/filecache"
	"bennypowers.dev/superjoin/resolve"
	"bennypowers.dev/superjoin/scan"
)

// Walker builds a ModuleGraph by resolving specifiers and following the
// require() calls of every module it registers. A path is registered at
// most once, which also ends cycles.
type Walker struct {
	resolver       *resolve.Resolver
	files          *filecache.Cache
	scanner        scan.Scanner
	logger         resolve.Logger
	external       map[string]bool
	skipSubmodules bool
	graph          *ModuleGraph
}

// NewWalker creates a Walker with an empty graph.
func NewWalker(resolver *resolve.Resolver, files *filecache.Cache, scanner scan.Scanner, logger resolve.Logger) *Walker {
	return &Walker{
		resolver: resolver,
		files:    files,
		scanner:  scanner,
		logger:   logger,
		graph:    New(),
	}
}

// WithExternal returns a new Walker that never follows the given
// specifiers. They are expected to be provided at runtime.
func (w *Walker) WithExternal(names []string) *Walker {
	external := make(map[string]bool, len(names))
	for _, name := range names {
		external[name] = true
	}
	return &Walker{
		resolver:       w.resolver,
		files:          w.files,
		scanner:        w.scanner,
		logger:         w.logger,
		external:       external,
		skipSubmodules: w.skipSubmodules,
		graph:          w.graph,
	}
}

// WithSkipSubmodules returns a new Walker that registers modules without
// scanning them for further requires.
func (w *Walker) WithSkipSubmodules(skip bool) *Walker {
	return &Walker{
		resolver:       w.resolver,
		files:          w.files,
		scanner:        w.scanner,
		logger:         w.logger,
		external:       w.external,
		skipSubmodules: skip,
		graph:          w.graph,
	}
}

// Graph returns the graph built so far.
func (w *Walker) Graph() *ModuleGraph {
	return w.graph
}

// Reset discards the graph so a new build can start.
func (w *Walker) Reset() {
	w.graph = New()
}

// AddModule resolves spec from origin and adds the module and everything
// it requires. Adding a path that is already registered does nothing.
func (w *Walker) AddModule(origin, spec string) (*Node, error) {
	m, err := w.resolver.Resolve(origin, spec)
	if err != nil {
		return nil, err
	}
	if m.Fallback {
		w.graph.Warnings = append(w.graph.Warnings, Warning{
			Kind:      FallbackWarning,
			Origin:    origin,
			Specifier: spec,
		})
	}
	return w.add(origin, spec, m)
}

// AddResolved adds an already resolved module.
func (w *Walker) AddResolved(origin string, m resolve.Module) (*Node, error) {
	return w.add(origin, m.Name, m)
}

func (w *Walker) add(origin, spec string, m resolve.Module) (*Node, error) {
	if n, ok := w.graph.Lookup(m.Path); ok {
		if w.logger != nil {
			w.logger.Debug("module already added: %s", m.Name)
		}
		n.addAlias(m.Name)
		return n, nil
	}

	source, err := w.files.Load(m.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &resolve.ResolutionError{
				Specifier: spec,
				Origin:    origin,
				Err:       fmt.Errorf("%w: %s", resolve.ErrNotFound, m.Path),
			}
		}
		return nil, fmt.Errorf("read %s: %w", m.Path, err)
	}

	n := &Node{Module: m, Source: source}
	w.graph.add(n)
	if w.logger != nil {
		w.logger.Debug("added %s (%s)", m.Key(), m.Path)
	}

	if w.skipSubmodules {
		return n, nil
	}
	return n, w.walk(n)
}

func (w *Walker) walk(n *Node) error {
	requires, err := w.scanner.Scan(n.Source)
	if err != nil {
		return fmt.Errorf("scan %s: %w", n.Module.Path, err)
	}

	for _, req := range requires {
		if !req.Literal {
			w.graph.Warnings = append(w.graph.Warnings, Warning{
				Kind:      LexicalWarning,
				Origin:    n.Module.Path,
				Specifier: req.Raw,
				Line:      req.Line,
			})
			if w.logger != nil {
				w.logger.Warning("could not resolve module name require(%s) in %s:%d", req.Raw, n.Module.Path, req.Line)
			}
			continue
		}

		if w.external[req.Specifier] {
			if w.logger != nil {
				w.logger.Debug("%s is an external dependency", req.Specifier)
			}
			continue
		}

		child, err := w.AddModule(n.Module.Path, req.Specifier)
		if err != nil {
			return err
		}
		if !slices.Contains(n.Dependencies, child.Module.Path) {
			n.Dependencies = append(n.Dependencies, child.Module.Path)
		}
	}
	return nil
}
