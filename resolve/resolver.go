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

package resolve

import (
	"path/filepath"
	"regexp"
	"strings"

	"bennypowers.dev/superjoin/fs"
)

var namespacePrefix = regexp.MustCompile(`^\$(npm|bower|lib)/(.+)$`)

// Resolver turns a specifier written in one file into a Module.
// Resolution depends only on its inputs and the namespace layout, so
// resolving the same pair twice yields equal results.
type Resolver struct {
	fs      fs.FileSystem
	locator *Locator
	logger  Logger
}

// New creates a Resolver using locator for namespace lookups.
func New(fsys fs.FileSystem, locator *Locator, logger Logger) *Resolver {
	return &Resolver{
		fs:      fsys,
		locator: locator,
		logger:  logger,
	}
}

// Namespaces returns the directories the resolver searches.
func (r *Resolver) Namespaces() Namespaces {
	return r.locator.Namespaces()
}

// Resolve maps spec, as written in the file origin, to a Module.
//
// Dispatch, first match wins:
//   - "$lib/x", "$bower/x", "$npm/x" look only in that namespace
//   - "./x" and "../x" are paths relative to origin
//   - "pkg/sub" is a file inside the namespace that holds pkg
//   - "x.y" is a sibling file of origin if one exists, else a package
//   - anything else is a package
func (r *Resolver) Resolve(origin, spec string) (Module, error) {
	if r.logger != nil {
		r.logger.Debug("resolve %q from %s", spec, origin)
	}

	m, err := r.dispatch(origin, spec)
	if err != nil {
		return Module{}, err
	}
	m.Alias = aliasFor(m)
	return m, nil
}

func (r *Resolver) dispatch(origin, spec string) (Module, error) {
	fromDir := filepath.Dir(origin)

	switch {
	case namespacePrefix.MatchString(spec):
		groups := namespacePrefix.FindStringSubmatch(spec)
		kind, _ := ParseKind(groups[1])
		if r.locator.Namespaces().Dir(kind) == "" {
			return Module{}, &ResolutionError{Specifier: spec, Origin: origin, Err: ErrUnconfigured}
		}
		m, err := r.locator.Locate(kind, groups[2])
		if err != nil {
			return Module{}, &ResolutionError{Specifier: spec, Origin: origin, Err: err}
		}
		if m == nil {
			return Module{}, &ResolutionError{Specifier: spec, Origin: origin, Err: ErrNotFound}
		}
		return *m, nil

	case filepath.IsAbs(spec):
		return r.locator.classify(withExtension(filepath.Clean(spec))), nil

	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		p := withExtension(filepath.Join(fromDir, filepath.FromSlash(spec)))
		return r.locator.classify(p), nil

	case strings.Contains(spec, "/") && PackageName(spec) != spec:
		mod, err := r.searchNamespaces(origin, PackageName(spec))
		if err != nil {
			return Module{}, err
		}
		if mod == nil {
			root := r.locator.Namespaces().Root
			return r.fallback(origin, spec, filepath.Join(root, filepath.FromSlash(withExtension(spec))))
		}
		return Module{
			Path:              filepath.Join(mod.Dir, filepath.FromSlash(withExtension(spec))),
			Name:              spec,
			Dir:               mod.Dir,
			Namespace:         mod.Namespace,
			IsNamespaceModule: true,
		}, nil

	case strings.Contains(spec, ".") && !strings.HasPrefix(spec, "@"):
		sibling := filepath.Join(fromDir, spec)
		if r.fs.Exists(sibling) && !r.fs.IsDir(sibling) {
			return r.locator.classify(sibling), nil
		}
	}

	mod, err := r.searchNamespaces(origin, spec)
	if err != nil {
		return Module{}, err
	}
	if mod != nil {
		return *mod, nil
	}
	return r.fallback(origin, spec, withExtension(filepath.Join(fromDir, filepath.FromSlash(spec))))
}

// searchNamespaces looks pkg up in every configured namespace in order.
func (r *Resolver) searchNamespaces(origin, pkg string) (*Module, error) {
	for _, kind := range SearchOrder {
		m, err := r.locator.Locate(kind, pkg)
		if err != nil {
			return nil, &ResolutionError{Specifier: pkg, Origin: origin, Err: err}
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

// fallback treats a package specifier found in no namespace as the local
// file p.
func (r *Resolver) fallback(origin, spec, p string) (Module, error) {
	if !r.fs.Exists(p) {
		return Module{}, &ResolutionError{Specifier: spec, Origin: origin, Err: ErrNotFound}
	}
	if r.logger != nil {
		r.logger.Warning("module %s not found as module, but could resolve it as local module; require it as ./%s instead", spec, spec)
	}
	m := r.locator.classify(p)
	m.Fallback = true
	return m, nil
}
