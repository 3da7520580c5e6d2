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
	"strings"

	"bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/manifest"
)

// Locator finds modules inside a single namespace directory.
type Locator struct {
	fs         fs.FileSystem
	manifests  *manifest.Cache
	namespaces Namespaces
	logger     Logger
}

// NewLocator creates a Locator over the given namespaces.
func NewLocator(fsys fs.FileSystem, manifests *manifest.Cache, namespaces Namespaces, logger Logger) *Locator {
	return &Locator{
		fs:         fsys,
		manifests:  manifests,
		namespaces: namespaces,
		logger:     logger,
	}
}

// Namespaces returns the directories the locator searches.
func (l *Locator) Namespaces() Namespaces {
	return l.namespaces
}

// Locate resolves spec inside the namespace of the given kind. It returns
// nil without error when the namespace is unconfigured or has no package
// directory for spec.
//
// A specifier with a subpath, like "lodash/fp", points directly at a file
// and gets a .js extension unless it already names a .js or .json file.
// A bare package name is resolved through the package's manifests.
func (l *Locator) Locate(kind Kind, spec string) (*Module, error) {
	root := l.namespaces.Dir(kind)
	if root == "" {
		return nil, nil
	}

	if PackageName(spec) != spec {
		name := withExtension(spec)
		return &Module{
			Path:              filepath.Join(root, filepath.FromSlash(name)),
			Name:              name,
			Dir:               root,
			Namespace:         kind,
			IsNamespaceModule: true,
		}, nil
	}

	pkgDir := filepath.Join(root, filepath.FromSlash(spec))
	if !l.fs.Exists(pkgDir) {
		return nil, nil
	}

	set, err := l.manifests.LoadSet(pkgDir)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, &ManifestMissingError{Package: spec, Dir: pkgDir}
	}
	entry, rule, err := set.Entry()
	if err != nil {
		return nil, err
	}
	if l.logger != nil {
		l.logger.Debug("%s: %s entry %s (%s)", kind, spec, entry, rule)
	}

	return &Module{
		Path:              filepath.Join(pkgDir, filepath.FromSlash(entry)),
		Name:              spec,
		Dir:               root,
		Namespace:         kind,
		IsNamespaceModule: true,
	}, nil
}

// classify derives a Module for an absolute path by checking which
// namespace contains it. Files outside every namespace are local.
func (l *Locator) classify(p string) Module {
	for _, kind := range SearchOrder {
		dir := l.namespaces.Dir(kind)
		if within(dir, p) {
			rel, _ := filepath.Rel(dir, p)
			return Module{
				Path:              p,
				Name:              filepath.ToSlash(rel),
				Dir:               dir,
				Namespace:         kind,
				IsNamespaceModule: true,
			}
		}
	}

	root := l.namespaces.Root
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	name := filepath.ToSlash(rel)
	if !strings.HasPrefix(name, "../") {
		name = "./" + name
	}
	return Module{
		Path:      p,
		Name:      name,
		Dir:       root,
		Namespace: Local,
	}
}
