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

// Package resolve maps require() specifiers to files on disk across the
// local project, the lib directory, bower_components and node_modules.
package resolve

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Logger is an interface for logging messages during resolution.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Kind names the namespace a module belongs to.
type Kind string

const (
	Local Kind = "local"
	Lib   Kind = "lib"
	Bower Kind = "bower"
	Npm   Kind = "npm"
)

// ConventionalDir returns the directory name searched for when a namespace
// is not configured explicitly. Lib has none.
func (k Kind) ConventionalDir() string {
	switch k {
	case Bower:
		return "bower_components"
	case Npm:
		return "node_modules"
	}
	return ""
}

// ParseKind converts an explicit specifier prefix such as "npm" to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Lib, Bower, Npm:
		return Kind(s), true
	}
	return "", false
}

// Module describes a resolved require() target.
type Module struct {
	// Path is the absolute path of the file on disk.
	Path string
	// Name is the public module identifier.
	Name string
	// Dir is the root of the namespace the module lives in.
	Dir string
	// Namespace is the kind of Dir.
	Namespace Kind
	// IsNamespaceModule is false for project-local files.
	IsNamespaceModule bool
	// Alias is Path relative to Dir, set only when Dir joined with Name
	// does not reach Path.
	Alias string
	// Fallback is set when a bare specifier was only found as a local file.
	Fallback bool
}

// Key returns the registration key the runtime stores the module under.
func (m Module) Key() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Name
}

// IsJSON reports whether the module is a JSON document.
func (m Module) IsJSON() bool {
	return strings.HasSuffix(m.Path, ".json")
}

// Namespaces holds the absolute root of every namespace. An empty
// directory means the namespace is not configured.
type Namespaces struct {
	Root  string
	Lib   string
	Bower string
	Npm   string
}

// Dir returns the directory configured for kind.
func (n Namespaces) Dir(kind Kind) string {
	switch kind {
	case Local:
		return n.Root
	case Lib:
		return n.Lib
	case Bower:
		return n.Bower
	case Npm:
		return n.Npm
	}
	return ""
}

// SearchOrder lists the namespaces bare specifiers are looked up in.
var SearchOrder = []Kind{Lib, Bower, Npm}

// ErrNotFound is wrapped by ResolutionError when no file matches a specifier.
var ErrNotFound = errors.New("module not found")

// ErrUnconfigured is wrapped by ResolutionError when an explicit namespace
// prefix names a namespace with no directory.
var ErrUnconfigured = errors.New("namespace not configured")

// ResolutionError reports a specifier that could not be mapped to a file.
type ResolutionError struct {
	Specifier string
	Origin    string
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Origin == "" {
		return fmt.Sprintf("cannot resolve %q: %v", e.Specifier, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q from %s: %v", e.Specifier, e.Origin, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ManifestMissingError reports a package directory without bower.json or
// package.json.
type ManifestMissingError struct {
	Package string
	Dir     string
}

func (e *ManifestMissingError) Error() string {
	return fmt.Sprintf("no bower.json or package.json found in module %s (%s)", e.Package, e.Dir)
}

// HasKnownExtension reports whether p ends in .js or .json.
func HasKnownExtension(p string) bool {
	return strings.HasSuffix(p, ".js") || strings.HasSuffix(p, ".json")
}

func withExtension(p string) string {
	if HasKnownExtension(p) {
		return p
	}
	return p + ".js"
}

// PackageName extracts the package name from a specifier.
// Handles scoped packages (@scope/name) and subpaths (lodash/fp).
func PackageName(spec string) string {
	if strings.HasPrefix(spec, "@") {
		parts := strings.SplitN(spec, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return spec
	}
	if idx := strings.Index(spec, "/"); idx > 0 {
		return spec[:idx]
	}
	return spec
}

// within reports whether p lies inside dir.
func within(dir, p string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// aliasFor applies the alias rule to m.
func aliasFor(m Module) string {
	if filepath.Join(m.Dir, m.Name) == m.Path {
		return ""
	}
	rel, err := filepath.Rel(m.Dir, m.Path)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}
