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

	"bennypowers.dev/superjoin/fs"
)

// DiscoverNamespaceDir walks up from startDir looking for a directory
// called name. It checks every ancestor once and stops at the filesystem
// root, returning false when nothing was found.
func DiscoverNamespaceDir(fsys fs.FileSystem, startDir, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	dir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(dir, name)
		if fsys.IsDir(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DiscoverNamespaces fills in unconfigured bower and npm directories by
// searching upward from workingDir. Configured directories are kept as-is.
func DiscoverNamespaces(fsys fs.FileSystem, workingDir string, ns Namespaces) Namespaces {
	if ns.Bower == "" {
		if dir, ok := DiscoverNamespaceDir(fsys, workingDir, Bower.ConventionalDir()); ok {
			ns.Bower = dir
		}
	}
	if ns.Npm == "" {
		if dir, ok := DiscoverNamespaceDir(fsys, workingDir, Npm.ConventionalDir()); ok {
			ns.Npm = dir
		}
	}
	return ns
}
