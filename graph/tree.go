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
	"io"

	"github.com/ddddddO/gtree"
)

// WriteTree renders the dependency tree below rootName. Modules no earlier
// module requires, which are the entries, become top-level branches. A
// module reached again on its own branch is printed once with a
// "(circular)" marker.
func (g *ModuleGraph) WriteTree(w io.Writer, rootName string) error {
	root := gtree.NewRoot(rootName)

	required := make(map[string]bool)
	for _, n := range g.Nodes {
		if !required[n.Module.Path] {
			g.addBranch(root, n, map[string]bool{})
		}
		for _, dep := range n.Dependencies {
			required[dep] = true
		}
	}

	return gtree.OutputFromRoot(w, root)
}

func (g *ModuleGraph) addBranch(parent *gtree.Node, n *Node, onPath map[string]bool) {
	if onPath[n.Module.Path] {
		parent.Add(n.Module.Name + " (circular)")
		return
	}
	node := parent.Add(n.Module.Name)

	onPath[n.Module.Path] = true
	for _, dep := range n.Dependencies {
		if child, ok := g.Lookup(dep); ok {
			g.addBranch(node, child, onPath)
		}
	}
	delete(onPath, n.Module.Path)
}
