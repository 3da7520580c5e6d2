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
package graph_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/superjoin/filecache"
	"bennypowers.dev/superjoin/graph"
	"bennypowers.dev/superjoin/internal/mapfs"
	"bennypowers.dev/superjoin/manifest"
	"bennypowers.dev/superjoin/resolve"
	"bennypowers.dev/superjoin/scan"
)

func newWalker(t *testing.T, files map[string]string) (*graph.Walker, *mapfs.MapFileSystem) {
	t.Helper()
	mfs := mapfs.FromMap(files)
	manifests, err := manifest.NewCache(mfs, 0)
	require.NoError(t, err)

	ns := resolve.DiscoverNamespaces(mfs, "/proj", resolve.Namespaces{Root: "/proj"})
	locator := resolve.NewLocator(mfs, manifests, ns, nil)
	scanner, err := scan.New(scan.Syntax)
	require.NoError(t, err)

	return graph.NewWalker(resolve.New(mfs, locator, nil), filecache.New(mfs), scanner, nil), mfs
}

func names(g *graph.ModuleGraph) []string {
	var out []string
	for _, n := range g.Nodes {
		out = append(out, n.Module.Key())
	}
	return out
}

func TestWalkerThreeModules(t *testing.T) {
	w, _ := newWalker(t, map[string]string{
		"/proj/a.js": dedent.Dedent(`
			var b = require('./b.json');
			var x = require('pkgX');
		`),
		"/proj/b.json":                             `{"b": true}`,
		"/proj/bower_components/pkgX/bower.json":   `{"main":"lib/entry.js"}`,
		"/proj/bower_components/pkgX/lib/entry.js": "module.exports = 'x';",
	})

	_, err := w.AddModule("/proj/index.js", "./a.js")
	require.NoError(t, err)

	g := w.Graph()
	assert.Equal(t, []string{"./a.js", "./b.json", "pkgX/lib/entry.js"}, names(g))

	pkg, ok := g.Lookup("/proj/bower_components/pkgX/lib/entry.js")
	require.True(t, ok)
	assert.Equal(t, "pkgX", pkg.Module.Name)
	assert.Equal(t, "pkgX/lib/entry.js", pkg.Module.Alias)

	a, _ := g.Lookup("/proj/a.js")
	assert.Equal(t, []string{"/proj/b.json", "/proj/bower_components/pkgX/lib/entry.js"}, a.Dependencies)
	assert.Empty(t, g.Warnings)
}

func TestWalkerDeduplicates(t *testing.T) {
	w, mfs := newWalker(t, map[string]string{
		"/proj/a.js":      "require('./b'); require('./c');",
		"/proj/b.js":      "require('./shared.js');",
		"/proj/c.js":      "require('./shared');",
		"/proj/shared.js": "require('./a');",
	})

	_, err := w.AddModule("/proj/index.js", "./a")
	require.NoError(t, err)
	_, err = w.AddModule("/proj/index.js", "./a.js")
	require.NoError(t, err)

	assert.Equal(t, []string{"./a.js", "./b.js", "./shared.js", "./c.js"}, names(w.Graph()))
	assert.Equal(t, 1, mfs.Reads("/proj/shared.js"))
}

func TestWalkerAliasAndCanonicalShareAPath(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		key     string
		aliases []string
	}{
		{
			name:   "package name first",
			source: "require('bar'); require('$npm/bar/lib/bar.js');",
			key:    "bar/lib/bar.js",
		},
		{
			name:    "file path first",
			source:  "require('$npm/bar/lib/bar.js'); require('bar'); require('bar');",
			key:     "bar/lib/bar.js",
			aliases: []string{"bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newWalker(t, map[string]string{
				"/proj/a.js": tt.source,
				"/proj/node_modules/bar/package.json": `{"main":"lib/bar.js"}`,
				"/proj/node_modules/bar/lib/bar.js":   "",
			})

			_, err := w.AddModule("/proj/index.js", "./a")
			require.NoError(t, err)
			require.Equal(t, 2, w.Graph().Len())

			n, ok := w.Graph().Lookup("/proj/node_modules/bar/lib/bar.js")
			require.True(t, ok)
			assert.Equal(t, tt.key, n.Module.Key())
			assert.Equal(t, tt.aliases, n.Aliases)
		})
	}
}

func TestWalkerAddResolved(t *testing.T) {
	w, _ := newWalker(t, map[string]string{
		"/proj/a.js": "require('./b');",
		"/proj/b.js": "",
	})

	n, err := w.AddResolved("/proj/index.js", resolve.Module{
		Path:      "/proj/a.js",
		Name:      "./a.js",
		Dir:       "/proj",
		Namespace: resolve.Local,
	})
	require.NoError(t, err)
	assert.Equal(t, "./a.js", n.Module.Name)
	assert.Equal(t, []string{"/proj/b.js"}, n.Dependencies)
	assert.Equal(t, []string{"./a.js", "./b.js"}, names(w.Graph()))

	again, err := w.AddResolved("/proj/index.js", n.Module)
	require.NoError(t, err)
	assert.Same(t, n, again)
	assert.Empty(t, n.Aliases)
}

func TestWalkerMissingFile(t *testing.T) {
	w, _ := newWalker(t, map[string]string{
		"/proj/a.js": "require('./missing.js');",
	})

	_, err := w.AddModule("/proj/index.js", "./a")

	var resErr *resolve.ResolutionError
	require.True(t, errors.As(err, &resErr), "expected ResolutionError, got %v", err)
	assert.Equal(t, "./missing.js", resErr.Specifier)
	assert.Equal(t, "/proj/a.js", resErr.Origin)
	assert.True(t, errors.Is(err, resolve.ErrNotFound))
}

func TestWalkerExternal(t *testing.T) {
	files := map[string]string{
		"/proj/a.js": "var _ = require('lodash');",
		"/proj/node_modules/lodash/package.json": `{"main":"lodash.js"}`,
		"/proj/node_modules/lodash/lodash.js":    "",
	}

	w, mfs := newWalker(t, files)
	w = w.WithExternal([]string{"lodash"})

	_, err := w.AddModule("/proj/index.js", "./a")
	require.NoError(t, err)
	assert.Equal(t, []string{"./a.js"}, names(w.Graph()))
	assert.Equal(t, 0, mfs.Reads("/proj/node_modules/lodash/lodash.js"))
	assert.Equal(t, 0, mfs.Reads("/proj/node_modules/lodash/package.json"))
}

func TestWalkerSkipSubmodules(t *testing.T) {
	w, _ := newWalker(t, map[string]string{
		"/proj/a.js": "require('./b');",
	})
	w = w.WithSkipSubmodules(true)

	_, err := w.AddModule("/proj/index.js", "./a")
	require.NoError(t, err)
	assert.Equal(t, []string{"./a.js"}, names(w.Graph()))
}

func TestWalkerWarnings(t *testing.T) {
	w, _ := newWalker(t, map[string]string{
		"/proj/a.js":      "var m = require(name);\nrequire('helper');",
		"/proj/helper.js": "",
	})

	_, err := w.AddModule("/proj/index.js", "./a")
	require.NoError(t, err)

	g := w.Graph()
	require.Len(t, g.Warnings, 2)
	assert.Equal(t, graph.LexicalWarning, g.Warnings[0].Kind)
	assert.Equal(t, 1, g.Warnings[0].Line)
	assert.Equal(t, "name", g.Warnings[0].Specifier)
	assert.Equal(t, graph.FallbackWarning, g.Warnings[1].Kind)
	assert.Equal(t, "helper", g.Warnings[1].Specifier)
	assert.Equal(t, []string{"./a.js", "./helper.js"}, names(g))
}

func TestWalkerReset(t *testing.T) {
	w, _ := newWalker(t, map[string]string{"/proj/a.js": ""})

	_, err := w.AddModule("/proj/index.js", "./a")
	require.NoError(t, err)
	require.Equal(t, 1, w.Graph().Len())

	w.Reset()
	assert.Equal(t, 0, w.Graph().Len())
}

func TestWriteTree(t *testing.T) {
	w, _ := newWalker(t, map[string]string{
		"/proj/a.js": "require('./b'); require('./c');",
		"/proj/b.js": "require('./a');",
		"/proj/c.js": "",
		"/proj/d.js": "",
	})

	_, err := w.AddModule("/proj/index.js", "./a")
	require.NoError(t, err)
	_, err = w.AddModule("/proj/index.js", "./d")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Graph().WriteTree(&buf, "bundle.js"))

	out := buf.String()
	assert.Contains(t, out, "bundle.js")
	assert.Contains(t, out, "./a.js")
	assert.Contains(t, out, "./b.js")
	assert.Contains(t, out, "./a.js (circular)")
	assert.Contains(t, out, "./c.js")
	assert.Contains(t, out, "./d.js")
}
