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

// Package runtime embeds the JavaScript module loader shipped inside every
// bundle, and the UMD shell wrapped around library bundles.
package runtime

import (
	_ "embed"
	"strings"
)

// Loader is the module loader source: a function expression taking the
// window object and the object to install require() on.
//
//go:embed loader.js
var Loader string

//go:embed umd.js
var umdTemplate string

const umdSplit = "/**SUPERJOIN-UMD-MODULES**/"

// Install returns a statement that installs the loader on the global object.
func Install() string {
	return "(" + strings.TrimRight(Loader, "\n") + ")(this, this);\n"
}

// UMDParams fills the UMD shell. Each list holds one rendered expression
// per external dependency, in the same order.
type UMDParams struct {
	Name         string
	AMD          []string
	CJS          []string
	Global       []string
	Dependencies []string
}

// UMD returns the shell opening and closing around the bundled modules.
// The opening defines a scoped require with the external dependencies
// already registered.
func UMD(p UMDParams) (head, tail string) {
	r := strings.NewReplacer(
		"SUPERJOIN_MODULE_NAME", p.Name,
		"SUPERJOIN_AMD_DEPS", strings.Join(p.AMD, ", "),
		"SUPERJOIN_CJS_DEPS", strings.Join(p.CJS, ", "),
		"SUPERJOIN_WIN_DEPS", strings.Join(p.Global, ", "),
		"SUPERJOIN_DEPENDENCIES", strings.Join(p.Dependencies, ", "),
		"SUPERJOIN_LOADER", strings.TrimRight(Loader, "\n"),
	)
	head, tail, _ = strings.Cut(umdTemplate, umdSplit)
	return r.Replace(head), strings.TrimLeft(tail, "\n")
}
