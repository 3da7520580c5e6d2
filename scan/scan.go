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

// Package scan finds the require() calls a CommonJS module makes.
package scan

import (
	"fmt"
	"regexp"
	"strings"
)

// Require is a single require() call found in a source file.
type Require struct {
	// Specifier is the unquoted module name. Empty unless Literal.
	Specifier string
	// Raw is the argument text as written, without parentheses.
	Raw string
	// Line is the 1-indexed line of the call.
	Line int
	// Literal is true when the only argument is a quoted string.
	Literal bool
}

// Scanner extracts require() calls from JavaScript source.
type Scanner interface {
	Scan(source []byte) ([]Require, error)
}

// Scanner names accepted by New.
const (
	Syntax = "syntax"
	Regexp = "regexp"
)

// New returns the scanner registered under name. An empty name selects
// the syntax-aware scanner.
func New(name string) (Scanner, error) {
	switch name {
	case "", Syntax:
		return NewSyntaxScanner()
	case Regexp:
		return NewRegexpScanner(), nil
	}
	return nil, fmt.Errorf("unknown scanner %q", name)
}

var quoted = regexp.MustCompile(`^(['"])([^'"]*)(['"])$`)

// literal unquotes arg when it is exactly one single- or double-quoted
// string.
func literal(arg string) (string, bool) {
	m := quoted.FindStringSubmatch(strings.TrimSpace(arg))
	if m == nil || m[1] != m[3] {
		return "", false
	}
	return m[2], true
}

func newRequire(raw string, line int) Require {
	spec, ok := literal(raw)
	return Require{
		Specifier: spec,
		Raw:       raw,
		Line:      line,
		Literal:   ok,
	}
}
