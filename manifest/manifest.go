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

// Package manifest parses bower.json and package.json files and decides which
// file a package exposes as its entry point.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/superjoin/fs"
)

// Kind identifies which package manager wrote a manifest.
type Kind int

const (
	Bower Kind = iota
	Package
)

// FileName returns the manifest's conventional file name.
func (k Kind) FileName() string {
	if k == Bower {
		return "bower.json"
	}
	return "package.json"
}

func (k Kind) String() string {
	return k.FileName()
}

// ErrNoManifest is returned when a package directory holds neither manifest.
var ErrNoManifest = errors.New("no bower.json or package.json found")

// Manifest is the normalized subset of a manifest needed to locate an entry.
type Manifest struct {
	Kind    Kind
	Name    string
	Version string
	// Main lists every main entry in declaration order. A string main
	// becomes a single-element list.
	Main []string
	// MainList is set when main was declared as an array.
	MainList bool
	// Browser is the package.json browser field when it is a plain string.
	// Object-form browser maps are not supported.
	Browser string
}

type rawManifest struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Main    json.RawMessage `json:"main,omitempty"`
	Browser json.RawMessage `json:"browser,omitempty"`
}

// Parse parses manifest data of the given kind.
func Parse(kind Kind, data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	m := &Manifest{
		Kind:    kind,
		Name:    raw.Name,
		Version: raw.Version,
		Main:    stringOrList(raw.Main),
	}
	m.MainList = len(raw.Main) > 0 && raw.Main[0] == '['

	var browser string
	if len(raw.Browser) > 0 && json.Unmarshal(raw.Browser, &browser) == nil {
		m.Browser = browser
	}
	return m, nil
}

// ParseFile reads and parses a manifest file.
func ParseFile(fsys fs.FileSystem, kind Kind, file string) (*Manifest, error) {
	data, err := fsys.ReadFile(file)
	if err != nil {
		return nil, err
	}
	m, err := Parse(kind, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return m, nil
}

func stringOrList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}

// FirstScript returns the first main entry ending in .js.
func (m *Manifest) FirstScript() (string, bool) {
	for _, entry := range m.Main {
		if strings.HasSuffix(entry, ".js") {
			return entry, true
		}
	}
	return "", false
}

// Set holds the manifests found in a single package directory.
// Either field may be nil.
type Set struct {
	Bower   *Manifest
	Package *Manifest
}

// Empty reports whether no manifest was found.
func (s Set) Empty() bool {
	return s.Bower == nil && s.Package == nil
}

// EntryRule extracts an entry file from a manifest set.
type EntryRule struct {
	Name    string
	Extract func(Set) (string, bool)
}

// EntryRules are tried in order; the first match decides a package's entry.
var EntryRules = []EntryRule{
	{"bower-main", func(s Set) (string, bool) {
		if s.Bower == nil {
			return "", false
		}
		if !s.Bower.MainList && len(s.Bower.Main) == 1 {
			return s.Bower.Main[0], true
		}
		return s.Bower.FirstScript()
	}},
	{"package-browser", func(s Set) (string, bool) {
		if s.Package == nil || s.Package.Browser == "" {
			return "", false
		}
		return s.Package.Browser, true
	}},
	{"package-main", func(s Set) (string, bool) {
		if s.Package == nil || len(s.Package.Main) == 0 {
			return "", false
		}
		return s.Package.Main[0], true
	}},
	{"package-index", func(s Set) (string, bool) {
		return "index.js", s.Package != nil
	}},
	{"bower-index", func(s Set) (string, bool) {
		return "index.js", s.Bower != nil
	}},
}

// Entry returns the package-relative entry file and the rule that chose it.
// The returned path is cleaned and never starts with "./".
func (s Set) Entry() (entry string, rule string, err error) {
	for _, r := range EntryRules {
		if e, ok := r.Extract(s); ok {
			return filepath.Clean(strings.TrimPrefix(e, "./")), r.Name, nil
		}
	}
	return "", "", ErrNoManifest
}
