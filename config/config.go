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

// Package config loads superjoin's build configuration from superjoin.json
// or the "superjoin" field of package.json, and normalizes it into
// absolute paths.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/go-playground/validator/v10"

	sjfs "bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/resolve"
	"bennypowers.dev/superjoin/scan"
)

// Files lists the configuration files tried in order, relative to the
// working directory. The first one holding a configuration wins.
var Files = []string{"superjoin.json", "package.json"}

// UMDDependency describes a module provided by the UMD consumer instead
// of being bundled.
type UMDDependency struct {
	Name   string `validate:"required"`
	AMD    string `validate:"required"`
	CJS    string `validate:"required"`
	Global string `validate:"required"`
}

// Config is a complete build configuration. After Normalize every path is
// absolute.
type Config struct {
	WorkingDir string `validate:"required"`
	Root       string `validate:"required"`
	Files      []string
	Main       string
	Name       string
	Outfile    string
	Banner     string

	UMD             bool
	UMDName         string          `validate:"required_if=UMD true"`
	UMDDependencies []UMDDependency `validate:"dive"`

	LibDir   string
	BowerDir string
	NpmDir   string

	SkipSubmodules bool
	Dev            bool
	NoLoader       bool
	Scanner        string `validate:"omitempty,oneof=syntax regexp"`

	// Source is the file the configuration was read from, if any.
	Source string
}

type fileConfig struct {
	Root            string              `json:"root"`
	Files           []string            `json:"files"`
	Main            string              `json:"main"`
	Name            string              `json:"name"`
	Outfile         string              `json:"outfile"`
	Banner          string              `json:"banner"`
	UMD             json.RawMessage     `json:"umd"`
	UMDDependencies map[string][]string `json:"umdDependencies"`
	LibDir          string              `json:"libDir"`
	BowerDir        string              `json:"bwrDir"`
	NpmDir          string              `json:"npmDir"`
	SkipSubmodules  bool                `json:"skipSubmodules"`
	Dev             bool                `json:"dev"`
	NoLoader        bool                `json:"noLoader"`
	Scanner         string              `json:"scanner"`
}

type packageConfig struct {
	Superjoin *fileConfig `json:"superjoin"`
}

// Load reads the configuration for workingDir. When file is empty the
// default Files are tried; a project without any configuration yields an
// empty Config.
func Load(fsys sjfs.FileSystem, workingDir, file string) (*Config, error) {
	candidates := Files
	if file != "" {
		candidates = []string{file}
	}

	for _, name := range candidates {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(workingDir, path)
		}

		data, err := fsys.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && file == "" {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		fc, err := decode(path, data)
		if err != nil {
			return nil, err
		}
		if fc == nil {
			continue
		}

		cfg, err := fc.config()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.WorkingDir = workingDir
		cfg.Source = path
		return cfg, nil
	}

	return &Config{WorkingDir: workingDir}, nil
}

// decode returns nil when data is a package.json without a superjoin field.
func decode(path string, data []byte) (*fileConfig, error) {
	if filepath.Base(path) == "package.json" {
		var pkg packageConfig
		if err := json.Unmarshal(data, &pkg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return pkg.Superjoin, nil
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) config() (*Config, error) {
	cfg := &Config{
		Root:           fc.Root,
		Files:          fc.Files,
		Main:           fc.Main,
		Name:           fc.Name,
		Outfile:        fc.Outfile,
		Banner:         fc.Banner,
		LibDir:         fc.LibDir,
		BowerDir:       fc.BowerDir,
		NpmDir:         fc.NpmDir,
		SkipSubmodules: fc.SkipSubmodules,
		Dev:            fc.Dev,
		NoLoader:       fc.NoLoader,
		Scanner:        fc.Scanner,
	}

	if len(fc.UMD) > 0 {
		var enabled bool
		var name string
		switch {
		case json.Unmarshal(fc.UMD, &enabled) == nil:
			cfg.UMD = enabled
		case json.Unmarshal(fc.UMD, &name) == nil:
			cfg.UMD = name != ""
			cfg.UMDName = name
		default:
			return nil, fmt.Errorf("umd must be a boolean or a module name, got %s", fc.UMD)
		}
	}

	deps, err := ParseUMDDependencies(fc.UMDDependencies)
	if err != nil {
		return nil, err
	}
	cfg.UMDDependencies = deps
	return cfg, nil
}

// ParseUMDDependencies converts the {name: [amd, cjs, global]} table into
// dependencies sorted by name.
func ParseUMDDependencies(table map[string][]string) ([]UMDDependency, error) {
	deps := make([]UMDDependency, 0, len(table))
	for name, tuple := range table {
		if len(tuple) != 3 {
			return nil, fmt.Errorf("umdDependencies.%s: expected [amd, cjs, global], got %d values", name, len(tuple))
		}
		deps = append(deps, UMDDependency{Name: name, AMD: tuple[0], CJS: tuple[1], Global: tuple[2]})
	}
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].Name < deps[j].Name
	})
	return deps, nil
}

// Overrides holds values given on the command line or in the environment.
// Zero values leave the loaded configuration untouched.
type Overrides struct {
	Root           string
	Files          []string
	Main           string
	Name           string
	Outfile        string
	Banner         string
	UMD            string
	LibDir         string
	BowerDir       string
	NpmDir         string
	Scanner        string
	SkipSubmodules bool
	Dev            bool
	NoLoader       bool
}

// Apply merges o into c.
func (c *Config) Apply(o Overrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Root, o.Root)
	set(&c.Main, o.Main)
	set(&c.Name, o.Name)
	set(&c.Outfile, o.Outfile)
	set(&c.Banner, o.Banner)
	set(&c.LibDir, o.LibDir)
	set(&c.BowerDir, o.BowerDir)
	set(&c.NpmDir, o.NpmDir)
	set(&c.Scanner, o.Scanner)

	if len(o.Files) > 0 {
		c.Files = o.Files
	}
	switch o.UMD {
	case "":
	case "true":
		c.UMD = true
	default:
		c.UMD = true
		c.UMDName = o.UMD
	}
	c.SkipSubmodules = c.SkipSubmodules || o.SkipSubmodules
	c.Dev = c.Dev || o.Dev
	c.NoLoader = c.NoLoader || o.NoLoader
}

var pathLike = regexp.MustCompile(`^\.{0,2}/`)

// Normalize makes every path absolute and discovers bower_components and
// node_modules when they are not configured.
//
// The root is relative to the working directory, the outfile and lib
// directory are relative to the root, and package directories are
// relative to the working directory.
func (c *Config) Normalize(fsys sjfs.FileSystem) error {
	wd, err := filepath.Abs(c.WorkingDir)
	if err != nil {
		return err
	}
	c.WorkingDir = wd

	c.Root = under(wd, c.Root)
	if c.Outfile != "" {
		c.Outfile = under(c.Root, c.Outfile)
	}
	if c.LibDir != "" {
		c.LibDir = under(c.Root, c.LibDir)
	}
	if c.BowerDir != "" {
		c.BowerDir = under(wd, c.BowerDir)
	}
	if c.NpmDir != "" {
		c.NpmDir = under(wd, c.NpmDir)
	}

	ns := resolve.DiscoverNamespaces(fsys, wd, resolve.Namespaces{Bower: c.BowerDir, Npm: c.NpmDir})
	c.BowerDir = ns.Bower
	c.NpmDir = ns.Npm

	if c.Main != "" && !pathLike.MatchString(c.Main) {
		c.Main = "./" + c.Main
	}
	if c.Scanner == "" {
		c.Scanner = scan.Syntax
	}
	if c.UMD && c.UMDName == "" {
		c.UMDName = c.Name
	}
	return nil
}

func under(base, p string) string {
	if p == "" {
		return base
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

var validate = validator.New()

// Validate checks the configuration for missing or conflicting values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Namespaces returns the namespace directories for resolution.
func (c *Config) Namespaces() resolve.Namespaces {
	return resolve.Namespaces{
		Root:  c.Root,
		Lib:   c.LibDir,
		Bower: c.BowerDir,
		Npm:   c.NpmDir,
	}
}

// External lists the UMD dependency names, which are never bundled. It is
// empty unless UMD output is enabled.
func (c *Config) External() []string {
	if !c.UMD {
		return nil
	}
	names := make([]string, len(c.UMDDependencies))
	for i, dep := range c.UMDDependencies {
		names[i] = dep.Name
	}
	return names
}
