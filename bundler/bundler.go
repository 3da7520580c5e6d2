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
// Package bundler drives a complete build: it collects the module graph
// from the configured entries, assembles the bundle and writes it out.
package bundler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/superjoin/bundle"
	"bennypowers.dev/superjoin/config"
	"bennypowers.dev/superjoin/filecache"
	"bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/graph"
	"bennypowers.dev/superjoin/manifest"
	"bennypowers.dev/superjoin/resolve"
	"bennypowers.dev/superjoin/scan"
)

// ErrNoOutfile is returned by Write when no output file is configured.
var ErrNoOutfile = errors.New("no outfile configured")

// Bundler owns the caches and the module graph of one project. It is not
// safe for concurrent use.
type Bundler struct {
	cfg       *config.Config
	fs        fs.FileSystem
	logger    resolve.Logger
	manifests *manifest.Cache
	files     *filecache.Cache
	resolver  *resolve.Resolver
	walker    *graph.Walker

	entries      []string
	requireCalls []string
	main         string
	bundle       string
}

// New creates a Bundler for a normalized configuration.
func New(cfg *config.Config, fsys fs.FileSystem, logger resolve.Logger) (*Bundler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	scanner, err := scan.New(cfg.Scanner)
	if err != nil {
		return nil, err
	}
	manifests, err := manifest.NewCache(fsys, manifest.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	files := filecache.New(fsys)
	locator := resolve.NewLocator(fsys, manifests, cfg.Namespaces(), logger)
	resolver := resolve.New(fsys, locator, logger)
	walker := graph.NewWalker(resolver, files, scanner, logger).
		WithExternal(cfg.External()).
		WithSkipSubmodules(cfg.SkipSubmodules)

	return &Bundler{
		cfg:       cfg,
		fs:        fsys,
		logger:    logger,
		manifests: manifests,
		files:     files,
		resolver:  resolver,
		walker:    walker,
		entries:   slices.Clone(cfg.Files),
	}, nil
}

// Add appends an entry specifier to the configured files.
func (b *Bundler) Add(file string) {
	b.entries = append(b.entries, file)
}

// AddRequireCall appends require('name') to the bundle, after the modules
// and before the main invocation.
func (b *Bundler) AddRequireCall(name string) {
	b.requireCalls = append(b.requireCalls, "require("+bundle.Quote(name)+");\n")
}

// Graph returns the module graph of the last Collect.
func (b *Bundler) Graph() *graph.ModuleGraph {
	return b.walker.Graph()
}

// Config returns the configuration the Bundler was created with.
func (b *Bundler) Config() *config.Config {
	return b.cfg
}

// ClearCache forgets file contents, manifests and the module graph, so
// the next build reads everything from disk again.
func (b *Bundler) ClearCache() {
	b.files.Clear()
	b.manifests.Purge()
	b.walker.Reset()
}

// Collect builds the module graph. Entries are resolved as if required
// from <root>/index.js; main is resolved and added last.
func (b *Bundler) Collect() error {
	b.walker.Reset()
	b.main = ""

	origin := filepath.Join(b.cfg.Root, "index.js")
	entries, err := b.expand(b.entries)
	if err != nil {
		return err
	}

	for _, spec := range entries {
		if _, err := b.walker.AddModule(origin, spec); err != nil {
			return err
		}
	}

	if b.cfg.Main != "" {
		n, err := b.walker.AddModule(origin, b.cfg.Main)
		if err != nil {
			return err
		}
		b.main = n.Module.Name
	}

	if b.logger != nil {
		b.logger.Debug("collected %d modules", b.walker.Graph().Len())
	}
	return nil
}

// expand replaces glob patterns with the files they match under the root,
// sorted. Other entries are kept as given.
func (b *Bundler) expand(entries []string) ([]string, error) {
	var expanded []string
	root := fs.Sub(b.fs, b.cfg.Root)
	for _, spec := range entries {
		if !strings.ContainsAny(spec, "*?[{") {
			expanded = append(expanded, spec)
			continue
		}

		pattern := strings.TrimPrefix(spec, "./")
		matches, err := doublestar.Glob(root, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", spec, err)
		}
		if len(matches) == 0 && b.logger != nil {
			b.logger.Warning("pattern %s matched no files", spec)
		}
		slices.Sort(matches)
		for _, match := range matches {
			expanded = append(expanded, "./"+match)
		}
	}
	return expanded, nil
}

// Build assembles the collected graph into the bundle text.
func (b *Bundler) Build() (string, error) {
	deps := make([]bundle.UMDDependency, len(b.cfg.UMDDependencies))
	for i, dep := range b.cfg.UMDDependencies {
		deps[i] = bundle.UMDDependency{
			Name:   dep.Name,
			AMD:    dep.AMD,
			CJS:    dep.CJS,
			Global: dep.Global,
		}
	}

	out, err := bundle.Assemble(b.walker.Graph(), bundle.Options{
		Banner:          b.cfg.Banner,
		Main:            b.main,
		UMD:             b.cfg.UMD,
		UMDName:         b.cfg.UMDName,
		UMDDependencies: deps,
		Dev:             b.cfg.Dev,
		NoLoader:        b.cfg.NoLoader,
		RequireCalls:    b.requireCalls,
	})
	if err != nil {
		return "", err
	}
	b.bundle = out
	return out, nil
}

// Write saves the last built bundle to the configured outfile, creating
// its directory.
func (b *Bundler) Write() error {
	if b.cfg.Outfile == "" {
		return ErrNoOutfile
	}
	if err := b.fs.MkdirAll(filepath.Dir(b.cfg.Outfile), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := b.fs.WriteFile(b.cfg.Outfile, []byte(b.bundle), 0644); err != nil {
		return fmt.Errorf("write %s: %w", b.cfg.Outfile, err)
	}
	if b.logger != nil {
		b.logger.Debug("wrote %s", b.cfg.Outfile)
	}
	return nil
}

// Run collects, builds and writes. Nothing is written when an earlier
// step fails.
func (b *Bundler) Run(ctx context.Context) error {
	if err := b.Collect(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.Build(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Write()
}
