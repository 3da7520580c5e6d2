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

package manifest

import (
	"errors"
	"io/fs"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	sjfs "bennypowers.dev/superjoin/fs"
)

// DefaultCacheSize bounds how many manifest files a Cache remembers.
const DefaultCacheSize = 1024

type cacheEntry struct {
	manifest *Manifest
	err      error
}

// Cache loads manifests through a filesystem and remembers the results,
// including files that were not found.
type Cache struct {
	fs    sjfs.FileSystem
	cache *lru.Cache[string, cacheEntry]
}

// NewCache creates a manifest cache holding at most size files.
// A size of zero or less uses DefaultCacheSize.
func NewCache(fsys sjfs.FileSystem, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{fs: fsys, cache: c}, nil
}

// Load returns the manifest of the given kind at file. A missing file
// yields an error matching fs.ErrNotExist.
func (c *Cache) Load(kind Kind, file string) (*Manifest, error) {
	if entry, ok := c.cache.Get(file); ok {
		return entry.manifest, entry.err
	}
	m, err := ParseFile(c.fs, kind, file)
	c.cache.Add(file, cacheEntry{manifest: m, err: err})
	return m, err
}

// LoadSet loads both manifests in dir. Missing manifests are left nil;
// malformed ones are reported.
func (c *Cache) LoadSet(dir string) (Set, error) {
	var set Set
	for _, kind := range []Kind{Bower, Package} {
		m, err := c.Load(kind, filepath.Join(dir, kind.FileName()))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Set{}, err
		}
		if kind == Bower {
			set.Bower = m
		} else {
			set.Package = m
		}
	}
	return set, nil
}

// Len reports how many files are cached.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge forgets every cached manifest.
func (c *Cache) Purge() {
	c.cache.Purge()
}
