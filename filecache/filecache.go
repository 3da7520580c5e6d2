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

// Package filecache memoizes source file contents for the lifetime of a build.
package filecache

import (
	"sync"

	"bennypowers.dev/superjoin/fs"
)

// Cache reads each path at most once until Clear is called. Entries are
// never replaced, so a file edited mid-build keeps the content first read.
type Cache struct {
	fs    fs.FileSystem
	mu    sync.Mutex
	files map[string][]byte
}

// New creates an empty cache reading through fsys.
func New(fsys fs.FileSystem) *Cache {
	return &Cache{
		fs:    fsys,
		files: make(map[string][]byte),
	}
}

// Load returns the content of path, reading it on first use.
// Read errors are not cached.
func (c *Cache) Load(path string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.files[path]; ok {
		return data, nil
	}
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.files[path] = data
	return data, nil
}

// Clear discards every cached file.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string][]byte)
}

// Len reports how many files are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}
