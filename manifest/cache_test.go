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
package manifest_test

import (
	"errors"
	"io/fs"
	"testing"

	"bennypowers.dev/superjoin/internal/mapfs"
	"bennypowers.dev/superjoin/manifest"
)

func TestCacheLoad(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/pkg/package.json", `{"name":"pkg","main":"lib/pkg.js"}`, 0644)

	cache, err := manifest.NewCache(mfs, 0)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	first, err := cache.Load(manifest.Package, "/pkg/package.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := cache.Load(manifest.Package, "/pkg/package.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first != second {
		t.Error("Expected the cached manifest to be returned on second load")
	}
	if got := mfs.Reads("/pkg/package.json"); got != 1 {
		t.Errorf("Expected 1 read, got %d", got)
	}
}

func TestCacheNegative(t *testing.T) {
	mfs := mapfs.New()
	cache, err := manifest.NewCache(mfs, 4)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	for range 3 {
		_, err := cache.Load(manifest.Bower, "/missing/bower.json")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("Expected fs.ErrNotExist, got %v", err)
		}
	}
	if got := mfs.Reads("/missing/bower.json"); got != 1 {
		t.Errorf("Expected missing file to be read once, got %d", got)
	}
}

func TestCacheLoadSet(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/pkg/bower.json", `{"main":["pkg.css","pkg.js"]}`, 0644)

	cache, err := manifest.NewCache(mfs, 0)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	set, err := cache.LoadSet("/pkg")
	if err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	if set.Bower == nil {
		t.Fatal("Expected bower manifest")
	}
	if set.Package != nil {
		t.Error("Expected no package manifest")
	}
	entry, _, err := set.Entry()
	if err != nil || entry != "pkg.js" {
		t.Errorf("Expected entry pkg.js, got %q (%v)", entry, err)
	}
}

func TestCacheLoadSetMalformed(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/pkg/package.json", `{`, 0644)

	cache, err := manifest.NewCache(mfs, 0)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if _, err := cache.LoadSet("/pkg"); err == nil {
		t.Error("Expected error for malformed package.json")
	}
}

func TestCachePurge(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/pkg/package.json", `{"name":"before"}`, 0644)

	cache, err := manifest.NewCache(mfs, 0)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if _, err := cache.Load(manifest.Package, "/pkg/package.json"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	mfs.AddFile("/pkg/package.json", `{"name":"after"}`, 0644)
	cache.Purge()
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after Purge, got %d", cache.Len())
	}

	m, err := cache.Load(manifest.Package, "/pkg/package.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "after" {
		t.Errorf("Expected reloaded name 'after', got %q", m.Name)
	}
}
