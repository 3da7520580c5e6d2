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
// Package testutil loads project fixtures into memory and runs bundles in
// a JavaScript runtime for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/superjoin/internal/mapfs"
)

// testdataDir finds the repository testdata directory from a package
// directory at most two levels deep.
func testdataDir(t *testing.T) string {
	t.Helper()
	for _, dir := range []string{"testdata", "../testdata", "../../testdata"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	t.Fatal("Could not find testdata directory")
	return ""
}

// NewFixtureFS copies the fixture project testdata/<fixtureDir> into a
// MapFileSystem under rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	fixture := os.DirFS(filepath.Join(testdataDir(t), fixtureDir))
	mfs := mapfs.New()
	err := fs.WalkDir(fixture, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := fs.ReadFile(fixture, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.Join(rootPath, filepath.FromSlash(path)), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", fixtureDir, err)
	}
	return mfs
}

// LoadFixtureFile returns the content of testdata/<fixturePath>.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(testdataDir(t), fixturePath))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", fixturePath, err)
	}
	return content
}
