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
package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	// Build the binary before running tests
	wd := mustGetwd()
	cmd := exec.Command("go", "build", "-o", "superjoin_test", ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	_ = os.Remove(filepath.Join(wd, "superjoin_test"))
	os.Exit(code)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	binary := filepath.Join(mustGetwd(), "superjoin_test")
	cmd := exec.Command(binary, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run CLI: %v", err)
		}
	}

	return stdout, stderr, exitCode
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuildStdout(t *testing.T) {
	fixtureDir := filepath.Join("testdata", "bundler", "umd")

	stdout, stderr, code := runCLI(t, "build", "--dir", fixtureDir)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	if !strings.Contains(stdout, "root['myLib'] = factory(window._);") {
		t.Errorf("Expected UMD global export, got: %s", stdout)
	}
	if !strings.Contains(stdout, "return require('./index.js');") {
		t.Error("Expected main invocation")
	}
}

func TestBuildOutputFile(t *testing.T) {
	fixtureDir := filepath.Join("testdata", "bundler", "basic")
	tmpFile := filepath.Join(t.TempDir(), "out", "bundle.js")

	stdout, stderr, code := runCLI(t, "build", "--dir", fixtureDir, "--output", tmpFile)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("Expected no stdout when writing to file, got: %s", stdout)
	}

	content, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if got := strings.Count(string(content), "require.register('"); got != 4 {
		t.Errorf("Expected 4 registrations, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(fixtureDir, "dist")); err == nil {
		t.Error("Expected --output to replace the configured outfile")
	}
}

func TestBuildOutfile(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{"name": "app", "superjoin": {"main": "app.js", "outfile": "dist/app.bundle.js"}}`,
		"app.js":       `module.exports = require('./util').value;`,
		"util.js":      `exports.value = 42;`,
	})

	_, stderr, code := runCLI(t, "build", "--dir", dir)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	content, err := os.ReadFile(filepath.Join(dir, "dist", "app.bundle.js"))
	if err != nil {
		t.Fatalf("Expected outfile to be written: %v", err)
	}
	if !strings.HasSuffix(string(content), "require('./app.js');\n") {
		t.Errorf("Expected bundle to end with the main invocation, got: %s", content)
	}
}

func TestBuildMissingModule(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"superjoin.json": `{"main": "app", "outfile": "bundle.js"}`,
		"app.js":         `require('./missing');`,
	})

	_, stderr, code := runCLI(t, "build", "--dir", dir)
	if code == 0 {
		t.Fatal("Expected non-zero exit code")
	}
	if !strings.Contains(stderr, "cannot resolve") {
		t.Errorf("Expected resolution error, got: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "bundle.js")); err == nil {
		t.Error("Expected no bundle to be written")
	}
}

func TestGraph(t *testing.T) {
	fixtureDir := filepath.Join("testdata", "bundler", "basic")

	stdout, stderr, code := runCLI(t, "graph", "--dir", fixtureDir, "--name", "basic")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	if !strings.HasPrefix(stdout, "basic\n") {
		t.Errorf("Expected tree rooted at project name, got: %s", stdout)
	}
	for _, name := range []string{"./foo.js", "./data.json", "./app.js", "bar"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("Expected %s in tree, got: %s", name, stdout)
		}
	}
}

func TestVersion(t *testing.T) {
	stdout, _, code := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(stdout, "superjoin ") {
		t.Errorf("Expected version output, got: %s", stdout)
	}
}
