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
package config_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/superjoin/config"
	"bennypowers.dev/superjoin/internal/mapfs"
)

func TestLoadSuperjoinJSON(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/work/superjoin.json": `{
			"root": "src",
			"files": ["./a.js"],
			"main": "app",
			"outfile": "../dist/bundle.js",
			"umd": "myLib",
			"umdDependencies": {"lodash": ["lodash", "lodash", "_"], "jquery": ["jquery", "jquery", "jQuery"]},
			"libDir": "lib",
			"dev": true
		}`,
		"/work/package.json": `{"superjoin": {"root": "ignored"}}`,
	})

	cfg, err := config.Load(mfs, "/work", "")
	require.NoError(t, err)
	assert.Equal(t, "/work/superjoin.json", cfg.Source)
	assert.Equal(t, "src", cfg.Root)
	assert.True(t, cfg.UMD)
	assert.Equal(t, "myLib", cfg.UMDName)
	assert.True(t, cfg.Dev)
	require.Len(t, cfg.UMDDependencies, 2)
	assert.Equal(t, "jquery", cfg.UMDDependencies[0].Name)
	assert.Equal(t, config.UMDDependency{Name: "lodash", AMD: "lodash", CJS: "lodash", Global: "_"}, cfg.UMDDependencies[1])

	require.NoError(t, cfg.Normalize(mfs))
	assert.Equal(t, "/work/src", cfg.Root)
	assert.Equal(t, "/work/dist/bundle.js", cfg.Outfile)
	assert.Equal(t, "/work/src/lib", cfg.LibDir)
	assert.Equal(t, "./app", cfg.Main)
	assert.Equal(t, "syntax", cfg.Scanner)
	assert.Equal(t, []string{"jquery", "lodash"}, cfg.External())
	assert.NoError(t, cfg.Validate())
}

func TestLoadPackageJSON(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/work/package.json": `{"name": "pkg", "main": "index.js", "superjoin": {"main": "./main.js", "umd": true, "name": "pkgLib"}}`,
	})

	cfg, err := config.Load(mfs, "/work", "")
	require.NoError(t, err)
	assert.Equal(t, "/work/package.json", cfg.Source)
	assert.Equal(t, "./main.js", cfg.Main)

	require.NoError(t, cfg.Normalize(mfs))
	assert.Equal(t, "pkgLib", cfg.UMDName, "umd: true exports under the configured name")
}

func TestLoadPackageJSONWithoutSuperjoin(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/work/package.json": `{"name": "pkg"}`,
	})

	cfg, err := config.Load(mfs, "/work", "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)

	require.NoError(t, cfg.Normalize(mfs))
	assert.Equal(t, "/work", cfg.Root)
}

func TestLoadExplicitFile(t *testing.T) {
	mfs := mapfs.New()
	_, err := config.Load(mfs, "/work", "custom.json")
	assert.Error(t, err, "an explicitly named config file must exist")

	mfs.AddFile("/work/custom.json", `{"main": "../app.js"}`, 0644)
	cfg, err := config.Load(mfs, "/work", "custom.json")
	require.NoError(t, err)
	require.NoError(t, cfg.Normalize(mfs))
	assert.Equal(t, "../app.js", cfg.Main)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"root":`},
		{"umd wrong type", `{"umd": 3}`},
		{"short umd tuple", `{"umdDependencies": {"lodash": ["lodash", "lodash"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := mapfs.FromMap(map[string]string{"/work/superjoin.json": tt.content})
			_, err := config.Load(mfs, "/work", "")
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDiscoversPackageDirs(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddDir("/repo/bower_components", 0755)
	mfs.AddDir("/repo/app/node_modules", 0755)
	mfs.AddDir("/repo/app/web", 0755)

	cfg := &config.Config{WorkingDir: "/repo/app/web"}
	require.NoError(t, cfg.Normalize(mfs))
	assert.Equal(t, "/repo/bower_components", cfg.BowerDir)
	assert.Equal(t, "/repo/app/node_modules", cfg.NpmDir)

	explicit := &config.Config{WorkingDir: "/repo/app", NpmDir: "vendor/npm", BowerDir: "/abs/bower"}
	require.NoError(t, explicit.Normalize(mfs))
	assert.Equal(t, "/repo/app/vendor/npm", explicit.NpmDir)
	assert.Equal(t, "/abs/bower", explicit.BowerDir)

	ns := explicit.Namespaces()
	assert.Equal(t, "/repo/app", ns.Root)
	assert.Equal(t, "/repo/app/vendor/npm", ns.Npm)
}

func TestApply(t *testing.T) {
	cfg := &config.Config{Root: "src", Files: []string{"./a.js"}, Main: "./main.js"}
	cfg.Apply(config.Overrides{
		Outfile: "out.js",
		Files:   []string{"./b.js"},
		UMD:     "lib",
		Dev:     true,
	})

	assert.Equal(t, "src", cfg.Root)
	assert.Equal(t, "out.js", cfg.Outfile)
	assert.Equal(t, []string{"./b.js"}, cfg.Files)
	assert.Equal(t, "./main.js", cfg.Main)
	assert.True(t, cfg.UMD)
	assert.Equal(t, "lib", cfg.UMDName)
	assert.True(t, cfg.Dev)
}

func TestValidate(t *testing.T) {
	mfs := mapfs.New()

	t.Run("umd without name", func(t *testing.T) {
		cfg := &config.Config{WorkingDir: "/work", UMD: true}
		require.NoError(t, cfg.Normalize(mfs))

		err := cfg.Validate()
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
		assert.Equal(t, "UMDName", verrs[0].Field())
	})

	t.Run("unknown scanner", func(t *testing.T) {
		cfg := &config.Config{WorkingDir: "/work", Scanner: "ast"}
		require.NoError(t, cfg.Normalize(mfs))
		assert.Error(t, cfg.Validate())
	})

	t.Run("incomplete umd dependency", func(t *testing.T) {
		cfg := &config.Config{
			WorkingDir:      "/work",
			UMD:             true,
			UMDName:         "lib",
			UMDDependencies: []config.UMDDependency{{Name: "lodash", AMD: "lodash", CJS: "lodash"}},
		}
		require.NoError(t, cfg.Normalize(mfs))
		assert.Error(t, cfg.Validate())
	})

	t.Run("external only with umd", func(t *testing.T) {
		cfg := &config.Config{UMDDependencies: []config.UMDDependency{{Name: "lodash"}}}
		assert.Empty(t, cfg.External())
	})
}
