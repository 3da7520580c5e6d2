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
// Package project sets up a Bundler from the configuration file and the
// flags and environment variables bound into viper.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/superjoin/bundler"
	"bennypowers.dev/superjoin/config"
	"bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/internal/logging"
)

// Overrides collects the configuration values set by flags or
// SUPERJOIN_* environment variables.
func Overrides() config.Overrides {
	return config.Overrides{
		Root:           viper.GetString("root"),
		Files:          viper.GetStringSlice("files"),
		Main:           viper.GetString("main"),
		Name:           viper.GetString("name"),
		Outfile:        viper.GetString("outfile"),
		Banner:         viper.GetString("banner"),
		UMD:            viper.GetString("umd"),
		LibDir:         viper.GetString("lib-dir"),
		BowerDir:       viper.GetString("bower-dir"),
		NpmDir:         viper.GetString("npm-dir"),
		Scanner:        viper.GetString("scanner"),
		SkipSubmodules: viper.GetBool("skip-submodules"),
		Dev:            viper.GetBool("dev"),
		NoLoader:       viper.GetBool("no-loader"),
	}
}

// Load reads the configuration of the --dir directory, applies
// Overrides and normalizes it.
func Load(fsys fs.FileSystem) (*config.Config, error) {
	dir, err := filepath.Abs(viper.GetString("dir"))
	if err != nil {
		return nil, fmt.Errorf("invalid project directory: %w", err)
	}

	cfg, err := config.Load(fsys, dir, viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	cfg.Apply(Overrides())
	if err := cfg.Normalize(fsys); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Logger returns a stderr logger honoring --verbose.
func Logger() *logging.Logger {
	return logging.New(os.Stderr, viper.GetBool("verbose"))
}

// Bundler loads the configuration and creates a Bundler for it.
func Bundler(fsys fs.FileSystem, logger *logging.Logger) (*bundler.Bundler, error) {
	cfg, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("using configuration from %s", cfg.Source)
	}
	return bundler.New(cfg, fsys, logger)
}
