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
// Package build provides the build command for superjoin.
package build

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/internal/output"
	"bennypowers.dev/superjoin/internal/project"
)

// Cmd is the build cobra command that bundles a project's modules.
var Cmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Bundle CommonJS modules into one script",
	Long: `Bundle the configured entry files, everything they require, and the main
module into a single script with a small module loader.

Configuration is read from superjoin.json or the "superjoin" field of
package.json. Files given as arguments are added to the configured ones.`,
	Example: `  # Build using superjoin.json in the current directory
  superjoin build

  # Add entries and write to a file
  superjoin build ./src/app.js './widgets/**/*.js' --output dist/bundle.js

  # Build a UMD library that leaves lodash to the consumer
  superjoin build --umd myLib

  # Call a module after the bundle loads
  superjoin build --require ./init.js`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringArray("require", nil, "Module to require after all modules are registered (can be repeated)")

	_ = viper.BindPFlag("require", Cmd.Flags().Lookup("require"))
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()
	logger := project.Logger()

	b, err := project.Bundler(osfs, logger)
	if err != nil {
		return err
	}
	for _, file := range args {
		b.Add(file)
	}
	for _, name := range viper.GetStringSlice("require") {
		b.AddRequireCall(name)
	}

	if viper.GetString("output") == "" && b.Config().Outfile != "" {
		if err := b.Run(cmd.Context()); err != nil {
			return err
		}
		logger.Info("bundle written", "outfile", b.Config().Outfile, "modules", b.Graph().Len())
		return nil
	}

	if err := b.Collect(); err != nil {
		return err
	}
	content, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build: %w", err)
	}
	return output.Bundle(osfs, content)
}
