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
// Package graph provides the graph command for superjoin.
package graph

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/internal/output"
	"bennypowers.dev/superjoin/internal/project"
)

// Cmd is the graph command.
var Cmd = &cobra.Command{
	Use:   "graph [files...]",
	Short: "Print the module dependency tree",
	Long: `Collect the modules of a build without assembling it, and print which
module requires which.`,
	RunE: run,
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
	if err := b.Collect(); err != nil {
		return err
	}

	name := b.Config().Name
	if name == "" {
		name = filepath.Base(b.Config().Root)
	}

	var tree strings.Builder
	if err := b.Graph().WriteTree(&tree, name); err != nil {
		return err
	}
	for _, w := range b.Graph().Warnings {
		logger.Warning("%s", w)
	}
	return output.Tree(osfs, tree.String())
}
