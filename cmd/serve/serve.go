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
// Package serve provides the serve command for superjoin.
package serve

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/superjoin/fs"
	"bennypowers.dev/superjoin/internal/devserver"
	"bennypowers.dev/superjoin/internal/project"
)

// Cmd is the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a development bundle",
	Long: `Serve the bundle, rebuilt on every request with autoloading enabled, and
the project files next to it. Modules missing from the bundle are fetched
by the loader from the same server.`,
	Example: `  superjoin serve --addr :3000 --route /js/app.js`,
	RunE:    run,
}

func init() {
	Cmd.Flags().String("addr", ":8080", "Address to listen on")
	Cmd.Flags().String("route", devserver.DefaultRoute, "URL path of the bundle")

	_ = viper.BindPFlag("addr", Cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("route", Cmd.Flags().Lookup("route"))
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()
	logger := project.Logger()

	b, err := project.Bundler(osfs, logger)
	if err != nil {
		return err
	}

	addr := viper.GetString("addr")
	route := viper.GetString("route")
	server := devserver.New(b, osfs, devserver.Options{
		Route:  route,
		Logger: logger,
	})
	logger.Info("serving", "addr", addr, "bundle", route, "root", b.Config().Root)
	return server.Listen(cmd.Context(), addr)
}
