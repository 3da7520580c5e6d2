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
// Command superjoin bundles CommonJS modules for the browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/superjoin/cmd/build"
	"bennypowers.dev/superjoin/cmd/graph"
	"bennypowers.dev/superjoin/cmd/serve"
	"bennypowers.dev/superjoin/cmd/version"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "superjoin",
		Short: "Bundle CommonJS modules for the browser",
		Long: `superjoin bundles CommonJS modules, along with their dependencies from
bower_components and node_modules, into one script with a small runtime
module loader.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()

	// Project and output
	flags.StringP("dir", "d", ".", "Project working directory")
	flags.StringP("config", "c", "", "Configuration file (default: superjoin.json, then package.json)")
	flags.StringP("output", "o", "", "Output file (default: configured outfile, else stdout)")
	flags.BoolP("verbose", "v", false, "Log debug messages")
	flags.StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	// Configuration overrides
	flags.String("root", "", "Project root, relative to the working directory")
	flags.StringSlice("files", nil, "Entry files, replacing the configured ones")
	flags.String("main", "", "Module required when the bundle loads")
	flags.String("name", "", "Bundle name")
	flags.String("outfile", "", "Bundle file, relative to the root")
	flags.String("banner", "", "Text placed at the top of the bundle")
	flags.String("umd", "", "Wrap the bundle as a UMD module exported under this name, or 'true' to use --name")
	flags.String("lib-dir", "", "Directory of $lib/ modules, relative to the root")
	flags.String("bower-dir", "", "bower_components directory (default: searched upwards)")
	flags.String("npm-dir", "", "node_modules directory (default: searched upwards)")
	flags.String("scanner", "", "How require() calls are found: syntax or regexp")
	flags.Bool("skip-submodules", false, "Bundle entries without following their requires")
	flags.Bool("dev", false, "Enable loading modules missing from the bundle over HTTP")
	flags.Bool("no-loader", false, "Leave the module loader out of the bundle")

	for _, name := range []string{
		"dir", "config", "output", "verbose",
		"root", "files", "main", "name", "outfile", "banner", "umd",
		"lib-dir", "bower-dir", "npm-dir", "scanner",
		"skip-submodules", "dev", "no-loader",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	viper.SetEnvPrefix("SUPERJOIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Add commands
	rootCmd.AddCommand(build.Cmd)
	rootCmd.AddCommand(graph.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
