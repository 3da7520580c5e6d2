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
// Package output provides shared output utilities for superjoin CLI commands.
package output

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/superjoin/fs"
)

// Bundle outputs bundle content to stdout or a file.
// If viper's "output" flag is set, writes to that file, creating its
// directory; otherwise prints to stdout.
func Bundle(osfs fs.FileSystem, content string) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		if err := osfs.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return err
		}
		return osfs.WriteFile(outputPath, []byte(content), 0644)
	}
	fmt.Print(content)
	return nil
}

// Tree outputs a rendered dependency tree the same way as Bundle.
func Tree(osfs fs.FileSystem, tree string) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		if err := osfs.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return err
		}
		return osfs.WriteFile(outputPath, []byte(tree), 0644)
	}
	fmt.Print(tree)
	return nil
}
