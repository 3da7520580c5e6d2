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

package scan

import (
	"bytes"
	"regexp"
)

var requireCall = regexp.MustCompile(`require\((.+?)\)`)

// RegexpScanner matches require(...) lexically, line by line. It also
// reports calls inside comments and strings.
type RegexpScanner struct{}

// NewRegexpScanner creates a lexical scanner.
func NewRegexpScanner() *RegexpScanner {
	return &RegexpScanner{}
}

// Scan implements Scanner.
func (s *RegexpScanner) Scan(source []byte) ([]Require, error) {
	var requires []Require
	for _, loc := range requireCall.FindAllSubmatchIndex(source, -1) {
		line := bytes.Count(source[:loc[0]], []byte("\n")) + 1
		requires = append(requires, newRequire(string(source[loc[2]:loc[3]]), line))
	}
	return requires, nil
}
