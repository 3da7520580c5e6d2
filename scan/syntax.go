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
	"embed"
	"fmt"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*.scm
var queryFiles embed.FS

var language = ts.NewLanguage(tsTypescript.LanguageTypescript())

var parserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(language); err != nil {
			panic("failed to set TypeScript language: " + err.Error())
		}
		return parser
	},
}

func getParser() *ts.Parser {
	return parserPool.Get().(*ts.Parser)
}

func putParser(p *ts.Parser) {
	p.Reset()
	parserPool.Put(p)
}

var (
	requireQuery     *ts.Query
	requireQueryOnce sync.Once
	requireQueryErr  error
)

func loadRequireQuery() (*ts.Query, error) {
	requireQueryOnce.Do(func() {
		data, err := queryFiles.ReadFile("queries/require.scm")
		if err != nil {
			requireQueryErr = fmt.Errorf("failed to read query require.scm: %w", err)
			return
		}
		q, qerr := ts.NewQuery(language, string(data))
		if qerr != nil {
			requireQueryErr = fmt.Errorf("failed to parse query require.scm: %w", qerr)
			return
		}
		requireQuery = q
	})
	return requireQuery, requireQueryErr
}

// SyntaxScanner finds require() calls in the parsed syntax tree, so calls
// inside comments and string literals are not reported.
type SyntaxScanner struct {
	query *ts.Query
}

// NewSyntaxScanner creates a syntax-aware scanner.
func NewSyntaxScanner() (*SyntaxScanner, error) {
	q, err := loadRequireQuery()
	if err != nil {
		return nil, err
	}
	return &SyntaxScanner{query: q}, nil
}

// Scan implements Scanner.
func (s *SyntaxScanner) Scan(source []byte) ([]Require, error) {
	parser := getParser()
	defer putParser(parser)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse content")
	}
	defer tree.Close()

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	captureNames := s.query.CaptureNames()
	matches := cursor.Matches(s.query, tree.RootNode(), source)

	var requires []Require
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		var callee, args *ts.Node
		for i := range match.Captures {
			capture := match.Captures[i]
			switch captureNames[capture.Index] {
			case "require.callee":
				callee = &capture.Node
			case "require.arguments":
				args = &capture.Node
			}
		}
		if callee == nil || args == nil || callee.Utf8Text(source) != "require" {
			continue
		}

		line := int(args.StartPosition().Row) + 1
		raw := strings.TrimSuffix(strings.TrimPrefix(args.Utf8Text(source), "("), ")")
		requires = append(requires, argumentsRequire(args, raw, line, source))
	}

	return requires, nil
}

// argumentsRequire inspects the argument list's named children. Only a
// single string argument, ignoring comments, is a literal.
func argumentsRequire(args *ts.Node, raw string, line int, source []byte) Require {
	var values []*ts.Node
	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		values = append(values, child)
	}

	if len(values) != 1 || values[0].Kind() != "string" {
		return Require{Raw: raw, Line: line}
	}

	text := values[0].Utf8Text(source)
	if len(text) < 2 {
		return Require{Raw: raw, Line: line}
	}
	return Require{
		Specifier: text[1 : len(text)-1],
		Raw:       raw,
		Line:      line,
		Literal:   true,
	}
}
